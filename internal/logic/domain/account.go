package domain

import "token-transfer-sol/internal/types"

// AccountRef 表示宿主按位置传入的账户句柄。
// 核心逻辑只读取两个权限标志并原样转发句柄，不拥有账户本身。
type AccountRef struct {
	Key        types.Pubkey // 账户地址
	IsSigner   bool         // 该账户持有方是否已对本次请求签名确认
	IsWritable bool         // 本次调用是否允许修改该账户
}
