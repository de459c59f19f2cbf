package consts

import "token-transfer-sol/internal/types"

// Base58 地址常量（可读性高，适合配置与日志使用）
const (
	// 本转账程序的链上地址（进程级唯一标识，注册一次后不再变化）
	TransferProgramStr = "4ieTTSrJzX1GbW9susJJpLE3bv6kuWqguCjrzYr3jUJ1"

	// Programs
	SystemProgramStr = "11111111111111111111111111111111"
	TokenProgramStr  = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
)

var (
	// Programs
	TransferProgram = types.PubkeyFromBase58(TransferProgramStr)
	SystemProgram   = types.PubkeyFromBase58(SystemProgramStr)
	TokenProgram    = types.PubkeyFromBase58(TokenProgramStr)
)
