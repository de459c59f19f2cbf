package instruction

import (
	"errors"
	"fmt"
	"github.com/near/borsh-go"
)

// Size 指令字节序列的固定长度：1 字节判别符 + 8 字节小端 u64 金额。
// 三种变体共用同一布局，不存在其他指令形态。
const Size = 9

// Kind 是指令判别符（borsh 枚举序号，链上字节序列的第 0 字节）。
type Kind uint8

const (
	KindTransferLamports Kind = iota // 原生 SOL 转账
	KindTransferSplToken             // SPL token 转账
	KindApproveSplToken              // SPL token 授权
)

// ErrMalformed 表示指令字节序列不匹配任何已知布局（长度错误或判别符未知）。
var ErrMalformed = errors.New("malformed instruction")

// Instruction 是已解码的转账指令。变体集合封闭，新增变体必须同步扩展
// Decode/Encode 与 processor 的分发逻辑。
type Instruction struct {
	Kind   Kind
	Amount uint64
}

// payload 是判别符之后的 borsh 载荷（三种变体共用同一结构）。
type payload struct {
	Amount uint64
}

// Decode 反序列化指令字节序列。
// 拒绝一切不精确匹配 9 字节布局的输入，不接受部分解码，无副作用。
func Decode(data []byte) (Instruction, error) {
	if len(data) != Size {
		return Instruction{}, fmt.Errorf("%w: invalid length: got %d, want %d", ErrMalformed, len(data), Size)
	}
	kind := Kind(data[0])
	switch kind {
	case KindTransferLamports, KindTransferSplToken, KindApproveSplToken:
	default:
		return Instruction{}, fmt.Errorf("%w: unknown discriminant %d", ErrMalformed, data[0])
	}

	var p payload
	if err := borsh.Deserialize(&p, data[1:]); err != nil {
		return Instruction{}, fmt.Errorf("%w: decode amount: %v", ErrMalformed, err)
	}
	return Instruction{Kind: kind, Amount: p.Amount}, nil
}

// Encode 序列化为判别符 + borsh u64 的 9 字节布局，与 Decode 互逆。
func Encode(ix Instruction) ([]byte, error) {
	switch ix.Kind {
	case KindTransferLamports, KindTransferSplToken, KindApproveSplToken:
	default:
		return nil, fmt.Errorf("%w: unknown kind %d", ErrMalformed, ix.Kind)
	}

	body, err := borsh.Serialize(payload{Amount: ix.Amount})
	if err != nil {
		return nil, fmt.Errorf("encode amount: %w", err)
	}
	buf := make([]byte, 1, Size)
	buf[0] = byte(ix.Kind)
	return append(buf, body...), nil
}
