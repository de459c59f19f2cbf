package instruction

import (
	"token-transfer-sol/internal/consts"
	"token-transfer-sol/internal/types"

	"github.com/blocto/solana-go-sdk/common"
	sdktypes "github.com/blocto/solana-go-sdk/types"
)

func toSDK(p types.Pubkey) common.PublicKey {
	return common.PublicKeyFromBytes(p[:])
}

// BuildTransferLamports 构造原生 SOL 转账指令（客户端侧）。
// 账户顺序与链上校验 schema 一致：
// 0. [signer, writable] from
// 1. [writable] to
// 2. [] system program
func BuildTransferLamports(from, to types.Pubkey, amount uint64) (sdktypes.Instruction, error) {
	data, err := Encode(Instruction{Kind: KindTransferLamports, Amount: amount})
	if err != nil {
		return sdktypes.Instruction{}, err
	}
	return sdktypes.Instruction{
		ProgramID: toSDK(consts.TransferProgram),
		Accounts: []sdktypes.AccountMeta{
			{PubKey: toSDK(from), IsSigner: true, IsWritable: true},
			{PubKey: toSDK(to), IsSigner: false, IsWritable: true},
			{PubKey: common.SystemProgramID, IsSigner: false, IsWritable: false},
		},
		Data: data,
	}, nil
}

// BuildTransferSplToken 构造 SPL token 转账指令（客户端侧）。
// 0. [signer] owner（授权账户，仅签名，无需可写）
// 1. [writable] from SPL token 账户
// 2. [writable] to SPL token 账户
// 3. [] SPL token program
func BuildTransferSplToken(owner, fromToken, toToken types.Pubkey, amount uint64) (sdktypes.Instruction, error) {
	return buildSplInstruction(KindTransferSplToken, owner, fromToken, toToken, amount)
}

// BuildApproveSplToken 构造 SPL token 授权指令（客户端侧），账户 schema 与转账一致。
func BuildApproveSplToken(owner, fromToken, toToken types.Pubkey, amount uint64) (sdktypes.Instruction, error) {
	return buildSplInstruction(KindApproveSplToken, owner, fromToken, toToken, amount)
}

func buildSplInstruction(kind Kind, owner, fromToken, toToken types.Pubkey, amount uint64) (sdktypes.Instruction, error) {
	data, err := Encode(Instruction{Kind: kind, Amount: amount})
	if err != nil {
		return sdktypes.Instruction{}, err
	}
	return sdktypes.Instruction{
		ProgramID: toSDK(consts.TransferProgram),
		Accounts: []sdktypes.AccountMeta{
			{PubKey: toSDK(owner), IsSigner: true, IsWritable: false},
			{PubKey: toSDK(fromToken), IsSigner: false, IsWritable: true},
			{PubKey: toSDK(toToken), IsSigner: false, IsWritable: true},
			{PubKey: common.TokenProgramID, IsSigner: false, IsWritable: false},
		},
		Data: data,
	}, nil
}
