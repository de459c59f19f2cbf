package processor

import (
	"encoding/binary"
	"errors"
	"testing"
	"token-transfer-sol/internal/logic/domain"
	"token-transfer-sol/internal/logic/instruction"
	"token-transfer-sol/internal/types"

	"github.com/blocto/solana-go-sdk/common"
	sdktypes "github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SPL token program 的指令序号（链上 wire 格式第 0 字节）
const (
	splTokenInstrTransfer = 3
	splTokenInstrApprove  = 4
)

type invokeCall struct {
	ix       sdktypes.Instruction
	accounts []domain.AccountRef
}

// fakeInvoker 记录委托调用，模拟宿主的 invoke 设施
type fakeInvoker struct {
	calls []invokeCall
	err   error
}

func (f *fakeInvoker) Invoke(ix sdktypes.Instruction, accounts []domain.AccountRef) error {
	f.calls = append(f.calls, invokeCall{ix: ix, accounts: accounts})
	return f.err
}

// newAccount 生成一个随机地址的账户句柄
func newAccount(signer, writable bool) domain.AccountRef {
	acc := sdktypes.NewAccount()
	var key types.Pubkey
	copy(key[:], acc.PublicKey.Bytes())
	return domain.AccountRef{Key: key, IsSigner: signer, IsWritable: writable}
}

func encode(t *testing.T, kind instruction.Kind, amount uint64) []byte {
	data, err := instruction.Encode(instruction.Instruction{Kind: kind, Amount: amount})
	require.NoError(t, err)
	return data
}

// 端到端：合法的原生转账恰好触发一次 system transfer 委托调用
func TestProcess_TransferLamports(t *testing.T) {
	invoker := &fakeInvoker{}
	p := NewProcessor(invoker)

	from := newAccount(true, true)
	to := newAccount(false, true)
	placeholder := newAccount(false, false)
	accounts := []domain.AccountRef{from, to, placeholder}

	err := p.Process(accounts, encode(t, instruction.KindTransferLamports, 1_111_111))
	require.NoError(t, err)
	require.Len(t, invoker.calls, 1)

	call := invoker.calls[0]
	assert.Equal(t, common.SystemProgramID, call.ix.ProgramID)

	// system transfer 布局：4 字节指令序号（2 = Transfer）+ 8 字节小端金额
	require.Len(t, call.ix.Data, 12)
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(call.ix.Data[0:4]))
	assert.Equal(t, uint64(1_111_111), binary.LittleEndian.Uint64(call.ix.Data[4:12]))

	// 仅转发 from/to 两个句柄，占位账户不参与委托调用
	require.Len(t, call.accounts, 2)
	assert.Equal(t, from.Key, call.accounts[0].Key)
	assert.Equal(t, to.Key, call.accounts[1].Key)
}

// 签名检查先于一切可写检查：from 未签名时无论各账户可写与否，都报缺签名
func TestProcess_TransferLamports_SignerCheckFirst(t *testing.T) {
	invoker := &fakeInvoker{}
	p := NewProcessor(invoker)

	accounts := []domain.AccountRef{
		newAccount(false, false), // from：未签名且不可写
		newAccount(false, false), // to：不可写
	}
	err := p.Process(accounts, encode(t, instruction.KindTransferLamports, 1))
	assert.ErrorIs(t, err, ErrMissingRequiredSignature)
	assert.Empty(t, invoker.calls)
}

func TestProcess_TransferLamports_FromNonWritable(t *testing.T) {
	invoker := &fakeInvoker{}
	p := NewProcessor(invoker)

	accounts := []domain.AccountRef{
		newAccount(true, false), // from：已签名但不可写
		newAccount(false, true),
	}
	err := p.Process(accounts, encode(t, instruction.KindTransferLamports, 1))
	assert.ErrorIs(t, err, ErrAccountNonWritable)
	assert.Empty(t, invoker.calls)
}

// to 不可写时校验失败，且不发起任何委托调用（to 的签名状态从不检查）
func TestProcess_TransferLamports_ToNonWritable(t *testing.T) {
	invoker := &fakeInvoker{}
	p := NewProcessor(invoker)

	accounts := []domain.AccountRef{
		newAccount(true, true),
		newAccount(false, false), // to：不可写
	}
	err := p.Process(accounts, encode(t, instruction.KindTransferLamports, 1))
	assert.ErrorIs(t, err, ErrAccountNonWritable)
	assert.Empty(t, invoker.calls)
}

// 账户数量不足先于任何标志检查报错
func TestProcess_MissingAccount(t *testing.T) {
	invoker := &fakeInvoker{}
	p := NewProcessor(invoker)

	cases := []struct {
		name     string
		kind     instruction.Kind
		accounts []domain.AccountRef
	}{
		{"native_no_accounts", instruction.KindTransferLamports, nil},
		{"native_one_account", instruction.KindTransferLamports, []domain.AccountRef{newAccount(false, false)}},
		{"spl_three_accounts", instruction.KindTransferSplToken, []domain.AccountRef{
			newAccount(false, false), newAccount(false, false), newAccount(false, false),
		}},
		{"approve_three_accounts", instruction.KindApproveSplToken, []domain.AccountRef{
			newAccount(false, false), newAccount(false, false), newAccount(false, false),
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := p.Process(c.accounts, encode(t, c.kind, 1))
			assert.ErrorIs(t, err, ErrMissingAccount)
		})
	}
	assert.Empty(t, invoker.calls)
}

// owner 不可写不影响 SPL 转账（仅要求签名）
func TestProcess_TransferSplToken(t *testing.T) {
	invoker := &fakeInvoker{}
	p := NewProcessor(invoker)

	owner := newAccount(true, false)
	fromToken := newAccount(false, true)
	toToken := newAccount(false, true)
	program := newAccount(false, false)
	accounts := []domain.AccountRef{owner, fromToken, toToken, program}

	err := p.Process(accounts, encode(t, instruction.KindTransferSplToken, 26_000))
	require.NoError(t, err)
	require.Len(t, invoker.calls, 1)

	call := invoker.calls[0]
	assert.Equal(t, common.TokenProgramID, call.ix.ProgramID)

	// SPL transfer 布局：1 字节指令序号 + 8 字节小端金额
	require.Len(t, call.ix.Data, 9)
	assert.Equal(t, byte(splTokenInstrTransfer), call.ix.Data[0])
	assert.Equal(t, uint64(26_000), binary.LittleEndian.Uint64(call.ix.Data[1:9]))

	// 四个句柄全部转发，program 引用原样传递
	require.Len(t, call.accounts, 4)
	assert.Equal(t, program.Key, call.accounts[3].Key)
}

func TestProcess_ApproveSplToken(t *testing.T) {
	invoker := &fakeInvoker{}
	p := NewProcessor(invoker)

	accounts := []domain.AccountRef{
		newAccount(true, false), // owner 不可写，预期不影响结果
		newAccount(false, true),
		newAccount(false, true),
		newAccount(false, false),
	}
	err := p.Process(accounts, encode(t, instruction.KindApproveSplToken, 2_222_222))
	require.NoError(t, err)
	require.Len(t, invoker.calls, 1)

	call := invoker.calls[0]
	assert.Equal(t, common.TokenProgramID, call.ix.ProgramID)
	require.Len(t, call.ix.Data, 9)
	assert.Equal(t, byte(splTokenInstrApprove), call.ix.Data[0])
	assert.Equal(t, uint64(2_222_222), binary.LittleEndian.Uint64(call.ix.Data[1:9]))
}

func TestProcess_SplToken_OwnerNotSigner(t *testing.T) {
	invoker := &fakeInvoker{}
	p := NewProcessor(invoker)

	accounts := []domain.AccountRef{
		newAccount(false, true), // owner 未签名
		newAccount(false, true),
		newAccount(false, true),
		newAccount(false, false),
	}
	err := p.Process(accounts, encode(t, instruction.KindTransferSplToken, 1))
	assert.ErrorIs(t, err, ErrMissingRequiredSignature)
	assert.Empty(t, invoker.calls)
}

// 金额为 0 原样转发，核心不做最小金额限制
func TestProcess_ZeroAmount(t *testing.T) {
	invoker := &fakeInvoker{}
	p := NewProcessor(invoker)

	accounts := []domain.AccountRef{
		newAccount(true, true),
		newAccount(false, true),
	}
	err := p.Process(accounts, encode(t, instruction.KindTransferLamports, 0))
	require.NoError(t, err)
	require.Len(t, invoker.calls, 1)
	assert.Equal(t, uint64(0), binary.LittleEndian.Uint64(invoker.calls[0].ix.Data[4:12]))
}

// 重复账户不在核心层拦截，留给外部原语裁决
func TestProcess_DuplicateAccountsForwarded(t *testing.T) {
	invoker := &fakeInvoker{}
	p := NewProcessor(invoker)

	from := newAccount(true, true)
	to := from
	to.IsSigner = false

	err := p.Process([]domain.AccountRef{from, to}, encode(t, instruction.KindTransferLamports, 5))
	require.NoError(t, err)
	require.Len(t, invoker.calls, 1)
}

// 解码失败原样向上传递，且不发起任何委托调用
func TestProcess_MalformedInstruction(t *testing.T) {
	invoker := &fakeInvoker{}
	p := NewProcessor(invoker)

	accounts := []domain.AccountRef{
		newAccount(true, true),
		newAccount(false, true),
	}
	for _, data := range [][]byte{nil, {3, 0, 0, 0, 0, 0, 0, 0, 0}, {0, 1, 2}} {
		err := p.Process(accounts, data)
		assert.ErrorIs(t, err, instruction.ErrMalformed)
	}
	assert.Empty(t, invoker.calls)
}

// 外部调用失败包装为 DelegatedCallError，底层原因可经 Unwrap 取回
func TestProcess_DelegatedCallFailed(t *testing.T) {
	cause := errors.New("insufficient funds")
	invoker := &fakeInvoker{err: cause}
	p := NewProcessor(invoker)

	accounts := []domain.AccountRef{
		newAccount(true, true),
		newAccount(false, true),
	}
	err := p.Process(accounts, encode(t, instruction.KindTransferLamports, 1))

	var delegated *DelegatedCallError
	require.ErrorAs(t, err, &delegated)
	assert.ErrorIs(t, err, cause)
	assert.Len(t, invoker.calls, 1)
}
