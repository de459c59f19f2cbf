package processor

import (
	"fmt"
	"token-transfer-sol/internal/logger"
	"token-transfer-sol/internal/logic/domain"
	"token-transfer-sol/internal/logic/instruction"
	"token-transfer-sol/internal/types"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/program/token"
	sdktypes "github.com/blocto/solana-go-sdk/types"
)

// Invoker 是宿主提供的调用设施：同步执行一条已构造好的外部指令。
// 生产实现将指令封装为签名交易经 RPC 提交（service.TxSubmitter），
// 测试注入记录桩即可脱离真实执行环境验证全部校验逻辑。
type Invoker interface {
	Invoke(ix sdktypes.Instruction, accounts []domain.AccountRef) error
}

// Processor 负责指令解码、账户权限校验与外部原语的委托调用。
// 每次 Process 至多发起一次改变外部状态的调用，自身不持有任何跨调用状态。
type Processor struct {
	invoker Invoker
}

func NewProcessor(invoker Invoker) *Processor {
	return &Processor{invoker: invoker}
}

// Process 执行一次完整调度：解码 → 按位校验账户权限 → 恰好一次外部调用。
// 任何失败立即终止，不存在部分生效；解码失败原样向上传递。
func (p *Processor) Process(accounts []domain.AccountRef, data []byte) error {
	ix, err := instruction.Decode(data)
	if err != nil {
		return err
	}

	switch ix.Kind {
	case instruction.KindTransferLamports:
		return p.transferLamports(accounts, ix.Amount)
	case instruction.KindTransferSplToken:
		return p.transferSplToken(accounts, ix.Amount)
	case instruction.KindApproveSplToken:
		return p.approveSplToken(accounts, ix.Amount)
	default:
		// Decode 已保证判别符合法，正常不可达
		return fmt.Errorf("%w: unhandled kind %d", instruction.ErrMalformed, ix.Kind)
	}
}

// takeAccounts 按 schema 所需数量取出账户。
// 数量不足先于任何标志检查返回 ErrMissingAccount。
func takeAccounts(accounts []domain.AccountRef, n int) ([]domain.AccountRef, error) {
	if len(accounts) < n {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrMissingAccount, len(accounts), n)
	}
	return accounts[:n], nil
}

// transferLamports 处理原生 SOL 转账：
// 0. [signer, writable] from
// 1. [writable] to
// schema 中的 system program 占位从不被读取，因而不计入所需账户数。
func (p *Processor) transferLamports(accounts []domain.AccountRef, amount uint64) error {
	accs, err := takeAccounts(accounts, 2)
	if err != nil {
		return err
	}
	from, to := accs[0], accs[1]
	logger.Infof("[processor] transfer lamports from=%s, to=%s, amount=%d", from.Key, to.Key, amount)

	// 校验顺序固定：from 签名 → from 可写 → to 可写，命中第一个违规立即返回。
	// to 的签名状态从不检查。
	if !from.IsSigner {
		return fmt.Errorf("%w: from=%s", ErrMissingRequiredSignature, from.Key)
	}
	if !from.IsWritable {
		return fmt.Errorf("%w: from=%s", ErrAccountNonWritable, from.Key)
	}
	if !to.IsWritable {
		return fmt.Errorf("%w: to=%s", ErrAccountNonWritable, to.Key)
	}

	transferIx := system.Transfer(system.TransferParam{
		From:   toSDK(from.Key),
		To:     toSDK(to.Key),
		Amount: amount,
	})
	if err := p.invoker.Invoke(transferIx, accs); err != nil {
		return &DelegatedCallError{Err: err}
	}

	logger.Infof("[processor] transfer lamports from=%s, to=%s, amount=%d done", from.Key, to.Key, amount)
	return nil
}

func (p *Processor) transferSplToken(accounts []domain.AccountRef, amount uint64) error {
	accs, err := splAccounts(accounts)
	if err != nil {
		return err
	}
	owner, fromToken, toToken := accs[0], accs[1], accs[2]
	logger.Infof("[processor] transfer spl token from=%s, to=%s, amount=%d", fromToken.Key, toToken.Key, amount)

	transferIx := token.Transfer(token.TransferParam{
		From:    toSDK(fromToken.Key),
		To:      toSDK(toToken.Key),
		Auth:    toSDK(owner.Key),
		Signers: []common.PublicKey{toSDK(owner.Key)},
		Amount:  amount,
	})
	if err := p.invoker.Invoke(transferIx, accs); err != nil {
		return &DelegatedCallError{Err: err}
	}

	logger.Infof("[processor] transfer spl token from=%s, to=%s, amount=%d done", fromToken.Key, toToken.Key, amount)
	return nil
}

func (p *Processor) approveSplToken(accounts []domain.AccountRef, amount uint64) error {
	accs, err := splAccounts(accounts)
	if err != nil {
		return err
	}
	owner, fromToken, toToken := accs[0], accs[1], accs[2]
	logger.Infof("[processor] approve spl token from=%s, to=%s, amount=%d", fromToken.Key, toToken.Key, amount)

	approveIx := token.Approve(token.ApproveParam{
		From:    toSDK(fromToken.Key),
		To:      toSDK(toToken.Key),
		Auth:    toSDK(owner.Key),
		Signers: []common.PublicKey{toSDK(owner.Key)},
		Amount:  amount,
	})
	if err := p.invoker.Invoke(approveIx, accs); err != nil {
		return &DelegatedCallError{Err: err}
	}

	logger.Infof("[processor] approve spl token from=%s, to=%s, amount=%d done", fromToken.Key, toToken.Key, amount)
	return nil
}

// splAccounts 取出并校验两条 SPL 指令共用的账户 schema：
// 0. [signer] owner（授权账户，仅证明请求合法，可写与否不检查）
// 1. [writable] from SPL token 账户
// 2. [writable] to SPL token 账户
// 3. [] SPL token program 引用（不做标志检查，原样转发）
func splAccounts(accounts []domain.AccountRef) ([]domain.AccountRef, error) {
	accs, err := takeAccounts(accounts, 4)
	if err != nil {
		return nil, err
	}
	owner, fromToken, toToken := accs[0], accs[1], accs[2]

	if !owner.IsSigner {
		return nil, fmt.Errorf("%w: owner=%s", ErrMissingRequiredSignature, owner.Key)
	}
	if !fromToken.IsWritable {
		return nil, fmt.Errorf("%w: from=%s", ErrAccountNonWritable, fromToken.Key)
	}
	if !toToken.IsWritable {
		return nil, fmt.Errorf("%w: to=%s", ErrAccountNonWritable, toToken.Key)
	}
	return accs, nil
}

func toSDK(p types.Pubkey) common.PublicKey {
	return common.PublicKeyFromBytes(p[:])
}
