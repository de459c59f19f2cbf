package service

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"
	"token-transfer-sol/internal/logger"
	"token-transfer-sol/internal/logic/domain"

	"github.com/blocto/solana-go-sdk/client"
	sdktypes "github.com/blocto/solana-go-sdk/types"
)

const defaultSendTimeout = 30 * time.Second

// TxSubmitter 是 processor.Invoker 的生产实现：
// 把构造好的外部指令封装为签名交易并经 RPC 提交，充当宿主的 invoke 设施。
// 提交要么整体上链要么整体失败，不存在中间状态。
type TxSubmitter struct {
	client       *client.Client
	feePayer     sdktypes.Account
	extraSigners []sdktypes.Account
	timeout      time.Duration
}

// NewTxSubmitter 创建交易提交器。
// feePayer 始终参与签名；extraSigners 为可选的附加密钥，仅当指令要求
// 对应账户签名时才会被使用。
func NewTxSubmitter(c *client.Client, feePayer sdktypes.Account, extraSigners []sdktypes.Account, timeout time.Duration) *TxSubmitter {
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	return &TxSubmitter{
		client:       c,
		feePayer:     feePayer,
		extraSigners: extraSigners,
		timeout:      timeout,
	}
}

// Invoke 执行一条已通过校验的外部指令。
// accounts 是 processor 校验后转发的账户句柄，仅用于日志与排障。
func (s *TxSubmitter) Invoke(ix sdktypes.Instruction, accounts []domain.AccountRef) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("[TxSubmitter] invoke panic: %v\n%s", r, debug.Stack())
			err = fmt.Errorf("invoke panic: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	blockhash, err := s.client.GetLatestBlockhash(ctx)
	if err != nil {
		return fmt.Errorf("GetLatestBlockhash failed: %w", err)
	}

	tx, err := sdktypes.NewTransaction(sdktypes.NewTransactionParam{
		Message: sdktypes.NewMessage(sdktypes.NewMessageParam{
			FeePayer:        s.feePayer.PublicKey,
			RecentBlockhash: blockhash.Blockhash,
			Instructions:    []sdktypes.Instruction{ix},
		}),
		Signers: s.matchSigners(ix),
	})
	if err != nil {
		return fmt.Errorf("build transaction failed: %w", err)
	}

	start := time.Now()
	sig, err := s.client.SendTransaction(ctx, tx)
	if err != nil {
		return fmt.Errorf("SendTransaction failed: %w", err)
	}
	logger.Infof("[TxSubmitter] 交易已提交, signature=%s, 账户数=%d, 耗时=%v", sig, len(accounts), time.Since(start))
	return nil
}

// matchSigners 从持有的密钥中挑出本条指令要求签名的账户（fee payer 始终参与）。
func (s *TxSubmitter) matchSigners(ix sdktypes.Instruction) []sdktypes.Account {
	signers := []sdktypes.Account{s.feePayer}
	for _, extra := range s.extraSigners {
		if extra.PublicKey == s.feePayer.PublicKey {
			continue
		}
		for _, meta := range ix.Accounts {
			if meta.IsSigner && meta.PubKey == extra.PublicKey {
				signers = append(signers, extra)
				break
			}
		}
	}
	return signers
}
