package svc

import (
	"fmt"
	"time"
	"token-transfer-sol/internal/config"
	"token-transfer-sol/internal/logic/processor"
	"token-transfer-sol/internal/service"

	"github.com/blocto/solana-go-sdk/client"
	sdktypes "github.com/blocto/solana-go-sdk/types"
)

// ServiceContext 聚合转账 CLI 所需的资源
type ServiceContext struct {
	Config    config.TransferConfig
	Client    *client.Client
	Submitter *service.TxSubmitter
	Processor *processor.Processor
}

// NewServiceContext 创建一个新的服务上下文
func NewServiceContext(c config.TransferConfig) (*ServiceContext, error) {
	// 1. 解析 fee payer 密钥（同时作为交易签名者）
	feePayer, err := sdktypes.AccountFromBase58(c.FeePayer)
	if err != nil {
		return nil, fmt.Errorf("parse fee_payer failed: %w", err)
	}

	// 2. 初始化 RPC 客户端与提交器
	rpcClient := client.NewClient(c.RpcConf.Endpoint)
	submitter := service.NewTxSubmitter(
		rpcClient,
		feePayer,
		nil,
		time.Duration(c.RpcConf.SendTimeoutSec)*time.Second,
	)

	// 3. 构造上下文：processor 以提交器为 invoke 设施
	return &ServiceContext{
		Config:    c,
		Client:    rpcClient,
		Submitter: submitter,
		Processor: processor.NewProcessor(submitter),
	}, nil
}
