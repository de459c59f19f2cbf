package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/debug"
	"token-transfer-sol/internal/config"
	"token-transfer-sol/internal/consts"
	"token-transfer-sol/internal/logger"
	"token-transfer-sol/internal/logic/domain"
	"token-transfer-sol/internal/logic/instruction"
	"token-transfer-sol/internal/svc"
	"token-transfer-sol/internal/types"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/logx"
)

var (
	configFile = flag.String("f", "etc/transfer.yaml", "the config file")
	action     = flag.String("action", "transfer-sol", "transfer-sol | transfer-token | approve-token")
	fromStr    = flag.String("from", "", "转出账户地址（base58；token 操作时为转出 token 账户）")
	toStr      = flag.String("to", "", "转入账户地址（base58；token 操作时为转入 token 账户）")
	ownerStr   = flag.String("owner", "", "token 授权账户地址（base58，仅 token 操作需要）")
	amount     = flag.Uint64("amount", 0, "转账金额（最小单位）")
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			logx.Errorf("panic: %+v\nstack: %s", r, debug.Stack())
		}
	}()

	flag.Parse()

	var c config.TransferConfig
	conf.MustLoad(*configFile, &c)

	if err := logger.Init(c.LogConf.ToLogOption()); err != nil {
		panic(err)
	}
	defer logger.Sync()

	serviceContext, err := svc.NewServiceContext(c)
	if err != nil {
		panic(err)
	}

	accounts, data, err := buildRequest()
	if err != nil {
		panic(err)
	}

	logx.Infof("Starting transfer, action=%s", *action)

	if err := serviceContext.Processor.Process(accounts, data); err != nil {
		logger.Errorf("[main] 调度失败: action=%s, err=%v", *action, err)
		logger.Sync()
		os.Exit(1)
	}
	logger.Infof("[main] 调度成功: action=%s, amount=%d", *action, *amount)
}

// buildRequest 根据 CLI 参数组装账户列表与指令字节序列（宿主侧的请求构造）。
func buildRequest() ([]domain.AccountRef, []byte, error) {
	switch *action {
	case "transfer-sol":
		from, err := types.TryPubkeyFromBase58(*fromStr)
		if err != nil {
			return nil, nil, err
		}
		to, err := types.TryPubkeyFromBase58(*toStr)
		if err != nil {
			return nil, nil, err
		}
		data, err := instruction.Encode(instruction.Instruction{
			Kind:   instruction.KindTransferLamports,
			Amount: *amount,
		})
		if err != nil {
			return nil, nil, err
		}
		accounts := []domain.AccountRef{
			{Key: from, IsSigner: true, IsWritable: true},
			{Key: to, IsWritable: true},
			{Key: consts.SystemProgram},
		}
		return accounts, data, nil

	case "transfer-token", "approve-token":
		owner, err := types.TryPubkeyFromBase58(*ownerStr)
		if err != nil {
			return nil, nil, err
		}
		fromToken, err := types.TryPubkeyFromBase58(*fromStr)
		if err != nil {
			return nil, nil, err
		}
		toToken, err := types.TryPubkeyFromBase58(*toStr)
		if err != nil {
			return nil, nil, err
		}
		kind := instruction.KindTransferSplToken
		if *action == "approve-token" {
			kind = instruction.KindApproveSplToken
		}
		data, err := instruction.Encode(instruction.Instruction{Kind: kind, Amount: *amount})
		if err != nil {
			return nil, nil, err
		}
		accounts := []domain.AccountRef{
			{Key: owner, IsSigner: true},
			{Key: fromToken, IsWritable: true},
			{Key: toToken, IsWritable: true},
			{Key: consts.TokenProgram},
		}
		return accounts, data, nil

	default:
		return nil, nil, fmt.Errorf("unknown action: %q", *action)
	}
}
