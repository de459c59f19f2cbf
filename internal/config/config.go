package config

import "token-transfer-sol/internal/logger"

// LogConfig 日志配置
type LogConfig struct {
	Format   string `yaml:"format"`   // 日志格式，支持 "console" 或 "json"
	LogDir   string `yaml:"log_dir"`  // 日志目录（可为相对路径或绝对路径）
	Level    string `yaml:"level"`    // 日志级别：debug / info / warn / error
	Compress bool   `yaml:"compress"` // 是否压缩旧日志文件
}

func (c *LogConfig) ToLogOption() logger.LogOption {
	return logger.LogOption{
		Format:   c.Format,
		LogDir:   c.LogDir,
		Level:    c.Level,
		Compress: c.Compress,
	}
}

// RpcConfig 表示交易提交相关配置
type RpcConfig struct {
	Endpoint       string `yaml:"endpoint"`         // Solana RPC 节点地址，例如 https://api.devnet.solana.com
	SendTimeoutSec int    `yaml:"send_timeout_sec"` // 单次交易构造 + 提交的超时时间（秒）
}

// TransferConfig 是主配置结构体，用于驱动转账 CLI
type TransferConfig struct {
	LogConf LogConfig `yaml:"logger"` // 日志配置
	RpcConf RpcConfig `yaml:"rpc"`    // RPC 配置

	FeePayer string `yaml:"fee_payer"` // 手续费支付账户私钥（base58），同时作为交易签名者
}
