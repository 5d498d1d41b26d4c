package env

import (
	"os"

	"finbot/internal/config"
)

const opsAddrEnvName = "OPS_HTTP_ADDR"

type opsConfig struct {
	address string
}

// NewOpsConfig читает адрес служебного HTTP-сервера (/healthz, /metrics).
func NewOpsConfig() (config.OpsConfig, error) {
	address := os.Getenv(opsAddrEnvName)
	if address == "" {
		address = ":9091"
	}

	return &opsConfig{
		address: address,
	}, nil
}

func (cfg *opsConfig) Address() string {
	return cfg.address
}
