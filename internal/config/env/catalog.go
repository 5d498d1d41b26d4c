package env

import (
	"os"

	"finbot/internal/config"
)

const catalogFileEnvName = "CATALOG_FILE"

type catalogConfig struct {
	path string
}

func NewCatalogConfig() (config.CatalogConfig, error) {
	return &catalogConfig{
		path: os.Getenv(catalogFileEnvName),
	}, nil
}

func (cfg *catalogConfig) Path() string {
	return cfg.path
}
