package env

import (
	"fmt"
	"os"

	"finbot/internal/config"
)

const (
	storageBackendEnvName = "DATA_BACKEND"
	sqlitePathEnvName     = "SQLITE_DB_PATH"
)

// Поддерживаемые бекенды хранилища.
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendMemory   = "memory"
)

type storageConfig struct {
	backend    string
	sqlitePath string
}

func NewStorageConfig() (config.StorageConfig, error) {
	backend := os.Getenv(storageBackendEnvName)
	if backend == "" {
		backend = BackendPostgres
	}

	switch backend {
	case BackendPostgres, BackendSQLite, BackendMemory:
	default:
		return nil, fmt.Errorf("unknown DATA_BACKEND %q (expected postgres, sqlite or memory)", backend)
	}

	sqlitePath := os.Getenv(sqlitePathEnvName)
	if sqlitePath == "" {
		sqlitePath = "./data/finbot.db"
	}

	return &storageConfig{
		backend:    backend,
		sqlitePath: sqlitePath,
	}, nil
}

func (cfg *storageConfig) Backend() string {
	return cfg.backend
}

func (cfg *storageConfig) SQLitePath() string {
	return cfg.sqlitePath
}
