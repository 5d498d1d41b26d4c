package repository

import (
	"context"
	"fmt"

	"finbot/internal/client/db/pg"
	"finbot/internal/config"
)

// NewStore собирает хранилище трат для выбранного бекенда.
// Конфиг Postgres читается лениво: для sqlite и memory его
// переменные окружения не нужны. Для Postgres здесь же
// накатываются миграции.
func NewStore(ctx context.Context, storageCfg config.StorageConfig, pgCfg func() (config.PGConfig, error)) (ExpenseStore, error) {
	switch storageCfg.Backend() {
	case "postgres":
		cfg, err := pgCfg()
		if err != nil {
			return nil, fmt.Errorf("failed to get pg config: %w", err)
		}
		client, err := pg.New(ctx, cfg.DSN())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err := MigratePostgres(client); err != nil {
			client.Close()
			return nil, err
		}
		return NewPostgresStore(client), nil

	case "sqlite":
		return NewSQLiteStore(storageCfg.SQLitePath())

	case "memory":
		return NewMemoryStore(), nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", storageCfg.Backend())
	}
}
