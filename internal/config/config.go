package config

import (
	"github.com/joho/godotenv"
)

type PGConfig interface {
	DSN() string
}

type BotConfig interface {
	Token() string
	Debug() bool
}

type StorageConfig interface {
	Backend() string
	SQLitePath() string
}

type AMQPConfig interface {
	Enabled() bool
	URL() string
	Exchange() string
	Queue() string
}

type OpsConfig interface {
	Address() string
}

type CatalogConfig interface {
	// Path возвращает путь к TOML-файлу справочника категорий,
	// пустая строка - использовать встроенный справочник.
	Path() string
}

func Load(path string) error {
	err := godotenv.Load(path)
	if err != nil {
		return err
	}
	return nil
}
