package db

import (
	"database/sql"
)

// Client абстрагирует подключение к реляционной БД.
type Client interface {
	DB() *sql.DB
	Close() error
}
