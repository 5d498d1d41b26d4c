// Package repository реализует хранилище записей о тратах.
//
// Хранилище append-only: записи создаются и читаются, но никогда не
// изменяются и не удаляются. Разбиение по календарным дням - забота
// вышележащего слоя агрегации, репозиторий лишь отдаёт записи окна
// в детерминированном порядке.
package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"finbot/internal/models"
)

// ExpenseStore - узкий интерфейс хранилища трат.
//
// InsertExpense атомарно сохраняет одну запись; момент времени записи
// выставляет само хранилище (серверные часы, UTC). QueryWindow отдаёт
// записи пользователя в закрытом окне [start, end] по возрастанию
// времени, при равенстве - по id.
type ExpenseStore interface {
	InsertExpense(ctx context.Context, userID int64, category string, amount decimal.Decimal) (*models.ExpenseRecord, error)
	QueryWindow(ctx context.Context, userID int64, start, end time.Time) ([]models.ExpenseRecord, error)
	Close() error
}
