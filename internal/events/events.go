// Package events публикует события о сохранённых тратах во внешний
// брокер. Публикация best-effort: отказ брокера не влияет на запись
// в хранилище.
package events

import (
	"context"
	"encoding/json"
	"time"

	"finbot/internal/models"
)

// ExpenseCreated - событие о новой записи траты.
type ExpenseCreated struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Category   string    `json:"category"`
	Amount     string    `json:"amount"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewExpenseCreated строит событие из записи хранилища.
func NewExpenseCreated(record *models.ExpenseRecord) ExpenseCreated {
	return ExpenseCreated{
		ID:         record.ID,
		UserID:     record.UserID,
		Category:   record.Category,
		Amount:     record.Amount.String(),
		OccurredAt: record.OccurredAt,
	}
}

func (e ExpenseCreated) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher отправляет события во внешнюю систему.
type Publisher interface {
	PublishExpenseCreated(ctx context.Context, event ExpenseCreated) error
	Close() error
}

// NoopPublisher используется, когда брокер не сконфигурирован.
type NoopPublisher struct{}

func (NoopPublisher) PublishExpenseCreated(context.Context, ExpenseCreated) error { return nil }

func (NoopPublisher) Close() error { return nil }
