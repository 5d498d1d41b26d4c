package repository

import (
	"context"
	"embed"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/shopspring/decimal"

	"finbot/internal/client/db"
	"finbot/internal/models"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore - хранилище трат поверх Postgres.
type PostgresStore struct {
	client db.Client
	now    func() time.Time
}

func NewPostgresStore(client db.Client) *PostgresStore {
	return &PostgresStore{
		client: client,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// MigratePostgres накатывает embedded-миграции goose.
func MigratePostgres(client db.Client) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.Up(client.DB(), "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

func (s *PostgresStore) InsertExpense(ctx context.Context, userID int64, category string, amount decimal.Decimal) (*models.ExpenseRecord, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("expense amount must be positive, got %s", amount)
	}

	record := &models.ExpenseRecord{
		UserID:     userID,
		Category:   category,
		Amount:     amount,
		OccurredAt: s.now(),
	}
	err := s.client.DB().QueryRowContext(
		ctx,
		`INSERT INTO expenses (user_id, category, amount, occurred_at) VALUES ($1, $2, $3, $4) RETURNING id`,
		userID, category, amount, record.OccurredAt,
	).Scan(&record.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert expense: %w", err)
	}

	return record, nil
}

func (s *PostgresStore) QueryWindow(ctx context.Context, userID int64, start, end time.Time) ([]models.ExpenseRecord, error) {
	rows, err := s.client.DB().QueryContext(
		ctx,
		`SELECT id, user_id, category, amount, occurred_at
		 FROM expenses
		 WHERE user_id = $1 AND occurred_at >= $2 AND occurred_at <= $3
		 ORDER BY occurred_at, id`,
		userID, start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	var records []models.ExpenseRecord
	for rows.Next() {
		record := models.ExpenseRecord{}
		err := rows.Scan(&record.ID, &record.UserID, &record.Category, &record.Amount, &record.OccurredAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		record.OccurredAt = record.OccurredAt.UTC()
		records = append(records, record)
	}

	return records, rows.Err()
}

func (s *PostgresStore) Close() error {
	return s.client.Close()
}
