package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"finbot/internal/models"
)

// SQLiteStore - хранилище трат в SQLite. Используется как лёгкий
// бекенд без внешней БД и в тестах (path ":memory:").
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	store := &SQLiteStore{
		db:  conn,
		now: func() time.Time { return time.Now().UTC() },
	}
	if err := store.migrate(); err != nil {
		conn.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS expenses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		category TEXT NOT NULL,
		amount TEXT NOT NULL,
		occurred_at TIMESTAMP NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("failed to migrate sqlite db: %w", err)
	}

	_, err = s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_expenses_user_occurred ON expenses (user_id, occurred_at)`)
	if err != nil {
		return fmt.Errorf("failed to create sqlite index: %w", err)
	}
	return nil
}

func (s *SQLiteStore) InsertExpense(ctx context.Context, userID int64, category string, amount decimal.Decimal) (*models.ExpenseRecord, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("expense amount must be positive, got %s", amount)
	}

	record := &models.ExpenseRecord{
		UserID:     userID,
		Category:   category,
		Amount:     amount,
		OccurredAt: s.now(),
	}
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO expenses (user_id, category, amount, occurred_at) VALUES (?, ?, ?, ?)`,
		userID, category, amount.String(), record.OccurredAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert expense: %w", err)
	}

	record.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get expense id: %w", err)
	}

	return record, nil
}

func (s *SQLiteStore) QueryWindow(ctx context.Context, userID int64, start, end time.Time) ([]models.ExpenseRecord, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, user_id, category, amount, occurred_at
		 FROM expenses
		 WHERE user_id = ? AND occurred_at >= ? AND occurred_at <= ?
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
		var amount string
		err := rows.Scan(&record.ID, &record.UserID, &record.Category, &amount, &record.OccurredAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		record.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored amount %q: %w", amount, err)
		}
		record.OccurredAt = record.OccurredAt.UTC()
		records = append(records, record)
	}

	return records, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
