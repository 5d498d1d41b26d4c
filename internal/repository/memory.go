package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"finbot/internal/models"
)

// MemoryStore - хранилище трат в памяти. Бекенд для локального запуска
// без БД и для тестов; содержимое живёт до перезапуска процесса.
type MemoryStore struct {
	mu      sync.RWMutex
	records []models.ExpenseRecord
	nextID  int64
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID: 1,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// SetClock подменяет часы хранилища. Только для тестов.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *MemoryStore) InsertExpense(ctx context.Context, userID int64, category string, amount decimal.Decimal) (*models.ExpenseRecord, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("expense amount must be positive, got %s", amount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record := models.ExpenseRecord{
		ID:         s.nextID,
		UserID:     userID,
		Category:   category,
		Amount:     amount,
		OccurredAt: s.now().UTC(),
	}
	s.nextID++
	s.records = append(s.records, record)

	out := record
	return &out, nil
}

func (s *MemoryStore) QueryWindow(ctx context.Context, userID int64, start, end time.Time) ([]models.ExpenseRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []models.ExpenseRecord
	for _, r := range s.records {
		if r.UserID != userID {
			continue
		}
		if r.OccurredAt.Before(start) || r.OccurredAt.After(end) {
			continue
		}
		records = append(records, r)
	}

	sort.Slice(records, func(i, j int) bool {
		if !records[i].OccurredAt.Equal(records[j].OccurredAt) {
			return records[i].OccurredAt.Before(records[j].OccurredAt)
		}
		return records[i].ID < records[j].ID
	})

	return records, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
