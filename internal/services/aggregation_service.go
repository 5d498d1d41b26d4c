package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"finbot/internal/catalog"
	"finbot/internal/models"
	"finbot/internal/repository"
)

// AggregationService считает сводки по окну времени: общую сумму,
// суммы по календарным дням и по категориям. Все вычисления идут в
// приложении поверх записей окна, поэтому результат не зависит от
// того, как бакетирует даты конкретный бекенд хранилища.
type AggregationService struct {
	store repository.ExpenseStore
	cat   *catalog.Catalog
}

func NewAggregationService(store repository.ExpenseStore, cat *catalog.Catalog) *AggregationService {
	return &AggregationService{
		store: store,
		cat:   cat,
	}
}

// BucketDay - единственная точка усечения метки времени до календарного
// дня. Канонический результат - полночь UTC этого дня.
func BucketDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Summarize строит сводку по закрытому окну [start, end] для пользователя.
// Пустое окно - это валидная сводка с нулевой суммой, не ошибка.
func (s *AggregationService) Summarize(ctx context.Context, userID int64, start, end time.Time) (*models.PeriodSummary, error) {
	records, err := s.store.QueryWindow(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses for summary: %w", err)
	}

	return s.buildSummary(records), nil
}

func (s *AggregationService) buildSummary(records []models.ExpenseRecord) *models.PeriodSummary {
	summary := &models.PeriodSummary{
		Total: decimal.Zero,
	}

	daySums := make(map[time.Time]decimal.Decimal)
	categorySums := make(map[string]decimal.Decimal)

	for _, r := range records {
		summary.Total = summary.Total.Add(r.Amount)

		day := BucketDay(r.OccurredAt)
		daySums[day] = daySums[day].Add(r.Amount)

		// категории старых ревизий справочника сворачиваются в одну
		label := s.cat.Normalize(r.Category)
		categorySums[label] = categorySums[label].Add(r.Amount)
	}

	for day, total := range daySums {
		summary.DailyTotals = append(summary.DailyTotals, models.DailyTotal{Day: day, Total: total})
	}
	sort.Slice(summary.DailyTotals, func(i, j int) bool {
		return summary.DailyTotals[i].Day.Before(summary.DailyTotals[j].Day)
	})

	for label, total := range categorySums {
		if !total.IsPositive() {
			continue
		}
		summary.CategoryBreakdown = append(summary.CategoryBreakdown, models.CategoryTotal{Category: label, Total: total})
	}
	sort.Slice(summary.CategoryBreakdown, func(i, j int) bool {
		a, b := summary.CategoryBreakdown[i], summary.CategoryBreakdown[j]
		if cmp := a.Total.Cmp(b.Total); cmp != 0 {
			return cmp > 0
		}
		return s.categoryRank(a.Category) < s.categoryRank(b.Category)
	})

	return summary
}

// categoryRank задаёт порядок при равных суммах: по справочнику,
// категория Unknown - после всех известных.
func (s *AggregationService) categoryRank(label string) int {
	if i := s.cat.IndexOf(label); i >= 0 {
		return i
	}
	return s.cat.Len()
}
