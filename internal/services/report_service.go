package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"finbot/internal/metrics"
	"finbot/internal/models"
	"finbot/internal/repository"
)

// ErrNoData - в окне нет ни одной записи. Это штатный пустой результат,
// отличимый от отказа хранилища через errors.Is.
var ErrNoData = errors.New("no expenses in period")

// Period - поддерживаемое окно отчёта.
type Period string

const (
	PeriodToday Period = "today"
	PeriodMonth Period = "month"
)

// PeriodSnapshot - сравнение трат за сегодня и с начала месяца.
type PeriodSnapshot struct {
	TodayTotal decimal.Decimal
	MonthTotal decimal.Decimal
}

// ReportService собирает отчёты из сводок агрегации.
type ReportService struct {
	agg   *AggregationService
	store repository.ExpenseStore
	now   func() time.Time
}

func NewReportService(agg *AggregationService, store repository.ExpenseStore) *ReportService {
	return &ReportService{
		agg:   agg,
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Window возвращает закрытое окно [start, end] периода относительно now.
func Window(p Period, now time.Time) (time.Time, time.Time, error) {
	now = now.UTC()
	dayStart := BucketDay(now)
	dayEnd := dayStart.AddDate(0, 0, 1).Add(-time.Nanosecond)

	switch p {
	case PeriodToday:
		return dayStart, dayEnd, nil
	case PeriodMonth:
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		return monthStart, dayEnd, nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("unknown period %q", p)
	}
}

// SummarizeToday строит сводку за текущий день.
func (s *ReportService) SummarizeToday(ctx context.Context, userID int64) (*models.PeriodSummary, error) {
	return s.summarizePeriod(ctx, userID, PeriodToday)
}

// SummarizeMonthToDate строит сводку с первого числа месяца по конец
// текущего дня.
func (s *ReportService) SummarizeMonthToDate(ctx context.Context, userID int64) (*models.PeriodSummary, error) {
	return s.summarizePeriod(ctx, userID, PeriodMonth)
}

func (s *ReportService) summarizePeriod(ctx context.Context, userID int64, p Period) (*models.PeriodSummary, error) {
	start, end, err := Window(p, s.now())
	if err != nil {
		return nil, err
	}

	summary, err := s.agg.Summarize(ctx, userID, start, end)
	if err != nil {
		metrics.StoreFailures.Inc()
		return nil, err
	}
	if summary.Empty() {
		return nil, ErrNoData
	}

	metrics.SummariesServed.WithLabelValues(string(p)).Inc()
	return summary, nil
}

// ExportRecords отдаёт плоский список (дата, категория, сумма) по
// возрастанию даты для передачи внешнему форматтеру.
func (s *ReportService) ExportRecords(ctx context.Context, userID int64, start, end time.Time) ([]models.ExportRow, error) {
	records, err := s.store.QueryWindow(ctx, userID, start, end)
	if err != nil {
		metrics.StoreFailures.Inc()
		return nil, fmt.Errorf("failed to load expenses for export: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoData
	}

	rows := make([]models.ExportRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, models.ExportRow{
			Date:     BucketDay(r.OccurredAt),
			Category: r.Category,
			Amount:   r.Amount,
		})
	}

	metrics.ExportsServed.Inc()
	log.Printf("Export prepared: user=%d rows=%d", userID, len(rows))
	return rows, nil
}

// ExportPeriod - выгрузка за фиксированный период.
func (s *ReportService) ExportPeriod(ctx context.Context, userID int64, p Period) ([]models.ExportRow, error) {
	start, end, err := Window(p, s.now())
	if err != nil {
		return nil, err
	}
	return s.ExportRecords(ctx, userID, start, end)
}

// Snapshot считает суммы за сегодня и с начала месяца параллельно.
// Если трат нет ни в одном окне, возвращает ErrNoData.
func (s *ReportService) Snapshot(ctx context.Context, userID int64) (*PeriodSnapshot, error) {
	snapshot := &PeriodSnapshot{
		TodayTotal: decimal.Zero,
		MonthTotal: decimal.Zero,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		summary, err := s.SummarizeToday(ctx, userID)
		if errors.Is(err, ErrNoData) {
			return nil
		}
		if err != nil {
			return err
		}
		snapshot.TodayTotal = summary.Total
		return nil
	})
	g.Go(func() error {
		summary, err := s.SummarizeMonthToDate(ctx, userID)
		if errors.Is(err, ErrNoData) {
			return nil
		}
		if err != nil {
			return err
		}
		snapshot.MonthTotal = summary.Total
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if snapshot.TodayTotal.IsZero() && snapshot.MonthTotal.IsZero() {
		return nil, ErrNoData
	}
	return snapshot, nil
}
