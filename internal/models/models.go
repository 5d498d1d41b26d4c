package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseRecord - одна запись о трате
type ExpenseRecord struct {
	ID         int64
	UserID     int64
	Category   string
	Amount     decimal.Decimal // всегда > 0
	OccurredAt time.Time       // выставляется хранилищем (UTC), не пользователем
}

// DailyTotal - сумма трат за один календарный день
type DailyTotal struct {
	Day   time.Time // полночь UTC
	Total decimal.Decimal
}

// CategoryTotal - сумма трат по одной категории
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// PeriodSummary - сводка за период. Не хранится, пересчитывается
// на каждый запрос.
type PeriodSummary struct {
	Total             decimal.Decimal
	DailyTotals       []DailyTotal    // по возрастанию даты
	CategoryBreakdown []CategoryTotal // по убыванию суммы
}

// Empty сообщает, что в окне не было ни одной записи. Суммы всегда
// положительные, поэтому пустой список дней означает пустое окно.
func (s *PeriodSummary) Empty() bool {
	return len(s.DailyTotals) == 0
}

// ExportRow - строка выгрузки (дата, категория, сумма)
type ExportRow struct {
	Date     time.Time
	Category string
	Amount   decimal.Decimal
}
