package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finbot/internal/catalog"
	"finbot/internal/repository"
)

func newTestStore(t *testing.T) (*repository.MemoryStore, *time.Time) {
	t.Helper()

	store := repository.NewMemoryStore()
	t.Cleanup(func() { store.Close() })

	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	clock := &now
	store.SetClock(func() time.Time { return *clock })
	return store, clock
}

func insert(t *testing.T, store *repository.MemoryStore, userID int64, category string, amount int64) {
	t.Helper()
	_, err := store.InsertExpense(context.Background(), userID, category, decimal.NewFromInt(amount))
	require.NoError(t, err)
}

func TestBucketDay(t *testing.T) {
	msk := time.FixedZone("MSK", 3*60*60)

	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			"midday utc",
			time.Date(2024, time.March, 15, 12, 30, 45, 0, time.UTC),
			time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			"midnight stays",
			time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
			time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			"non-utc zone converts first",
			time.Date(2024, time.March, 15, 1, 30, 0, 0, msk), // 22:30 UTC предыдущего дня
			time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BucketDay(tt.in))
		})
	}
}

func TestSummarizeExample(t *testing.T) {
	store, clock := newTestStore(t)
	agg := NewAggregationService(store, catalog.Default())

	dayD := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
	dayBefore := dayD.AddDate(0, 0, -1)

	*clock = dayBefore
	insert(t, store, 1, "еда", 30)
	*clock = dayD
	insert(t, store, 1, "еда", 100)
	insert(t, store, 1, "транспорт", 50)

	summary, err := agg.Summarize(context.Background(), 1,
		BucketDay(dayBefore),
		BucketDay(dayD).AddDate(0, 0, 1).Add(-time.Nanosecond),
	)
	require.NoError(t, err)

	assert.True(t, summary.Total.Equal(decimal.NewFromInt(180)), "total = %s", summary.Total)

	require.Len(t, summary.DailyTotals, 2)
	assert.Equal(t, BucketDay(dayBefore), summary.DailyTotals[0].Day)
	assert.True(t, summary.DailyTotals[0].Total.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, BucketDay(dayD), summary.DailyTotals[1].Day)
	assert.True(t, summary.DailyTotals[1].Total.Equal(decimal.NewFromInt(150)))

	require.Len(t, summary.CategoryBreakdown, 2)
	assert.Equal(t, "еда", summary.CategoryBreakdown[0].Category)
	assert.True(t, summary.CategoryBreakdown[0].Total.Equal(decimal.NewFromInt(130)))
	assert.Equal(t, "транспорт", summary.CategoryBreakdown[1].Category)
	assert.True(t, summary.CategoryBreakdown[1].Total.Equal(decimal.NewFromInt(50)))
}

func TestSummarizeTotalsAgree(t *testing.T) {
	store, clock := newTestStore(t)
	agg := NewAggregationService(store, catalog.Default())

	base := time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)
	categories := []string{"еда", "транспорт", "аптека", "еда", "подписки"}
	for i, cat := range categories {
		*clock = base.AddDate(0, 0, i%3)
		insert(t, store, 1, cat, int64(10*(i+1)))
	}

	summary, err := agg.Summarize(context.Background(), 1,
		base.AddDate(0, 0, -1), base.AddDate(0, 0, 5))
	require.NoError(t, err)

	daySum := decimal.Zero
	for _, d := range summary.DailyTotals {
		daySum = daySum.Add(d.Total)
	}
	catSum := decimal.Zero
	for _, c := range summary.CategoryBreakdown {
		catSum = catSum.Add(c.Total)
	}

	assert.True(t, summary.Total.Equal(daySum), "total %s != day sum %s", summary.Total, daySum)
	assert.True(t, summary.Total.Equal(catSum), "total %s != category sum %s", summary.Total, catSum)
}

func TestSummarizeEmptyWindow(t *testing.T) {
	store, _ := newTestStore(t)
	agg := NewAggregationService(store, catalog.Default())

	summary, err := agg.Summarize(context.Background(), 1,
		time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.January, 31, 23, 59, 59, 0, time.UTC),
	)
	require.NoError(t, err)

	assert.True(t, summary.Empty())
	assert.True(t, summary.Total.IsZero())
	assert.Empty(t, summary.DailyTotals)
	assert.Empty(t, summary.CategoryBreakdown)
}

func TestSummarizeLegacyCategoryGoesToUnknownBucket(t *testing.T) {
	store, _ := newTestStore(t)

	// справочник без категории "самокат" из прошлой ревизии
	cat, err := catalog.New([]string{"еда", "транспорт"})
	require.NoError(t, err)
	agg := NewAggregationService(store, cat)

	insert(t, store, 1, "самокат", 40)
	insert(t, store, 1, "вейк-парк", 60)
	insert(t, store, 1, "еда", 10)

	summary, err := agg.Summarize(context.Background(), 1,
		time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 31, 23, 59, 59, 0, time.UTC),
	)
	require.NoError(t, err)

	// оба легаси-значения свёрнуты в одну служебную категорию
	require.Len(t, summary.CategoryBreakdown, 2)
	assert.Equal(t, catalog.Unknown, summary.CategoryBreakdown[0].Category)
	assert.True(t, summary.CategoryBreakdown[0].Total.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "еда", summary.CategoryBreakdown[1].Category)
	assert.True(t, summary.Total.Equal(decimal.NewFromInt(110)))
}

func TestSummarizeTieOrdering(t *testing.T) {
	store, _ := newTestStore(t)
	agg := NewAggregationService(store, catalog.Default())

	// одинаковые суммы: порядок решает справочник, Unknown - последней
	insert(t, store, 1, "категория-из-прошлого", 50)
	insert(t, store, 1, "транспорт", 50)
	insert(t, store, 1, "еда", 50)

	summary, err := agg.Summarize(context.Background(), 1,
		time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 31, 23, 59, 59, 0, time.UTC),
	)
	require.NoError(t, err)

	require.Len(t, summary.CategoryBreakdown, 3)
	assert.Equal(t, "еда", summary.CategoryBreakdown[0].Category)
	assert.Equal(t, "транспорт", summary.CategoryBreakdown[1].Category)
	assert.Equal(t, catalog.Unknown, summary.CategoryBreakdown[2].Category)
}

func TestSummarizeIgnoresOtherUsers(t *testing.T) {
	store, _ := newTestStore(t)
	agg := NewAggregationService(store, catalog.Default())

	insert(t, store, 1, "еда", 100)
	insert(t, store, 2, "еда", 999)

	summary, err := agg.Summarize(context.Background(), 1,
		time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 31, 23, 59, 59, 0, time.UTC),
	)
	require.NoError(t, err)
	assert.True(t, summary.Total.Equal(decimal.NewFromInt(100)))
}
