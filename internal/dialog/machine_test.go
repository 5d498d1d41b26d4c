package dialog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finbot/internal/catalog"
	"finbot/internal/events"
	"finbot/internal/models"
	"finbot/internal/repository"
	"finbot/internal/state"
)

func newTestMachine(t *testing.T) (*Machine, *repository.MemoryStore) {
	t.Helper()

	store := repository.NewMemoryStore()
	t.Cleanup(func() { store.Close() })

	m := NewMachine(state.NewManager(), store, catalog.Default(), events.NoopPublisher{})
	return m, store
}

func recordsOf(t *testing.T, store *repository.MemoryStore, userID int64) []models.ExpenseRecord {
	t.Helper()

	records, err := store.QueryWindow(context.Background(), userID,
		time.Now().UTC().Add(-time.Hour), time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)
	return records
}

func TestFullCaptureFlow(t *testing.T) {
	m, store := newTestMachine(t)
	ctx := context.Background()

	out, err := m.Dispatch(ctx, Intent{Kind: IntentBeginCapture, UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, EventPromptCategory, out.Event)
	assert.Len(t, out.Categories, catalog.Default().Len())

	out, err = m.Dispatch(ctx, Intent{Kind: IntentSelectCategory, UserID: 1, Value: "еда"})
	require.NoError(t, err)
	assert.Equal(t, EventPromptAmount, out.Event)
	assert.Equal(t, "еда", out.Category)

	out, err = m.Dispatch(ctx, Intent{Kind: IntentSubmitAmount, UserID: 1, Value: "150.50"})
	require.NoError(t, err)
	assert.Equal(t, EventExpenseSaved, out.Event)
	require.NotNil(t, out.Record)
	assert.Equal(t, "еда", out.Record.Category)
	assert.True(t, out.Record.Amount.Equal(decimal.RequireFromString("150.50")))

	// сессия уничтожена, создана ровно одна запись
	assert.Equal(t, state.StateIdle, m.State(1))
	records := recordsOf(t, store, 1)
	require.Len(t, records, 1)
	assert.Equal(t, "еда", records[0].Category)
}

func TestUnknownCategoryKeepsState(t *testing.T) {
	m, store := newTestMachine(t)
	ctx := context.Background()

	_, err := m.Dispatch(ctx, Intent{Kind: IntentBeginCapture, UserID: 1})
	require.NoError(t, err)

	out, err := m.Dispatch(ctx, Intent{Kind: IntentSelectCategory, UserID: 1, Value: "такой категории нет"})
	require.NoError(t, err)
	assert.Equal(t, EventCategoryNotRecognized, out.Event)

	assert.Equal(t, state.StateAwaitingCategory, m.State(1))
	assert.Empty(t, recordsOf(t, store, 1))

	// после ошибки выбор всё ещё работает
	out, err = m.Dispatch(ctx, Intent{Kind: IntentSelectCategory, UserID: 1, Value: "еда"})
	require.NoError(t, err)
	assert.Equal(t, EventPromptAmount, out.Event)
}

func TestInvalidAmountKeepsCategory(t *testing.T) {
	m, store := newTestMachine(t)
	ctx := context.Background()

	_, err := m.Dispatch(ctx, Intent{Kind: IntentBeginCapture, UserID: 1})
	require.NoError(t, err)
	_, err = m.Dispatch(ctx, Intent{Kind: IntentSelectCategory, UserID: 1, Value: "транспорт"})
	require.NoError(t, err)

	for _, raw := range []string{"abc", "0", "-5", "", "12.3.4"} {
		out, err := m.Dispatch(ctx, Intent{Kind: IntentSubmitAmount, UserID: 1, Value: raw})
		require.NoError(t, err, "input %q", raw)
		assert.Equal(t, EventInvalidAmount, out.Event, "input %q", raw)
		assert.Equal(t, "транспорт", out.Category)
	}

	assert.Equal(t, state.StateAwaitingAmount, m.State(1))
	assert.Empty(t, recordsOf(t, store, 1))

	// категория не спрашивается заново, сумма принимается сразу
	out, err := m.Dispatch(ctx, Intent{Kind: IntentSubmitAmount, UserID: 1, Value: "50"})
	require.NoError(t, err)
	assert.Equal(t, EventExpenseSaved, out.Event)
	assert.Equal(t, "транспорт", out.Record.Category)
}

func TestAmountAcceptsCommaSeparator(t *testing.T) {
	m, _ := newTestMachine(t)
	ctx := context.Background()

	_, err := m.Dispatch(ctx, Intent{Kind: IntentBeginCapture, UserID: 1})
	require.NoError(t, err)
	_, err = m.Dispatch(ctx, Intent{Kind: IntentSelectCategory, UserID: 1, Value: "еда"})
	require.NoError(t, err)

	out, err := m.Dispatch(ctx, Intent{Kind: IntentSubmitAmount, UserID: 1, Value: " 99,90 "})
	require.NoError(t, err)
	require.Equal(t, EventExpenseSaved, out.Event)
	assert.True(t, out.Record.Amount.Equal(decimal.RequireFromString("99.90")))
}

func TestIntentsOutOfStateAreIgnored(t *testing.T) {
	m, store := newTestMachine(t)
	ctx := context.Background()

	// без сессии
	out, err := m.Dispatch(ctx, Intent{Kind: IntentSelectCategory, UserID: 1, Value: "еда"})
	require.NoError(t, err)
	assert.Equal(t, EventIgnored, out.Event)

	out, err = m.Dispatch(ctx, Intent{Kind: IntentSubmitAmount, UserID: 1, Value: "100"})
	require.NoError(t, err)
	assert.Equal(t, EventIgnored, out.Event)

	out, err = m.Dispatch(ctx, Intent{Kind: IntentCancel, UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, EventIgnored, out.Event)

	// сумма в состоянии выбора категории
	_, err = m.Dispatch(ctx, Intent{Kind: IntentBeginCapture, UserID: 1})
	require.NoError(t, err)
	out, err = m.Dispatch(ctx, Intent{Kind: IntentSubmitAmount, UserID: 1, Value: "100"})
	require.NoError(t, err)
	assert.Equal(t, EventIgnored, out.Event)

	assert.Empty(t, recordsOf(t, store, 1))
}

func TestBeginCaptureRestartsInProgressCapture(t *testing.T) {
	m, _ := newTestMachine(t)
	ctx := context.Background()

	_, err := m.Dispatch(ctx, Intent{Kind: IntentBeginCapture, UserID: 1})
	require.NoError(t, err)
	_, err = m.Dispatch(ctx, Intent{Kind: IntentSelectCategory, UserID: 1, Value: "еда"})
	require.NoError(t, err)

	// повторный старт из AwaitingAmount сбрасывает выбор
	out, err := m.Dispatch(ctx, Intent{Kind: IntentBeginCapture, UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, EventPromptCategory, out.Event)
	assert.Equal(t, state.StateAwaitingCategory, m.State(1))

	// сумма теперь игнорируется: категория ещё не выбрана заново
	out, err = m.Dispatch(ctx, Intent{Kind: IntentSubmitAmount, UserID: 1, Value: "100"})
	require.NoError(t, err)
	assert.Equal(t, EventIgnored, out.Event)
}

func TestCancelDestroysSession(t *testing.T) {
	m, store := newTestMachine(t)
	ctx := context.Background()

	_, err := m.Dispatch(ctx, Intent{Kind: IntentBeginCapture, UserID: 1})
	require.NoError(t, err)
	_, err = m.Dispatch(ctx, Intent{Kind: IntentSelectCategory, UserID: 1, Value: "еда"})
	require.NoError(t, err)

	out, err := m.Dispatch(ctx, Intent{Kind: IntentCancel, UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, EventCancelled, out.Event)

	assert.Equal(t, state.StateIdle, m.State(1))
	assert.Empty(t, recordsOf(t, store, 1))
}

// failingStore возвращает ошибку на вставку, чтение отдаёт пусто.
type failingStore struct{}

func (failingStore) InsertExpense(context.Context, int64, string, decimal.Decimal) (*models.ExpenseRecord, error) {
	return nil, errors.New("connection refused")
}

func (failingStore) QueryWindow(context.Context, int64, time.Time, time.Time) ([]models.ExpenseRecord, error) {
	return nil, nil
}

func (failingStore) Close() error { return nil }

func TestStoreFailureKeepsSessionForRetry(t *testing.T) {
	m := NewMachine(state.NewManager(), failingStore{}, catalog.Default(), events.NoopPublisher{})
	ctx := context.Background()

	_, err := m.Dispatch(ctx, Intent{Kind: IntentBeginCapture, UserID: 1})
	require.NoError(t, err)
	_, err = m.Dispatch(ctx, Intent{Kind: IntentSelectCategory, UserID: 1, Value: "еда"})
	require.NoError(t, err)

	_, err = m.Dispatch(ctx, Intent{Kind: IntentSubmitAmount, UserID: 1, Value: "100"})
	require.Error(t, err)

	// пользователь может повторить отправку той же суммы
	session := m.sessions.Get(1)
	assert.Equal(t, state.StateAwaitingAmount, session.State)
	assert.Equal(t, "еда", session.SelectedCategory)
}

func TestConcurrentUsersDoNotInterleave(t *testing.T) {
	m, store := newTestMachine(t)
	ctx := context.Background()

	categories := catalog.Default().Values()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()

			category := string(categories[userID%int64(len(categories))])
			_, err := m.Dispatch(ctx, Intent{Kind: IntentBeginCapture, UserID: userID})
			assert.NoError(t, err)
			_, err = m.Dispatch(ctx, Intent{Kind: IntentSelectCategory, UserID: userID, Value: category})
			assert.NoError(t, err)
			out, err := m.Dispatch(ctx, Intent{Kind: IntentSubmitAmount, UserID: userID, Value: fmt.Sprintf("%d", userID+1)})
			assert.NoError(t, err)
			assert.Equal(t, EventExpenseSaved, out.Event)
		}(int64(i))
	}
	wg.Wait()

	// у каждого пользователя ровно одна запись со своими значениями
	for i := 0; i < 10; i++ {
		userID := int64(i)
		records := recordsOf(t, store, userID)
		require.Len(t, records, 1, "user %d", userID)
		assert.Equal(t, string(categories[userID%int64(len(categories))]), records[0].Category)
		assert.True(t, records[0].Amount.Equal(decimal.NewFromInt(userID+1)))
	}
}
