// Package dialog реализует машину состояний захвата траты:
// Idle -> AwaitingCategory -> AwaitingAmount -> Idle.
//
// Машина не знает о транспорте: на вход приходят интенты с опаковым
// идентификатором пользователя, на выход - результат с сигналом для
// отрисовки. Интенты одного пользователя сериализуются внутренним
// замком, интенты разных пользователей независимы.
package dialog

import (
	"context"
	"fmt"
	"log"
	"sync"

	"finbot/internal/catalog"
	"finbot/internal/events"
	"finbot/internal/metrics"
	"finbot/internal/models"
	"finbot/internal/repository"
	"finbot/internal/state"
)

type IntentKind int

const (
	IntentBeginCapture IntentKind = iota
	IntentSelectCategory
	IntentSubmitAmount
	IntentCancel
)

// Intent - намерение пользователя, уже очищенное от транспорта.
// Value несёт значение категории либо сырой текст суммы.
type Intent struct {
	Kind   IntentKind
	UserID int64
	Value  string
}

type EventKind int

const (
	// EventIgnored - интент не определён для текущего состояния,
	// машина его молча пропустила.
	EventIgnored EventKind = iota
	EventPromptCategory
	EventPromptAmount
	EventExpenseSaved
	EventCategoryNotRecognized
	EventInvalidAmount
	EventCancelled
)

// Outcome - результат обработки интента для отрисовки транспортом.
type Outcome struct {
	Event      EventKind
	Categories []catalog.Category    // для EventPromptCategory
	Category   string                // выбранная категория
	Record     *models.ExpenseRecord // для EventExpenseSaved
}

// Machine - машина состояний захвата траты.
type Machine struct {
	sessions  *state.Manager
	store     repository.ExpenseStore
	cat       *catalog.Catalog
	publisher events.Publisher

	handlers map[IntentKind]func(context.Context, Intent) (Outcome, error)

	mu        sync.Mutex
	userLocks map[int64]*sync.Mutex
}

func NewMachine(sessions *state.Manager, store repository.ExpenseStore, cat *catalog.Catalog, publisher events.Publisher) *Machine {
	m := &Machine{
		sessions:  sessions,
		store:     store,
		cat:       cat,
		publisher: publisher,
		userLocks: make(map[int64]*sync.Mutex),
	}
	m.handlers = map[IntentKind]func(context.Context, Intent) (Outcome, error){
		IntentBeginCapture:   m.handleBeginCapture,
		IntentSelectCategory: m.handleSelectCategory,
		IntentSubmitAmount:   m.handleSubmitAmount,
		IntentCancel:         m.handleCancel,
	}
	return m
}

// Dispatch обрабатывает интент под замком его пользователя: интенты
// одного пользователя выполняются в порядке прихода.
func (m *Machine) Dispatch(ctx context.Context, intent Intent) (Outcome, error) {
	lock := m.userLock(intent.UserID)
	lock.Lock()
	defer lock.Unlock()

	handler, ok := m.handlers[intent.Kind]
	if !ok {
		return Outcome{Event: EventIgnored}, nil
	}
	return handler(ctx, intent)
}

func (m *Machine) userLock(userID int64) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	lock, ok := m.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		m.userLocks[userID] = lock
	}
	return lock
}

// handleBeginCapture стартует захват, перезаписывая незавершённую
// сессию (last-writer-wins).
func (m *Machine) handleBeginCapture(_ context.Context, intent Intent) (Outcome, error) {
	m.sessions.Begin(intent.UserID)
	return Outcome{
		Event:      EventPromptCategory,
		Categories: m.cat.Values(),
	}, nil
}

func (m *Machine) handleSelectCategory(_ context.Context, intent Intent) (Outcome, error) {
	session := m.sessions.Get(intent.UserID)
	if session.State != state.StateAwaitingCategory {
		return Outcome{Event: EventIgnored}, nil
	}

	if !m.cat.Contains(intent.Value) {
		// ошибка пользователя, не сбой: остаёмся в выборе категории
		return Outcome{Event: EventCategoryNotRecognized}, nil
	}

	m.sessions.SetCategory(intent.UserID, intent.Value)
	return Outcome{
		Event:    EventPromptAmount,
		Category: intent.Value,
	}, nil
}

func (m *Machine) handleSubmitAmount(ctx context.Context, intent Intent) (Outcome, error) {
	session := m.sessions.Get(intent.UserID)
	if session.State != state.StateAwaitingAmount {
		return Outcome{Event: EventIgnored}, nil
	}

	amount, err := ParseAmount(intent.Value)
	if err != nil {
		// категория сохранена, пользователь вводит сумму заново
		return Outcome{
			Event:    EventInvalidAmount,
			Category: session.SelectedCategory,
		}, nil
	}

	record, err := m.store.InsertExpense(ctx, intent.UserID, session.SelectedCategory, amount)
	if err != nil {
		// сессия не сбрасывается: сумму можно отправить повторно
		// без повторного выбора категории
		metrics.StoreFailures.Inc()
		return Outcome{}, fmt.Errorf("failed to save expense: %w", err)
	}

	m.sessions.Clear(intent.UserID)
	metrics.ExpensesRecorded.Inc()
	log.Printf("Expense recorded: user=%d category=%q amount=%s", record.UserID, record.Category, record.Amount)

	if err := m.publisher.PublishExpenseCreated(ctx, events.NewExpenseCreated(record)); err != nil {
		// запись уже сохранена, событие не критично
		log.Printf("Failed to publish expense event: %v", err)
	}

	return Outcome{
		Event:    EventExpenseSaved,
		Category: record.Category,
		Record:   record,
	}, nil
}

func (m *Machine) handleCancel(_ context.Context, intent Intent) (Outcome, error) {
	session := m.sessions.Get(intent.UserID)
	if session.State == state.StateIdle {
		return Outcome{Event: EventIgnored}, nil
	}

	m.sessions.Clear(intent.UserID)
	return Outcome{Event: EventCancelled}, nil
}

// State возвращает текущее состояние диалога пользователя. Нужно
// транспорту, чтобы понять, ждём ли мы от пользователя сумму.
func (m *Machine) State(userID int64) state.DialogState {
	return m.sessions.Get(userID).State
}
