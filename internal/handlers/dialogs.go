package handlers

import (
	"context"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"finbot/internal/dialog"
	"finbot/internal/services"
)

// HandleTextMessage разбирает нажатия кнопок меню и свободный текст.
// Свободный текст уходит в машину диалога как попытка ввода суммы.
func (h *BotHandler) HandleTextMessage(message *tgbotapi.Message) {
	userID := message.From.ID
	chatID := message.Chat.ID
	ctx := context.Background()

	switch message.Text {
	case menuAddExpense:
		h.handleBeginCapture(ctx, chatID, userID)
	case menuToday:
		h.handleSummary(ctx, chatID, userID, services.PeriodToday)
	case menuMonth:
		h.handleSummary(ctx, chatID, userID, services.PeriodMonth)
	case menuSnapshot:
		h.handleSnapshot(ctx, chatID, userID)
	case menuExport:
		h.handleExport(ctx, chatID, userID, services.PeriodMonth)
	default:
		h.handleAmountInput(ctx, chatID, userID, message.Text)
	}
}

func (h *BotHandler) handleBeginCapture(ctx context.Context, chatID, userID int64) {
	out, err := h.machine.Dispatch(ctx, dialog.Intent{
		Kind:   dialog.IntentBeginCapture,
		UserID: userID,
	})
	if err != nil {
		log.Printf("Failed to begin capture for %d: %v", userID, err)
		h.sendMessage(chatID, "Что-то пошло не так. Попробуйте позже.")
		return
	}

	h.sendMessageWithKeyboard(chatID, "Выберите категорию:", categoryKeyboard(out.Categories))
}

// HandleCallback обрабатывает нажатия inline-кнопок категорий.
func (h *BotHandler) HandleCallback(callback *tgbotapi.CallbackQuery) {
	// у устаревших callback'ов Telegram не присылает исходное сообщение
	if callback.Message == nil {
		return
	}

	defer func() {
		if _, err := h.bot.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
			log.Printf("Failed to answer callback %s: %v", callback.ID, err)
		}
	}()

	if !strings.HasPrefix(callback.Data, categoryCallbackPrefix) {
		return
	}
	category := strings.TrimPrefix(callback.Data, categoryCallbackPrefix)

	userID := callback.From.ID
	chatID := callback.Message.Chat.ID

	out, err := h.machine.Dispatch(context.Background(), dialog.Intent{
		Kind:   dialog.IntentSelectCategory,
		UserID: userID,
		Value:  category,
	})
	if err != nil {
		log.Printf("Failed to select category for %d: %v", userID, err)
		return
	}

	switch out.Event {
	case dialog.EventPromptAmount:
		h.editMessage(chatID, callback.Message.MessageID, fmt.Sprintf("Категория: %s\n\nВведите сумму траты:", out.Category))
	case dialog.EventCategoryNotRecognized:
		h.editMessage(chatID, callback.Message.MessageID, "Категория не найдена. Попробуйте снова.")
	case dialog.EventIgnored:
		// сессии уже нет (перезапуск или /cancel) - кнопка устарела
	}
}

func (h *BotHandler) handleAmountInput(ctx context.Context, chatID, userID int64, text string) {
	out, err := h.machine.Dispatch(ctx, dialog.Intent{
		Kind:   dialog.IntentSubmitAmount,
		UserID: userID,
		Value:  text,
	})
	if err != nil {
		// хранилище отказало: сессия жива, сумму можно прислать ещё раз
		log.Printf("Failed to save expense for %d: %v", userID, err)
		h.sendMessage(chatID, "⚠️ Не удалось сохранить трату. Отправьте сумму ещё раз.")
		return
	}

	switch out.Event {
	case dialog.EventExpenseSaved:
		msg := fmt.Sprintf("✅ Трата добавлена!\n\n%s: %s", out.Record.Category, formatAmount(out.Record.Amount))
		h.sendMessageWithKeyboard(chatID, msg, h.mainMenu())
	case dialog.EventInvalidAmount:
		h.sendMessage(chatID, "Введите корректную сумму (число больше нуля).")
	case dialog.EventIgnored:
		h.sendMessage(chatID, "Я вас не понял. Используйте кнопки меню или /help")
	}
}
