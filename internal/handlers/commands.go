package handlers

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"finbot/internal/dialog"
)

const helpText = `📖 Справка по командам:

/start - Начать работу
/help - Показать эту справку
/cancel - Отменить текущее действие
/export [today|month] - Выгрузить траты файлом

📌 Как использовать:
1️⃣ Нажмите «➕ Внести трату», выберите категорию и введите сумму
2️⃣ Нажмите «📊 Траты сегодня» или «📈 Траты с начала месяца» для сводки
3️⃣ Нажмите «📉 Сравнение периодов» чтобы сравнить сегодня и месяц
4️⃣ Нажмите «📤 Выгрузка за месяц» чтобы получить файл с тратами

💡 Совет: Ввод траты можно отменить командой /cancel`

func (h *BotHandler) HandleStart(message *tgbotapi.Message) {
	userID := message.From.ID
	username := message.From.UserName
	if username == "" {
		username = message.From.FirstName
	}

	log.Printf("User %d (%s) started the bot", userID, username)

	// незавершённый ввод при /start не сохраняем
	_, err := h.machine.Dispatch(context.Background(), dialog.Intent{Kind: dialog.IntentCancel, UserID: userID})
	if err != nil {
		log.Printf("Failed to reset session for %d: %v", userID, err)
	}

	msg := fmt.Sprintf("👋 Добро пожаловать, %s!\n\n"+
		"Я помогу вам вести учёт трат.\n\n"+
		helpText,
		username,
	)
	h.sendMessageWithKeyboard(message.Chat.ID, msg, h.mainMenu())
}

func (h *BotHandler) HandleHelp(message *tgbotapi.Message) {
	h.sendMessage(message.Chat.ID, helpText)
}

func (h *BotHandler) HandleCancel(message *tgbotapi.Message) {
	out, err := h.machine.Dispatch(context.Background(), dialog.Intent{
		Kind:   dialog.IntentCancel,
		UserID: message.From.ID,
	})
	if err != nil {
		log.Printf("Failed to cancel session for %d: %v", message.From.ID, err)
		return
	}

	if out.Event == dialog.EventIgnored {
		h.sendMessage(message.Chat.ID, "ℹ️ Нет активного действия для отмены")
		return
	}

	h.sendMessageWithKeyboard(message.Chat.ID, "❌ Действие отменено. Вернулись в главное меню", h.mainMenu())
}

func (h *BotHandler) HandleUnknownCommand(message *tgbotapi.Message) {
	h.sendMessage(message.Chat.ID, "❓ Неизвестная команда.\n\nИспользуйте /help для справки")
}
