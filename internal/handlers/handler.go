package handlers

import (
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"finbot/internal/dialog"
	"finbot/internal/services"
)

type BotHandler struct {
	bot           *tgbotapi.BotAPI
	machine       *dialog.Machine
	reportService *services.ReportService
}

func NewBotHandler(
	bot *tgbotapi.BotAPI,
	machine *dialog.Machine,
	reportService *services.ReportService,
) *BotHandler {
	return &BotHandler{
		bot:           bot,
		machine:       machine,
		reportService: reportService,
	}
}

func (h *BotHandler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.Printf("Failed to send message to %d: %v", chatID, err)
	}
}

func (h *BotHandler) sendMessageWithKeyboard(chatID int64, text string, keyboard interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	if _, err := h.bot.Send(msg); err != nil {
		log.Printf("Failed to send message to %d: %v", chatID, err)
	}
}

func (h *BotHandler) editMessage(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	if _, err := h.bot.Send(edit); err != nil {
		log.Printf("Failed to edit message %d in %d: %v", messageID, chatID, err)
	}
}
