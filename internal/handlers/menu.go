package handlers

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"finbot/internal/catalog"
)

const (
	menuAddExpense = "➕ Внести трату"
	menuToday      = "📊 Траты сегодня"
	menuMonth      = "📈 Траты с начала месяца"
	menuSnapshot   = "📉 Сравнение периодов"
	menuExport     = "📤 Выгрузка за месяц"
)

// categoryCallbackPrefix - префикс callback data кнопок категорий.
const categoryCallbackPrefix = "category_"

func (h *BotHandler) mainMenu() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuAddExpense),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuToday),
			tgbotapi.NewKeyboardButton(menuMonth),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuSnapshot),
			tgbotapi.NewKeyboardButton(menuExport),
		),
	)
	keyboard.ResizeKeyboard = true
	return keyboard
}

// categoryKeyboard строит inline-клавиатуру категорий по две кнопки в ряд.
func categoryKeyboard(categories []catalog.Category) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	for i := 0; i < len(categories); i += 2 {
		row := []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(string(categories[i]), categoryCallbackPrefix+string(categories[i])),
		}
		if i+1 < len(categories) {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(string(categories[i+1]), categoryCallbackPrefix+string(categories[i+1])))
		}
		rows = append(rows, row)
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
