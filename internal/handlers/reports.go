package handlers

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"

	"finbot/internal/models"
	"finbot/internal/services"
)

func formatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

func (h *BotHandler) handleSummary(ctx context.Context, chatID, userID int64, period services.Period) {
	var (
		summary *models.PeriodSummary
		err     error
	)
	switch period {
	case services.PeriodToday:
		summary, err = h.reportService.SummarizeToday(ctx, userID)
	default:
		summary, err = h.reportService.SummarizeMonthToDate(ctx, userID)
	}

	if errors.Is(err, services.ErrNoData) {
		if period == services.PeriodToday {
			h.sendMessageWithKeyboard(chatID, "Сегодня трат нет.", h.mainMenu())
		} else {
			h.sendMessageWithKeyboard(chatID, "В этом месяце трат нет.", h.mainMenu())
		}
		return
	}
	if err != nil {
		log.Printf("Failed to summarize %s for %d: %v", period, userID, err)
		h.sendMessage(chatID, "⚠️ Не удалось получить сводку. Попробуйте позже.")
		return
	}

	h.sendMessageWithKeyboard(chatID, renderSummary(period, summary), h.mainMenu())
}

func renderSummary(period services.Period, summary *models.PeriodSummary) string {
	var b strings.Builder

	if period == services.PeriodToday {
		fmt.Fprintf(&b, "📊 Траты сегодня: %s\n", formatAmount(summary.Total))
	} else {
		fmt.Fprintf(&b, "📈 Траты с начала месяца: %s\n", formatAmount(summary.Total))
	}

	b.WriteString("\nПо категориям:\n")
	for _, c := range summary.CategoryBreakdown {
		fmt.Fprintf(&b, "- %s: %s\n", c.Category, formatAmount(c.Total))
	}

	// раскладка по дням осмысленна только для месячного окна
	if period == services.PeriodMonth && len(summary.DailyTotals) > 1 {
		b.WriteString("\nПо дням:\n")
		for _, d := range summary.DailyTotals {
			fmt.Fprintf(&b, "- %s: %s\n", d.Day.Format("02.01"), formatAmount(d.Total))
		}
	}

	return b.String()
}

func (h *BotHandler) handleSnapshot(ctx context.Context, chatID, userID int64) {
	snapshot, err := h.reportService.Snapshot(ctx, userID)
	if errors.Is(err, services.ErrNoData) {
		h.sendMessageWithKeyboard(chatID, "Трат пока нет - сравнивать нечего.", h.mainMenu())
		return
	}
	if err != nil {
		log.Printf("Failed to build snapshot for %d: %v", userID, err)
		h.sendMessage(chatID, "⚠️ Не удалось сравнить периоды. Попробуйте позже.")
		return
	}

	msg := fmt.Sprintf("📉 Сравнение трат\n\nСегодня: %s\nС начала месяца: %s",
		formatAmount(snapshot.TodayTotal),
		formatAmount(snapshot.MonthTotal),
	)
	h.sendMessageWithKeyboard(chatID, msg, h.mainMenu())
}

// HandleExport обрабатывает команду /export [today|month].
// Без аргумента выгружается месяц.
func (h *BotHandler) HandleExport(message *tgbotapi.Message) {
	period := services.PeriodMonth
	switch strings.TrimSpace(message.CommandArguments()) {
	case "today", "сегодня":
		period = services.PeriodToday
	}

	h.handleExport(context.Background(), message.Chat.ID, message.From.ID, period)
}

func (h *BotHandler) handleExport(ctx context.Context, chatID, userID int64, period services.Period) {
	rows, err := h.reportService.ExportPeriod(ctx, userID, period)
	if errors.Is(err, services.ErrNoData) {
		// пустое окно - дружелюбный ответ, а не пустой файл
		h.sendMessageWithKeyboard(chatID, "За этот период трат нет, выгружать нечего.", h.mainMenu())
		return
	}
	if err != nil {
		log.Printf("Failed to export for %d: %v", userID, err)
		h.sendMessage(chatID, "⚠️ Не удалось подготовить выгрузку. Попробуйте позже.")
		return
	}

	data, err := renderExportCSV(rows)
	if err != nil {
		log.Printf("Failed to render export for %d: %v", userID, err)
		h.sendMessage(chatID, "⚠️ Не удалось подготовить выгрузку. Попробуйте позже.")
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("expenses_%s.csv", period),
		Bytes: data,
	})
	doc.Caption = "📤 Выгрузка трат"
	if _, err := h.bot.Send(doc); err != nil {
		log.Printf("Failed to send export to %d: %v", chatID, err)
	}
}

func renderExportCSV(rows []models.ExportRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"date", "category", "amount"}); err != nil {
		return nil, err
	}
	for _, row := range rows {
		record := []string{
			row.Date.Format("2006-01-02"),
			row.Category,
			formatAmount(row.Amount),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
