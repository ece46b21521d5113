package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Zerohidz/tcdd-alarm-bot/internal/catalog"
	"github.com/Zerohidz/tcdd-alarm-bot/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// handleDepartureStep resolves the departure station input.
func (h *Handlers) handleDepartureStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	input := strings.TrimSpace(update.Message.Text)

	station, ok := h.resolveStationInput(ctx, b, chatID, input)
	if !ok {
		return
	}

	h.stateManager.SetData(telegramID, dataDepartureID, station.ID)
	h.stateManager.SetData(telegramID, dataDepartureName, station.Name)
	h.stateManager.SetState(telegramID, state.StateSearchArrival)

	h.sendMessage(ctx, b, chatID, fmt.Sprintf(
		"✅ From: %s\n\nStep 2 of 5: Where are you going?", station.Name))
}

// handleArrivalStep resolves the arrival station input.
func (h *Handlers) handleArrivalStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	input := strings.TrimSpace(update.Message.Text)

	station, ok := h.resolveStationInput(ctx, b, chatID, input)
	if !ok {
		return
	}

	if depID, exists := h.stateManager.GetData(telegramID, dataDepartureID); exists && depID.(int64) == station.ID {
		h.sendError(ctx, b, chatID, "❌ Arrival must differ from departure. Pick another station:")
		return
	}

	h.stateManager.SetData(telegramID, dataArrivalID, station.ID)
	h.stateManager.SetData(telegramID, dataArrivalName, station.Name)
	h.stateManager.SetState(telegramID, state.StateSearchDate)

	h.sendMessage(ctx, b, chatID, fmt.Sprintf(
		"✅ To: %s\n\nStep 3 of 5: Travel date? (YYYY-MM-DD, e.g. %s)",
		station.Name,
		time.Now().AddDate(0, 0, 1).Format("2006-01-02")))
}

// handleDateStep validates the travel date input.
func (h *Handlers) handleDateStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	input := strings.TrimSpace(update.Message.Text)

	date, err := time.ParseInLocation("2006-01-02", input, time.Local)
	if err != nil {
		h.sendError(ctx, b, chatID, "❌ I need the date as YYYY-MM-DD (e.g. 2026-09-14). Try again:")
		return
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if date.Before(today) {
		h.sendError(ctx, b, chatID, "❌ That date is in the past. Try again:")
		return
	}

	h.stateManager.SetData(telegramID, dataDate, date.Format("2006-01-02"))
	h.stateManager.SetState(telegramID, state.StateSearchWindow)

	h.sendMessage(ctx, b, chatID,
		"✅ Date: "+date.Format("2006-01-02")+"\n\n"+
			"Step 4 of 5: Departure time window? (HH:MM-HH:MM, e.g. 08:00-12:00)")
}

// handleWindowStep parses the HH:MM-HH:MM time window.
func (h *Handlers) handleWindowStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	input := strings.TrimSpace(update.Message.Text)

	parts := strings.SplitN(input, "-", 2)
	if len(parts) != 2 {
		h.sendError(ctx, b, chatID, "❌ Format is HH:MM-HH:MM (e.g. 08:00-12:00). Try again:")
		return
	}

	start, err1 := time.Parse("15:04", strings.TrimSpace(parts[0]))
	end, err2 := time.Parse("15:04", strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		h.sendError(ctx, b, chatID, "❌ Format is HH:MM-HH:MM (e.g. 08:00-12:00). Try again:")
		return
	}

	startStr := start.Format("15:04")
	endStr := end.Format("15:04")
	if startStr > endStr {
		h.sendError(ctx, b, chatID, "❌ The window start must not be after its end. Try again:")
		return
	}

	h.stateManager.SetData(telegramID, dataTimeStart, startStr)
	h.stateManager.SetData(telegramID, dataTimeEnd, endStr)
	h.stateManager.SetData(telegramID, dataClassIDs, []int64{})
	h.stateManager.SetState(telegramID, state.StateSearchClasses)

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text: "✅ Window: " + startStr + " – " + endStr + "\n\n" +
			"Step 5 of 5: Which cabin classes? Toggle any number, then continue.",
		ReplyMarkup: classKeyboard(nil),
	})
	if err != nil {
		h.logger.Error("Failed to send class keyboard", zap.Error(err))
	}
}

// resolveStationInput maps free text to a station, replying with
// suggestions when the input is ambiguous or unknown.
func (h *Handlers) resolveStationInput(ctx context.Context, b *bot.Bot, chatID int64, input string) (catalog.Station, bool) {
	station, suggestions, ok := h.stationService.Resolve(input)
	if ok {
		return station, true
	}

	if len(suggestions) == 0 {
		h.sendError(ctx, b, chatID, "❌ I don't know that station. Try again (e.g. Ankara Gar, Konya):")
		return catalog.Station{}, false
	}

	if len(suggestions) > maxStationSuggestions {
		suggestions = suggestions[:maxStationSuggestions]
	}
	var names []string
	for _, s := range suggestions {
		names = append(names, "• "+s.Name)
	}
	h.sendMessage(ctx, b, chatID,
		"🤔 Did you mean one of these? Send the full name:\n"+strings.Join(names, "\n"))
	return catalog.Station{}, false
}
