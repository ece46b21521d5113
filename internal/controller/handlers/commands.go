package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Zerohidz/tcdd-alarm-bot/internal/controller/keyboard"
	"github.com/Zerohidz/tcdd-alarm-bot/internal/controller/state"
	"github.com/Zerohidz/tcdd-alarm-bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleStart handles /start: registers the user and shows the intro.
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	user := update.Message.From

	registered, err := h.userService.RegisterUser(
		ctx,
		user.ID,
		user.Username,
		user.FirstName,
		user.LastName,
		user.LanguageCode,
	)
	if err != nil {
		h.logger.Error("Failed to register user", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Registration failed, please try again later.")
		return
	}

	welcomeText := fmt.Sprintf(
		"👋 Hi, %s!\n\n"+
			"I watch TCDD ticket sales and grab a seat for you the moment one opens up.\n\n"+
			"Commands:\n"+
			"/search - Set up a seat alarm\n"+
			"/alarms - Your saved alarms\n"+
			"/status - Current search and hold\n"+
			"/stop - Stop the running search\n"+
			"/release - Release the held seat\n"+
			"/help - Help",
		registered.FirstName,
	)

	h.sendMessage(ctx, b, update.Message.Chat.ID, welcomeText)
}

// HandleHelp handles /help.
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	helpText := "📚 How it works:\n\n" +
		"1. /search walks you through route, date, time window and cabin classes.\n" +
		"2. I poll availability every few seconds with a human-like pause between requests.\n" +
		"3. When a seat in your classes shows up I stop searching and immediately put a hold on it.\n" +
		"4. The hold lasts about 10 minutes - buy the ticket on tcddtasimacilik.gov.tr before it runs out, or /release it.\n\n" +
		"Other commands:\n" +
		"/alarms - Re-arm a saved search with one tap\n" +
		"/status - What I'm doing right now\n" +
		"/stop - Stop searching (keeps any held seat)\n" +
		"/cancel - Abort the current dialog"

	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText)
}

// HandleSearch handles /search: starts the criteria dialog.
func (h *Handlers) HandleSearch(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	if h.searchService.State(chatID) == service.StateSearching {
		h.sendMessage(ctx, b, chatID, "🔎 A search is already running. /stop it first to set up a new one.")
		return
	}

	h.stateManager.ClearState(telegramID)
	h.stateManager.SetState(telegramID, state.StateSearchDeparture)

	h.sendMessage(ctx, b, chatID,
		"🚉 Setting up a seat alarm\n\n"+
			"Step 1 of 5: Which station are you departing from?\n\n"+
			"For example: Ankara Gar, Konya, İstanbul(Söğütlüçeşme)\n\n"+
			"Use /cancel to abort.")
}

// HandleStop handles /stop.
func (h *Handlers) HandleStop(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	if !h.searchService.Stop(chatID) {
		h.sendMessage(ctx, b, chatID, "ℹ️ No search is running.")
	}
	// The stopped notification itself comes through the notifier.
}

// HandleStatus handles /status.
func (h *Handlers) HandleStatus(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	var sb strings.Builder

	switch h.searchService.State(chatID) {
	case service.StateSearching:
		sb.WriteString("🔎 Searching.\n")
		if criteria := h.searchService.Criteria(chatID); criteria != nil {
			sb.WriteString(formatCriteria(criteria))
			sb.WriteString("\n")
		}
	case service.StateStopped:
		sb.WriteString("⏹ Last search is stopped.\n")
	default:
		sb.WriteString("💤 No search configured. Use /search to set one up.\n")
	}

	if allocation := h.allocationService.Current(); allocation != nil {
		sb.WriteString("\n")
		sb.WriteString(formatAllocation(allocation))
	} else {
		sb.WriteString("\nNo seat is currently held.")
	}

	h.sendMessage(ctx, b, chatID, sb.String())
}

// HandleRelease handles /release: gives the held seat back.
func (h *Handlers) HandleRelease(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	result, err := h.allocationService.Release(ctx)
	if err != nil {
		// The hold stays tracked; the user can retry.
		h.logger.Error("Release failed", zap.Int64("chat_id", chatID), zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Release failed: "+err.Error()+"\nThe seat is still held, try /release again.")
		return
	}
	if !result.Success {
		h.sendMessage(ctx, b, chatID, "ℹ️ "+result.Message)
		return
	}

	h.countdowns.Cancel(chatID)
	h.sendMessage(ctx, b, chatID, "✅ "+result.Message)
}

// HandleAlarms handles /alarms: lists saved searches with run/delete
// buttons.
func (h *Handlers) HandleAlarms(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	user, err := h.userService.GetByTelegramID(ctx, telegramID)
	if err != nil || user == nil {
		h.sendError(ctx, b, chatID, "❌ Could not load your profile. Try /start first.")
		return
	}

	saved, err := h.alarmService.ListByUser(ctx, user.ID)
	if err != nil {
		h.logger.Error("Failed to list saved searches", zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Could not load your saved alarms.")
		return
	}

	if len(saved) == 0 {
		h.sendMessage(ctx, b, chatID, "💾 You have no saved alarms yet. Finish /search with \"Save & start\" to keep one.")
		return
	}

	for _, item := range saved {
		kb := keyboard.NewBuilder().
			Row(
				keyboard.Button("▶️ Run", cbAlarmRun+item.ID),
				keyboard.Button("🗑 Delete", cbAlarmDelete+item.ID),
			).
			Build()

		_, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      chatID,
			Text:        formatCriteria(&item.Criteria),
			ReplyMarkup: kb,
		})
		if err != nil {
			h.logger.Error("Failed to send alarm entry", zap.Error(err))
		}
	}
}

// HandleCancel handles /cancel: aborts the active dialog.
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	telegramID := update.Message.From.ID
	if h.stateManager.GetState(telegramID) == state.StateNone {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "ℹ️ Nothing to cancel.")
		return
	}

	h.stateManager.ClearState(telegramID)
	h.sendMessage(ctx, b, update.Message.Chat.ID, "✅ Dialog cancelled. Use /search to start over.")
}

// HandleTextMessage routes free-text input to the active dialog step.
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	telegramID := update.Message.From.ID

	switch h.stateManager.GetState(telegramID) {
	case state.StateSearchDeparture:
		h.handleDepartureStep(ctx, b, update)
	case state.StateSearchArrival:
		h.handleArrivalStep(ctx, b, update)
	case state.StateSearchDate:
		h.handleDateStep(ctx, b, update)
	case state.StateSearchWindow:
		h.handleWindowStep(ctx, b, update)
	default:
		h.sendMessage(ctx, b, update.Message.Chat.ID, "🤔 I wasn't expecting input. Use /search to set up an alarm or /help for commands.")
	}
}
