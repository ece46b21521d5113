package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/Zerohidz/tcdd-alarm-bot/internal/controller/state"
	"github.com/Zerohidz/tcdd-alarm-bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleCallbackQuery routes inline keyboard presses.
func (h *Handlers) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	query := update.CallbackQuery
	if query == nil {
		return
	}

	// Acknowledge immediately so the button stops spinning.
	_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: query.ID,
	})
	if err != nil {
		h.logger.Debug("Failed to answer callback query", zap.Error(err))
	}

	if query.Message.Message == nil {
		return
	}
	chatID := query.Message.Message.Chat.ID
	telegramID := query.From.ID
	data := query.Data

	switch {
	case strings.HasPrefix(data, cbClassToggle):
		h.handleClassToggle(ctx, b, query, telegramID, data)
	case data == cbClassesDone:
		h.handleClassesDone(ctx, b, chatID, telegramID)
	case data == cbConfirmStart:
		h.handleConfirm(ctx, b, chatID, telegramID, false)
	case data == cbConfirmSave:
		h.handleConfirm(ctx, b, chatID, telegramID, true)
	case data == cbConfirmAbort:
		h.stateManager.ClearState(telegramID)
		h.sendMessage(ctx, b, chatID, "✅ Dialog cancelled.")
	case strings.HasPrefix(data, cbAlarmRun):
		h.handleAlarmRun(ctx, b, chatID, telegramID, strings.TrimPrefix(data, cbAlarmRun))
	case strings.HasPrefix(data, cbAlarmDelete):
		h.handleAlarmDelete(ctx, b, chatID, telegramID, strings.TrimPrefix(data, cbAlarmDelete))
	}
}

// handleClassToggle flips one cabin class selection and refreshes the
// keyboard in place.
func (h *Handlers) handleClassToggle(ctx context.Context, b *bot.Bot, query *models.CallbackQuery, telegramID int64, data string) {
	if h.stateManager.GetState(telegramID) != state.StateSearchClasses {
		return
	}

	classID, err := strconv.ParseInt(strings.TrimPrefix(data, cbClassToggle), 10, 64)
	if err != nil {
		return
	}

	selected := h.toggleClass(telegramID, classID)

	msg := query.Message.Message
	_, err = b.EditMessageReplyMarkup(ctx, &bot.EditMessageReplyMarkupParams{
		ChatID:      msg.Chat.ID,
		MessageID:   msg.ID,
		ReplyMarkup: classKeyboard(selected),
	})
	if err != nil {
		h.logger.Debug("Failed to refresh class keyboard", zap.Error(err))
	}
}

// handleClassesDone moves from class selection to confirmation.
func (h *Handlers) handleClassesDone(ctx context.Context, b *bot.Bot, chatID, telegramID int64) {
	if h.stateManager.GetState(telegramID) != state.StateSearchClasses {
		return
	}

	if len(h.selectedClasses(telegramID)) == 0 {
		h.sendError(ctx, b, chatID, "❌ Pick at least one cabin class first.")
		return
	}

	criteria, ok := h.dialogCriteria(telegramID)
	if !ok {
		h.stateManager.ClearState(telegramID)
		h.sendError(ctx, b, chatID, "❌ Dialog data got lost, please /search again.")
		return
	}

	h.stateManager.SetState(telegramID, state.StateSearchConfirm)

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        "🔔 Ready to arm this alarm?\n\n" + formatCriteria(criteria),
		ReplyMarkup: confirmKeyboard(),
	})
	if err != nil {
		h.logger.Error("Failed to send confirmation", zap.Error(err))
	}
}

// handleConfirm starts the search, optionally saving the criteria first.
func (h *Handlers) handleConfirm(ctx context.Context, b *bot.Bot, chatID, telegramID int64, save bool) {
	if h.stateManager.GetState(telegramID) != state.StateSearchConfirm {
		return
	}

	criteria, ok := h.dialogCriteria(telegramID)
	if !ok {
		h.stateManager.ClearState(telegramID)
		h.sendError(ctx, b, chatID, "❌ Dialog data got lost, please /search again.")
		return
	}
	h.stateManager.ClearState(telegramID)

	if save {
		user, err := h.userService.GetByTelegramID(ctx, telegramID)
		if err != nil || user == nil {
			h.sendError(ctx, b, chatID, "⚠️ Could not save the alarm, starting the search anyway.")
		} else if _, err := h.alarmService.Save(ctx, user.ID, *criteria); err != nil {
			h.logger.Error("Failed to save search", zap.Error(err))
			h.sendError(ctx, b, chatID, "⚠️ Could not save the alarm, starting the search anyway.")
		} else {
			h.sendMessage(ctx, b, chatID, "💾 Alarm saved. See /alarms.")
		}
	}

	h.startSearch(ctx, b, chatID, criteria)
}

// handleAlarmRun re-arms a saved search.
func (h *Handlers) handleAlarmRun(ctx context.Context, b *bot.Bot, chatID, telegramID int64, id string) {
	user, err := h.userService.GetByTelegramID(ctx, telegramID)
	if err != nil || user == nil {
		h.sendError(ctx, b, chatID, "❌ Could not load your profile. Try /start first.")
		return
	}

	saved, err := h.alarmService.Get(ctx, id)
	if err != nil || saved == nil || saved.UserID != user.ID {
		h.sendError(ctx, b, chatID, "❌ That alarm no longer exists.")
		return
	}

	criteria := saved.Criteria
	h.startSearch(ctx, b, chatID, &criteria)
}

// handleAlarmDelete removes a saved search.
func (h *Handlers) handleAlarmDelete(ctx context.Context, b *bot.Bot, chatID, telegramID int64, id string) {
	user, err := h.userService.GetByTelegramID(ctx, telegramID)
	if err != nil || user == nil {
		h.sendError(ctx, b, chatID, "❌ Could not load your profile. Try /start first.")
		return
	}

	if err := h.alarmService.Delete(ctx, id, user.ID); err != nil {
		h.sendError(ctx, b, chatID, "❌ "+err.Error())
		return
	}
	h.sendMessage(ctx, b, chatID, "🗑 Alarm deleted.")
}

// startSearch hands validated criteria to the search loop.
func (h *Handlers) startSearch(ctx context.Context, b *bot.Bot, chatID int64, criteria *model.SearchCriteria) {
	notifier := NewTelegramNotifier(ctx, b, chatID, h.countdowns, h.logger)

	if err := h.searchService.Start(ctx, chatID, criteria, notifier); err != nil {
		h.sendError(ctx, b, chatID, "❌ "+err.Error())
		return
	}

	h.sendMessage(ctx, b, chatID, "🔔 Alarm armed! I'll keep you posted.\n\n"+formatCriteria(criteria))
}
