package handlers

import (
	"context"
	"sync"

	"github.com/Zerohidz/tcdd-alarm-bot/internal/model"
	"github.com/Zerohidz/tcdd-alarm-bot/internal/service"
	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

// TelegramNotifier delivers core notifications to one chat. Rolling
// updates (status line, candidate list) edit a single message each so a
// five-second poll does not flood the chat; discrete events send fresh
// messages.
type TelegramNotifier struct {
	ctx        context.Context
	bot        *bot.Bot
	chatID     int64
	countdowns *CountdownManager
	logger     *zap.Logger

	mu           sync.Mutex
	statusMsgID  int
	resultsMsgID int
}

var _ service.Notifier = (*TelegramNotifier)(nil)

func NewTelegramNotifier(ctx context.Context, b *bot.Bot, chatID int64, countdowns *CountdownManager, logger *zap.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		ctx:        ctx,
		bot:        b,
		chatID:     chatID,
		countdowns: countdowns,
		logger:     logger,
	}
}

func (n *TelegramNotifier) OnStatusChange(message, category string) {
	switch category {
	case service.StatusInfo:
		n.upsert(&n.statusMsgID, "ℹ️ "+message)
	case service.StatusSuccess:
		n.send("🎉 " + message)
	case service.StatusWarning:
		n.send("⚠️ " + message)
	case service.StatusError:
		n.send("❌ " + message)
	default:
		n.send(message)
	}
}

func (n *TelegramNotifier) OnLog(message string) {
	n.send("📋 " + message)
}

func (n *TelegramNotifier) OnResultsUpdate(trains []model.TrainCandidate) {
	n.upsert(&n.resultsMsgID, formatTrains(trains))
}

func (n *TelegramNotifier) OnAllocationEstablished(allocation *model.Allocation) {
	n.send(formatAllocation(allocation))
	n.countdowns.Start(n.ctx, n.bot, n.chatID, allocation)
}

func (n *TelegramNotifier) OnAllocationCleared() {
	n.countdowns.Cancel(n.chatID)
}

func (n *TelegramNotifier) send(text string) {
	_, err := n.bot.SendMessage(n.ctx, &bot.SendMessageParams{
		ChatID: n.chatID,
		Text:   text,
	})
	if err != nil {
		n.logger.Error("Failed to send notification", zap.Int64("chat_id", n.chatID), zap.Error(err))
	}
}

// upsert edits the tracked message in place, sending it first when it
// does not exist yet. Telegram rejects edits with unchanged text; that
// error is expected and ignored.
func (n *TelegramNotifier) upsert(msgID *int, text string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if *msgID != 0 {
		_, err := n.bot.EditMessageText(n.ctx, &bot.EditMessageTextParams{
			ChatID:    n.chatID,
			MessageID: *msgID,
			Text:      text,
		})
		if err == nil {
			return
		}
		n.logger.Debug("Message edit failed, sending new", zap.Error(err))
	}

	msg, err := n.bot.SendMessage(n.ctx, &bot.SendMessageParams{
		ChatID: n.chatID,
		Text:   text,
	})
	if err != nil {
		n.logger.Error("Failed to send notification", zap.Int64("chat_id", n.chatID), zap.Error(err))
		return
	}
	*msgID = msg.ID
}
