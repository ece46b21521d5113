package handlers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Zerohidz/tcdd-alarm-bot/internal/model"
	"github.com/Zerohidz/tcdd-alarm-bot/internal/service"
	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

// CountdownManager runs the local hold-expiry countdowns. This is a
// presentation concern: the core only learns about expiry through the
// Clear call, and the server is never contacted when a hold runs out.
type CountdownManager struct {
	allocations *service.AllocationService
	logger      *zap.Logger

	mu     sync.Mutex
	active map[int64]chan struct{} // chatID -> cancel channel
}

func NewCountdownManager(allocations *service.AllocationService, logger *zap.Logger) *CountdownManager {
	return &CountdownManager{
		allocations: allocations,
		logger:      logger,
		active:      make(map[int64]chan struct{}),
	}
}

// Start begins a one-second countdown for the allocation. A previous
// countdown for the same chat is cancelled first.
func (m *CountdownManager) Start(ctx context.Context, b *bot.Bot, chatID int64, allocation *model.Allocation) {
	m.Cancel(chatID)

	stop := make(chan struct{})
	m.mu.Lock()
	m.active[chatID] = stop
	m.mu.Unlock()

	go m.run(ctx, b, chatID, allocation, stop)
}

// Cancel stops the chat's countdown, if any, without touching the hold.
func (m *CountdownManager) Cancel(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if stop, ok := m.active[chatID]; ok {
		close(stop)
		delete(m.active, chatID)
	}
}

func (m *CountdownManager) run(ctx context.Context, b *bot.Bot, chatID int64, allocation *model.Allocation, stop chan struct{}) {
	deadline := allocation.AllocatedAt.Add(time.Duration(allocation.HoldDurationMinutes) * time.Minute)

	msg, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   countdownText(time.Until(deadline)),
	})
	if err != nil {
		m.logger.Error("Failed to send countdown message", zap.Int64("chat_id", chatID), zap.Error(err))
		msg = nil
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	lastMinute := allocation.HoldDurationMinutes
	for {
		select {
		case <-ticker.C:
			remaining := time.Until(deadline)
			if remaining <= 0 {
				m.expire(ctx, b, chatID, allocation)
				return
			}

			// Edit only on minute boundaries, Telegram dislikes
			// per-second edits.
			minute := int(remaining.Minutes())
			if minute != lastMinute && msg != nil {
				lastMinute = minute
				_, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
					ChatID:    chatID,
					MessageID: msg.ID,
					Text:      countdownText(remaining),
				})
				if err != nil {
					m.logger.Debug("Countdown edit failed", zap.Error(err))
				}
			}
		case <-stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (m *CountdownManager) expire(ctx context.Context, b *bot.Bot, chatID int64, allocation *model.Allocation) {
	m.mu.Lock()
	delete(m.active, chatID)
	m.mu.Unlock()

	// Local-only transition: the tracked hold is discarded, the server
	// keeps its own view of the hold.
	m.allocations.Clear()

	m.logger.Info("Seat hold expired locally",
		zap.Int64("chat_id", chatID),
		zap.String("seat", allocation.SeatNumber))

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   fmt.Sprintf("⌛ Hold on seat %s expired. Start a new search to try again.", allocation.SeatNumber),
	})
	if err != nil {
		m.logger.Error("Failed to send expiry message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func countdownText(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	minutes := int(remaining.Minutes())
	seconds := int(remaining.Seconds()) % 60
	return fmt.Sprintf("⏳ Seat hold expires in %d:%02d", minutes, seconds)
}
