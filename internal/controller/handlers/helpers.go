package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Zerohidz/tcdd-alarm-bot/internal/catalog"
	"github.com/Zerohidz/tcdd-alarm-bot/internal/controller/keyboard"
	"github.com/Zerohidz/tcdd-alarm-bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	h.sendMessage(ctx, b, chatID, text)
}

// dialogCriteria assembles SearchCriteria from the dialog scratch data.
func (h *Handlers) dialogCriteria(telegramID int64) (*model.SearchCriteria, bool) {
	depID, ok1 := h.stateManager.GetData(telegramID, dataDepartureID)
	depName, ok2 := h.stateManager.GetData(telegramID, dataDepartureName)
	arrID, ok3 := h.stateManager.GetData(telegramID, dataArrivalID)
	arrName, ok4 := h.stateManager.GetData(telegramID, dataArrivalName)
	date, ok5 := h.stateManager.GetData(telegramID, dataDate)
	timeStart, ok6 := h.stateManager.GetData(telegramID, dataTimeStart)
	timeEnd, ok7 := h.stateManager.GetData(telegramID, dataTimeEnd)
	if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6 && ok7) {
		return nil, false
	}

	return &model.SearchCriteria{
		DepartureStationID:   depID.(int64),
		DepartureStationName: depName.(string),
		ArrivalStationID:     arrID.(int64),
		ArrivalStationName:   arrName.(string),
		DepartureDate:        date.(string),
		TimeStart:            timeStart.(string),
		TimeEnd:              timeEnd.(string),
		CabinClassIDs:        h.selectedClasses(telegramID),
	}, true
}

func (h *Handlers) selectedClasses(telegramID int64) []int64 {
	raw, ok := h.stateManager.GetData(telegramID, dataClassIDs)
	if !ok {
		return nil
	}
	ids, _ := raw.([]int64)
	return ids
}

func (h *Handlers) toggleClass(telegramID, classID int64) []int64 {
	ids := h.selectedClasses(telegramID)
	for i, id := range ids {
		if id == classID {
			ids = append(ids[:i], ids[i+1:]...)
			h.stateManager.SetData(telegramID, dataClassIDs, ids)
			return ids
		}
	}
	ids = append(ids, classID)
	h.stateManager.SetData(telegramID, dataClassIDs, ids)
	return ids
}

// classKeyboard renders the cabin class multi-select.
func classKeyboard(selected []int64) *models.InlineKeyboardMarkup {
	isSelected := func(id int64) bool {
		for _, s := range selected {
			if s == id {
				return true
			}
		}
		return false
	}

	kb := keyboard.NewBuilder()
	for _, class := range catalog.CabinClasses() {
		label := class.Name
		if isSelected(class.ID) {
			label = "✅ " + label
		}
		kb.Row(keyboard.Button(label, fmt.Sprintf("%s%d", cbClassToggle, class.ID)))
	}
	kb.Row(keyboard.Button("➡️ Continue", cbClassesDone))
	return kb.Build()
}

func confirmKeyboard() *models.InlineKeyboardMarkup {
	return keyboard.NewBuilder().
		Row(keyboard.Button("▶️ Start search", cbConfirmStart)).
		Row(keyboard.Button("💾 Save & start", cbConfirmSave)).
		Row(keyboard.Button("❌ Cancel", cbConfirmAbort)).
		Build()
}

// formatCriteria renders a criteria summary for confirmation messages.
func formatCriteria(c *model.SearchCriteria) string {
	var classes []string
	for _, id := range c.CabinClassIDs {
		if class, ok := catalog.CabinClassByID(id); ok {
			classes = append(classes, class.Name)
		}
	}

	return fmt.Sprintf(
		"🚉 %s → %s\n📅 %s\n🕐 %s – %s\n💺 %s",
		c.DepartureStationName,
		c.ArrivalStationName,
		c.DepartureDate,
		c.TimeStart,
		c.TimeEnd,
		strings.Join(classes, ", "),
	)
}

// formatTrains renders the per-poll candidate list.
func formatTrains(trains []model.TrainCandidate) string {
	if len(trains) == 0 {
		return "No trains in your time window."
	}

	var sb strings.Builder
	for i := range trains {
		train := &trains[i]
		fmt.Fprintf(&sb, "🚆 %s  %s → %s\n", train.Name, train.DepartureTime, train.ArrivalTime)
		for _, cabin := range train.Cabins {
			marker := ""
			if cabin.IsSelected {
				marker = " ✅"
			}
			price := ""
			if cabin.Price != nil {
				price = fmt.Sprintf(" (₺%.2f)", *cabin.Price)
			}
			fmt.Fprintf(&sb, "   %s: %d%s%s\n", cabin.ClassName, cabin.AvailableSeat, price, marker)
		}
	}
	return sb.String()
}

func formatAllocation(a *model.Allocation) string {
	return fmt.Sprintf(
		"🎫 %s\n💺 Seat %s, %s (%s)\n⏳ Held for %d minutes",
		a.TrainName,
		a.SeatNumber,
		a.WagonLabel,
		a.CabinClassName,
		a.HoldDurationMinutes,
	)
}
