package service

import (
	"context"

	"github.com/Zerohidz/tcdd-alarm-bot/internal/model"
	"github.com/Zerohidz/tcdd-alarm-bot/internal/tcdd"
)

// Status categories passed to Notifier.OnStatusChange.
const (
	StatusInfo    = "info"
	StatusSuccess = "success"
	StatusWarning = "warning"
	StatusError   = "error"
)

// Notifier is the surface the core pushes events through. The Telegram
// controller implements it; the core never knows what is on the other
// side.
type Notifier interface {
	OnStatusChange(message, category string)
	OnLog(message string)
	OnResultsUpdate(trains []model.TrainCandidate)
	OnAllocationEstablished(allocation *model.Allocation)
	OnAllocationCleared()
}

// TicketingClient is the slice of the TCDD client the services depend
// on. Tests substitute fakes for it.
type TicketingClient interface {
	Busy() bool
	CheckAvailability(ctx context.Context, criteria *model.SearchCriteria, skipDelay bool) (*tcdd.AvailabilityResponse, error)
	CheckSeatMap(ctx context.Context, trainID, fromStationID, toStationID int64) *tcdd.SeatMapResponse
	AllocateSeat(ctx context.Context, req tcdd.AllocateSeatRequest) *tcdd.AllocateSeatResponse
	DeallocateSeat(ctx context.Context, req tcdd.ReleaseSeatRequest) (*tcdd.ReleaseSeatResponse, error)
}
