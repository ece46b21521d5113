package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Zerohidz/tcdd-alarm-bot/internal/model"
	"github.com/Zerohidz/tcdd-alarm-bot/internal/search"
	"github.com/Zerohidz/tcdd-alarm-bot/internal/tcdd"
	"go.uber.org/zap"
)

// DefaultHoldMinutes is assumed when the server confirms a hold without
// saying how long it lasts.
const DefaultHoldMinutes = 10

// AllocateResult is the structured outcome of one allocation attempt.
// Failures are results, not errors: the search loop reports the message
// and moves on.
type AllocateResult struct {
	Success    bool
	Message    string
	Allocation *model.Allocation
}

// ReleaseResult is the outcome of a release attempt that reached a
// definite state. Transport failures are returned as errors instead and
// leave the hold tracked.
type ReleaseResult struct {
	Success bool
	Message string
}

// AllocationService owns the single seat hold of the process: allocate,
// release, discard. The hold's lifetime is independent of the search
// loop that created it.
type AllocationService struct {
	client TicketingClient
	logger *zap.Logger

	mu      sync.Mutex
	current *model.Allocation
	pending bool // an allocate call is between claim and confirmation
}

func NewAllocationService(client TicketingClient, logger *zap.Logger) *AllocationService {
	return &AllocationService{
		client: client,
		logger: logger,
	}
}

// Current returns a copy of the held allocation, or nil.
func (s *AllocationService) Current() *model.Allocation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	copied := *s.current
	return &copied
}

// Allocate tries to hold one seat on the candidate train. It refuses
// without any network call when a hold already exists or another attempt
// is mid-flight: the claim is taken before the first suspension point so
// two attempts can never race into the slot.
func (s *AllocationService) Allocate(ctx context.Context, train *model.TrainCandidate, criteria *model.SearchCriteria) AllocateResult {
	s.mu.Lock()
	if s.current != nil {
		s.mu.Unlock()
		return AllocateResult{Message: "a seat is already being held"}
	}
	if s.pending {
		s.mu.Unlock()
		return AllocateResult{Message: "another allocation attempt is in progress"}
	}
	s.pending = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.pending = false
		s.mu.Unlock()
	}()

	seatMaps := s.client.CheckSeatMap(ctx, train.TrainID, criteria.DepartureStationID, criteria.ArrivalStationID)
	if seatMaps == nil {
		return AllocateResult{Message: "seat map unavailable"}
	}

	seat := search.LocateSeat(seatMaps.SeatMaps, criteria)
	if seat == nil {
		return AllocateResult{Message: "no seat available in selected classes"}
	}

	resp := s.client.AllocateSeat(ctx, tcdd.AllocateSeatRequest{
		TrainCarID:          seat.TrainCarID,
		FromStationID:       criteria.DepartureStationID,
		ToStationID:         criteria.ArrivalStationID,
		Gender:              "MALE",
		SeatNumber:          seat.SeatNumber,
		PassengerTypeID:     0,
		TotalPassengerCount: 1,
		FareFamilyID:        0,
	})
	if resp == nil || resp.AllocationID == 0 {
		return AllocateResult{Message: "allocation failed"}
	}

	hold := resp.LockFor
	if hold <= 0 {
		hold = DefaultHoldMinutes
	}

	allocation := &model.Allocation{
		TrainName:           train.Name,
		TrainID:             train.TrainID,
		SeatNumber:          seat.SeatNumber,
		TrainCarID:          seat.TrainCarID,
		WagonLabel:          seat.WagonLabel,
		CabinClassName:      seat.CabinClassName,
		AllocationID:        resp.AllocationID,
		HoldDurationMinutes: hold,
		AllocatedAt:         time.Now(),
	}

	s.mu.Lock()
	s.current = allocation
	s.mu.Unlock()

	s.logger.Info("Seat allocated",
		zap.String("train", allocation.TrainName),
		zap.String("seat", allocation.SeatNumber),
		zap.String("wagon", allocation.WagonLabel),
		zap.Int64("allocation_id", allocation.AllocationID),
		zap.Int("hold_minutes", hold))

	copied := *allocation
	return AllocateResult{
		Success:    true,
		Message:    fmt.Sprintf("holding seat %s, %s (%s) for %d minutes", allocation.SeatNumber, allocation.WagonLabel, allocation.CabinClassName, hold),
		Allocation: &copied,
	}
}

// Release gives the held seat back to the server. A transport failure
// is propagated and the hold stays tracked: telling the user the seat is
// free while the server still holds it would block re-allocation.
func (s *AllocationService) Release(ctx context.Context) (ReleaseResult, error) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return ReleaseResult{Message: "no allocation held"}, nil
	}
	held := *s.current
	s.mu.Unlock()

	resp, err := s.client.DeallocateSeat(ctx, tcdd.ReleaseSeatRequest{
		TrainCarID:   held.TrainCarID,
		AllocationID: held.AllocationID,
		SeatNumber:   held.SeatNumber,
	})
	if err != nil {
		return ReleaseResult{}, fmt.Errorf("release seat %s: %w", held.SeatNumber, err)
	}
	if !resp.Success {
		return ReleaseResult{}, fmt.Errorf("release seat %s: rejected by server", held.SeatNumber)
	}

	s.mu.Lock()
	if s.current != nil && s.current.AllocationID == held.AllocationID {
		s.current = nil
	}
	s.mu.Unlock()

	s.logger.Info("Seat released",
		zap.String("seat", held.SeatNumber),
		zap.Int64("allocation_id", held.AllocationID))

	return ReleaseResult{Success: true, Message: fmt.Sprintf("seat %s released", held.SeatNumber)}, nil
}

// Clear discards the tracked hold without contacting the server and
// reports whether there was one. Used when a new session starts or when
// the local countdown expired.
func (s *AllocationService) Clear() bool {
	s.mu.Lock()
	had := s.current != nil
	s.current = nil
	s.mu.Unlock()

	if had {
		s.logger.Info("Allocation discarded locally")
	}
	return had
}
