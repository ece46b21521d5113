package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Zerohidz/tcdd-alarm-bot/internal/model"
	"github.com/Zerohidz/tcdd-alarm-bot/internal/search"
	"github.com/Zerohidz/tcdd-alarm-bot/internal/tcdd"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionState is the lifecycle of one search session.
type SessionState string

const (
	StateIdle      SessionState = "idle"
	StateSearching SessionState = "searching"
	StateStopped   SessionState = "stopped"
)

// session is one chat's polling loop. All state transitions go through
// the owning service's mutex.
type session struct {
	id       string
	chatID   int64
	criteria *model.SearchCriteria
	notifier Notifier

	state          SessionState
	isFirstRequest bool
	stopChan       chan struct{}
	done           chan struct{}
}

// SearchService runs the polling state machine: one session per chat,
// ticking at a fixed interval, dropping ticks while a request is in
// flight, stopping itself the moment seats are found.
type SearchService struct {
	client      TicketingClient
	allocations *AllocationService
	interval    time.Duration
	logger      *zap.Logger

	mu       sync.Mutex
	sessions map[int64]*session
}

func NewSearchService(client TicketingClient, allocations *AllocationService, interval time.Duration, logger *zap.Logger) *SearchService {
	return &SearchService{
		client:      client,
		allocations: allocations,
		interval:    interval,
		sessions:    make(map[int64]*session),
		logger:      logger,
	}
}

// State returns the chat's current session state.
func (s *SearchService) State(chatID int64) SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[chatID]; ok {
		return sess.state
	}
	return StateIdle
}

// Criteria returns the criteria of the chat's session, or nil.
func (s *SearchService) Criteria(chatID int64) *model.SearchCriteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[chatID]; ok {
		return sess.criteria
	}
	return nil
}

// Start begins polling for the chat. A no-op when the chat is already
// searching. Any hold left over from a previous session is discarded
// locally before the first poll.
func (s *SearchService) Start(ctx context.Context, chatID int64, criteria *model.SearchCriteria, notifier Notifier) error {
	if err := criteria.Validate(time.Now()); err != nil {
		return fmt.Errorf("invalid search criteria: %w", err)
	}

	s.mu.Lock()
	if existing, ok := s.sessions[chatID]; ok && existing.state == StateSearching {
		s.mu.Unlock()
		return nil
	}

	sess := &session{
		id:             uuid.NewString(),
		chatID:         chatID,
		criteria:       criteria,
		notifier:       notifier,
		state:          StateSearching,
		isFirstRequest: true,
		stopChan:       make(chan struct{}),
		done:           make(chan struct{}),
	}
	s.sessions[chatID] = sess
	s.mu.Unlock()

	// Stale hold from a previous session: discard, never auto-release.
	// The notification lets the presentation side cancel its countdown so
	// no phantom expiry fires later.
	if s.allocations.Clear() {
		notifier.OnAllocationCleared()
	}

	s.logger.Info("Search session started",
		zap.String("session_id", sess.id),
		zap.Int64("chat_id", chatID),
		zap.String("route", criteria.DepartureStationName+" → "+criteria.ArrivalStationName),
		zap.String("date", criteria.DepartureDate),
		zap.String("window", criteria.TimeStart+"-"+criteria.TimeEnd))

	go s.run(ctx, sess)
	return nil
}

// Stop cancels the chat's polling loop. It returns true only when a
// running session was actually stopped, and only after the loop has
// confirmed that no further tick will fire. The held allocation, if
// any, is untouched.
func (s *SearchService) Stop(chatID int64) bool {
	s.mu.Lock()
	sess, ok := s.sessions[chatID]
	if !ok || sess.state != StateSearching {
		s.mu.Unlock()
		return false
	}
	sess.state = StateStopped
	close(sess.stopChan)
	s.mu.Unlock()

	<-sess.done

	s.logger.Info("Search session stopped",
		zap.String("session_id", sess.id),
		zap.Int64("chat_id", chatID))
	sess.notifier.OnStatusChange("Search stopped.", StatusInfo)
	return true
}

// StopAll stops every running session; used at shutdown.
func (s *SearchService) StopAll() {
	s.mu.Lock()
	var chatIDs []int64
	for chatID, sess := range s.sessions {
		if sess.state == StateSearching {
			chatIDs = append(chatIDs, chatID)
		}
	}
	s.mu.Unlock()

	for _, chatID := range chatIDs {
		s.Stop(chatID)
	}
}

// run executes the first poll immediately, then polls on the interval
// until found, stopped or cancelled. The ticker keeps its schedule even
// when a poll overruns the interval; the overlapping tick is the one
// that gets dropped.
func (s *SearchService) run(ctx context.Context, sess *session) {
	defer close(sess.done)

	if stop := s.poll(ctx, sess); stop {
		s.finish(sess)
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if stop := s.poll(ctx, sess); stop {
				s.finish(sess)
				return
			}
		case <-sess.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

// finish marks a session stopped from inside its own loop.
func (s *SearchService) finish(sess *session) {
	s.mu.Lock()
	if sess.state == StateSearching {
		sess.state = StateStopped
	}
	s.mu.Unlock()
}

// poll is one tick. The returned flag asks the loop to stop; errors
// never do, only a found-with-seats result or a validation failure.
func (s *SearchService) poll(ctx context.Context, sess *session) bool {
	if s.client.Busy() {
		s.logger.Debug("Tick dropped, request in flight", zap.String("session_id", sess.id))
		return false
	}

	// Midnight can turn a valid travel date into a past one.
	if err := sess.criteria.Validate(time.Now()); err != nil {
		sess.notifier.OnStatusChange("Search stopped: "+err.Error(), StatusError)
		return true
	}

	skipDelay := sess.isFirstRequest
	sess.isFirstRequest = false

	resp, err := s.client.CheckAvailability(ctx, sess.criteria, skipDelay)
	if errors.Is(err, tcdd.ErrBusy) {
		return false
	}
	if err != nil {
		s.logger.Warn("Availability request failed",
			zap.String("session_id", sess.id),
			zap.Error(err))
		sess.notifier.OnStatusChange("Availability check failed, will retry: "+err.Error(), StatusError)
		return false
	}

	result := search.Filter(resp, sess.criteria)
	sess.notifier.OnResultsUpdate(result.Trains)

	if !result.Found {
		sess.notifier.OnStatusChange("No seats in your window yet, still searching...", StatusInfo)
		return false
	}
	if result.TotalSelectedSeats <= 0 {
		// Seats evaporated between filter stages; keep polling.
		return false
	}

	sess.notifier.OnStatusChange(
		fmt.Sprintf("Seats found! %d seat(s) available in your classes.", result.TotalSelectedSeats),
		StatusSuccess)

	if s.allocations.Current() == nil {
		// First candidate in list order, no ranking.
		attempt := s.allocations.Allocate(ctx, &result.Trains[0], sess.criteria)
		if attempt.Success {
			sess.notifier.OnLog("Auto-hold: " + attempt.Message)
			sess.notifier.OnAllocationEstablished(attempt.Allocation)
		} else {
			sess.notifier.OnLog("Auto-hold failed: " + attempt.Message)
		}
	}

	return true
}
