package tcdd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/Zerohidz/tcdd-alarm-bot/internal/model"
	"go.uber.org/zap"
)

const (
	endpointAvailability = "train-availability"
	endpointSeatMap      = "seat-maps-by-train-id"
	endpointSelectSeat   = "select-seat"
	endpointReleaseSeat  = "release-seat"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

// Config carries the fixed connection parameters of the ticketing API.
type Config struct {
	BaseURL         string
	AuthToken       string // sent as-is, no "Bearer " prefix
	UnitID          string
	MinRequestDelay time.Duration
	MaxRequestDelay time.Duration
}

// Client talks to the ticketing API. It allows at most one in-flight
// request at a time and paces availability requests with a randomized
// delay so the polling does not look like a scripted client.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger
	inFlight   atomic.Bool
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// Busy reports whether a request is currently in flight. The search loop
// uses this to drop a tick before doing any work.
func (c *Client) Busy() bool {
	return c.inFlight.Load()
}

// CheckAvailability runs an availability search for the criteria.
// Returns ErrBusy without touching the network when another request is
// in flight. Unless skipDelay is set, the call sleeps a random duration
// in [MinRequestDelay, MaxRequestDelay] before hitting the API.
func (c *Client) CheckAvailability(ctx context.Context, criteria *model.SearchCriteria, skipDelay bool) (*AvailabilityResponse, error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer c.inFlight.Store(false)

	if !skipDelay {
		if err := c.pacingDelay(ctx); err != nil {
			return nil, err
		}
	}

	apiDate, err := APIDate(criteria.DepartureDate)
	if err != nil {
		return nil, err
	}

	req := AvailabilityRequest{
		SearchRoutes: []SearchRoute{{
			DepartureStationID:   criteria.DepartureStationID,
			DepartureStationName: criteria.DepartureStationName,
			ArrivalStationID:     criteria.ArrivalStationID,
			ArrivalStationName:   criteria.ArrivalStationName,
			DepartureDate:        apiDate,
		}},
		PassengerTypeCounts: []PassengerTypeCount{{ID: 0, Count: 1}},
		SearchReservation:   false,
		SearchType:          "DOMESTIC",
		BlTrainTypes:        []string{"TURISTIK_TREN"},
	}

	var resp AvailabilityResponse
	if err := c.post(ctx, endpointAvailability, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CheckSeatMap fetches the seat maps for a train. Soft-fail contract:
// any error is logged and swallowed, callers treat nil as "seat map
// unavailable" and abort the current allocation attempt.
func (c *Client) CheckSeatMap(ctx context.Context, trainID, fromStationID, toStationID int64) *SeatMapResponse {
	if !c.inFlight.CompareAndSwap(false, true) {
		c.logger.Warn("Seat map request skipped, client busy", zap.Int64("train_id", trainID))
		return nil
	}
	defer c.inFlight.Store(false)

	req := SeatMapRequest{
		FromStationID: fromStationID,
		ToStationID:   toStationID,
		TrainID:       trainID,
		LegIndex:      0,
	}

	var resp SeatMapResponse
	if err := c.post(ctx, endpointSeatMap, req, &resp); err != nil {
		c.logger.Error("Seat map request failed", zap.Int64("train_id", trainID), zap.Error(err))
		return nil
	}
	return &resp
}

// AllocateSeat places a hold on one seat. Same soft-fail contract as
// CheckSeatMap.
func (c *Client) AllocateSeat(ctx context.Context, req AllocateSeatRequest) *AllocateSeatResponse {
	if !c.inFlight.CompareAndSwap(false, true) {
		c.logger.Warn("Allocate request skipped, client busy", zap.String("seat", req.SeatNumber))
		return nil
	}
	defer c.inFlight.Store(false)

	var resp AllocateSeatResponse
	if err := c.post(ctx, endpointSelectSeat, req, &resp); err != nil {
		c.logger.Error("Allocate request failed", zap.String("seat", req.SeatNumber), zap.Error(err))
		return nil
	}
	return &resp
}

// DeallocateSeat releases a held seat. Failures propagate: a hold that
// could not be released must stay tracked so the user can retry.
func (c *Client) DeallocateSeat(ctx context.Context, req ReleaseSeatRequest) (*ReleaseSeatResponse, error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer c.inFlight.Store(false)

	var resp ReleaseSeatResponse
	if err := c.post(ctx, endpointReleaseSeat, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// pacingDelay sleeps a uniformly random duration inside the configured
// bounds, honoring context cancellation.
func (c *Client) pacingDelay(ctx context.Context) error {
	delay := c.cfg.MinRequestDelay
	if span := c.cfg.MaxRequestDelay - c.cfg.MinRequestDelay; span > 0 {
		delay += time.Duration(rand.Int63n(int64(span)))
	}
	if delay <= 0 {
		return nil
	}

	c.logger.Debug("Pacing delay before request", zap.Duration("delay", delay))

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) post(ctx context.Context, endpoint string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", endpoint, err)
	}

	url := c.cfg.BaseURL + "/" + endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}

	req.Header.Set("Authorization", c.cfg.AuthToken)
	req.Header.Set("unit-id", c.cfg.UnitID)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}
