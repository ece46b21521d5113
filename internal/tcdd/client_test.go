package tcdd

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Zerohidz/tcdd-alarm-bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testCriteria() *model.SearchCriteria {
	return &model.SearchCriteria{
		DepartureStationID:   103,
		DepartureStationName: "KONYA",
		ArrivalStationID:     98,
		ArrivalStationName:   "ANKARA GAR",
		DepartureDate:        "2025-03-05",
		TimeStart:            "08:00",
		TimeEnd:              "12:00",
		CabinClassIDs:        []int64{1},
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(Config{
		BaseURL:   server.URL,
		AuthToken: "test-token",
		UnitID:    "3895",
	}, zap.NewNop())
	return client, server
}

func TestCheckAvailabilityRequestShape(t *testing.T) {
	var gotAuth, gotUnit string
	var gotBody AvailabilityRequest

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotUnit = r.Header.Get("unit-id")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(AvailabilityResponse{})
	})

	_, err := client.CheckAvailability(context.Background(), testCriteria(), true)
	require.NoError(t, err)

	assert.Equal(t, "test-token", gotAuth, "token is sent without a Bearer prefix")
	assert.Equal(t, "3895", gotUnit)

	require.Len(t, gotBody.SearchRoutes, 1)
	route := gotBody.SearchRoutes[0]
	assert.Equal(t, int64(103), route.DepartureStationID)
	assert.Equal(t, int64(98), route.ArrivalStationID)
	assert.Equal(t, "05-03-2025 00:00:00", route.DepartureDate)
	assert.Equal(t, "DOMESTIC", gotBody.SearchType)
	assert.Equal(t, []PassengerTypeCount{{ID: 0, Count: 1}}, gotBody.PassengerTypeCounts)
	assert.Equal(t, []string{"TURISTIK_TREN"}, gotBody.BlTrainTypes)
	assert.False(t, gotBody.SearchReservation)
}

func TestCheckAvailabilityBusySentinel(t *testing.T) {
	requests := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		json.NewEncoder(w).Encode(AvailabilityResponse{})
	})

	client.inFlight.Store(true)

	_, err := client.CheckAvailability(context.Background(), testCriteria(), true)
	assert.ErrorIs(t, err, ErrBusy)
	assert.Equal(t, 0, requests, "busy call must not reach the network")
}

func TestCheckAvailabilityTransportError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := client.CheckAvailability(context.Background(), testCriteria(), true)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, http.StatusForbidden, transportErr.StatusCode)

	assert.False(t, client.Busy(), "in-flight flag must be cleared after a failure")
}

func TestCheckAvailabilityPacingDelayCancellation(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(AvailabilityResponse{})
	})
	client.cfg.MinRequestDelay = time.Hour
	client.cfg.MaxRequestDelay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.CheckAvailability(ctx, testCriteria(), false)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, client.Busy())
}

func TestCheckSeatMapSoftFail(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	resp := client.CheckSeatMap(context.Background(), 42, 103, 98)
	assert.Nil(t, resp, "seat map failures are swallowed, not propagated")
	assert.False(t, client.Busy())
}

func TestCheckSeatMapSuccess(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req SeatMapRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(42), req.TrainID)
		assert.Equal(t, 0, req.LegIndex)

		json.NewEncoder(w).Encode(SeatMapResponse{
			SeatMaps: []SeatMap{{TrainCarID: 7, TrainCarName: "2. VAGON"}},
		})
	})

	resp := client.CheckSeatMap(context.Background(), 42, 103, 98)
	require.NotNil(t, resp)
	require.Len(t, resp.SeatMaps, 1)
	assert.Equal(t, int64(7), resp.SeatMaps[0].TrainCarID)
}

func TestAllocateSeatSoftFail(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})

	resp := client.AllocateSeat(context.Background(), AllocateSeatRequest{SeatNumber: "5A"})
	assert.Nil(t, resp)
	assert.False(t, client.Busy())
}

func TestDeallocateSeatPropagatesFailure(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.DeallocateSeat(context.Background(), ReleaseSeatRequest{
		TrainCarID:   7,
		AllocationID: 1234,
		SeatNumber:   "5A",
	})

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, http.StatusBadGateway, transportErr.StatusCode)
	assert.False(t, client.Busy())
}

func TestDeallocateSeatSuccess(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req ReleaseSeatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(1234), req.AllocationID)

		json.NewEncoder(w).Encode(ReleaseSeatResponse{Success: true})
	})

	resp, err := client.DeallocateSeat(context.Background(), ReleaseSeatRequest{
		TrainCarID:   7,
		AllocationID: 1234,
		SeatNumber:   "5A",
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
}

func TestResolvedPriceOrder(t *testing.T) {
	parsed := 100.0
	raw := 200.0
	booking := 300.0

	all := &CabinClassAvailability{
		ParsedMinPrice:             &parsed,
		MinPrice:                   &raw,
		BookingClassAvailabilities: []BookingClassAvailability{{Price: &booking}},
	}
	assert.Equal(t, &parsed, all.ResolvedPrice())

	noParsed := &CabinClassAvailability{
		MinPrice:                   &raw,
		BookingClassAvailabilities: []BookingClassAvailability{{Price: &booking}},
	}
	assert.Equal(t, &raw, noParsed.ResolvedPrice())

	bookingOnly := &CabinClassAvailability{
		BookingClassAvailabilities: []BookingClassAvailability{{Price: &booking}},
	}
	assert.Equal(t, &booking, bookingOnly.ResolvedPrice())

	empty := &CabinClassAvailability{}
	assert.Nil(t, empty.ResolvedPrice())
}
