package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Zerohidz/tcdd-alarm-bot/internal/catalog"
	"github.com/Zerohidz/tcdd-alarm-bot/internal/model"
	"github.com/Zerohidz/tcdd-alarm-bot/internal/tcdd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func (f *fakeClient) availCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.availabilityCalls
}

func (f *fakeClient) skippedDelayOnLastCall() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastSkipDelay
}

// fakeNotifier records every event the core pushes out.
type fakeNotifier struct {
	mu          sync.Mutex
	statuses    []string
	categories  []string
	logs        []string
	results     [][]model.TrainCandidate
	established []*model.Allocation
	cleared     int
}

func (n *fakeNotifier) OnStatusChange(message, category string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.statuses = append(n.statuses, message)
	n.categories = append(n.categories, category)
}

func (n *fakeNotifier) OnLog(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.logs = append(n.logs, message)
}

func (n *fakeNotifier) OnResultsUpdate(trains []model.TrainCandidate) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.results = append(n.results, trains)
}

func (n *fakeNotifier) OnAllocationEstablished(allocation *model.Allocation) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.established = append(n.established, allocation)
}

func (n *fakeNotifier) OnAllocationCleared() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cleared++
}

func (n *fakeNotifier) sawCategory(category string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, c := range n.categories {
		if c == category {
			return true
		}
	}
	return false
}

func (n *fakeNotifier) establishedCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.established)
}

func (n *fakeNotifier) clearedCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.cleared
}

var trt = func() *time.Location {
	loc, err := time.LoadLocation("Europe/Istanbul")
	if err != nil {
		return time.FixedZone("TRT", 3*60*60)
	}
	return loc
}()

func foundAvailability(seats int) *tcdd.AvailabilityResponse {
	dep := time.Date(2026, 9, 14, 9, 15, 0, 0, trt)
	return &tcdd.AvailabilityResponse{
		TrainLegs: []tcdd.TrainLeg{{
			TrainAvailabilities: []tcdd.TrainAvailability{{
				Trains: []tcdd.Train{{
					ID:   42,
					Name: "KONYA YHT",
					Segments: []tcdd.TrainSegment{{
						DepartureTime: dep.UnixMilli(),
						ArrivalTime:   dep.Add(2 * time.Hour).UnixMilli(),
					}},
					CabinClassAvailabilities: []tcdd.CabinClassAvailability{{
						CabinClass:        &tcdd.CabinClassRef{ID: catalog.CabinClassEconomy},
						AvailabilityCount: seats,
					}},
				}},
			}},
		}},
	}
}

func newSearchService(client *fakeClient, interval time.Duration) (*SearchService, *AllocationService) {
	allocations := NewAllocationService(client, zap.NewNop())
	return NewSearchService(client, allocations, interval, zap.NewNop()), allocations
}

func TestStartRejectsInvalidCriteria(t *testing.T) {
	client := &fakeClient{}
	svc, _ := newSearchService(client, 10*time.Millisecond)

	criteria := allocCriteria()
	criteria.DepartureDate = "2020-01-01"

	err := svc.Start(context.Background(), 1, criteria, &fakeNotifier{})

	require.Error(t, err)
	assert.Equal(t, StateIdle, svc.State(1))
	assert.Equal(t, 0, client.availCalls())
}

func TestSearchStopsAndAllocatesWhenFound(t *testing.T) {
	client := &fakeClient{
		availability: foundAvailability(3),
		seatMaps:     freeSeatMaps(),
		allocateResp: &tcdd.AllocateSeatResponse{AllocationID: 9001, LockFor: 10},
	}
	svc, allocations := newSearchService(client, 10*time.Millisecond)
	notifier := &fakeNotifier{}

	require.NoError(t, svc.Start(context.Background(), 1, allocCriteria(), notifier))

	require.Eventually(t, func() bool {
		return svc.State(1) == StateStopped
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, 1, client.availCalls(), "the loop must stop after the hit")
	assert.True(t, client.skippedDelayOnLastCall(), "the first poll skips the pacing delay")
	assert.True(t, notifier.sawCategory(StatusSuccess))
	assert.Equal(t, 1, notifier.establishedCount())

	held := allocations.Current()
	require.NotNil(t, held)
	assert.Equal(t, int64(9001), held.AllocationID)
}

func TestStartDiscardsStaleHold(t *testing.T) {
	client := &fakeClient{
		seatMaps:     freeSeatMaps(),
		allocateResp: &tcdd.AllocateSeatResponse{AllocationID: 7001},
	}
	svc, allocations := newSearchService(client, 10*time.Millisecond)

	// A hold left over from a previous session.
	require.True(t, allocations.Allocate(context.Background(), allocCandidate(), allocCriteria()).Success)

	notifier := &fakeNotifier{}
	require.NoError(t, svc.Start(context.Background(), 1, allocCriteria(), notifier))

	assert.Nil(t, allocations.Current(), "a new session discards the previous hold")
	assert.Equal(t, 1, notifier.clearedCount(), "the discard must reach the notifier so any countdown stops")

	require.True(t, svc.Stop(1))
}

func TestStartWithoutStaleHoldStaysQuiet(t *testing.T) {
	client := &fakeClient{availability: foundAvailability(0)}
	svc, _ := newSearchService(client, 10*time.Millisecond)

	notifier := &fakeNotifier{}
	require.NoError(t, svc.Start(context.Background(), 1, allocCriteria(), notifier))

	assert.Equal(t, 0, notifier.clearedCount())
	require.True(t, svc.Stop(1))
}

func TestSearchKeepsPollingWhenNotFound(t *testing.T) {
	client := &fakeClient{availability: foundAvailability(0)}
	svc, _ := newSearchService(client, 10*time.Millisecond)
	notifier := &fakeNotifier{}

	require.NoError(t, svc.Start(context.Background(), 1, allocCriteria(), notifier))

	require.Eventually(t, func() bool {
		return client.availCalls() >= 3
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, StateSearching, svc.State(1))

	assert.True(t, svc.Stop(1))
	assert.False(t, svc.Stop(1), "a stopped session cannot be stopped twice")
	assert.Equal(t, StateStopped, svc.State(1))
}

func TestSearchSurvivesTransportErrors(t *testing.T) {
	client := &fakeClient{
		availabilityErr: &tcdd.TransportError{Endpoint: "train-availability", StatusCode: 502},
	}
	svc, _ := newSearchService(client, 10*time.Millisecond)
	notifier := &fakeNotifier{}

	require.NoError(t, svc.Start(context.Background(), 1, allocCriteria(), notifier))

	require.Eventually(t, func() bool {
		return client.availCalls() >= 2 && notifier.sawCategory(StatusError)
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, StateSearching, svc.State(1))
	require.True(t, svc.Stop(1))
}

func TestSearchBusySentinelIsSilent(t *testing.T) {
	client := &fakeClient{availabilityErr: tcdd.ErrBusy}
	svc, _ := newSearchService(client, 10*time.Millisecond)
	notifier := &fakeNotifier{}

	require.NoError(t, svc.Start(context.Background(), 1, allocCriteria(), notifier))

	require.Eventually(t, func() bool {
		return client.availCalls() >= 2
	}, time.Second, 5*time.Millisecond)

	assert.False(t, notifier.sawCategory(StatusError), "a busy collision is not an error")
	require.True(t, svc.Stop(1))
}

func TestSearchDropsTicksWhileClientBusy(t *testing.T) {
	client := &fakeClient{busy: true}
	svc, _ := newSearchService(client, 10*time.Millisecond)

	require.NoError(t, svc.Start(context.Background(), 1, allocCriteria(), &fakeNotifier{}))

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 0, client.availCalls(), "busy ticks never reach the client")
	assert.Equal(t, StateSearching, svc.State(1))

	require.True(t, svc.Stop(1))
}

func TestStartIsNoOpWhileSearching(t *testing.T) {
	client := &fakeClient{availability: foundAvailability(0)}
	svc, _ := newSearchService(client, 10*time.Millisecond)

	require.NoError(t, svc.Start(context.Background(), 1, allocCriteria(), &fakeNotifier{}))
	require.NoError(t, svc.Start(context.Background(), 1, allocCriteria(), &fakeNotifier{}))

	assert.True(t, svc.Stop(1))
	assert.False(t, svc.Stop(1), "the second Start must not have created a second session")
}

func TestSessionsAreIndependentPerChat(t *testing.T) {
	client := &fakeClient{availability: foundAvailability(0)}
	svc, _ := newSearchService(client, 10*time.Millisecond)

	require.NoError(t, svc.Start(context.Background(), 1, allocCriteria(), &fakeNotifier{}))
	require.NoError(t, svc.Start(context.Background(), 2, allocCriteria(), &fakeNotifier{}))

	assert.Equal(t, StateSearching, svc.State(1))
	assert.Equal(t, StateSearching, svc.State(2))

	require.True(t, svc.Stop(1))
	assert.Equal(t, StateStopped, svc.State(1))
	assert.Equal(t, StateSearching, svc.State(2))

	svc.StopAll()
	assert.Equal(t, StateStopped, svc.State(2))
}

func TestStopWithoutSession(t *testing.T) {
	svc, _ := newSearchService(&fakeClient{}, 10*time.Millisecond)
	assert.False(t, svc.Stop(99))
	assert.Equal(t, StateIdle, svc.State(99))
}

func TestCriteriaExposedWhileSearching(t *testing.T) {
	client := &fakeClient{availability: foundAvailability(0)}
	svc, _ := newSearchService(client, 10*time.Millisecond)

	criteria := allocCriteria()
	require.NoError(t, svc.Start(context.Background(), 1, criteria, &fakeNotifier{}))

	got := svc.Criteria(1)
	require.NotNil(t, got)
	assert.Equal(t, criteria.DepartureStationName, got.DepartureStationName)
	assert.Nil(t, svc.Criteria(2))

	require.True(t, svc.Stop(1))
}
