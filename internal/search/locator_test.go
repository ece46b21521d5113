package search

import (
	"testing"

	"github.com/Zerohidz/tcdd-alarm-bot/internal/catalog"
	"github.com/Zerohidz/tcdd-alarm-bot/internal/model"
	"github.com/Zerohidz/tcdd-alarm-bot/internal/tcdd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func economyCriteria() *model.SearchCriteria {
	return &model.SearchCriteria{CabinClassIDs: []int64{catalog.CabinClassEconomy}}
}

func carWith(items ...tcdd.SeatMapItem) tcdd.SeatMap {
	return tcdd.SeatMap{
		TrainCarID:      7,
		TrainCarName:    "2. VAGON (YHT)",
		SeatMapTemplate: &tcdd.SeatMapTemplate{SeatMapItems: items},
	}
}

func TestLocateSeatPicksFirstFreeSeat(t *testing.T) {
	car := carWith(
		tcdd.SeatMapItem{ID: 1, SeatNumber: "1A", CabinClassID: catalog.CabinClassEconomy, Saleable: true},
		tcdd.SeatMapItem{ID: 2, SeatNumber: "1B", CabinClassID: catalog.CabinClassEconomy, Saleable: true},
	)

	seat := LocateSeat([]tcdd.SeatMap{car}, economyCriteria())

	require.NotNil(t, seat)
	assert.Equal(t, "1A", seat.SeatNumber)
	assert.Equal(t, int64(7), seat.TrainCarID)
	assert.Equal(t, "2. VAGON", seat.WagonLabel)
	assert.Equal(t, "EKONOMİ", seat.CabinClassName)
	assert.Equal(t, int64(1), seat.ItemID)
}

func TestLocateSeatSkipsOccupied(t *testing.T) {
	car := carWith(
		tcdd.SeatMapItem{ID: 1, SeatNumber: "5A", CabinClassID: catalog.CabinClassEconomy, Saleable: true},
	)
	car.AllocationSeats = []tcdd.AllocationSeat{{SeatNumber: "5A"}}

	seat := LocateSeat([]tcdd.SeatMap{car}, economyCriteria())
	assert.Nil(t, seat, "the only seat is taken")
}

func TestLocateSeatSkipsNonSaleableItems(t *testing.T) {
	car := carWith(
		tcdd.SeatMapItem{ID: 1, SeatNumber: "", CabinClassID: catalog.CabinClassEconomy, Saleable: false}, // WC placeholder
		tcdd.SeatMapItem{ID: 2, SeatNumber: "2C", CabinClassID: catalog.CabinClassEconomy, Saleable: false},
		tcdd.SeatMapItem{ID: 3, SeatNumber: "2D", CabinClassID: catalog.CabinClassEconomy, Saleable: true},
	)

	seat := LocateSeat([]tcdd.SeatMap{car}, economyCriteria())

	require.NotNil(t, seat)
	assert.Equal(t, "2D", seat.SeatNumber)
}

func TestLocateSeatSkipsUnselectedClasses(t *testing.T) {
	car := carWith(
		tcdd.SeatMapItem{ID: 1, SeatNumber: "1A", CabinClassID: catalog.CabinClassBusiness, Saleable: true},
	)

	seat := LocateSeat([]tcdd.SeatMap{car}, economyCriteria())
	assert.Nil(t, seat)
}

func TestLocateSeatSkipsUnnumberedItems(t *testing.T) {
	car := carWith(
		tcdd.SeatMapItem{ID: 1, SeatNumber: "", CabinClassID: catalog.CabinClassEconomy, Saleable: true},
	)

	seat := LocateSeat([]tcdd.SeatMap{car}, economyCriteria())
	assert.Nil(t, seat)
}

func TestLocateSeatKeepsServerOrderAcrossCars(t *testing.T) {
	full := carWith(
		tcdd.SeatMapItem{ID: 1, SeatNumber: "1A", CabinClassID: catalog.CabinClassEconomy, Saleable: true},
	)
	full.AllocationSeats = []tcdd.AllocationSeat{{SeatNumber: "1A"}}

	second := carWith(
		tcdd.SeatMapItem{ID: 9, SeatNumber: "3F", CabinClassID: catalog.CabinClassEconomy, Saleable: true},
	)
	second.TrainCarID = 8
	second.TrainCarName = "3.VAGON"

	seat := LocateSeat([]tcdd.SeatMap{full, second}, economyCriteria())

	require.NotNil(t, seat)
	assert.Equal(t, "3F", seat.SeatNumber)
	assert.Equal(t, int64(8), seat.TrainCarID)
	assert.Equal(t, "3. VAGON", seat.WagonLabel)
}

func TestLocateSeatHandlesMissingTemplate(t *testing.T) {
	car := tcdd.SeatMap{TrainCarID: 7, TrainCarName: "2. VAGON"}

	seat := LocateSeat([]tcdd.SeatMap{car}, economyCriteria())
	assert.Nil(t, seat)
}

func TestWagonLabel(t *testing.T) {
	tests := []struct {
		name     string
		carName  string
		expected string
	}{
		{"dotted with suffix", "2. VAGON (YHT)", "2. VAGON"},
		{"no space before dot", "3.VAGON", "3. VAGON"},
		{"lowercase", "4 vagon", "4. VAGON"},
		{"no wagon marker", "RESTORAN", UnknownWagonLabel},
		{"empty", "", UnknownWagonLabel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, wagonLabel(tt.carName))
		})
	}
}
