package search

import (
	"regexp"

	"github.com/Zerohidz/tcdd-alarm-bot/internal/catalog"
	"github.com/Zerohidz/tcdd-alarm-bot/internal/model"
	"github.com/Zerohidz/tcdd-alarm-bot/internal/tcdd"
)

// UnknownWagonLabel is used when a car description does not contain a
// recognizable wagon number.
const UnknownWagonLabel = "?"

var wagonPattern = regexp.MustCompile(`(?i)(\d+)\s*\.?\s*VAGON`)

// LocateSeat picks the first unoccupied, saleable seat in a selected
// cabin class. Ordering is exactly as the server delivered it: seat map
// array order, then template item order. Nil means no seat is available
// right now, which callers treat as a miss rather than an error.
func LocateSeat(seatMaps []tcdd.SeatMap, criteria *model.SearchCriteria) *model.SeatCandidate {
	for i := range seatMaps {
		car := &seatMaps[i]
		if car.SeatMapTemplate == nil {
			continue
		}

		occupied := make(map[string]struct{}, len(car.AllocationSeats))
		for _, alloc := range car.AllocationSeats {
			occupied[alloc.SeatNumber] = struct{}{}
		}

		for _, item := range car.SeatMapTemplate.SeatMapItems {
			if !item.Saleable {
				continue
			}
			if !criteria.IsClassSelected(item.CabinClassID) {
				continue
			}
			if item.SeatNumber == "" {
				continue
			}
			if _, taken := occupied[item.SeatNumber]; taken {
				continue
			}

			className := ""
			if class, ok := catalog.CabinClassByID(item.CabinClassID); ok {
				className = class.Name
			}

			return &model.SeatCandidate{
				TrainCarID:     car.TrainCarID,
				SeatNumber:     item.SeatNumber,
				WagonLabel:     wagonLabel(car.TrainCarName),
				CabinClassName: className,
				ItemID:         item.ID,
			}
		}
	}
	return nil
}

// wagonLabel extracts the wagon number from a free-text car description
// such as "2. VAGON (YHT)".
func wagonLabel(carName string) string {
	match := wagonPattern.FindStringSubmatch(carName)
	if match == nil {
		return UnknownWagonLabel
	}
	return match[1] + ". VAGON"
}
