package search

import (
	"github.com/Zerohidz/tcdd-alarm-bot/internal/catalog"
	"github.com/Zerohidz/tcdd-alarm-bot/internal/model"
	"github.com/Zerohidz/tcdd-alarm-bot/internal/tcdd"
)

// FilterResult is the outcome of filtering one availability response.
// Found flips true only when a selected class on some train actually has
// seats; sold-out trains in selected classes still appear in Trains so
// the user sees what exists in their window.
type FilterResult struct {
	Found              bool
	Trains             []model.TrainCandidate
	TotalSelectedSeats int
}

// Filter reduces a raw availability response to the candidate trains
// matching the criteria's time window and cabin classes. The response
// may omit whole branches; any missing level yields no candidates.
func Filter(resp *tcdd.AvailabilityResponse, criteria *model.SearchCriteria) FilterResult {
	var result FilterResult
	if resp == nil {
		return result
	}

	for _, leg := range resp.TrainLegs {
		for _, avail := range leg.TrainAvailabilities {
			for i := range avail.Trains {
				train := &avail.Trains[i]
				candidate, ok := buildCandidate(train, criteria)
				if !ok {
					continue
				}

				result.Trains = append(result.Trains, candidate)
				selected := candidate.SelectedSeatCount()
				result.TotalSelectedSeats += selected
				if selected > 0 {
					result.Found = true
				}
			}
		}
	}

	return result
}

func buildCandidate(train *tcdd.Train, criteria *model.SearchCriteria) (model.TrainCandidate, bool) {
	if len(train.Segments) == 0 {
		return model.TrainCandidate{}, false
	}

	departure := tcdd.ClockTime(train.Segments[0].DepartureTime)
	if departure < criteria.TimeStart || departure > criteria.TimeEnd {
		return model.TrainCandidate{}, false
	}
	arrival := tcdd.ClockTime(train.Segments[len(train.Segments)-1].ArrivalTime)

	var cabins []model.CabinAvailability
	hasSelected := false
	for i := range train.CabinClassAvailabilities {
		entry := &train.CabinClassAvailabilities[i]
		if entry.CabinClass == nil {
			continue
		}
		class, ok := catalog.CabinClassByID(entry.CabinClass.ID)
		if !ok {
			// Unknown class id: drop silently, newer classes must not
			// break older clients.
			continue
		}

		cabin := model.CabinAvailability{
			ClassID:       class.ID,
			ClassCode:     class.Code,
			ClassName:     class.Name,
			AvailableSeat: entry.AvailabilityCount,
			Price:         entry.ResolvedPrice(),
			IsSelected:    criteria.IsClassSelected(class.ID),
		}
		if cabin.IsSelected {
			hasSelected = true
		}
		cabins = append(cabins, cabin)
	}

	if !hasSelected {
		return model.TrainCandidate{}, false
	}

	name := train.CommercialName
	if name == "" {
		name = train.Name
	}

	return model.TrainCandidate{
		TrainID:       train.ID,
		Name:          name,
		DepartureTime: departure,
		ArrivalTime:   arrival,
		Cabins:        cabins,
	}, true
}
