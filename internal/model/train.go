package model

// CabinAvailability is one cabin class entry on a candidate train.
// IsSelected is derived from the user's criteria, not server data.
type CabinAvailability struct {
	ClassID       int64    `json:"class_id"`
	ClassCode     string   `json:"class_code"`
	ClassName     string   `json:"class_name"`
	AvailableSeat int      `json:"available_seat"`
	Price         *float64 `json:"price,omitempty"`
	IsSelected    bool     `json:"is_selected"`
}

// TrainCandidate is a train that survived the time-window filter for one
// poll cycle. Candidates are rebuilt from scratch on every poll.
type TrainCandidate struct {
	TrainID       int64               `json:"train_id"`
	Name          string              `json:"name"`
	DepartureTime string              `json:"departure_time"` // HH:MM
	ArrivalTime   string              `json:"arrival_time"`   // HH:MM
	Cabins        []CabinAvailability `json:"cabins"`
}

// SelectedSeatCount sums availability over the selected cabin classes.
func (t *TrainCandidate) SelectedSeatCount() int {
	total := 0
	for _, cabin := range t.Cabins {
		if cabin.IsSelected {
			total += cabin.AvailableSeat
		}
	}
	return total
}
