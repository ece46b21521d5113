package model

// SeatCandidate is one concrete seat picked by the locator for an
// allocation attempt.
type SeatCandidate struct {
	TrainCarID     int64  `json:"train_car_id"`
	SeatNumber     string `json:"seat_number"`
	WagonLabel     string `json:"wagon_label"`
	CabinClassName string `json:"cabin_class_name"`
	ItemID         int64  `json:"item_id"`
}
