package model

import "time"

// Allocation is a seat hold confirmed by the server. At most one live
// Allocation exists per process; it outlives the search loop that
// created it and dies on release, expiry or a fresh session start.
type Allocation struct {
	TrainName           string    `json:"train_name"`
	TrainID             int64     `json:"train_id"`
	SeatNumber          string    `json:"seat_number"`
	TrainCarID          int64     `json:"train_car_id"`
	WagonLabel          string    `json:"wagon_label"`
	CabinClassName      string    `json:"cabin_class_name"`
	AllocationID        int64     `json:"allocation_id"`
	HoldDurationMinutes int       `json:"hold_duration_minutes"`
	AllocatedAt         time.Time `json:"allocated_at"`
}
