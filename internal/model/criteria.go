package model

import (
	"fmt"
	"time"
)

// SearchCriteria describes one seat alarm: route, travel date, departure
// time window and the cabin classes the user cares about. It is immutable
// for the lifetime of a search session.
type SearchCriteria struct {
	DepartureStationID   int64   `json:"departure_station_id"`
	DepartureStationName string  `json:"departure_station_name"`
	ArrivalStationID     int64   `json:"arrival_station_id"`
	ArrivalStationName   string  `json:"arrival_station_name"`
	DepartureDate        string  `json:"departure_date"` // YYYY-MM-DD
	TimeStart            string  `json:"time_start"`     // HH:MM, inclusive
	TimeEnd              string  `json:"time_end"`       // HH:MM, inclusive
	CabinClassIDs        []int64 `json:"cabin_class_ids"`
}

// Validate rejects criteria that can never produce a bookable result.
// Called before a session starts and again on every tick, since midnight
// can turn a valid travel date into a past one.
func (c *SearchCriteria) Validate(now time.Time) error {
	if c.DepartureStationID == 0 || c.ArrivalStationID == 0 {
		return fmt.Errorf("both departure and arrival stations are required")
	}
	if c.DepartureStationID == c.ArrivalStationID {
		return fmt.Errorf("departure and arrival stations must differ")
	}

	date, err := time.ParseInLocation("2006-01-02", c.DepartureDate, now.Location())
	if err != nil {
		return fmt.Errorf("invalid departure date %q: expected YYYY-MM-DD", c.DepartureDate)
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if date.Before(today) {
		return fmt.Errorf("departure date %s is in the past", c.DepartureDate)
	}

	if !validClockTime(c.TimeStart) || !validClockTime(c.TimeEnd) {
		return fmt.Errorf("time window must use HH:MM format")
	}
	if c.TimeStart > c.TimeEnd {
		return fmt.Errorf("time window start %s is after end %s", c.TimeStart, c.TimeEnd)
	}

	if len(c.CabinClassIDs) == 0 {
		return fmt.Errorf("at least one cabin class must be selected")
	}

	return nil
}

// IsClassSelected reports whether the given cabin class id is part of the
// criteria.
func (c *SearchCriteria) IsClassSelected(classID int64) bool {
	for _, id := range c.CabinClassIDs {
		if id == classID {
			return true
		}
	}
	return false
}

func validClockTime(s string) bool {
	if _, err := time.Parse("15:04", s); err != nil {
		return false
	}
	return true
}
