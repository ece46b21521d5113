package model

import "time"

// SavedSearch is a reusable alarm preset owned by a user.
type SavedSearch struct {
	ID        string         `json:"id"` // uuid
	UserID    int64          `json:"user_id"`
	Criteria  SearchCriteria `json:"criteria"`
	CreatedAt time.Time      `json:"created_at"`
}
