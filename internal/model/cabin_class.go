package model

// CabinClass is a static catalog entry. The catalog is loaded once at
// startup and never mutated.
type CabinClass struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}
