package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
)

//go:embed data/stations.json
var stationsJSON []byte

// Station is one entry of the static station catalog.
type Station struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Stations holds the loaded station catalog and supports id and name
// lookups. Load it once at startup and share it read-only.
type Stations struct {
	all    []Station
	byID   map[int64]Station
	byName map[string]Station
}

// LoadStations decodes the embedded station list.
func LoadStations() (*Stations, error) {
	var all []Station
	if err := json.Unmarshal(stationsJSON, &all); err != nil {
		return nil, fmt.Errorf("decode station catalog: %w", err)
	}

	s := &Stations{
		all:    all,
		byID:   make(map[int64]Station, len(all)),
		byName: make(map[string]Station, len(all)),
	}
	for _, st := range all {
		s.byID[st.ID] = st
		s.byName[normalizeStationName(st.Name)] = st
	}
	return s, nil
}

// All returns every station in catalog order.
func (s *Stations) All() []Station {
	out := make([]Station, len(s.all))
	copy(out, s.all)
	return out
}

// ByID resolves a station by its API id.
func (s *Stations) ByID(id int64) (Station, bool) {
	st, ok := s.byID[id]
	return st, ok
}

// ByName resolves a station by exact (normalized) name.
func (s *Stations) ByName(name string) (Station, bool) {
	st, ok := s.byName[normalizeStationName(name)]
	return st, ok
}

// Search returns stations whose normalized name contains the query.
func (s *Stations) Search(query string) []Station {
	q := normalizeStationName(query)
	if q == "" {
		return nil
	}
	var out []Station
	for _, st := range s.all {
		if strings.Contains(normalizeStationName(st.Name), q) {
			out = append(out, st)
		}
	}
	return out
}

// normalizeStationName lowercases with Turkish casing rules so that
// "ANKARA GAR", "Ankara Gar" and "ankara gar" all match, and İ/I map to
// their dotted/dotless lowercase forms.
func normalizeStationName(name string) string {
	return strings.TrimSpace(strings.ToLowerSpecial(unicode.TurkishCase, name))
}
