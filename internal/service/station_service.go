package service

import (
	"github.com/Zerohidz/tcdd-alarm-bot/internal/catalog"
	"go.uber.org/zap"
)

// StationService answers station lookups for the criteria dialog. The
// underlying catalog is static and loaded once at startup.
type StationService struct {
	stations *catalog.Stations
	logger   *zap.Logger
}

func NewStationService(stations *catalog.Stations, logger *zap.Logger) *StationService {
	return &StationService{
		stations: stations,
		logger:   logger,
	}
}

// Resolve finds a station by exact name first, then falls back to a
// substring search. ok is false when the input matches nothing or is
// ambiguous; suggestions carry the near misses for the dialog to show.
func (s *StationService) Resolve(input string) (station catalog.Station, suggestions []catalog.Station, ok bool) {
	if st, found := s.stations.ByName(input); found {
		return st, nil, true
	}

	matches := s.stations.Search(input)
	if len(matches) == 1 {
		return matches[0], nil, true
	}

	s.logger.Debug("Station lookup ambiguous",
		zap.String("input", input),
		zap.Int("matches", len(matches)))
	return catalog.Station{}, matches, false
}

// ByID resolves a station id back to its catalog entry.
func (s *StationService) ByID(id int64) (catalog.Station, bool) {
	return s.stations.ByID(id)
}
