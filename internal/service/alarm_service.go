package service

import (
	"context"
	"fmt"

	"github.com/Zerohidz/tcdd-alarm-bot/internal/model"
	"github.com/Zerohidz/tcdd-alarm-bot/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AlarmService manages saved searches: criteria presets a user can
// re-arm without walking through the dialog again.
type AlarmService struct {
	savedRepo *repository.SavedSearchRepository
	logger    *zap.Logger
}

func NewAlarmService(savedRepo *repository.SavedSearchRepository, logger *zap.Logger) *AlarmService {
	return &AlarmService{
		savedRepo: savedRepo,
		logger:    logger,
	}
}

// Save stores the criteria as a preset for the user.
func (s *AlarmService) Save(ctx context.Context, userID int64, criteria model.SearchCriteria) (*model.SavedSearch, error) {
	saved := &model.SavedSearch{
		ID:       uuid.NewString(),
		UserID:   userID,
		Criteria: criteria,
	}

	if err := s.savedRepo.Create(ctx, saved); err != nil {
		return nil, fmt.Errorf("save search: %w", err)
	}

	s.logger.Info("Search saved",
		zap.String("saved_search_id", saved.ID),
		zap.Int64("user_id", userID))
	return saved, nil
}

// ListByUser returns the user's presets, newest first.
func (s *AlarmService) ListByUser(ctx context.Context, userID int64) ([]*model.SavedSearch, error) {
	return s.savedRepo.ListByUser(ctx, userID)
}

// Get returns one preset or nil when unknown.
func (s *AlarmService) Get(ctx context.Context, id string) (*model.SavedSearch, error) {
	return s.savedRepo.GetByID(ctx, id)
}

// Delete removes a preset owned by the user.
func (s *AlarmService) Delete(ctx context.Context, id string, userID int64) error {
	deleted, err := s.savedRepo.Delete(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("delete saved search: %w", err)
	}
	if !deleted {
		return fmt.Errorf("saved search not found")
	}

	s.logger.Info("Saved search deleted",
		zap.String("saved_search_id", id),
		zap.Int64("user_id", userID))
	return nil
}
