package repository

import (
	"context"
	"fmt"

	"github.com/Zerohidz/tcdd-alarm-bot/internal/model"
	"github.com/Zerohidz/tcdd-alarm-bot/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SavedSearchRepository struct {
	*base.Repository
}

func NewSavedSearchRepository(pool *pgxpool.Pool) *SavedSearchRepository {
	return &SavedSearchRepository{Repository: base.NewRepository(pool)}
}

// Create stores a saved search preset.
func (r *SavedSearchRepository) Create(ctx context.Context, saved *model.SavedSearch) error {
	query := `
		INSERT INTO saved_searches (
			id, user_id,
			departure_station_id, departure_station_name,
			arrival_station_id, arrival_station_name,
			departure_date, time_start, time_end, cabin_class_ids
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`

	err := r.QueryRow(
		ctx, query,
		saved.ID,
		saved.UserID,
		saved.Criteria.DepartureStationID,
		saved.Criteria.DepartureStationName,
		saved.Criteria.ArrivalStationID,
		saved.Criteria.ArrivalStationName,
		saved.Criteria.DepartureDate,
		saved.Criteria.TimeStart,
		saved.Criteria.TimeEnd,
		saved.Criteria.CabinClassIDs,
	).Scan(&saved.CreatedAt)

	if err != nil {
		return fmt.Errorf("create saved search: %w", err)
	}

	return nil
}

// GetByID returns one preset or nil when unknown.
func (r *SavedSearchRepository) GetByID(ctx context.Context, id string) (*model.SavedSearch, error) {
	query := `
		SELECT id, user_id,
			departure_station_id, departure_station_name,
			arrival_station_id, arrival_station_name,
			departure_date, time_start, time_end, cabin_class_ids, created_at
		FROM saved_searches
		WHERE id = $1
	`

	var saved model.SavedSearch
	err := r.QueryRow(ctx, query, id).Scan(
		&saved.ID,
		&saved.UserID,
		&saved.Criteria.DepartureStationID,
		&saved.Criteria.DepartureStationName,
		&saved.Criteria.ArrivalStationID,
		&saved.Criteria.ArrivalStationName,
		&saved.Criteria.DepartureDate,
		&saved.Criteria.TimeStart,
		&saved.Criteria.TimeEnd,
		&saved.Criteria.CabinClassIDs,
		&saved.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get saved search: %w", err)
	}

	return &saved, nil
}

// ListByUser returns the user's presets, newest first.
func (r *SavedSearchRepository) ListByUser(ctx context.Context, userID int64) ([]*model.SavedSearch, error) {
	query := `
		SELECT id, user_id,
			departure_station_id, departure_station_name,
			arrival_station_id, arrival_station_name,
			departure_date, time_start, time_end, cabin_class_ids, created_at
		FROM saved_searches
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list saved searches: %w", err)
	}
	defer rows.Close()

	var result []*model.SavedSearch
	for rows.Next() {
		var saved model.SavedSearch
		err := rows.Scan(
			&saved.ID,
			&saved.UserID,
			&saved.Criteria.DepartureStationID,
			&saved.Criteria.DepartureStationName,
			&saved.Criteria.ArrivalStationID,
			&saved.Criteria.ArrivalStationName,
			&saved.Criteria.DepartureDate,
			&saved.Criteria.TimeStart,
			&saved.Criteria.TimeEnd,
			&saved.Criteria.CabinClassIDs,
			&saved.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan saved search: %w", err)
		}
		result = append(result, &saved)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate saved searches: %w", err)
	}

	return result, nil
}

// Delete removes a preset owned by the user; false when nothing matched.
func (r *SavedSearchRepository) Delete(ctx context.Context, id string, userID int64) (bool, error) {
	affected, err := r.ExecAffected(ctx, `DELETE FROM saved_searches WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete saved search: %w", err)
	}
	return affected > 0, nil
}
