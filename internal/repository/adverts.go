package repository

import (
	"context"
	"database/sql"

	"station-dashboard/internal/common/database"
	apperrors "station-dashboard/internal/common/errors"
	"station-dashboard/internal/models"
)

type AdAnalyticsRepository struct {
	db *sql.DB
}

func NewAdAnalyticsRepository(db *sql.DB) *AdAnalyticsRepository {
	return &AdAnalyticsRepository{db: db}
}

// Insert records one event. An advert id that does not exist is a validation error.
func (r *AdAnalyticsRepository) Insert(ctx context.Context, ev models.AdInteraction) error {
	metadata := []byte(ev.Metadata)
	if len(metadata) == 0 || string(metadata) == "null" {
		metadata = []byte("{}")
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ad_analytics (advert_id, event_type, user_id, metadata)
		VALUES ($1, $2, $3, $4)`, ev.AdvertID, ev.EventType, ev.UserID, string(metadata))
	if err != nil {
		if database.IsPQCode(err, database.CodeForeignKeyViolation) {
			return apperrors.NewValidationError("Unknown advert")
		}
		return apperrors.NewStorageError("insert ad interaction", err)
	}
	return nil
}
