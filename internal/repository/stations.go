package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	apperrors "station-dashboard/internal/common/errors"
	"station-dashboard/internal/models"
)

type StationRepository struct {
	db *sql.DB
}

func NewStationRepository(db *sql.DB) *StationRepository {
	return &StationRepository{db: db}
}

func (r *StationRepository) Get(ctx context.Context, id int64) (*models.Station, error) {
	var s models.Station
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, address, city, state, price_pms, price_ago, price_dpk, COALESCE(is_active, true), updated_at
		FROM stations WHERE id = $1`, id).
		Scan(&s.ID, &s.Name, &s.Address, &s.City, &s.State, &s.PricePMS, &s.PriceAGO, &s.PriceDPK, &s.IsActive, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("station", strconv.FormatInt(id, 10))
		}
		return nil, apperrors.NewStorageError("get station", err)
	}
	return &s, nil
}
