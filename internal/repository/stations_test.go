package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "station-dashboard/internal/common/errors"
)

func TestStationRepository_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cols := []string{"id", "name", "address", "city", "state", "price_pms", "price_ago", "price_dpk", "is_active", "updated_at"}
	mock.ExpectQuery("FROM stations WHERE id = \\$1").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(7, "Mobil Ikeja", "1 Allen Ave", "Ikeja", "Lagos", 617.5, nil, 1200.0, true, nil))
	mock.ExpectQuery("FROM stations WHERE id = \\$1").WithArgs(int64(8)).WillReturnError(sql.ErrNoRows)

	repo := NewStationRepository(db)

	s, err := repo.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Mobil Ikeja", s.Name)
	assert.Equal(t, 617.5, *s.PricePMS)
	assert.Nil(t, s.PriceAGO)
	assert.True(t, s.IsActive)

	_, err = repo.Get(context.Background(), 8)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
