package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "station-dashboard/internal/common/errors"
)

func TestSettingsRepository_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT key, value, updated_at FROM app_settings WHERE key = \\$1").
		WithArgs("global_ads_enabled").
		WillReturnRows(sqlmock.NewRows([]string{"key", "value", "updated_at"}).AddRow("global_ads_enabled", []byte("false"), now))
	mock.ExpectQuery("SELECT key, value, updated_at FROM app_settings WHERE key = \\$1").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	repo := NewSettingsRepository(db)

	s, err := repo.Get(context.Background(), "global_ads_enabled")
	require.NoError(t, err)
	assert.JSONEq(t, "false", string(s.Value))

	_, err = repo.Get(context.Background(), "missing")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT key, value, updated_at FROM app_settings ORDER BY key").
		WillReturnRows(sqlmock.NewRows([]string{"key", "value", "updated_at"}).
			AddRow("a", []byte(`{"x":1}`), nil).
			AddRow("b", nil, nil))

	out, err := NewSettingsRepository(db).List(context.Background())

	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.JSONEq(t, `{"x":1}`, string(out[0].Value))
	assert.Equal(t, "null", string(out[1].Value))
	assert.Nil(t, out[1].UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsRepository_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("INSERT INTO app_settings .* ON CONFLICT \\(key\\) DO UPDATE").
		WithArgs("maintenance_mode", "0").
		WillReturnRows(sqlmock.NewRows([]string{"key", "value", "updated_at"}).AddRow("maintenance_mode", []byte("0"), now))

	s, err := NewSettingsRepository(db).Upsert(context.Background(), "maintenance_mode", json.RawMessage("0"))

	require.NoError(t, err)
	assert.Equal(t, "maintenance_mode", s.Key)
	assert.Equal(t, "0", string(s.Value))
	assert.NoError(t, mock.ExpectationsWereMet())
}
