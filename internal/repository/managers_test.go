package repository

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "station-dashboard/internal/common/errors"
	"station-dashboard/internal/models"
)

var managerCols = []string{"id", "full_name", "phone_number", "station_id", "verification_status", "verification_photo_url", "created_at"}

func TestManagerRepository_Get(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		setupMock  func(m sqlmock.Sqlmock)
		wantStatus models.VerificationStatus
		wantCode   apperrors.ErrorCode
	}{
		{
			name: "null status reads as none",
			setupMock: func(m sqlmock.Sqlmock) {
				m.ExpectQuery("FROM manager_profiles WHERE id = \\$1").WithArgs("m1").
					WillReturnRows(sqlmock.NewRows(managerCols).AddRow("m1", "Tunde", "+2348000000000", 7, "", nil, created))
			},
			wantStatus: models.VerificationNone,
		},
		{
			name: "pending with photo",
			setupMock: func(m sqlmock.Sqlmock) {
				m.ExpectQuery("FROM manager_profiles WHERE id = \\$1").WithArgs("m1").
					WillReturnRows(sqlmock.NewRows(managerCols).AddRow("m1", "Tunde", "+2348000000000", 7, "pending", "https://cdn/x.jpg", created))
			},
			wantStatus: models.VerificationPending,
		},
		{
			name: "missing profile",
			setupMock: func(m sqlmock.Sqlmock) {
				m.ExpectQuery("FROM manager_profiles WHERE id = \\$1").WithArgs("m1").WillReturnError(sql.ErrNoRows)
			},
			wantCode: apperrors.ErrCodeNotFound,
		},
		{
			name: "driver failure",
			setupMock: func(m sqlmock.Sqlmock) {
				m.ExpectQuery("FROM manager_profiles WHERE id = \\$1").WithArgs("m1").WillReturnError(fmt.Errorf("timeout"))
			},
			wantCode: apperrors.ErrCodeStorage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.setupMock(mock)

			m, err := NewManagerRepository(db).Get(context.Background(), "m1")

			if tt.wantCode != "" {
				require.Error(t, err)
				assert.True(t, apperrors.HasCode(err, tt.wantCode))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantStatus, m.VerificationStatus)
				assert.Equal(t, int64(7), m.StationID)
				assert.Equal(t, created, m.CreatedAt)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestManagerRepository_Register(t *testing.T) {
	created := time.Now().UTC()
	in := &models.ManagerProfile{ID: "m1", FullName: "Tunde", PhoneNumber: "+2348000000000", StationID: 7}

	t.Run("creates or updates unverified profile", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("INSERT INTO manager_profiles").
			WithArgs("m1", "Tunde", "+2348000000000", int64(7), "none").
			WillReturnRows(sqlmock.NewRows(managerCols).AddRow("m1", "Tunde", "+2348000000000", 7, "rejected", nil, created))

		out, ok, err := NewManagerRepository(db).Register(context.Background(), in)

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, models.VerificationRejected, out.VerificationStatus)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("verified profile is left alone", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("INSERT INTO manager_profiles").
			WillReturnRows(sqlmock.NewRows(managerCols))

		out, ok, err := NewManagerRepository(db).Register(context.Background(), in)

		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, out)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestManagerRepository_SubmitPhoto(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{name: "updated", affected: 1, want: true},
		{name: "verified or missing", affected: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectExec("UPDATE manager_profiles\\s+SET verification_photo_url = \\$2, verification_status = 'pending'").
				WithArgs("m1", "https://cdn/v.jpg").
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			ok, err := NewManagerRepository(db).SubmitPhoto(context.Background(), "m1", "https://cdn/v.jpg")

			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestManagerRepository_TransitionStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE manager_profiles SET verification_status = \\$3").
		WithArgs("m1", "pending", "verified").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := NewManagerRepository(db).TransitionStatus(context.Background(), "m1", models.VerificationPending, models.VerificationVerified)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestManagerRepository_ListPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(24 * time.Hour)
	cols := append(append([]string{}, managerCols...), "name", "address", "state")

	mock.ExpectQuery("WHERE m.verification_status = 'pending'\\s+ORDER BY m.created_at ASC").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("m1", "Ada", "+234", 1, "pending", "https://cdn/a.jpg", older, "Mobil Ikeja", "1 Allen Ave", "Lagos").
			AddRow("m2", "Bayo", "+234", nil, "pending", nil, newer, nil, nil, nil))

	out, err := NewManagerRepository(db).ListPending(context.Background())

	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "m1", out[0].ID)
	assert.Equal(t, "Mobil Ikeja", *out[0].StationName)
	assert.Equal(t, int64(0), out[1].StationID)
	assert.Nil(t, out[1].StationName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
