package repository

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "station-dashboard/internal/common/errors"
	"station-dashboard/internal/models"
)

func notificationRows(n int) []models.Notification {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rows := make([]models.Notification, n)
	for i := range rows {
		rows[i] = models.Notification{
			ID:        fmt.Sprintf("n%d", i),
			UserID:    fmt.Sprintf("u%d", i),
			Title:     "Price drop",
			Message:   "PMS is now cheaper",
			CreatedAt: now,
		}
	}
	return rows
}

func TestBuildNotificationInsert(t *testing.T) {
	query, args := buildNotificationInsert(notificationRows(2))

	assert.Equal(t,
		"INSERT INTO notifications (id, user_id, title, message, is_read, created_at) VALUES "+
			"($1, $2, $3, $4, $5, $6), ($7, $8, $9, $10, $11, $12)",
		query)
	require.Len(t, args, 12)
	assert.Equal(t, "u1", args[7])
	assert.Equal(t, false, args[10])
}

func TestNotificationRepository_InsertBatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO notifications")).
		WithArgs(
			"n0", "u0", "Price drop", "PMS is now cheaper", false, sqlmock.AnyArg(),
			"n1", "u1", "Price drop", "PMS is now cheaper", false, sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	n, err := NewNotificationRepository(db, 100).InsertBatch(context.Background(), notificationRows(2))

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_InsertBatch_Chunks(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO notifications").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO notifications").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO notifications").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := NewNotificationRepository(db, 2).InsertBatch(context.Background(), notificationRows(5))

	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_InsertBatch_RollsBackEverything(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO notifications").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO notifications").
		WillReturnError(fmt.Errorf(`insert or update on table "notifications" violates foreign key constraint`))
	mock.ExpectRollback()

	n, err := NewNotificationRepository(db, 2).InsertBatch(context.Background(), notificationRows(4))

	require.Error(t, err)
	assert.Equal(t, 0, n)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeStorage))
	assert.Contains(t, err.Error(), "violates foreign key constraint")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_InsertBatch_EmptyDoesNotTouchDB(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	n, err := NewNotificationRepository(db, 10).InsertBatch(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewNotificationRepository_ClampsChunkSize(t *testing.T) {
	assert.Equal(t, maxNotificationChunk, NewNotificationRepository(nil, 0).chunkSize)
	assert.Equal(t, maxNotificationChunk, NewNotificationRepository(nil, 1_000_000).chunkSize)
	assert.Equal(t, 500, NewNotificationRepository(nil, 500).chunkSize)
}
