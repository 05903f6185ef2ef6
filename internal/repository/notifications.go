package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"station-dashboard/internal/common/database"
	apperrors "station-dashboard/internal/common/errors"
	"station-dashboard/internal/models"
)

const notificationColumns = 6

// Postgres caps a statement at 65535 bind parameters.
const maxNotificationChunk = 65535 / notificationColumns

type NotificationRepository struct {
	db        *sql.DB
	chunkSize int
}

func NewNotificationRepository(db *sql.DB, chunkSize int) *NotificationRepository {
	if chunkSize <= 0 || chunkSize > maxNotificationChunk {
		chunkSize = maxNotificationChunk
	}
	return &NotificationRepository{db: db, chunkSize: chunkSize}
}

// InsertBatch writes all rows in one transaction. Either every row is committed or none is.
func (r *NotificationRepository) InsertBatch(ctx context.Context, rows []models.Notification) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	inserted := 0
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		for start := 0; start < len(rows); start += r.chunkSize {
			end := start + r.chunkSize
			if end > len(rows) {
				end = len(rows)
			}
			query, args := buildNotificationInsert(rows[start:end])
			res, err := tx.ExecContext(ctx, query, args...)
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			inserted += int(n)
		}
		return nil
	})
	if err != nil {
		return 0, apperrors.NewStorageError("insert notifications", err)
	}
	return inserted, nil
}

func buildNotificationInsert(rows []models.Notification) (string, []interface{}) {
	var b strings.Builder
	b.WriteString("INSERT INTO notifications (id, user_id, title, message, is_read, created_at) VALUES ")

	args := make([]interface{}, 0, len(rows)*notificationColumns)
	for i, n := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		base := i * notificationColumns
		fmt.Fprintf(&b, "($%d, $%d, $%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4, base+5, base+6)
		args = append(args, n.ID, n.UserID, n.Title, n.Message, n.IsRead, n.CreatedAt)
	}
	return b.String(), args
}
