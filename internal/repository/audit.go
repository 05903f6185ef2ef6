package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	apperrors "station-dashboard/internal/common/errors"
	"station-dashboard/internal/models"
)

type AuditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Insert(ctx context.Context, e models.AuditEntry) error {
	details, err := json.Marshal(e.Details)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if e.Details == nil {
		details = []byte("{}")
	}

	var targetID interface{}
	if e.TargetID != "" {
		targetID = e.TargetID
	}

	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO admin_audit_logs (admin_id, action_type, target_table, target_id, details)
		VALUES ($1, $2, $3, $4, $5)`,
		e.AdminID, string(e.ActionType), e.TargetTable, targetID, string(details)); err != nil {
		return apperrors.NewStorageError("insert audit log", err)
	}
	return nil
}
