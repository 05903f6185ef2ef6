// Package audit records admin actions without letting audit failures affect the action.
package audit

import (
	"context"

	"station-dashboard/internal/common/logger"
	"station-dashboard/internal/models"
)

type Store interface {
	Insert(ctx context.Context, entry models.AuditEntry) error
}

type Recorder struct {
	store  Store
	logger logger.Logger
}

func NewRecorder(store Store, log logger.Logger) *Recorder {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Recorder{store: store, logger: log}
}

// Record writes entry. It runs detached from ctx cancellation so a finished request still gets its row.
func (r *Recorder) Record(ctx context.Context, entry models.AuditEntry) {
	if entry.AdminID == "" {
		r.logger.Warn("Audit entry without admin id skipped", map[string]interface{}{
			"action": entry.ActionType,
		})
		return
	}
	if err := r.store.Insert(context.WithoutCancel(ctx), entry); err != nil {
		r.logger.Error("Failed to write audit log", map[string]interface{}{
			"action":  entry.ActionType,
			"adminId": entry.AdminID,
			"target":  entry.TargetID,
			"error":   err.Error(),
		})
	}
}
