// Package fanout writes one notification row per resolved recipient.
package fanout

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "station-dashboard/internal/common/errors"
	"station-dashboard/internal/common/logger"
	"station-dashboard/internal/common/metrics"
	"station-dashboard/internal/models"
)

// Store performs the all-or-nothing bulk write.
type Store interface {
	InsertBatch(ctx context.Context, rows []models.Notification) (int, error)
}

// Announcer is told about every committed fan-out. Errors are logged and otherwise ignored.
type Announcer interface {
	Announce(ctx context.Context, title string, count int) error
}

type Result struct {
	InsertedCount int `json:"insertedCount"`
}

type Dispatcher struct {
	store     Store
	announcer Announcer
	logger    logger.Logger
	now       func() time.Time
	newID     func() string
}

type Option func(*Dispatcher)

func WithAnnouncer(a Announcer) Option {
	return func(d *Dispatcher) { d.announcer = a }
}

func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

func NewDispatcher(store Store, log logger.Logger, opts ...Option) *Dispatcher {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	d := &Dispatcher{
		store:  store,
		logger: log,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ValidateMessage lets callers reject a bad message before resolving recipients.
func ValidateMessage(title, message string) error {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(message) == "" {
		return apperrors.NewValidationError("Title and message are required")
	}
	return nil
}

// Dispatch validates the message and inserts one unread row per recipient, all stamped
// with the same created_at. An empty recipient list performs no write.
func (d *Dispatcher) Dispatch(ctx context.Context, recipients []string, title, message string) (*Result, error) {
	if err := ValidateMessage(title, message); err != nil {
		return nil, err
	}
	if len(recipients) == 0 {
		return &Result{InsertedCount: 0}, nil
	}

	createdAt := d.now()
	rows := make([]models.Notification, len(recipients))
	for i, userID := range recipients {
		rows[i] = models.Notification{
			ID:        d.newID(),
			UserID:    userID,
			Title:     title,
			Message:   message,
			IsRead:    false,
			CreatedAt: createdAt,
		}
	}

	inserted, err := d.store.InsertBatch(ctx, rows)
	if err != nil {
		metrics.NotificationDispatchFailures.Inc()
		d.logger.Error("Bulk notification insert failed", map[string]interface{}{
			"recipients": len(recipients),
			"error":      err.Error(),
		})
		return nil, err
	}

	metrics.NotificationsInserted.Add(float64(inserted))
	d.logger.Info("Notifications dispatched", map[string]interface{}{
		"recipients": len(recipients),
		"inserted":   inserted,
	})

	if d.announcer != nil {
		if err := d.announcer.Announce(ctx, title, inserted); err != nil {
			d.logger.Warn("Notification announcement failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return &Result{InsertedCount: inserted}, nil
}
