package broadcastemail

import (
	"context"

	"station-dashboard/internal/broadcast"
	"station-dashboard/internal/models"
)

type Input struct {
	Recipients []broadcast.Recipient `json:"recipients"`
	Subject    string                `json:"subject"`
	Message    string                `json:"message"`
}

type Output struct {
	Success bool   `json:"success"`
	Sent    int    `json:"sent"`
	Failed  int    `json:"failed"`
	Message string `json:"message"`
}

type Broadcaster interface {
	Broadcast(ctx context.Context, recipients []broadcast.Recipient, subject, message string) (*broadcast.Result, error)
}

type Auditor interface {
	Record(ctx context.Context, entry models.AuditEntry)
}
