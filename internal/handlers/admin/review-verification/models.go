package reviewverification

import (
	"context"

	"station-dashboard/internal/models"
	"station-dashboard/internal/verification"
)

const (
	ParamManagerID = "managerID"
	ParamDecision  = "decision"
)

type ListOutput struct {
	Pending []models.PendingVerification `json:"pending"`
	Count   int                          `json:"count"`
}

type DecisionOutput struct {
	ManagerID string `json:"managerId"`
	verification.StatusView
}

type Reviewer interface {
	ListPending(ctx context.Context) ([]models.PendingVerification, error)
	Review(ctx context.Context, adminID, managerID string, event verification.Event) (*verification.StatusView, error)
}
