package verificationstatus

import (
	"context"

	"station-dashboard/internal/verification"
)

type Output = verification.StatusView

type StatusReader interface {
	Status(ctx context.Context, managerID string) (*verification.StatusView, error)
}
