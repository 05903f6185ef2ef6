package searchusers

import (
	"context"

	"station-dashboard/internal/models"
)

// Input is read from the query string.
type Input struct {
	Query string `json:"q"`
}

type Output []models.UserSummary

type Directory interface {
	Search(ctx context.Context, term string, limit int) ([]models.UserSummary, error)
}
