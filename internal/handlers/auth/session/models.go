package session

import (
	"context"
	"time"

	"station-dashboard/internal/models"
)

type Output struct {
	SessionID   string          `json:"sessionId"`
	Identity    models.Identity `json:"identity"`
	ExpiresAt   time.Time       `json:"expiresAt"`
	RefreshedAt *time.Time      `json:"refreshedAt,omitempty"`
}

type SignOutOutput struct {
	Success bool `json:"success"`
}

type Lifecycle interface {
	Init(ctx context.Context, rawToken string) (*models.Session, error)
	Refresh(ctx context.Context, rawToken string) (*models.Session, error)
	SignOut(ctx context.Context, rawToken string) error
}

func toOutput(s *models.Session) Output {
	return Output{
		SessionID:   s.ID,
		Identity:    s.Identity,
		ExpiresAt:   s.ExpiresAt,
		RefreshedAt: s.RefreshedAt,
	}
}
