package auth

import (
	"context"

	"station-dashboard/internal/models"
)

type ctxKey struct{}

func WithSession(ctx context.Context, s *models.Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func SessionFrom(ctx context.Context) (*models.Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*models.Session)
	return s, ok && s != nil
}

// IdentityFrom returns nil when the request is anonymous.
func IdentityFrom(ctx context.Context) *models.Identity {
	if s, ok := SessionFrom(ctx); ok {
		return &s.Identity
	}
	return nil
}
