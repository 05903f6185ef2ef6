package auth

import (
	"context"
	"time"

	apperrors "station-dashboard/internal/common/errors"
	"station-dashboard/internal/common/logger"
	"station-dashboard/internal/common/metrics"
	"station-dashboard/internal/models"
)

type IdentityLoader interface {
	LoadIdentity(ctx context.Context, userID, email string) (*models.Identity, error)
}

// SessionManager owns the session lifecycle: init on first request, refresh on token
// rotation and clear on sign-out. Sessions travel in the request context, never in globals.
type SessionManager struct {
	verifier *Verifier
	store    SessionStore
	loader   IdentityLoader
	logger   logger.Logger
	now      func() time.Time
}

func NewSessionManager(verifier *Verifier, store SessionStore, loader IdentityLoader, log logger.Logger) *SessionManager {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &SessionManager{
		verifier: verifier,
		store:    store,
		loader:   loader,
		logger:   log.WithFields(map[string]interface{}{"component": "session"}),
		now:      time.Now,
	}
}

// Init verifies the token, loads the identity and stores a new session.
func (m *SessionManager) Init(ctx context.Context, rawToken string) (*models.Session, error) {
	claims, err := m.verifier.Verify(rawToken)
	if err != nil {
		metrics.SessionEvents.WithLabelValues("rejected").Inc()
		return nil, err
	}
	sess, err := m.create(ctx, claims, nil)
	if err != nil {
		return nil, err
	}
	metrics.SessionEvents.WithLabelValues("init").Inc()
	return sess, nil
}

// Resolve returns the stored session for the token, creating it when missing.
func (m *SessionManager) Resolve(ctx context.Context, rawToken string) (*models.Session, error) {
	claims, err := m.verifier.Verify(rawToken)
	if err != nil {
		metrics.SessionEvents.WithLabelValues("rejected").Inc()
		return nil, err
	}

	sess, err := m.store.Get(ctx, claims.SessionKey())
	if err != nil {
		return nil, apperrors.NewStorageError("get session", err)
	}
	if sess != nil && sess.Identity.UserID == claims.Subject && !sess.IsExpired(m.now()) {
		return sess, nil
	}

	sess, err = m.create(ctx, claims, nil)
	if err != nil {
		return nil, err
	}
	metrics.SessionEvents.WithLabelValues("lazy_init").Inc()
	return sess, nil
}

// Refresh handles token rotation: the identity is reloaded and the entry rewritten with the new expiry.
func (m *SessionManager) Refresh(ctx context.Context, rawToken string) (*models.Session, error) {
	claims, err := m.verifier.Verify(rawToken)
	if err != nil {
		metrics.SessionEvents.WithLabelValues("rejected").Inc()
		return nil, err
	}
	now := m.now()
	sess, err := m.create(ctx, claims, &now)
	if err != nil {
		return nil, err
	}
	metrics.SessionEvents.WithLabelValues("refresh").Inc()
	return sess, nil
}

// Clear ends the login until expiresAt: the stored session is dropped and the login is
// marked revoked, so the same token can no longer lazily re-create it. An expiry in the
// past only drops the entry. Clearing an unknown session is not an error.
func (m *SessionManager) Clear(ctx context.Context, sessionID string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(m.now())
	if ttl <= 0 {
		if err := m.store.Delete(ctx, sessionID); err != nil {
			return apperrors.NewStorageError("delete session", err)
		}
	} else if err := m.store.Revoke(ctx, sessionID, ttl); err != nil {
		return apperrors.NewStorageError("revoke session", err)
	}
	metrics.SessionEvents.WithLabelValues("clear").Inc()
	m.logger.Info("Session cleared", map[string]interface{}{"sessionId": sessionID})
	return nil
}

// SignOut verifies the token and clears its session for the token's remaining lifetime.
func (m *SessionManager) SignOut(ctx context.Context, rawToken string) error {
	claims, err := m.verifier.Verify(rawToken)
	if err != nil {
		return err
	}
	return m.Clear(ctx, claims.SessionKey(), claims.Expiry())
}

func (m *SessionManager) create(ctx context.Context, claims *Claims, refreshedAt *time.Time) (*models.Session, error) {
	revoked, err := m.store.Revoked(ctx, claims.SessionKey())
	if err != nil {
		return nil, apperrors.NewStorageError("check revocation", err)
	}
	if revoked {
		metrics.SessionEvents.WithLabelValues("revoked").Inc()
		return nil, apperrors.NewAuthenticationError("session signed out")
	}

	identity, err := m.loader.LoadIdentity(ctx, claims.Subject, claims.Email)
	if err != nil {
		return nil, err
	}

	now := m.now()
	issued := now
	if claims.IssuedAt != nil {
		issued = claims.IssuedAt.Time
	}
	sess := &models.Session{
		ID:          claims.SessionKey(),
		Identity:    *identity,
		IssuedAt:    issued,
		ExpiresAt:   claims.Expiry(),
		RefreshedAt: refreshedAt,
	}

	ttl := sess.TTL(now)
	if ttl <= 0 {
		return nil, apperrors.NewAuthenticationError("token expired")
	}
	if err := m.store.Put(ctx, sess, ttl); err != nil {
		return nil, apperrors.NewStorageError("put session", err)
	}

	m.logger.Debug("Session stored", map[string]interface{}{
		"sessionId": sess.ID,
		"userId":    identity.UserID,
		"isAdmin":   identity.IsAdmin,
		"ttl":       ttl.String(),
	})
	return sess, nil
}
