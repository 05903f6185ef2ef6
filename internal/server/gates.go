package server

import (
	"context"
	"net/http"
	"time"

	"station-dashboard/internal/common/auth"
	apperrors "station-dashboard/internal/common/errors"
	"station-dashboard/internal/common/logger"
	"station-dashboard/internal/common/metrics"
	"station-dashboard/internal/models"
)

// Sessions is the part of the session manager the gates use.
type Sessions interface {
	Resolve(ctx context.Context, rawToken string) (*models.Session, error)
	Clear(ctx context.Context, sessionID string, expiresAt time.Time) error
}

// VerificationChecker returns VERIFICATION_REQUIRED for managers that are not verified.
type VerificationChecker interface {
	RequireVerified(ctx context.Context, managerID string) (*models.ManagerProfile, error)
}

type Gates struct {
	sessions   Sessions
	verifier   VerificationChecker
	cookieName string
	errs       *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewGates(sessions Sessions, verifier VerificationChecker, cookieName string, errs *apperrors.ErrorHandler, log logger.Logger) *Gates {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Gates{sessions: sessions, verifier: verifier, cookieName: cookieName, errs: errs, logger: log}
}

func decide(gate, outcome string) {
	metrics.GateDecisions.WithLabelValues(gate, outcome).Inc()
}

// Authenticate attaches the request's session when it carries a valid token. Invalid or
// missing tokens leave the request anonymous; session store failures are 500.
func (g *Gates) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := auth.TokenFromRequest(r, g.cookieName)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		sess, err := g.sessions.Resolve(r.Context(), token)
		if err != nil {
			if apperrors.HasCode(err, apperrors.ErrCodeAuthenticationNeeded) {
				g.logger.Debug("Ignoring invalid token", map[string]interface{}{"error": err.Error()})
				next.ServeHTTP(w, r)
				return
			}
			g.errs.HandleHTTPError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), sess)))
	})
}

func (g *Gates) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.SessionFrom(r.Context()); !ok {
			decide("session", "unauthenticated")
			g.errs.HandleHTTPError(w, r, apperrors.NewAuthenticationError("no valid session"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin terminates the session of a non-admin before denying access.
func (g *Gates) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := auth.SessionFrom(r.Context())
		if !ok {
			decide("admin", "unauthenticated")
			g.errs.HandleHTTPError(w, r, apperrors.NewAuthenticationError("no valid session"))
			return
		}
		if !sess.Identity.IsAdmin {
			decide("admin", "denied")
			if err := g.sessions.Clear(r.Context(), sess.ID, sess.ExpiresAt); err != nil {
				g.logger.Error("Failed to clear session of non-admin", map[string]interface{}{
					"userId": sess.Identity.UserID,
					"error":  err.Error(),
				})
			}
			g.logger.Warn("Non-admin denied admin route", map[string]interface{}{
				"userId": sess.Identity.UserID,
				"path":   r.URL.Path,
			})
			g.errs.HandleHTTPError(w, r, apperrors.NewAuthorizationError(apperrors.AdminAccessDeniedMessage))
			return
		}
		decide("admin", "allowed")
		next.ServeHTTP(w, r)
	})
}

func (g *Gates) RequireManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := auth.SessionFrom(r.Context())
		if !ok {
			decide("manager", "unauthenticated")
			g.errs.HandleHTTPError(w, r, apperrors.NewAuthenticationError("no valid session"))
			return
		}
		if !sess.Identity.IsManager() {
			decide("manager", "denied")
			g.errs.HandleHTTPError(w, r, apperrors.NewAuthorizationError("Manager account required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireVerifiedManager allows only managers whose verification status is verified.
func (g *Gates) RequireVerifiedManager(next http.Handler) http.Handler {
	return g.RequireManager(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := auth.IdentityFrom(r.Context())
		if _, err := g.verifier.RequireVerified(r.Context(), identity.UserID); err != nil {
			decide("verified_manager", "denied")
			g.errs.HandleHTTPError(w, r, err)
			return
		}
		decide("verified_manager", "allowed")
		next.ServeHTTP(w, r)
	}))
}
