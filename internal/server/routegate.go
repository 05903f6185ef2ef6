package server

import (
	"context"
	"net/http"
	"strings"

	"station-dashboard/internal/common/auth"
	apperrors "station-dashboard/internal/common/errors"
	"station-dashboard/internal/common/logger"
	"station-dashboard/internal/models"
)

const (
	PathLogin           = "/auth/login"
	PathSignup          = "/auth/signup"
	PathVerify          = "/auth/verify"
	PathRegisterStation = "/auth/register-station"
	PathDashboard       = "/dashboard"
	PathPendingApproval = "/dashboard/pending-approval"
)

type ProfileLookup interface {
	Get(ctx context.Context, id string) (*models.ManagerProfile, error)
}

// PageRedirect decides where a page request must go instead. It returns "" when the
// page may be served. profile is nil when the manager has not registered a station.
func PageRedirect(path string, identity *models.Identity, profile *models.ManagerProfile) string {
	if identity == nil {
		if strings.HasPrefix(path, PathDashboard) || strings.HasPrefix(path, PathVerify) {
			return PathLogin
		}
		return ""
	}

	if path == PathLogin || path == PathSignup {
		return PathDashboard
	}

	if !identity.IsManager() || strings.HasPrefix(path, PathRegisterStation) {
		return ""
	}

	if profile == nil {
		return PathRegisterStation
	}

	switch profile.VerificationStatus {
	case models.VerificationPending:
		if !strings.HasPrefix(path, PathPendingApproval) {
			return PathPendingApproval
		}
	case models.VerificationVerified:
		if strings.HasPrefix(path, PathPendingApproval) {
			return PathDashboard
		}
	case models.VerificationNone, models.VerificationRejected:
		if strings.HasPrefix(path, PathDashboard) {
			return PathVerify
		}
	}
	return ""
}

// PageGate guards the dashboard and auth pages. It expects Authenticate to run first.
type PageGate struct {
	profiles ProfileLookup
	errs     *apperrors.ErrorHandler
	logger   logger.Logger
}

func NewPageGate(profiles ProfileLookup, errs *apperrors.ErrorHandler, log logger.Logger) *PageGate {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &PageGate{profiles: profiles, errs: errs, logger: log}
}

func (g *PageGate) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := auth.IdentityFrom(r.Context())

		var profile *models.ManagerProfile
		if identity != nil && identity.IsManager() && !strings.HasPrefix(r.URL.Path, PathRegisterStation) {
			p, err := g.profiles.Get(r.Context(), identity.UserID)
			switch {
			case err == nil:
				profile = p
			case apperrors.HasCode(err, apperrors.ErrCodeNotFound):
			default:
				g.errs.HandleHTTPError(w, r, err)
				return
			}
		}

		if target := PageRedirect(r.URL.Path, identity, profile); target != "" {
			decide("page", "redirect")
			http.Redirect(w, r, target, http.StatusFound)
			return
		}
		decide("page", "served")
		next.ServeHTTP(w, r)
	})
}
