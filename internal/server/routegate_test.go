package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"station-dashboard/internal/common/auth"
	apperrors "station-dashboard/internal/common/errors"
	"station-dashboard/internal/common/logger"
	"station-dashboard/internal/models"
)

type MockProfiles struct {
	profiles map[string]*models.ManagerProfile
	err      error
	calls    int
}

func (m *MockProfiles) Get(ctx context.Context, id string) (*models.ManagerProfile, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if p, ok := m.profiles[id]; ok {
		return p, nil
	}
	return nil, apperrors.NewNotFoundError("manager profile", id)
}

func profileWith(status models.VerificationStatus) *models.ManagerProfile {
	return &models.ManagerProfile{ID: "m-1", VerificationStatus: status}
}

// ==========================
// PageRedirect
// ==========================

func TestPageRedirect(t *testing.T) {
	user := &models.Identity{UserID: "u-1"}
	manager := &models.Identity{UserID: "m-1", Role: models.RoleManager}

	tests := []struct {
		name     string
		path     string
		identity *models.Identity
		profile  *models.ManagerProfile
		want     string
	}{
		{name: "anonymous dashboard", path: "/dashboard", want: PathLogin},
		{name: "anonymous nested dashboard", path: "/dashboard/prices", want: PathLogin},
		{name: "anonymous verify", path: PathVerify, want: PathLogin},
		{name: "anonymous login", path: PathLogin, want: ""},
		{name: "anonymous signup", path: PathSignup, want: ""},
		{name: "signed in login", path: PathLogin, identity: user, want: PathDashboard},
		{name: "signed in signup", path: PathSignup, identity: manager, profile: profileWith(models.VerificationVerified), want: PathDashboard},
		{name: "plain user dashboard", path: "/dashboard", identity: user, want: ""},
		{name: "manager without profile", path: "/dashboard", identity: manager, want: PathRegisterStation},
		{name: "manager registering", path: PathRegisterStation, identity: manager, want: ""},
		{name: "pending to approval page", path: "/dashboard/prices", identity: manager, profile: profileWith(models.VerificationPending), want: PathPendingApproval},
		{name: "pending on approval page", path: PathPendingApproval, identity: manager, profile: profileWith(models.VerificationPending), want: ""},
		{name: "verified leaves approval page", path: PathPendingApproval, identity: manager, profile: profileWith(models.VerificationVerified), want: PathDashboard},
		{name: "verified dashboard", path: "/dashboard/prices", identity: manager, profile: profileWith(models.VerificationVerified), want: ""},
		{name: "none to verify", path: "/dashboard", identity: manager, profile: profileWith(models.VerificationNone), want: PathVerify},
		{name: "rejected to verify", path: PathPendingApproval, identity: manager, profile: profileWith(models.VerificationRejected), want: PathVerify},
		{name: "rejected on verify", path: PathVerify, identity: manager, profile: profileWith(models.VerificationRejected), want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PageRedirect(tt.path, tt.identity, tt.profile))
		})
	}
}

// ==========================
// PageGate
// ==========================

func servePage(gate *PageGate, path string, identity *models.Identity) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if identity != nil {
		req = req.WithContext(auth.WithSession(req.Context(), &models.Session{ID: "s-1", Identity: *identity}))
	}
	rec := httptest.NewRecorder()
	gate.Wrap(okHandler).ServeHTTP(rec, req)
	return rec
}

func TestPageGate_Wrap(t *testing.T) {
	log := logger.NewTestLogger(t)
	manager := &models.Identity{UserID: "m-1", Role: models.RoleManager}

	t.Run("redirects pending manager", func(t *testing.T) {
		profiles := &MockProfiles{profiles: map[string]*models.ManagerProfile{"m-1": profileWith(models.VerificationPending)}}
		rec := servePage(NewPageGate(profiles, apperrors.NewErrorHandler(log), log), "/dashboard", manager)

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, PathPendingApproval, rec.Header().Get("Location"))
	})

	t.Run("missing profile sends manager to registration", func(t *testing.T) {
		profiles := &MockProfiles{}
		rec := servePage(NewPageGate(profiles, apperrors.NewErrorHandler(log), log), "/dashboard", manager)

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, PathRegisterStation, rec.Header().Get("Location"))
	})

	t.Run("registration page skips profile lookup", func(t *testing.T) {
		profiles := &MockProfiles{err: errors.New("unused")}
		rec := servePage(NewPageGate(profiles, apperrors.NewErrorHandler(log), log), PathRegisterStation, manager)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Zero(t, profiles.calls)
	})

	t.Run("lookup failure is 500", func(t *testing.T) {
		profiles := &MockProfiles{err: apperrors.NewStorageError("get manager profile", errors.New("conn reset"))}
		rec := servePage(NewPageGate(profiles, apperrors.NewErrorHandler(log), log), "/dashboard", manager)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("anonymous is sent to login", func(t *testing.T) {
		rec := servePage(NewPageGate(&MockProfiles{}, apperrors.NewErrorHandler(log), log), "/dashboard/settings", nil)

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, PathLogin, rec.Header().Get("Location"))
	})
}
