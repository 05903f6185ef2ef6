package server

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "station-dashboard/internal/common/errors"
	"station-dashboard/internal/common/logger"
)

func stubRoutes() Routes {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	return Routes{
		SendNotification:   ok,
		BroadcastEmail:     ok,
		SearchUsers:        ok,
		GetSettings:        ok,
		PostSettings:       ok,
		AdInteraction:      ok,
		SessionInit:        ok,
		SessionRefresh:     ok,
		SignOut:            ok,
		RegisterStation:    ok,
		UploadPhoto:        ok,
		VerificationStatus: ok,
		ManagerStation:     ok,
		ListVerifications:  ok,
		DecideVerification: ok,
		LivePrices:         ok,
	}
}

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	log := logger.NewTestLogger(t)

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "dashboard"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dashboard", "index.html"), []byte("<html>dashboard</html>"), 0o644))

	return NewRouter(RouterOptions{
		Routes:    stubRoutes(),
		Gates:     testGates(t, testSessions()),
		PageGate:  NewPageGate(&MockProfiles{}, apperrors.NewErrorHandler(log), log),
		StaticDir: dir,
		Logger:    log,
	})
}

// ==========================
// Access matrix
// ==========================

func TestRouter_AccessMatrix(t *testing.T) {
	tests := []struct {
		method string
		path   string
		token  string
		want   int
	}{
		{http.MethodGet, "/api/settings", "", 200},
		{http.MethodPost, "/api/settings", "", 401},
		{http.MethodPost, "/api/settings", "user-token", 403},
		{http.MethodPost, "/api/settings", "admin-token", 200},
		{http.MethodPost, "/api/ad-interaction", "", 200},
		{http.MethodGet, "/api/prices/live", "", 200},
		{http.MethodPost, "/api/auth/session", "", 200},
		{http.MethodPost, "/api/notifications/send", "", 401},
		{http.MethodPost, "/api/notifications/send", "manager-token", 403},
		{http.MethodPost, "/api/notifications/send", "admin-token", 200},
		{http.MethodPost, "/api/broadcast-email", "user-token", 403},
		{http.MethodPost, "/api/broadcast-email", "admin-token", 200},
		{http.MethodGet, "/api/users/search", "admin-token", 200},
		{http.MethodGet, "/api/admin/verifications", "user-token", 403},
		{http.MethodPost, "/api/admin/verifications/m-1/approve", "admin-token", 200},
		{http.MethodPost, "/api/managers/register", "", 401},
		{http.MethodPost, "/api/managers/register", "user-token", 200},
		{http.MethodPost, "/api/verification/photo", "user-token", 403},
		{http.MethodPost, "/api/verification/photo", "pending-token", 200},
		{http.MethodGet, "/api/verification/status", "newmgr-token", 200},
		{http.MethodGet, "/api/manager/station", "pending-token", 403},
		{http.MethodGet, "/api/manager/station", "manager-token", 200},
		{http.MethodGet, "/api/nope", "", 404},
		{http.MethodGet, "/health", "", 200},
		{http.MethodGet, "/metrics", "", 200},
	}

	router := testRouter(t)
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path+" "+tt.token, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRouter_RequestIDEchoed(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))
}

// ==========================
// Pages
// ==========================

func TestRouter_Pages(t *testing.T) {
	router := testRouter(t)

	t.Run("root redirects to dashboard", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, PathDashboard, rec.Header().Get("Location"))
	})

	t.Run("anonymous dashboard goes to login", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard/", nil))

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, PathLogin, rec.Header().Get("Location"))
	})

	t.Run("signed in user gets the page", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/dashboard/", nil)
		req.Header.Set("Authorization", "Bearer user-token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "dashboard")
	})
}
