package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"station-dashboard/internal/common/auth"
	"station-dashboard/internal/common/logger"
	"station-dashboard/internal/models"
)

const (
	testSecret   = "handler-secret"
	testIssuer   = "https://project.supabase.co/auth/v1"
	testAudience = "authenticated"
)

// ==========================
// Test Helper Functions
// ==========================

type MockIdentityLoader struct{}

func (MockIdentityLoader) LoadIdentity(ctx context.Context, userID, email string) (*models.Identity, error) {
	return &models.Identity{UserID: userID, Email: email, IsAdmin: userID == "admin-1"}, nil
}

func signToken(t *testing.T, sub, sessionID string, ttl time.Duration) string {
	t.Helper()
	now := time.Now()
	claims := auth.Claims{
		Email:     sub + "@example.com",
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			Issuer:    testIssuer,
			Audience:  jwt.ClaimStrings{testAudience},
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return raw
}

func setup(t *testing.T) (*Handler, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	manager := auth.NewSessionManager(
		auth.NewVerifier(testSecret, testIssuer, testAudience),
		auth.NewRedisSessionStore(client, "session"),
		MockIdentityLoader{},
		logger.NewTestLogger(t),
	)
	h, err := NewHandler(HandlerOptions{Lifecycle: manager, Logger: logger.NewTestLogger(t)})
	require.NoError(t, err)
	return h, mr
}

func withBearer(method, path, token string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// ==========================
// Tests
// ==========================

func TestHandler_Init(t *testing.T) {
	h, mr := setup(t)
	token := signToken(t, "admin-1", "sess-1", time.Hour)

	rec := httptest.NewRecorder()
	h.Init(rec, withBearer(http.MethodPost, "/api/auth/session", token))

	require.Equal(t, http.StatusOK, rec.Code)
	var out Output
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "sess-1", out.SessionID)
	assert.True(t, out.Identity.IsAdmin)
	assert.Nil(t, out.RefreshedAt)

	assert.True(t, mr.Exists("session:sess-1"))
	ttl := mr.TTL("session:sess-1")
	assert.True(t, ttl > 50*time.Minute && ttl <= time.Hour, "ttl %s", ttl)
}

func TestHandler_Init_FromCookie(t *testing.T) {
	h, _ := setup(t)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/session", nil)
	req.AddCookie(&http.Cookie{Name: "sb-access-token", Value: signToken(t, "user-9", "sess-9", time.Hour)})

	rec := httptest.NewRecorder()
	h.Init(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_Refresh(t *testing.T) {
	h, mr := setup(t)

	rec := httptest.NewRecorder()
	h.Init(rec, withBearer(http.MethodPost, "/api/auth/session", signToken(t, "user-1", "sess-1", 10*time.Minute)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.Refresh(rec, withBearer(http.MethodPost, "/api/auth/session/refresh", signToken(t, "user-1", "sess-1", 2*time.Hour)))

	require.Equal(t, http.StatusOK, rec.Code)
	var out Output
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.NotNil(t, out.RefreshedAt)
	assert.True(t, mr.TTL("session:sess-1") > time.Hour)
}

func TestHandler_SignOut(t *testing.T) {
	h, mr := setup(t)
	token := signToken(t, "user-1", "sess-1", time.Hour)

	rec := httptest.NewRecorder()
	h.Init(rec, withBearer(http.MethodPost, "/api/auth/session", token))
	require.True(t, mr.Exists("session:sess-1"))

	rec = httptest.NewRecorder()
	h.SignOut(rec, withBearer(http.MethodPost, "/api/auth/signout", token))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	assert.False(t, mr.Exists("session:sess-1"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)

	rec = httptest.NewRecorder()
	h.Init(rec, withBearer(http.MethodPost, "/api/auth/session", token))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, mr.Exists("session:sess-1"))
}

func TestHandler_RejectsBadTokens(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{name: "missing", token: ""},
		{name: "garbage", token: "not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := setup(t)

			for _, fn := range []http.HandlerFunc{h.Init, h.Refresh, h.SignOut} {
				rec := httptest.NewRecorder()
				fn(rec, withBearer(http.MethodPost, "/api/auth/session", tt.token))
				assert.Equal(t, http.StatusUnauthorized, rec.Code)
			}
		})
	}
}

func TestHandler_RejectsExpiredToken(t *testing.T) {
	h, mr := setup(t)

	rec := httptest.NewRecorder()
	h.Init(rec, withBearer(http.MethodPost, "/api/auth/session", signToken(t, "user-1", "sess-x", -time.Minute)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, mr.Exists("session:sess-x"))
}
