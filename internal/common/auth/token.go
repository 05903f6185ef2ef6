// Package auth verifies provider-issued access tokens and keeps the per-login session in redis.
package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "station-dashboard/internal/common/errors"
)

// Claims are the access-token claims the dashboard relies on.
type Claims struct {
	Email     string `json:"email,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	jwt.RegisteredClaims
}

// SessionKey identifies the login the token belongs to. Rotated tokens of one login share it.
func (c *Claims) SessionKey() string {
	if c.SessionID != "" {
		return c.SessionID
	}
	if c.ID != "" {
		return c.ID
	}
	issued := int64(0)
	if c.IssuedAt != nil {
		issued = c.IssuedAt.Unix()
	}
	return fmt.Sprintf("%s:%d", c.Subject, issued)
}

func (c *Claims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// Verifier checks HS256 tokens signed with the provider's shared secret.
type Verifier struct {
	secret   []byte
	issuer   string
	audience string
	now      func() time.Time
}

func NewVerifier(secret, issuer, audience string) *Verifier {
	return &Verifier{secret: []byte(secret), issuer: issuer, audience: audience, now: time.Now}
}

func (v *Verifier) Verify(raw string) (*Claims, error) {
	if raw == "" {
		return nil, apperrors.NewAuthenticationError("missing bearer token")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		details := "invalid token"
		if err != nil {
			details = err.Error()
		}
		return nil, apperrors.NewAuthenticationError(details)
	}
	if claims.Subject == "" {
		return nil, apperrors.NewAuthenticationError("token has no subject")
	}
	return claims, nil
}

// TokenFromRequest reads the bearer token, falling back to the session cookie the dashboard pages send.
func TokenFromRequest(r *http.Request, cookieName string) string {
	if h := r.Header.Get("Authorization"); len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	if cookieName != "" {
		if c, err := r.Cookie(cookieName); err == nil {
			return c.Value
		}
	}
	return ""
}
