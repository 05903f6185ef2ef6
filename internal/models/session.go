package models

import "time"

// Session is the per-login state kept in redis between requests.
type Session struct {
	ID          string     `json:"id"`
	Identity    Identity   `json:"identity"`
	IssuedAt    time.Time  `json:"issuedAt"`
	ExpiresAt   time.Time  `json:"expiresAt"`
	RefreshedAt *time.Time `json:"refreshedAt,omitempty"`
}

func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// TTL is the remaining lifetime, never negative.
func (s *Session) TTL(now time.Time) time.Duration {
	if d := s.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}
