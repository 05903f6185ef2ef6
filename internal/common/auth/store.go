package auth

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"station-dashboard/internal/models"
)

type SessionStore interface {
	Get(ctx context.Context, id string) (*models.Session, error)
	Put(ctx context.Context, s *models.Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
	Revoke(ctx context.Context, id string, ttl time.Duration) error
	Revoked(ctx context.Context, id string) (bool, error)
}

// RedisSessionStore keeps one JSON document per session under <prefix>:<id> and a
// revocation marker under <prefix>:revoked:<id> once the login is signed out.
type RedisSessionStore struct {
	client redis.Cmdable
	prefix string
}

func NewRedisSessionStore(client redis.Cmdable, prefix string) *RedisSessionStore {
	if prefix == "" {
		prefix = "session"
	}
	return &RedisSessionStore{client: client, prefix: prefix}
}

func (s *RedisSessionStore) key(id string) string {
	return s.prefix + ":" + id
}

func (s *RedisSessionStore) revokedKey(id string) string {
	return s.prefix + ":revoked:" + id
}

// Get returns nil, nil when no session is stored.
func (s *RedisSessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *RedisSessionStore) Put(ctx context.Context, sess *models.Session, ttl time.Duration) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(sess.ID), data, ttl).Err()
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}

// Revoke marks the login as signed out for ttl and drops its stored session.
func (s *RedisSessionStore) Revoke(ctx context.Context, id string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.revokedKey(id), "1", ttl).Err(); err != nil {
		return err
	}
	return s.client.Del(ctx, s.key(id)).Err()
}

func (s *RedisSessionStore) Revoked(ctx context.Context, id string) (bool, error) {
	n, err := s.client.Exists(ctx, s.revokedKey(id)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
