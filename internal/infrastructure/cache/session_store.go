package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const refreshSessionPrefix = "auth:refresh:"

// SessionStore records issued refresh tokens by jti so they can be rotated and revoked.
type SessionStore struct {
	redis *Redis
}

func NewSessionStore(r *Redis) *SessionStore {
	return &SessionStore{redis: r}
}

// Enabled is false when Redis is down; sessions then fall back to stateless token checks.
func (s *SessionStore) Enabled() bool {
	return s != nil && s.redis.Available()
}

func (s *SessionStore) Save(ctx context.Context, jti string, userID uuid.UUID, ttl time.Duration) error {
	if !s.Enabled() {
		return nil
	}
	return s.redis.Set(ctx, refreshSessionPrefix+jti, userID.String(), ttl)
}

// Consume spends a refresh token. Only the first caller for a jti gets true.
// Without Redis every signed token is accepted.
func (s *SessionStore) Consume(ctx context.Context, jti string) (bool, error) {
	if !s.Enabled() {
		return true, nil
	}
	return s.redis.Take(ctx, refreshSessionPrefix+jti)
}
