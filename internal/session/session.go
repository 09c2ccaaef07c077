package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultTTL is the default session lifetime.
const DefaultTTL = 7 * 24 * time.Hour

// ErrNoSession is returned when a token is unknown or expired.
var ErrNoSession = errors.New("no session")

// Store maps opaque session tokens to user IDs in Redis, with a TTL.
// Expiry is handled by Redis; there is no sweeper to run.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a session store. A zero ttl falls back to DefaultTTL.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{client: client, ttl: ttl}
}

func sessionKey(token string) string {
	return "marque:session:" + token
}

// Create registers a new session for userID and returns the opaque token.
func (s *Store) Create(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	if err := s.client.Set(ctx, sessionKey(token), userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return token, nil
}

// Resolve returns the user ID for a token and refreshes its TTL.
func (s *Store) Resolve(ctx context.Context, token string) (string, error) {
	userID, err := s.client.Get(ctx, sessionKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNoSession
		}
		return "", fmt.Errorf("failed to resolve session: %w", err)
	}

	// Sliding expiry: an active session stays alive. Best effort.
	_ = s.client.Expire(ctx, sessionKey(token), s.ttl).Err()

	return userID, nil
}

// Destroy removes a session. Destroying an unknown token is not an error.
func (s *Store) Destroy(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}
