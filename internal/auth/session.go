package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound is returned when a session is absent or revoked.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore tracks live sessions in Redis. Sessions exist so the
// deletion and suspension flows can revoke access server-side; a JWT
// alone cannot be invalidated before expiry.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore builds a store with the given session TTL.
func NewSessionStore(client *redis.Client, ttlMinutes int) *SessionStore {
	if ttlMinutes <= 0 {
		ttlMinutes = 720
	}
	return &SessionStore{client: client, ttl: time.Duration(ttlMinutes) * time.Minute}
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

func userSessionsKey(userID string) string {
	return "user_sessions:" + userID
}

// Create opens a session for the user and returns its ID.
func (s *SessionStore) Create(ctx context.Context, userID string) (string, error) {
	sessionID := uuid.NewString()
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKey(sessionID), userID, s.ttl)
	pipe.SAdd(ctx, userSessionsKey(userID), sessionID)
	pipe.Expire(ctx, userSessionsKey(userID), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return sessionID, nil
}

// Validate checks the session is alive and owned by the given user.
func (s *SessionStore) Validate(ctx context.Context, sessionID, userID string) error {
	owner, err := s.client.Get(ctx, sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return ErrSessionNotFound
	}
	if err != nil {
		return err
	}
	if owner != userID {
		return ErrSessionNotFound
	}
	return nil
}

// Revoke removes a single session.
func (s *SessionStore) Revoke(ctx context.Context, sessionID, userID string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, sessionKey(sessionID))
	pipe.SRem(ctx, userSessionsKey(userID), sessionID)
	_, err := pipe.Exec(ctx)
	return err
}

// RevokeAll removes every session the user holds. Used by account
// deletion and suspension.
func (s *SessionStore) RevokeAll(ctx context.Context, userID string) error {
	sessionIDs, err := s.client.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil && err != redis.Nil {
		return err
	}
	pipe := s.client.TxPipeline()
	for _, sessionID := range sessionIDs {
		pipe.Del(ctx, sessionKey(sessionID))
	}
	pipe.Del(ctx, userSessionsKey(userID))
	_, err = pipe.Exec(ctx)
	return err
}
