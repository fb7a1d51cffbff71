package auth

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionStore(t *testing.T) *SessionStore {
	t.Helper()
	mini := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionStore(client, 60)
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newSessionStore(t)

	sessionID, err := store.Create(ctx, "user-1")
	require.NoError(t, err)
	require.NotEmpty(t, sessionID)

	assert.NoError(t, store.Validate(ctx, sessionID, "user-1"))
	assert.ErrorIs(t, store.Validate(ctx, sessionID, "user-2"),
		ErrSessionNotFound, "a session only validates for its owner")
	assert.ErrorIs(t, store.Validate(ctx, "missing-session", "user-1"), ErrSessionNotFound)

	require.NoError(t, store.Revoke(ctx, sessionID, "user-1"))
	assert.ErrorIs(t, store.Validate(ctx, sessionID, "user-1"), ErrSessionNotFound)
}

func TestSessionRevokeAll(t *testing.T) {
	ctx := context.Background()
	store := newSessionStore(t)

	first, err := store.Create(ctx, "user-1")
	require.NoError(t, err)
	second, err := store.Create(ctx, "user-1")
	require.NoError(t, err)
	other, err := store.Create(ctx, "user-2")
	require.NoError(t, err)

	require.NoError(t, store.RevokeAll(ctx, "user-1"))

	assert.ErrorIs(t, store.Validate(ctx, first, "user-1"), ErrSessionNotFound)
	assert.ErrorIs(t, store.Validate(ctx, second, "user-1"), ErrSessionNotFound)
	assert.NoError(t, store.Validate(ctx, other, "user-2"), "other users keep their sessions")
}

func TestTokenRoundTrip(t *testing.T) {
	manager := NewTokenManager("test-secret", 60)

	token, expiresAt, err := manager.GenerateToken("user-1", "admin", "session-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.False(t, expiresAt.IsZero())

	claims, err := manager.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.EqualValues(t, "admin", claims.Role)
	assert.Equal(t, "session-1", claims.SessionID)

	// A token signed with another secret never parses.
	forged := NewTokenManager("other-secret", 60)
	_, err = forged.ParseToken(token)
	assert.Error(t, err)
}
