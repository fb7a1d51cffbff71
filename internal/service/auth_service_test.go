package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/client-portal/internal/auth"
	"github.com/spec-kit/client-portal/internal/config"
	"github.com/spec-kit/client-portal/internal/domain"
	"github.com/spec-kit/client-portal/internal/testutil"
)

func newAuthFixture(t *testing.T) (*AuthService, *testutil.FakeUserRepository, *auth.SessionStore) {
	t.Helper()
	mini := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	userRepo := testutil.NewFakeUserRepository()
	sessions := auth.NewSessionStore(client, 60)
	svc := NewAuthService(config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 60,
	}, userRepo, sessions)
	return svc, userRepo, sessions
}

func seedCredentialed(t *testing.T, repo *testutil.FakeUserRepository, status domain.UserStatus) domain.User {
	t.Helper()
	hash, err := auth.HashPassword("Str0ng!Pass", bcrypt.MinCost)
	require.NoError(t, err)
	user := domain.User{
		ID:           "11111111-1111-4111-8111-111111111111",
		Email:        "client@example.com",
		PasswordHash: hash,
		Role:         domain.RoleUser,
		Status:       status,
	}
	repo.Seed(user)
	return user
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials open a session", func(t *testing.T) {
		svc, userRepo, sessions := newAuthFixture(t)
		user := seedCredentialed(t, userRepo, domain.UserStatusActive)

		result, err := svc.Login(ctx, user.Email, "Str0ng!Pass")
		require.NoError(t, err)
		require.NotEmpty(t, result.Token)

		claims, err := svc.TokenManager().ParseToken(result.Token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.NoError(t, sessions.Validate(ctx, claims.SessionID, user.ID))

		stored, ok := userRepo.Get(user.ID)
		require.True(t, ok)
		assert.NotNil(t, stored.LastLogin)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, userRepo, _ := newAuthFixture(t)
		user := seedCredentialed(t, userRepo, domain.UserStatusActive)

		_, err := svc.Login(ctx, user.Email, "not-the-password")
		assertErrorCode(t, err, "UNAUTHORIZED")
	})

	t.Run("unknown email reads like wrong password", func(t *testing.T) {
		svc, _, _ := newAuthFixture(t)
		_, err := svc.Login(ctx, "nobody@example.com", "Str0ng!Pass")
		assertErrorCode(t, err, "UNAUTHORIZED")
	})

	t.Run("suspended account refused even with right password", func(t *testing.T) {
		svc, userRepo, _ := newAuthFixture(t)
		user := seedCredentialed(t, userRepo, domain.UserStatusSuspended)

		_, err := svc.Login(ctx, user.Email, "Str0ng!Pass")
		assertErrorCode(t, err, "FORBIDDEN")
	})

	t.Run("pending deletion account refused", func(t *testing.T) {
		svc, userRepo, _ := newAuthFixture(t)
		user := seedCredentialed(t, userRepo, domain.UserStatusPendingDeletion)

		_, err := svc.Login(ctx, user.Email, "Str0ng!Pass")
		assertErrorCode(t, err, "FORBIDDEN")
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, sessions := newAuthFixture(t)
	user := seedCredentialed(t, userRepo, domain.UserStatusActive)

	result, err := svc.Login(ctx, user.Email, "Str0ng!Pass")
	require.NoError(t, err)
	claims, err := svc.TokenManager().ParseToken(result.Token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, user.ID, claims.SessionID))
	assert.ErrorIs(t, sessions.Validate(ctx, claims.SessionID, user.ID), auth.ErrSessionNotFound)
}
