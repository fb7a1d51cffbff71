package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/client-portal/internal/auth"
	"github.com/spec-kit/client-portal/internal/domain"
	"github.com/spec-kit/client-portal/internal/events"
	"github.com/spec-kit/client-portal/internal/testutil"
)

func newAccountFixture(t *testing.T) (*AccountService, *testutil.FakeUserRepository, *auth.SessionStore, *eventRecorder) {
	t.Helper()
	mini := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	userRepo := testutil.NewFakeUserRepository()
	sessions := auth.NewSessionStore(client, 60)
	dispatcher := events.NewInMemoryDispatcher()
	recorder := recordEvents(dispatcher, events.EventUserProvisioned, events.EventAccountDeletionRequested)

	svc := NewAccountService(AccountDependencies{
		UserRepo:   userRepo,
		Sessions:   sessions,
		Dispatcher: dispatcher,
		BcryptCost: bcrypt.MinCost,
	})
	return svc, userRepo, sessions, recorder
}

func TestProvisionUser(t *testing.T) {
	ctx := context.Background()

	t.Run("weak password rejected before any store access", func(t *testing.T) {
		svc, userRepo, _, _ := newAccountFixture(t)
		_, err := svc.ProvisionUser(ctx, ProvisionInput{
			Email:    "new@example.com",
			Password: "abc",
		})
		assertErrorCode(t, err, "VALIDATION_FAILED")
		assert.Zero(t, userRepo.CreateCalls)
	})

	t.Run("empty password gets a generated one meeting policy", func(t *testing.T) {
		svc, _, _, recorder := newAccountFixture(t)
		result, err := svc.ProvisionUser(ctx, ProvisionInput{Email: "gen@example.com"})
		require.NoError(t, err)
		assert.Empty(t, auth.ValidatePasswordStrength(result.Password))
		assert.Equal(t, domain.RoleUser, result.User.Role, "role defaults to user")
		assert.Equal(t, domain.UserStatusActive, result.User.Status)
		assert.NotEqual(t, result.Password, result.User.PasswordHash)
		require.Len(t, recorder.Events, 1)
		assert.Equal(t, events.EventUserProvisioned, recorder.Events[0].Type)
	})

	t.Run("plaintext returned once and verifiable against the hash", func(t *testing.T) {
		svc, userRepo, _, _ := newAccountFixture(t)
		result, err := svc.ProvisionUser(ctx, ProvisionInput{
			Email:    "admin@example.com",
			Password: "Str0ng!Passw0rd",
			Role:     domain.RoleAdmin,
		})
		require.NoError(t, err)
		assert.Equal(t, "Str0ng!Passw0rd", result.Password)
		stored, ok := userRepo.Get(result.User.ID)
		require.True(t, ok)
		assert.NoError(t, auth.ComparePassword(stored.PasswordHash, "Str0ng!Passw0rd"))
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc, userRepo, _, _ := newAccountFixture(t)
		userRepo.Seed(domain.User{Email: "taken@example.com", Status: domain.UserStatusActive})
		_, err := svc.ProvisionUser(ctx, ProvisionInput{
			Email:    "taken@example.com",
			Password: "Str0ng!Passw0rd",
		})
		assertErrorCode(t, err, "CONFLICT")
	})
}

func TestRequestDeletion(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, sessions, recorder := newAccountFixture(t)

	user := domain.User{
		ID:     "11111111-1111-4111-8111-111111111111",
		Email:  "leaver@example.com",
		Role:   domain.RoleUser,
		Status: domain.UserStatusActive,
	}
	userRepo.Seed(user)
	sessionID, err := sessions.Create(ctx, user.ID)
	require.NoError(t, err)

	updated, err := svc.RequestDeletion(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.UserStatusPendingDeletion, updated.Status)
	require.NotNil(t, updated.DeletionToken)
	require.NotNil(t, updated.DeletionDate)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), *updated.DeletionDate, time.Second)

	assert.ErrorIs(t, sessions.Validate(ctx, sessionID, user.ID), auth.ErrSessionNotFound,
		"deletion revokes live sessions")

	require.Len(t, recorder.Events, 1)
	payload, ok := recorder.Events[0].Payload.(events.AccountDeletionRequestedPayload)
	require.True(t, ok)
	assert.Equal(t, user.Email, payload.Email)
	assert.Equal(t, *updated.DeletionToken, payload.RecoveryToken)

	// Repeating the request is idempotent: same state, no second email.
	again, err := svc.RequestDeletion(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, *updated.DeletionToken, *again.DeletionToken)
	assert.Len(t, recorder.Events, 1)
}

func TestRequestDeletionUpdateFailure(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, sessions, recorder := newAccountFixture(t)

	user := domain.User{
		ID:     "22222222-2222-4222-8222-222222222222",
		Email:  "stuck@example.com",
		Status: domain.UserStatusActive,
	}
	userRepo.Seed(user)
	sessionID, err := sessions.Create(ctx, user.ID)
	require.NoError(t, err)

	userRepo.FailUpdate = context.DeadlineExceeded
	_, err = svc.RequestDeletion(ctx, user.ID)
	require.Error(t, err)
	assert.NoError(t, sessions.Validate(ctx, sessionID, user.ID),
		"failed status write leaves sessions untouched")
	assert.Empty(t, recorder.Events)
}

func TestRecoverAccount(t *testing.T) {
	ctx := context.Background()

	pending := func(token string, deletionDate time.Time) domain.User {
		return domain.User{
			Email:         "pending@example.com",
			Status:        domain.UserStatusPendingDeletion,
			DeletionToken: &token,
			DeletionDate:  &deletionDate,
		}
	}

	t.Run("restores within the window and clears deletion fields", func(t *testing.T) {
		svc, userRepo, _, _ := newAccountFixture(t)
		userRepo.Seed(pending("good-token", time.Now().Add(10*24*time.Hour)))

		user, err := svc.RecoverAccount(ctx, "good-token")
		require.NoError(t, err)
		assert.Equal(t, domain.UserStatusActive, user.Status)
		assert.Nil(t, user.DeletionToken)
		assert.Nil(t, user.DeletionDate)
	})

	t.Run("unknown token", func(t *testing.T) {
		svc, _, _, _ := newAccountFixture(t)
		_, err := svc.RecoverAccount(ctx, "no-such-token")
		assertErrorCode(t, err, "NOT_FOUND")
	})

	t.Run("expired window answers not found too", func(t *testing.T) {
		svc, userRepo, _, _ := newAccountFixture(t)
		userRepo.Seed(pending("late-token", time.Now().Add(-time.Hour)))
		_, err := svc.RecoverAccount(ctx, "late-token")
		assertErrorCode(t, err, "NOT_FOUND")
	})
}

func TestSetStatus(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, sessions, _ := newAccountFixture(t)

	user := domain.User{
		ID:     "33333333-3333-4333-8333-333333333333",
		Email:  "toggle@example.com",
		Status: domain.UserStatusActive,
	}
	userRepo.Seed(user)
	sessionID, err := sessions.Create(ctx, user.ID)
	require.NoError(t, err)

	updated, err := svc.SetStatus(ctx, user.ID, domain.UserStatusSuspended)
	require.NoError(t, err)
	assert.Equal(t, domain.UserStatusSuspended, updated.Status)
	assert.ErrorIs(t, sessions.Validate(ctx, sessionID, user.ID), auth.ErrSessionNotFound)

	// pending_deletion is not an admin-reachable status.
	_, err = svc.SetStatus(ctx, user.ID, domain.UserStatusPendingDeletion)
	assertErrorCode(t, err, "VALIDATION_FAILED")
}

func TestPurgeExpired(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, _, _ := newAccountFixture(t)

	expiredDate := time.Now().Add(-time.Hour)
	liveDate := time.Now().Add(24 * time.Hour)
	expiredToken := "expired"
	liveToken := "live"

	expired := domain.User{
		ID:            "44444444-4444-4444-8444-444444444444",
		Email:         "expired@example.com",
		Status:        domain.UserStatusPendingDeletion,
		DeletionDate:  &expiredDate,
		DeletionToken: &expiredToken,
	}
	still := domain.User{
		ID:            "55555555-5555-4555-8555-555555555555",
		Email:         "still@example.com",
		Status:        domain.UserStatusPendingDeletion,
		DeletionDate:  &liveDate,
		DeletionToken: &liveToken,
	}
	userRepo.Seed(expired)
	userRepo.Seed(still)

	purged, err := svc.PurgeExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	_, gone := userRepo.Get(expired.ID)
	assert.False(t, gone)
	_, kept := userRepo.Get(still.ID)
	assert.True(t, kept)
}
