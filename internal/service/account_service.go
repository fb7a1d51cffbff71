package service

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/client-portal/internal/auth"
	"github.com/spec-kit/client-portal/internal/domain"
	"github.com/spec-kit/client-portal/internal/events"
	"github.com/spec-kit/client-portal/internal/repository"
	apperrors "github.com/spec-kit/client-portal/pkg/util"
)

// AccountService coordinates account provisioning and lifecycle.
type AccountService struct {
	users          repository.UserRepository
	sessions       *auth.SessionStore
	dispatcher     events.Dispatcher
	bcryptCost     int
	recoveryWindow time.Duration
}

// AccountDependencies bundles requirements for the account service.
type AccountDependencies struct {
	UserRepo       repository.UserRepository
	Sessions       *auth.SessionStore
	Dispatcher     events.Dispatcher
	BcryptCost     int
	RecoveryWindow time.Duration
}

// NewAccountService constructs the service.
func NewAccountService(deps AccountDependencies) *AccountService {
	window := deps.RecoveryWindow
	if window <= 0 {
		window = 30 * 24 * time.Hour
	}
	return &AccountService{
		users:          deps.UserRepo,
		sessions:       deps.Sessions,
		dispatcher:     deps.Dispatcher,
		bcryptCost:     deps.BcryptCost,
		recoveryWindow: window,
	}
}

// ProvisionInput describes an admin-created account. An empty Password
// asks the service to generate one meeting the policy.
type ProvisionInput struct {
	Email              string
	Password           string
	FullName           string
	Role               domain.UserRole
	Status             domain.UserStatus
	MustChangePassword bool
}

// ProvisionResult carries the created user and, exactly once, the
// plaintext password for manual out-of-band delivery. Credentials are
// never emailed.
type ProvisionResult struct {
	User     *domain.User
	Password string
}

// ProvisionUser creates an account with credentials. The password
// policy is checked before any store call; a duplicate email surfaces
// as CONFLICT.
func (s *AccountService) ProvisionUser(ctx context.Context, input ProvisionInput) (*ProvisionResult, error) {
	password := input.Password
	if password == "" {
		password = generatePassword()
	}
	if problems := auth.ValidatePasswordStrength(password); len(problems) > 0 {
		return nil, apperrors.NewValidationError("password does not meet policy", map[string]any{
			"problems": problems,
		})
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": input.Email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Email:              input.Email,
		FullName:           input.FullName,
		PasswordHash:       hash,
		Role:               input.Role,
		Status:             input.Status,
		MustChangePassword: input.MustChangePassword,
	}
	if user.Role == "" {
		user.Role = domain.RoleUser
	}
	if user.Status == "" {
		user.Status = domain.UserStatusActive
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:   events.EventUserProvisioned,
		UserID: user.ID,
		Payload: events.UserProvisionedPayload{
			Email: user.Email,
			Role:  user.Role,
		},
	})
	return &ProvisionResult{User: user, Password: password}, nil
}

// RequestDeletion soft-deletes an account: status pending_deletion, a
// purge date one recovery window out, and an opaque recovery token.
// The confirmation email is fire-and-forget; sessions are revoked
// whether or not it goes out. A failed status write aborts with the
// sessions untouched.
func (s *AccountService) RequestDeletion(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if user.Status == domain.UserStatusPendingDeletion {
		return user, nil
	}

	deletionDate := time.Now().Add(s.recoveryWindow)
	token := uuid.NewString()
	user.Status = domain.UserStatusPendingDeletion
	user.DeletionDate = &deletionDate
	user.DeletionToken = &token
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:   events.EventAccountDeletionRequested,
		UserID: user.ID,
		Payload: events.AccountDeletionRequestedPayload{
			Email:         user.Email,
			DeletionDate:  deletionDate,
			RecoveryToken: token,
		},
	})

	if err := s.sessions.RevokeAll(ctx, user.ID); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// RecoverAccount restores a pending_deletion account before its purge
// date. Unknown tokens and expired windows both answer NOT_FOUND so
// the endpoint doesn't reveal which accounts are pending.
func (s *AccountService) RecoverAccount(ctx context.Context, token string) (*domain.User, error) {
	user, err := s.users.GetByDeletionToken(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("recovery token", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if user.Status != domain.UserStatusPendingDeletion ||
		user.DeletionDate == nil || time.Now().After(*user.DeletionDate) {
		return nil, apperrors.NewNotFound("recovery token", nil)
	}

	user.Status = domain.UserStatusActive
	user.DeletionDate = nil
	user.DeletionToken = nil
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// SetStatus applies an admin status toggle per the account state
// machine. Suspension revokes the user's sessions.
func (s *AccountService) SetStatus(ctx context.Context, userID string, status domain.UserStatus) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !user.Status.CanAdminTransitionTo(status) {
		return nil, apperrors.NewValidationError("invalid status transition", map[string]any{
			"from": user.Status,
			"to":   status,
		})
	}

	user.Status = status
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	if status == domain.UserStatusSuspended {
		if err := s.sessions.RevokeAll(ctx, user.ID); err != nil {
			return nil, apperrors.MapError(err)
		}
	}
	return user, nil
}

// ListUsers returns accounts for the back office.
func (s *AccountService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// PurgeExpired hard-deletes accounts whose deletion date has passed.
// Called by the scheduler.
func (s *AccountService) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	return s.users.DeleteExpired(ctx, now)
}

func (s *AccountService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

const (
	passwordUpper   = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	passwordLower   = "abcdefghijkmnpqrstuvwxyz"
	passwordDigits  = "23456789"
	passwordSpecial = "!@#$%^&*-_"
)

// generatePassword produces a 16-character password guaranteed to meet
// the strength policy.
func generatePassword() string {
	pools := []string{passwordUpper, passwordLower, passwordDigits, passwordSpecial}
	all := passwordUpper + passwordLower + passwordDigits + passwordSpecial

	chars := make([]byte, 0, 16)
	for _, pool := range pools {
		chars = append(chars, pool[randomIndex(len(pool))])
	}
	for len(chars) < 16 {
		chars = append(chars, all[randomIndex(len(all))])
	}
	for i := len(chars) - 1; i > 0; i-- {
		j := randomIndex(i + 1)
		chars[i], chars[j] = chars[j], chars[i]
	}
	return string(chars)
}

func randomIndex(n int) int {
	idx, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand only fails when the platform source is broken
		panic(err)
	}
	return int(idx.Int64())
}
