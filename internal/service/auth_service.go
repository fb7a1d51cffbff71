package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/client-portal/internal/auth"
	"github.com/spec-kit/client-portal/internal/config"
	"github.com/spec-kit/client-portal/internal/domain"
	"github.com/spec-kit/client-portal/internal/repository"
	apperrors "github.com/spec-kit/client-portal/pkg/util"
)

// AuthService coordinates login and logout flows.
type AuthService struct {
	users    repository.UserRepository
	sessions *auth.SessionStore
	tokenMgr *auth.TokenManager
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository, sessions *auth.SessionStore) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		tokenMgr: auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
	}
}

// LoginResult carries the issued token and account flags the client
// needs on first contact.
type LoginResult struct {
	User               *domain.User
	Token              string
	ExpiresAt          time.Time
	MustChangePassword bool
}

// Login authenticates by email and password and opens a session.
// Suspended and pending-deletion accounts are refused.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if !user.CanLogin() {
		return nil, apperrors.NewForbidden("account unavailable")
	}

	sessionID, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	token, expiresAt, err := s.tokenMgr.GenerateToken(user.ID, user.Role, sessionID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	now := time.Now()
	_ = s.users.RecordLogin(ctx, user.ID, now)
	user.LastLogin = &now

	return &LoginResult{
		User:               user,
		Token:              token,
		ExpiresAt:          expiresAt,
		MustChangePassword: user.MustChangePassword,
	}, nil
}

// Logout revokes the caller's session.
func (s *AuthService) Logout(ctx context.Context, userID, sessionID string) error {
	if err := s.sessions.Revoke(ctx, sessionID, userID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
