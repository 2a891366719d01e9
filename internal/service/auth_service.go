package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

const minPasswordLength = 6

// AuthService coordinates registration and sign-in flows.
type AuthService struct {
	users      repository.UserRepository
	sessions   *auth.SessionManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository, sessions *auth.SessionManager) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		bcryptCost: cfg.BcryptCost,
	}
}

// SignUp creates a new end-user account with role "user".
func (s *AuthService) SignUp(ctx context.Context, fullName, email, password string) (*domain.User, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.ToLower(strings.TrimSpace(email))

	if fullName == "" || email == "" || password == "" {
		return nil, apperrors.NewValidationError("full name, email and password are required", nil)
	}
	if len(password) < minPasswordLength {
		return nil, apperrors.NewValidationError("password must be at least 6 characters", nil)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	user := &domain.User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// a concurrent signup can slip past the pre-check; the store's
		// uniqueness guarantee is still a conflict, not a server fault
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.NewConflict("email already registered", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// SignIn verifies credentials and establishes a session. Unknown emails and
// wrong passwords fail identically so accounts cannot be enumerated.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("email and password are required", nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid email or password")
		}
		return nil, apperrors.MapError(err)
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid email or password")
	}

	session, err := s.sessions.Issue(ctx, user.ID, user.Role)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return session, nil
}

// SignOut destroys the session. Destroying an absent session still succeeds.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	if err := s.sessions.Revoke(ctx, token); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// EnsureAdmin bootstraps an administrator account at startup. A no-op when
// unconfigured or when the email is already registered.
func (s *AuthService) EnsureAdmin(ctx context.Context, fullName, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return apperrors.MapError(err)
	}

	admin := &domain.User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil
		}
		return apperrors.MapError(err)
	}
	return nil
}

// SessionManager exposes the underlying manager for middleware usage.
func (s *AuthService) SessionManager() *auth.SessionManager {
	return s.sessions
}
