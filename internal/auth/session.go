package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/complaint-service/internal/domain"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// SessionStore persists sessions keyed by their opaque token.
type SessionStore interface {
	Save(ctx context.Context, session domain.Session) error
	Get(ctx context.Context, token string) (*domain.Session, bool, error)
	Delete(ctx context.Context, token string) error
}

// SessionManager issues and validates opaque session tokens. The TTL is
// fixed from creation; there is no sliding renewal.
type SessionManager struct {
	store SessionStore
	ttl   time.Duration
}

// NewSessionManager builds a manager over the given store.
func NewSessionManager(store SessionStore, ttl time.Duration) *SessionManager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionManager{store: store, ttl: ttl}
}

// TTL returns the fixed session lifetime.
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// Issue creates a session bound to the given identity.
func (m *SessionManager) Issue(ctx context.Context, userID string, role domain.Role) (*domain.Session, error) {
	session := domain.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		Role:      role,
		ExpiresAt: time.Now().Add(m.ttl),
	}
	if err := m.store.Save(ctx, session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Authenticate resolves a token to its identity. Missing, unknown and
// expired tokens all fail the same way.
func (m *SessionManager) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, apperrors.NewUnauthorized("please sign in")
	}
	session, ok, err := m.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NewUnauthorized("please sign in")
	}
	if session.Expired(time.Now()) {
		_ = m.store.Delete(ctx, token)
		return nil, apperrors.NewUnauthorized("please sign in")
	}
	return session, nil
}

// Revoke destroys a session. Revoking an absent token succeeds.
func (m *SessionManager) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return m.store.Delete(ctx, token)
}
