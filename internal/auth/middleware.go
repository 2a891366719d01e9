package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/domain"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	UserID string
	Role   domain.Role
	Token  string
}

// SessionMiddleware resolves the session cookie and loads the principal.
type SessionMiddleware struct {
	cookieName string
	sessions   *SessionManager
}

// NewSessionMiddleware constructs middleware.
func NewSessionMiddleware(cookieName string, sessions *SessionManager) *SessionMiddleware {
	return &SessionMiddleware{cookieName: cookieName, sessions: sessions}
}

// Handle enforces authentication for protected routes.
func (m *SessionMiddleware) Handle(c *fiber.Ctx) error {
	token := c.Cookies(m.cookieName)
	session, err := m.sessions.Authenticate(c.UserContext(), token)
	if err != nil {
		return err
	}

	c.Locals(principalKey, &Principal{
		UserID: session.UserID,
		Role:   session.Role,
		Token:  session.Token,
	})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
