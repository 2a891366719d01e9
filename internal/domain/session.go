package domain

import "time"

// Session binds an opaque token to an authenticated identity. Sessions are
// ephemeral and live only in the session store, never in the database.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its fixed TTL.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
