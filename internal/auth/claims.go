package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"storefront-bff/internal/session"
)

// Claims is the only supported shape for session tokens issued by the
// upstream auth service. The profile fields mirror what the storefront
// shows in account and navigation UI.
type Claims struct {
	jwt.RegisteredClaims

	Email       string   `json:"email"`
	FullName    string   `json:"fullName,omitempty"`
	Roles       []string `json:"roles,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
	AvatarURL   string   `json:"avatarUrl,omitempty"`
	PhoneNumber string   `json:"phoneNumber,omitempty"`
}

// SessionID keys the server-side session container. The token ID (jti) is
// preferred; Subject is the fallback for upstreams that omit jti.
func (c Claims) SessionID() string {
	if c.ID != "" {
		return c.ID
	}
	return c.Subject
}

// User converts the token claims into the session profile record.
func (c Claims) User() *session.User {
	return &session.User{
		Email:       c.Email,
		FullName:    c.FullName,
		Roles:       append([]string(nil), c.Roles...),
		Permissions: append([]string(nil), c.Permissions...),
		AvatarURL:   c.AvatarURL,
		PhoneNumber: c.PhoneNumber,
	}
}
