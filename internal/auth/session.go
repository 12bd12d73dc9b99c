package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
)

// SessionCookie is read when a request carries no Authorization header.
const SessionCookie = "portal_session"

var (
	ErrMissingToken = errors.New("missing_token")
	ErrInvalidToken = errors.New("invalid_token")
)

// Session is the per-request view of the signed-in user.
type Session struct {
	AccessToken string
	UserID      string
	Name        string
	Email       string
	Roles       []string
	Permissions []string
	ExpiresAt   time.Time
}

func NewSession(token string, claims *Claims) *Session {
	s := &Session{AccessToken: token}
	if claims == nil {
		return s
	}
	s.UserID = claims.UserID
	if s.UserID == "" {
		s.UserID = claims.Subject
	}
	s.Name = claims.Name
	s.Email = claims.Email
	s.Roles = claims.Roles
	s.Permissions = claims.Permissions
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s
}

func (s *Session) HasToken() bool {
	return s != nil && strings.TrimSpace(s.AccessToken) != ""
}

func (s *Session) HasRole(role string) bool {
	if s == nil {
		return false
	}
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func SessionFromRequest(r *http.Request, secret, issuer string) (*Session, error) {
	token := BearerToken(r.Header.Get("Authorization"))
	if token == "" {
		if cookie, err := r.Cookie(SessionCookie); err == nil {
			token = strings.TrimSpace(cookie.Value)
		}
	}
	if token == "" {
		return nil, ErrMissingToken
	}
	claims, err := ParseToken(secret, issuer, token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return NewSession(token, claims), nil
}

func BearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

type sessionKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func SessionFrom(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}
