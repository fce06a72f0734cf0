package remote

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"elfkoelsch/internal/models"
)

// Session is the token pair the auth endpoints hand out, plus what the
// access token's claims say about it.
type Session struct {
	AccessToken  string
	RefreshToken string
	UserID       uuid.UUID
	ExpiresAt    time.Time
}

// Expired reports whether the access token has passed its exp claim.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// newSession introspects the access token. The claims are read unverified:
// the client never holds the backend's signing secret, it only needs the
// subject and expiry for bookkeeping; the backend re-verifies every request.
func newSession(accessToken, refreshToken string) *Session {
	s := &Session{AccessToken: accessToken, RefreshToken: refreshToken}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return s
	}
	if sub, err := claims.GetSubject(); err == nil {
		if id, err := uuid.Parse(sub); err == nil {
			s.UserID = id
		}
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		s.ExpiresAt = exp.Time
	}
	return s
}

// Session returns the current token pair, or nil when signed out.
func (c *Client) Session() *Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

func (c *Client) setSession(s *Session) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
}

func (c *Client) accessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return ""
	}
	return c.session.AccessToken
}

// authResponse is the wire shape of every successful auth call.
type authResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         map[string]any `json:"user"`
}

func (c *Client) adoptAuthResponse(resp authResponse) (models.AuthUser, error) {
	user, ok := decodeAuthUserRecord(resp.User)
	if !ok {
		return models.AuthUser{}, models.NewDecodeError("auth user")
	}
	if resp.AccessToken != "" {
		c.setSession(newSession(resp.AccessToken, resp.RefreshToken))
	}
	return user, nil
}
