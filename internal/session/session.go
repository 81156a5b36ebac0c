// Package session carries the identity token a console user signed in with.
// The token is only read for display claims; signature checks belong to the
// backend that receives it.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrNoToken      = errors.New("no id_token in redirect fragment")
	ErrInvalidToken = errors.New("malformed id token")
)

type Claims struct {
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Groups    []string  `json:"groups"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"-"`
	Claims    Claims    `json:"claims"`
	CreatedAt time.Time `json:"created_at"`
}

// FromFragment starts a session from the identity provider redirect, e.g.
// "#id_token=...&token_type=Bearer".
func FromFragment(fragment string) (*Session, error) {
	const op = "session.FromFragment"

	values, err := url.ParseQuery(strings.TrimPrefix(fragment, "#"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	token := values.Get("id_token")
	if token == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrNoToken)
	}

	return FromToken(token)
}

func FromToken(token string) (*Session, error) {
	const op = "session.FromToken"

	claims, err := parseClaims(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Session{
		ID:        uuid.NewString(),
		Token:     token,
		Claims:    claims,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func parseClaims(token string) (Claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	c := Claims{}
	if v, ok := mc["cognito:username"].(string); ok {
		c.Username = v
	} else if v, ok := mc["username"].(string); ok {
		c.Username = v
	}
	if v, ok := mc["email"].(string); ok {
		c.Email = v
	}
	if groups, ok := mc["cognito:groups"].([]any); ok {
		for _, g := range groups {
			if s, ok := g.(string); ok {
				c.Groups = append(c.Groups, s)
			}
		}
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time.UTC()
	}

	return c, nil
}

func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

func (s *Session) Expired(now time.Time) bool {
	if s == nil || s.Claims.ExpiresAt.IsZero() {
		return false
	}

	return !now.Before(s.Claims.ExpiresAt)
}

// Clear drops the token and claims. The ID is kept so the store entry can
// still be removed.
func (s *Session) Clear() {
	if s == nil {
		return
	}

	s.Token = ""
	s.Claims = Claims{}
}

type ctxKey struct{}

func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}
