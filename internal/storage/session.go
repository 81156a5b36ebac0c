package storage

import (
	"context"
	"errors"
	"time"

	"ops-console/internal/session"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps signed-in console sessions between page loads.
type SessionStore interface {
	SaveSession(ctx context.Context, s *session.Session, expiresAt time.Time) error
	GetSession(ctx context.Context, id string) (*session.Session, error)
	DeleteSession(ctx context.Context, id string) error
}

// Purger is a SessionStore that can drop its expired sessions in bulk.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}
