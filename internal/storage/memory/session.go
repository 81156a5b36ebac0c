// Package memory is the session store used for local runs and tests.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ops-console/internal/session"
	"ops-console/internal/storage"
)

type entry struct {
	sess      session.Session
	expiresAt time.Time
}

type Storage struct {
	mu       sync.RWMutex
	sessions map[string]entry
	now      func() time.Time
}

func New() *Storage {
	return &Storage{
		sessions: make(map[string]entry),
		now:      time.Now,
	}
}

func (s *Storage) SaveSession(_ context.Context, sess *session.Session, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.ID] = entry{sess: *sess, expiresAt: expiresAt}

	return nil
}

func (s *Storage) GetSession(_ context.Context, id string) (*session.Session, error) {
	const op = "storage.memory.GetSession"

	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok || !s.now().Before(e.expiresAt) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrSessionNotFound)
	}

	sess := e.sess
	return &sess, nil
}

func (s *Storage) DeleteSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)

	return nil
}

// PurgeExpired removes sessions past their expiry and returns how many went.
func (s *Storage) PurgeExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var n int64
	for id, e := range s.sessions {
		if !now.Before(e.expiresAt) {
			delete(s.sessions, id)
			n++
		}
	}

	return n, nil
}
