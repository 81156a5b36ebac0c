package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ops-console/internal/session"
	"ops-console/internal/storage"
)

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()

	sess := &session.Session{ID: "s-1", Token: "tok", Claims: session.Claims{Email: "a@b.io"}}
	require.NoError(t, s.SaveSession(ctx, sess, time.Now().Add(time.Hour)))

	got, err := s.GetSession(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "tok", got.Token)

	got.Clear()
	again, err := s.GetSession(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "tok", again.Token, "stored copy must not change through returned pointer")

	require.NoError(t, s.DeleteSession(ctx, "s-1"))
	_, err = s.GetSession(ctx, "s-1")
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
}

func TestGetSession_Expired(t *testing.T) {
	s := New()
	require.NoError(t, s.SaveSession(context.Background(), &session.Session{ID: "old"}, time.Now().Add(-time.Second)))

	_, err := s.GetSession(context.Background(), "old")
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
}

func TestPurgeExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := New()
	s.now = func() time.Time { return now }

	require.NoError(t, s.SaveSession(ctx, &session.Session{ID: "old"}, now.Add(-time.Minute)))
	require.NoError(t, s.SaveSession(ctx, &session.Session{ID: "edge"}, now))
	require.NoError(t, s.SaveSession(ctx, &session.Session{ID: "live"}, now.Add(time.Hour)))

	n, err := s.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = s.GetSession(ctx, "live")
	assert.NoError(t, err)
	assert.Len(t, s.sessions, 1)
}
