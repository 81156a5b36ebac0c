package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ops-console/internal/session"
	"ops-console/internal/storage"
)

var testDB *sql.DB

// Tests here need a real server, e.g.
// TEST_MYSQL_DSN="root:@tcp(localhost:3306)/ops_console_test?parseTime=true".
func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_MYSQL_DSN")
	if dsn == "" {
		fmt.Println("TEST_MYSQL_DSN not set, skipping mysql tests")
		os.Exit(0)
	}

	var err error
	testDB, err = sql.Open("mysql", dsn)
	if err != nil {
		panic(fmt.Errorf("cannot open test db: %w", err))
	}

	if err := testDB.Ping(); err != nil {
		panic(fmt.Errorf("ping failed: %w", err))
	}

	code := m.Run()

	testDB.Close()
	os.Exit(code)
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewFromDB(testDB)
	require.NoError(t, s.EnsureSchema(ctx))

	sess := &session.Session{
		ID:    "8f0c1e9a-5b7d-4c1e-9f3a-2d6b8e4a1c70",
		Token: "header.payload.signature",
		Claims: session.Claims{
			Username:  "picker01",
			Email:     "picker01@example.com",
			Groups:    []string{"ops"},
			ExpiresAt: time.Now().Add(time.Hour).UTC().Truncate(time.Second),
		},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	require.NoError(t, s.SaveSession(ctx, sess, time.Now().Add(time.Hour)))

	got, err := s.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.Token, got.Token)
	assert.Equal(t, sess.Claims.Username, got.Claims.Username)
	assert.Equal(t, []string{"ops"}, got.Claims.Groups)

	require.NoError(t, s.DeleteSession(ctx, sess.ID))

	_, err = s.GetSession(ctx, sess.ID)
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
}

func TestGetSession_Expired(t *testing.T) {
	ctx := context.Background()
	s := NewFromDB(testDB)
	require.NoError(t, s.EnsureSchema(ctx))

	sess := &session.Session{ID: "1b5e7c3a-0d2f-4a6b-8c9e-7f1a3b5d2e40", Token: "t", CreatedAt: time.Now().UTC()}
	require.NoError(t, s.SaveSession(ctx, sess, time.Now().Add(-time.Minute)))

	_, err := s.GetSession(ctx, sess.ID)
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)

	n, err := s.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, int64(1))
}
