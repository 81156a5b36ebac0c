package auth

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ops-console/internal/session"
	"ops-console/internal/storage/memory"
)

func token(t *testing.T, exp time.Time) string {
	t.Helper()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"cognito:username": "picker01",
		"exp":              exp.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	return signed
}

// capture records the session the wrapped handler saw.
func capture(got **session.Session) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, _ := session.FromContext(r.Context())
		*got = s
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestBasicAuth(t *testing.T) {
	h := BasicAuth("admin", "secret")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name string
		user string
		pass string
		set  bool
		want int
	}{
		{name: "valid", user: "admin", pass: "secret", set: true, want: http.StatusOK},
		{name: "wrong password", user: "admin", pass: "nope", set: true, want: http.StatusUnauthorized},
		{name: "no header", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
			if tt.set {
				req.SetBasicAuth(tt.user, tt.pass)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.Equal(t, tt.want, rr.Code)
			if tt.want == http.StatusUnauthorized {
				assert.Contains(t, rr.Header().Get("WWW-Authenticate"), "Basic")
			}
		})
	}
}

func TestLoadSession_Cookie(t *testing.T) {
	store := memory.New()
	s, err := session.FromToken(token(t, time.Now().Add(time.Hour)))
	require.NoError(t, err)
	require.NoError(t, store.SaveSession(context.Background(), s, time.Now().Add(time.Hour)))

	var got *session.Session
	h := LoadSession(slog.Default(), "console_session", store)(capture(&got))

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.AddCookie(&http.Cookie{Name: "console_session", Value: s.ID})
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, got)
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, "picker01", got.Claims.Username)
}

func TestLoadSession_BearerIsStable(t *testing.T) {
	var first, second *session.Session
	tok := token(t, time.Now().Add(time.Hour))

	for _, got := range []**session.Session{&first, &second} {
		h := LoadSession(slog.Default(), "console_session", memory.New())(capture(got))
		req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		h.ServeHTTP(httptest.NewRecorder(), req)
	}

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, tok, first.Token)
}

func TestLoadSession_Anonymous(t *testing.T) {
	got := &session.Session{}
	h := LoadSession(slog.Default(), "console_session", memory.New())(capture(&got))

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.AddCookie(&http.Cookie{Name: "console_session", Value: "unknown"})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Nil(t, got)
}

func TestLoadSession_ExpiredTokenIgnored(t *testing.T) {
	got := &session.Session{}
	h := LoadSession(slog.Default(), "console_session", memory.New())(capture(&got))

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, time.Now().Add(-time.Hour)))
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Nil(t, got)
}
