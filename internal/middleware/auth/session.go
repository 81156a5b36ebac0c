package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"ops-console/internal/session"
	"ops-console/internal/storage"
)

type SessionGetter interface {
	GetSession(ctx context.Context, id string) (*session.Session, error)
}

// LoadSession attaches the caller's session to the request context. It reads
// the session cookie first and falls back to a bearer id token. Requests
// without a usable session pass through anonymous; the backend decides what
// they may do.
func LoadSession(log *slog.Logger, cookieName string, store SessionGetter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middleware.auth.LoadSession"

			s := fromCookie(r, cookieName, store, log)
			if s == nil {
				s = fromBearer(r)
			}
			if s == nil || s.Expired(time.Now()) {
				next.ServeHTTP(w, r)
				return
			}

			log.Debug("session attached",
				slog.String("op", op),
				slog.String("session_id", s.ID),
				slog.String("username", s.Claims.Username),
			)
			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), s)))
		})
	}
}

func fromCookie(r *http.Request, name string, store SessionGetter, log *slog.Logger) *session.Session {
	c, err := r.Cookie(name)
	if err != nil || c.Value == "" {
		return nil
	}

	s, err := store.GetSession(r.Context(), c.Value)
	if err != nil {
		if !errors.Is(err, storage.ErrSessionNotFound) {
			log.Error("session lookup failed",
				slog.String("op", "middleware.auth.fromCookie"),
				slog.String("error", err.Error()),
			)
		}
		return nil
	}

	return s
}

func fromBearer(r *http.Request) *session.Session {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return nil
	}

	token = strings.TrimSpace(token)
	s, err := session.FromToken(token)
	if err != nil {
		return nil
	}
	// the same token always maps to the same result areas
	s.ID = uuid.NewSHA1(uuid.NameSpaceOID, []byte(token)).String()

	return s
}
