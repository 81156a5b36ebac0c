package logout

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"ops-console/internal/session"
)

type SessionDeleter interface {
	DeleteSession(ctx context.Context, id string) error
}

// Forgetter drops whatever the console keeps for a session.
type Forgetter interface {
	Forget(s *session.Session)
}

func Logout(log *slog.Logger, store SessionDeleter, views Forgetter, cookieName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.session.Logout"

		if s, ok := session.FromContext(r.Context()); ok {
			ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			defer cancel()

			if err := store.DeleteSession(ctx, s.ID); err != nil {
				log.Error("failed to delete session", slog.String("op", op), slog.String("error", err.Error()))
				http.Error(w, "failed to end session", http.StatusInternalServerError)
				return
			}
			views.Forget(s)
			s.Clear()
		}

		http.SetCookie(w, &http.Cookie{
			Name:     cookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		render.JSON(w, r, map[string]string{"status": "signed_out"})
	}
}
