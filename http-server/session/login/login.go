package login

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"

	"ops-console/internal/config"
	"ops-console/internal/session"
)

type Request struct {
	// Fragment is the redirect hash, e.g. "#id_token=...".
	Fragment string `json:"fragment"`
	IDToken  string `json:"id_token"`
}

type SessionSaver interface {
	SaveSession(ctx context.Context, s *session.Session, expiresAt time.Time) error
}

func Login(log *slog.Logger, store SessionSaver, cfg config.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.session.Login"

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}

		var (
			s   *session.Session
			err error
		)
		switch {
		case strings.TrimSpace(req.IDToken) != "":
			s, err = session.FromToken(strings.TrimSpace(req.IDToken))
		default:
			s, err = session.FromFragment(req.Fragment)
		}
		if err != nil {
			log.Warn("sign-in rejected", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "invalid identity token", http.StatusUnauthorized)
			return
		}

		now := time.Now()
		if s.Expired(now) {
			http.Error(w, "identity token has expired", http.StatusUnauthorized)
			return
		}

		expiresAt := now.Add(cfg.TTL)
		if exp := s.Claims.ExpiresAt; !exp.IsZero() && exp.Before(expiresAt) {
			expiresAt = exp
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := store.SaveSession(ctx, s, expiresAt); err != nil {
			log.Error("failed to save session", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "failed to start session", http.StatusInternalServerError)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     cfg.CookieName,
			Value:    s.ID,
			Path:     "/",
			Expires:  expiresAt,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		log.Info("operator signed in", slog.String("op", op), slog.String("username", s.Claims.Username))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, s)
	}
}
