package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"ops-console/internal/console"
	renderview "ops-console/internal/render"
	"ops-console/internal/session"
)

type Lister interface {
	List(ctx context.Context, s *session.Session, view renderview.View, refresh bool) (console.Snapshot, error)
}

type LatestProvider interface {
	Latest(s *session.Session, view renderview.View) (console.Snapshot, bool)
}

// Refresh reads the ?refresh= directive. An absent value means false.
func Refresh(r *http.Request) (bool, error) {
	raw := r.URL.Query().Get("refresh")
	if raw == "" {
		return false, nil
	}

	return strconv.ParseBool(raw)
}

// List serves a fixed view such as /api/orders.
func List(log *slog.Logger, views Lister, view renderview.View) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serveList(w, r, log, views, view)
	}
}

func serveList(w http.ResponseWriter, r *http.Request, log *slog.Logger, views Lister, view renderview.View) {
	const op = "handlers.views.List"

	refresh, err := Refresh(r)
	if err != nil {
		http.Error(w, "refresh must be true or false", http.StatusBadRequest)
		return
	}

	s, _ := session.FromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	snap, err := views.List(ctx, s, view, refresh)
	if err != nil {
		if errors.Is(err, renderview.ErrUnknownView) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		log.Error("failed to list view", slog.String("op", op), slog.String("view", string(view)), slog.String("error", err.Error()))
		http.Error(w, "failed to load view", http.StatusInternalServerError)
		return
	}

	render.Status(r, snap.Outcome.StatusCode())
	render.JSON(w, r, snap)
}

// Latest returns the last committed result of {view} without calling the
// backend.
func Latest(views LatestProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := renderview.View(chi.URLParam(r, "view"))
		if view != console.ViewMetrics {
			if _, err := renderview.ParseView(string(view)); err != nil {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
		}

		s, _ := session.FromContext(r.Context())

		snap, ok := views.Latest(s, view)
		if !ok {
			http.Error(w, "view has not been loaded yet", http.StatusNotFound)
			return
		}

		render.JSON(w, r, snap)
	}
}
