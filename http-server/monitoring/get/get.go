package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	viewsget "ops-console/http-server/views/get"
	"ops-console/internal/console"
	renderview "ops-console/internal/render"
	"ops-console/internal/session"
)

type MetricsProvider interface {
	Metrics(ctx context.Context, s *session.Session, refresh bool) console.Snapshot
}

type OverviewProvider interface {
	Overview(ctx context.Context, s *session.Session, refresh bool) (console.Overview, error)
}

// Monitoring serves the read-only lists under /api/monitoring/{view}.
func Monitoring(log *slog.Logger, views viewsget.Lister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := renderview.View(chi.URLParam(r, "view"))
		if !console.IsMonitoring(view) {
			http.Error(w, "unknown monitoring view", http.StatusNotFound)
			return
		}

		viewsget.List(log, views, view).ServeHTTP(w, r)
	}
}

func Metrics(m MetricsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		refresh, err := viewsget.Refresh(r)
		if err != nil {
			http.Error(w, "refresh must be true or false", http.StatusBadRequest)
			return
		}

		s, _ := session.FromContext(r.Context())

		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		snap := m.Metrics(ctx, s, refresh)

		render.Status(r, snap.Outcome.StatusCode())
		render.JSON(w, r, snap)
	}
}

func Overview(log *slog.Logger, o OverviewProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.monitoring.Overview"

		refresh, err := viewsget.Refresh(r)
		if err != nil {
			http.Error(w, "refresh must be true or false", http.StatusBadRequest)
			return
		}

		s, _ := session.FromContext(r.Context())

		ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
		defer cancel()

		ov, err := o.Overview(ctx, s, refresh)
		if err != nil {
			log.Error("failed to build overview", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "failed to load overview", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, ov)
	}
}
