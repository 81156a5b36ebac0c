package get

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"ops-console/internal/form"
	"ops-console/internal/reconcile"
	"ops-console/internal/session"
)

type RouteOptimizer interface {
	OptimizeRoute(ctx context.Context, s *session.Session, f form.PicklistRefForm) reconcile.Outcome
}

type QRGenerator interface {
	PicklistQR(ctx context.Context, s *session.Session, f form.PicklistRefForm) reconcile.Outcome
}

func OptimizeRoute(picklists RouteOptimizer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _ := session.FromContext(r.Context())

		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		out := picklists.OptimizeRoute(ctx, s, form.PicklistRefForm{PicklistID: form.Value(chi.URLParam(r, "id"))})

		render.Status(r, out.StatusCode())
		render.JSON(w, r, out)
	}
}

func PicklistQR(picklists QRGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _ := session.FromContext(r.Context())

		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		out := picklists.PicklistQR(ctx, s, form.PicklistRefForm{PicklistID: form.Value(chi.URLParam(r, "id"))})

		render.Status(r, out.StatusCode())
		render.JSON(w, r, out)
	}
}
