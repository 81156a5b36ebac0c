package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"ops-console/internal/form"
	"ops-console/internal/reconcile"
	"ops-console/internal/session"
)

type Request struct {
	Status form.Value `json:"status"`
}

type PicklistStatusUpdater interface {
	UpdatePicklistStatus(ctx context.Context, s *session.Session, f form.PicklistStatusForm) reconcile.Outcome
}

func UpdatePicklistStatus(log *slog.Logger, picklists PicklistStatusUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.picklists.UpdatePicklistStatus"

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Warn("bad status body", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}

		s, _ := session.FromContext(r.Context())

		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		out := picklists.UpdatePicklistStatus(ctx, s, form.PicklistStatusForm{
			PicklistID: form.Value(chi.URLParam(r, "id")),
			Status:     req.Status,
		})

		render.Status(r, out.StatusCode())
		render.JSON(w, r, out)
	}
}
