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
	ETA    form.Value `json:"eta"`
}

type OrderStatusUpdater interface {
	UpdateOrderStatus(ctx context.Context, s *session.Session, f form.OrderStatusForm) reconcile.Outcome
}

func UpdateOrderStatus(log *slog.Logger, orders OrderStatusUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.UpdateOrderStatus"

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Warn("bad status body", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}

		s, _ := session.FromContext(r.Context())

		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		out := orders.UpdateOrderStatus(ctx, s, form.OrderStatusForm{
			OrderID: form.Value(chi.URLParam(r, "id")),
			Status:  req.Status,
			ETA:     req.ETA,
		})

		render.Status(r, out.StatusCode())
		render.JSON(w, r, out)
	}
}
