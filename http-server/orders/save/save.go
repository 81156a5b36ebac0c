package save

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"ops-console/internal/form"
	"ops-console/internal/reconcile"
	"ops-console/internal/session"
)

type OrderCreator interface {
	CreateOrder(ctx context.Context, s *session.Session, f form.OrderForm) reconcile.Outcome
}

func CreateOrder(log *slog.Logger, orders OrderCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.CreateOrder"

		var req form.OrderForm
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Warn("bad order body", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}

		s, _ := session.FromContext(r.Context())

		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		out := orders.CreateOrder(ctx, s, req)

		status := out.StatusCode()
		if out.OK() {
			status = http.StatusCreated
		}
		render.Status(r, status)
		render.JSON(w, r, out)
	}
}
