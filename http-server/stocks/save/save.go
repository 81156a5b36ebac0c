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

type GoodsReceiver interface {
	ReceiveGoods(ctx context.Context, s *session.Session, f form.ReceiptForm) reconcile.Outcome
}

func ReceiveGoods(log *slog.Logger, stocks GoodsReceiver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.stocks.ReceiveGoods"

		var req form.ReceiptForm
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Warn("bad receipt body", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}

		s, _ := session.FromContext(r.Context())

		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		out := stocks.ReceiveGoods(ctx, s, req)

		render.Status(r, out.StatusCode())
		render.JSON(w, r, out)
	}
}
