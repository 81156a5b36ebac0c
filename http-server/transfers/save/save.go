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

type TransferCreator interface {
	CreateTransfer(ctx context.Context, s *session.Session, f form.TransferForm) reconcile.Outcome
}

func CreateTransfer(log *slog.Logger, transfers TransferCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.transfers.CreateTransfer"

		var req form.TransferForm
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Warn("bad transfer body", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}

		s, _ := session.FromContext(r.Context())
		if req.RequestedBy.Trim() == "" && s.Authenticated() {
			req.RequestedBy = form.Value(s.Claims.Username)
		}

		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		out := transfers.CreateTransfer(ctx, s, req)

		status := out.StatusCode()
		if out.OK() {
			status = http.StatusCreated
		}
		render.Status(r, status)
		render.JSON(w, r, out)
	}
}
