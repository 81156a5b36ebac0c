package update

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

type TransferApprover interface {
	ApproveTransfer(ctx context.Context, s *session.Session, f form.ApproveTransferForm) reconcile.Outcome
}

func ApproveTransfer(transfers TransferApprover) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _ := session.FromContext(r.Context())

		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		out := transfers.ApproveTransfer(ctx, s, form.ApproveTransferForm{TransferID: form.Value(chi.URLParam(r, "id"))})

		render.Status(r, out.StatusCode())
		render.JSON(w, r, out)
	}
}
