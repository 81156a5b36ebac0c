package generate_excel

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	renderview "ops-console/internal/render"
	"ops-console/internal/service/export"
	"ops-console/internal/session"
)

type Exporter interface {
	Export(ctx context.Context, s *session.Session, view renderview.View) (export.File, error)
}

func ExportView(log *slog.Logger, gen Exporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.report.ExportView"

		view, err := renderview.ParseView(chi.URLParam(r, "view"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		s, _ := session.FromContext(r.Context())

		ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
		defer cancel()

		file, err := gen.Export(ctx, s, view)
		if err != nil {
			if errors.Is(err, export.ErrViewFailed) {
				http.Error(w, err.Error(), http.StatusBadGateway)
				return
			}
			log.Error("failed to generate excel", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename="+file.Name)
		_, _ = w.Write(file.Data)
	}
}
