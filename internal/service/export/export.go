package export

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ops-console/internal/console"
	"ops-console/internal/render"
	"ops-console/internal/session"
)

var ErrViewFailed = errors.New("view has no data to export")

type ViewSource interface {
	Latest(s *session.Session, view render.View) (console.Snapshot, bool)
	List(ctx context.Context, s *session.Session, view render.View, refresh bool) (console.Snapshot, error)
}

type File struct {
	Name string
	Data []byte
}

type Service struct {
	source ViewSource
	now    func() time.Time
}

func NewService(source ViewSource) *Service {
	return &Service{source: source, now: time.Now}
}

// Export writes the last committed table of view as a workbook. A view that
// was never loaded is fetched first.
func (e *Service) Export(ctx context.Context, s *session.Session, view render.View) (File, error) {
	const op = "service.export.Export"

	snap, ok := e.source.Latest(s, view)
	if !ok {
		var err error
		snap, err = e.source.List(ctx, s, view, false)
		if err != nil {
			return File{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	if !snap.Outcome.OK() {
		return File{}, fmt.Errorf("%s: %w: %s", op, ErrViewFailed, snap.Outcome.Message)
	}

	data, err := render.XLSX(snap.Table, string(view))
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", op, err)
	}

	return File{
		Name: fmt.Sprintf("%s_%s.xlsx", view, e.now().Format("2006-01-02_150405")),
		Data: data,
	}, nil
}
