package console

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"ops-console/internal/client"
	"ops-console/internal/models"
	"ops-console/internal/reconcile"
	"ops-console/internal/render"
	"ops-console/internal/session"
)

// ViewMetrics is the result area of the metrics dashboard.
const ViewMetrics render.View = "metrics"

var listOps = map[render.View]client.Operation{
	render.ViewOrders:        client.OpListOrders,
	render.ViewPicklists:     client.OpListPicklists,
	render.ViewStocks:        client.OpListStocks,
	render.ViewGoodsReceipts: client.OpListGoodsReceipts,
	render.ViewTransfers:     client.OpListTransfers,
	render.ViewExceptions:    client.OpListExceptions,
	render.ViewAuditLogs:     client.OpListAuditLogs,
	render.ViewBackorders:    client.OpListBackorders,
	render.ViewNotifications: client.OpListNotifications,
}

// MonitoringViews are the read-only lists shown on the monitoring page.
var MonitoringViews = []render.View{
	render.ViewExceptions,
	render.ViewAuditLogs,
	render.ViewBackorders,
	render.ViewNotifications,
}

func IsMonitoring(view render.View) bool {
	for _, v := range MonitoringViews {
		if v == view {
			return true
		}
	}
	return false
}

// List fetches view. With refresh, or after a mutation touched the view, the
// backend is asked to bypass its cache. Each call is a new round trip.
func (c *Console) List(ctx context.Context, s *session.Session, view render.View, refresh bool) (Snapshot, error) {
	const op = "console.List"

	listOp, ok := listOps[view]
	if !ok {
		return Snapshot{}, fmt.Errorf("%s: %w: %q", op, render.ErrUnknownView, view)
	}

	board := c.board(s)
	refresh = refresh || board.Dirty(view)
	snap := Snapshot{View: view, Seq: board.Issue(view), Refreshed: refresh}

	resp, failed := c.send(ctx, s, listOp, client.Request{}, client.Options{Refresh: refresh})
	switch {
	case failed != nil:
		snap.Outcome = *failed
	case !resp.OK():
		snap.Outcome = c.rec.Reconcile(listOp, reconcile.Input{}, resp)
	default:
		var list models.RecordList
		if err := json.Unmarshal(resp.Body, &list); err != nil {
			snap.Outcome = c.rec.Malformed(listOp, resp.StatusCode, err)
			break
		}

		table, err := c.fmt.Render(view, list.Records)
		if err != nil {
			return Snapshot{}, fmt.Errorf("%s: %w", op, err)
		}

		snap.Outcome = c.rec.Reconcile(listOp, reconcile.Input{}, resp)
		snap.Records = list.Records
		snap.Table = table
	}

	return c.commit(board, snap), nil
}

// Metrics fetches the dashboard snapshot.
func (c *Console) Metrics(ctx context.Context, s *session.Session, refresh bool) Snapshot {
	board := c.board(s)
	snap := Snapshot{View: ViewMetrics, Seq: board.Issue(ViewMetrics), Refreshed: refresh}

	resp, failed := c.send(ctx, s, client.OpMetrics, client.Request{}, client.Options{Refresh: refresh})
	switch {
	case failed != nil:
		snap.Outcome = *failed
	case !resp.OK():
		snap.Outcome = c.rec.Reconcile(client.OpMetrics, reconcile.Input{}, resp)
	default:
		var m models.MetricsSnapshot
		if err := json.Unmarshal(resp.Body, &m); err != nil {
			snap.Outcome = c.rec.Malformed(client.OpMetrics, resp.StatusCode, err)
			break
		}

		d := c.fmt.RenderMetrics(m)
		snap.Outcome = c.rec.Reconcile(client.OpMetrics, reconcile.Input{}, resp)
		snap.Dashboard = &d
		snap.Table = d.ByStatus
	}

	return c.commit(board, snap)
}

func (c *Console) commit(board *Board, snap Snapshot) Snapshot {
	snap.FetchedAt = c.now()
	c.observe(snap.Outcome)

	stored, ok := board.Commit(snap)
	if !ok {
		snap.Stale = true
		c.recorder.ObserveStale(string(snap.View))
		return snap
	}

	return stored
}

type Overview struct {
	Views   map[render.View]Snapshot `json:"views"`
	Metrics Snapshot                 `json:"metrics"`
}

// Overview loads the monitoring lists and the metrics dashboard at once.
// A failing view only marks its own snapshot.
func (c *Console) Overview(ctx context.Context, s *session.Session, refresh bool) (Overview, error) {
	const op = "console.Overview"

	ov := Overview{Views: make(map[render.View]Snapshot, len(MonitoringViews))}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, view := range MonitoringViews {
		g.Go(func() error {
			snap, err := c.List(gctx, s, view, refresh)
			if err != nil {
				return err
			}

			mu.Lock()
			ov.Views[view] = snap
			mu.Unlock()

			return nil
		})
	}
	g.Go(func() error {
		snap := c.Metrics(gctx, s, refresh)

		mu.Lock()
		ov.Metrics = snap
		mu.Unlock()

		return nil
	})

	if err := g.Wait(); err != nil {
		return Overview{}, fmt.Errorf("%s: %w", op, err)
	}

	return ov, nil
}
