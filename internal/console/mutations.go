package console

import (
	"context"
	"log/slog"

	"ops-console/internal/client"
	"ops-console/internal/form"
	"ops-console/internal/models"
	"ops-console/internal/reconcile"
	"ops-console/internal/render"
	"ops-console/internal/session"
)

type mutation struct {
	op  client.Operation
	req client.Request
	in  reconcile.Input
	// patch receives the returned record; touched views are only
	// invalidated.
	patch   render.View
	touched []render.View
}

func (c *Console) mutate(ctx context.Context, s *session.Session, m mutation) reconcile.Outcome {
	resp, failed := c.send(ctx, s, m.op, m.req, client.Options{})
	if failed != nil {
		c.observe(*failed)
		return *failed
	}

	out := c.rec.Reconcile(m.op, m.in, resp)
	c.observe(out)

	if !out.OK() {
		c.log.Info("operation rejected",
			slog.String("op", "console.mutate"),
			slog.String("operation", string(m.op)),
			slog.String("kind", string(out.Kind)),
			slog.Int("status", out.HTTPStatus),
			slog.String("raw", out.Raw),
		)
		return out
	}

	board := c.board(s)
	if m.patch != "" && out.Record != nil {
		view := m.patch
		board.Patch(view, *out.Record, func(records []models.Record) render.Table {
			t, err := c.fmt.Render(view, records)
			if err != nil {
				return render.Table{View: view}
			}
			return t
		})
	}
	if len(m.touched) > 0 {
		board.Invalidate(m.touched...)
	}

	return out
}

func (c *Console) CreateOrder(ctx context.Context, s *session.Session, f form.OrderForm) reconcile.Outcome {
	req, failure := c.forms.CreateOrder(f)
	if failure != nil {
		return c.invalid(client.OpCreateOrder, failure)
	}

	return c.mutate(ctx, s, mutation{
		op:      client.OpCreateOrder,
		req:     client.Request{Body: req},
		in:      reconcile.Input{Order: &req},
		patch:   render.ViewOrders,
		touched: []render.View{render.ViewPicklists},
	})
}

func (c *Console) UpdateOrderStatus(ctx context.Context, s *session.Session, f form.OrderStatusForm) reconcile.Outcome {
	req, failure := c.forms.UpdateOrderStatus(f)
	if failure != nil {
		return c.invalid(client.OpUpdateOrderStatus, failure)
	}

	return c.mutate(ctx, s, mutation{
		op:    client.OpUpdateOrderStatus,
		req:   client.Request{ID: req.OrderID, Body: req},
		in:    reconcile.Input{Key: req.OrderID},
		patch: render.ViewOrders,
	})
}

func (c *Console) UpdatePicklistStatus(ctx context.Context, s *session.Session, f form.PicklistStatusForm) reconcile.Outcome {
	req, failure := c.forms.UpdatePicklistStatus(f)
	if failure != nil {
		return c.invalid(client.OpUpdatePicklistStatus, failure)
	}

	return c.mutate(ctx, s, mutation{
		op:      client.OpUpdatePicklistStatus,
		req:     client.Request{ID: req.PicklistID, Body: req},
		in:      reconcile.Input{Key: req.PicklistID},
		patch:   render.ViewPicklists,
		touched: []render.View{render.ViewOrders},
	})
}

// OptimizeRoute returns the route table in Outcome.Data.
func (c *Console) OptimizeRoute(ctx context.Context, s *session.Session, f form.PicklistRefForm) reconcile.Outcome {
	ref, failure := c.forms.PicklistRef(f)
	if failure != nil {
		return c.invalid(client.OpOptimizeRoute, failure)
	}

	return c.mutate(ctx, s, mutation{
		op:  client.OpOptimizeRoute,
		req: client.Request{ID: ref.PicklistID},
		in:  reconcile.Input{Key: ref.PicklistID},
	})
}

func (c *Console) PicklistQR(ctx context.Context, s *session.Session, f form.PicklistRefForm) reconcile.Outcome {
	ref, failure := c.forms.PicklistRef(f)
	if failure != nil {
		return c.invalid(client.OpPicklistQR, failure)
	}

	return c.mutate(ctx, s, mutation{
		op:  client.OpPicklistQR,
		req: client.Request{ID: ref.PicklistID},
		in:  reconcile.Input{Key: ref.PicklistID},
	})
}

func (c *Console) ReceiveGoods(ctx context.Context, s *session.Session, f form.ReceiptForm) reconcile.Outcome {
	req, failure := c.forms.ReceiveGoods(f)
	if failure != nil {
		return c.invalid(client.OpReceiveGoods, failure)
	}

	return c.mutate(ctx, s, mutation{
		op:      client.OpReceiveGoods,
		req:     client.Request{Query: req.Query()},
		in:      reconcile.Input{Key: req.SKU, Receipt: &req},
		touched: []render.View{render.ViewGoodsReceipts, render.ViewStocks},
	})
}

func (c *Console) CreateTransfer(ctx context.Context, s *session.Session, f form.TransferForm) reconcile.Outcome {
	req, failure := c.forms.CreateTransfer(f)
	if failure != nil {
		return c.invalid(client.OpCreateTransfer, failure)
	}

	return c.mutate(ctx, s, mutation{
		op:      client.OpCreateTransfer,
		req:     client.Request{Query: req.Query()},
		in:      reconcile.Input{Key: req.SKU, Transfer: &req},
		patch:   render.ViewTransfers,
		touched: []render.View{render.ViewStocks},
	})
}

func (c *Console) ApproveTransfer(ctx context.Context, s *session.Session, f form.ApproveTransferForm) reconcile.Outcome {
	req, failure := c.forms.ApproveTransfer(f)
	if failure != nil {
		return c.invalid(client.OpApproveTransfer, failure)
	}

	return c.mutate(ctx, s, mutation{
		op:      client.OpApproveTransfer,
		req:     client.Request{ID: req.TransferID},
		in:      reconcile.Input{Key: req.TransferID},
		patch:   render.ViewTransfers,
		touched: []render.View{render.ViewStocks},
	})
}
