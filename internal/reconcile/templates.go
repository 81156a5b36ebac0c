package reconcile

import (
	"encoding/json"
	"fmt"

	"ops-console/internal/client"
	"ops-console/internal/models"
	"ops-console/internal/workflow"
)

type template struct {
	noun     string
	generic  string
	notFound func(key string) string
	success  func(r *Reconciler, in Input, body map[string]any, out *Outcome) error
}

func notFoundByID(entity, label string) func(string) string {
	return func(key string) string {
		return fmt.Sprintf(`%s "%s" not found. Please check the %s and try again.`, entity, key, label)
	}
}

func skuNotFound(key string) string {
	return fmt.Sprintf(`SKU "%s" not found in inventory. Please check the SKU and try again.`, key)
}

var templates = map[client.Operation]template{
	client.OpCreateOrder: {
		noun:    "order",
		generic: "Failed to create order.",
		success: func(_ *Reconciler, in Input, body map[string]any, out *Outcome) error {
			out.ID = str(body, "order_id")
			out.Status = firstNonEmpty(str(body, "status"), string(workflow.OrderPending))
			out.Toast = "Order created successfully"
			out.Message = fmt.Sprintf("Order %s has been created successfully. Validation is now in progress.", out.ID)

			fields := map[string]any{"status": out.Status}
			if o := in.Order; o != nil {
				fields["customer_email"] = o.CustomerEmail
				fields["customer_id"] = o.CustomerID
				fields["priority"] = string(o.Priority)
			}
			out.Record = &models.Record{ID: out.ID, Fields: fields}

			return nil
		},
	},
	client.OpUpdateOrderStatus: {
		noun:     "order status update",
		generic:  "Failed to update order status.",
		notFound: notFoundByID("Order", "Order ID"),
		success: func(r *Reconciler, in Input, body map[string]any, out *Outcome) error {
			out.ID = firstNonEmpty(str(body, "order_id"), in.Key)
			out.Status = str(body, "status")
			out.Toast = "Order status updated"

			fields := map[string]any{"status": out.Status}
			eta := str(body, "eta")
			if eta != "" {
				fields["eta"] = eta
				out.Message = fmt.Sprintf("Order %s has been updated to %q with ETA %s.", out.ID, out.Status, r.fmt.Time(eta))
			} else {
				out.Message = fmt.Sprintf("Order %s has been updated to %q.", out.ID, out.Status)
			}
			out.Record = &models.Record{ID: out.ID, Fields: fields}

			return nil
		},
	},
	client.OpUpdatePicklistStatus: {
		noun:     "picklist status update",
		generic:  "Failed to update picklist status.",
		notFound: notFoundByID("Picklist", "Picklist ID"),
		success: func(_ *Reconciler, in Input, body map[string]any, out *Outcome) error {
			out.ID = firstNonEmpty(str(body, "picklist_id"), in.Key)
			out.Status = str(body, "status")
			out.Toast = "Picklist status updated"
			out.Message = fmt.Sprintf("Picklist %s has been updated to %q.", out.ID, out.Status)
			out.Record = &models.Record{ID: out.ID, Fields: map[string]any{"status": out.Status}}

			return nil
		},
	},
	client.OpOptimizeRoute: {
		noun:     "route request",
		generic:  "Failed to optimize route.",
		notFound: notFoundByID("Picklist", "Picklist ID"),
		success: func(r *Reconciler, in Input, body map[string]any, out *Outcome) error {
			route, err := decodeRoute(body)
			if err != nil {
				return err
			}
			route.PicklistID = firstNonEmpty(route.PicklistID, in.Key)

			out.ID = route.PicklistID
			out.Toast = "Route optimized"
			out.Data = r.fmt.RenderRoute(route)
			if len(route.Stops) == 0 {
				out.Message = "No stops found for this picklist."
				return nil
			}
			out.Message = fmt.Sprintf("Optimized route for Picklist %s - %d stop(s)", route.PicklistID, len(route.Stops))

			return nil
		},
	},
	client.OpPicklistQR: {
		noun:     "QR request",
		generic:  "Failed to generate QR code.",
		notFound: notFoundByID("Picklist", "Picklist ID"),
		success: func(_ *Reconciler, in Input, body map[string]any, out *Outcome) error {
			out.ID = firstNonEmpty(str(body, "picklist_id"), in.Key)
			out.Toast = "QR code generated"
			out.Message = fmt.Sprintf("QR code generated for Picklist %s.", out.ID)
			out.Data = map[string]string{"qr_data": str(body, "qr_data")}

			return nil
		},
	},
	client.OpReceiveGoods: {
		noun:     "goods receipt",
		generic:  "Failed to receive goods.",
		notFound: skuNotFound,
		success: func(_ *Reconciler, in Input, body map[string]any, out *Outcome) error {
			out.ID = str(body, "receipt_id")
			out.Status = firstNonEmpty(str(body, "status"), "received")
			out.Toast = "Goods received"

			if g := in.Receipt; g != nil {
				out.Message = fmt.Sprintf("Received %d unit(s) of %q into %s/%s. Receipt %s recorded.",
					g.Quantity, g.SKU, g.Location, g.Rack, out.ID)
				return nil
			}
			out.Message = fmt.Sprintf("Goods receipt %s recorded.", out.ID)

			return nil
		},
	},
	client.OpCreateTransfer: {
		noun:     "transfer",
		generic:  "Failed to create transfer.",
		notFound: skuNotFound,
		success:  transferCreated,
	},
	client.OpApproveTransfer: {
		noun:     "transfer approval",
		generic:  "Failed to approve transfer.",
		notFound: notFoundByID("Transfer", "Transfer ID"),
		success: func(_ *Reconciler, in Input, body map[string]any, out *Outcome) error {
			out.ID = firstNonEmpty(str(body, "transfer_id"), in.Key)
			out.Status = firstNonEmpty(str(body, "status"), string(workflow.TransferCompleted))
			out.Toast = "Transfer approved"
			out.Message = fmt.Sprintf("Transfer %s has been approved. Stock location has been updated.", out.ID)
			out.Record = &models.Record{ID: out.ID, Fields: map[string]any{"status": out.Status}}

			return nil
		},
	},
	client.OpListOrders:        {noun: "order list", generic: "Failed to load orders."},
	client.OpListPicklists:     {noun: "picklist list", generic: "Failed to load picklists."},
	client.OpListStocks:        {noun: "stock list", generic: "Failed to load stocks."},
	client.OpListGoodsReceipts: {noun: "goods receipt list", generic: "Failed to load goods receipts."},
	client.OpListTransfers:     {noun: "transfer list", generic: "Failed to load transfers."},
	client.OpListExceptions:    {noun: "exception list", generic: "Failed to load exceptions."},
	client.OpListAuditLogs:     {noun: "audit log list", generic: "Failed to load audit logs."},
	client.OpListBackorders:    {noun: "backorder list", generic: "Failed to load backorders."},
	client.OpListNotifications: {noun: "notification list", generic: "Failed to load notifications."},
	client.OpMetrics:           {noun: "metrics request", generic: "Failed to load metrics."},
}

func templateFor(op client.Operation) template {
	if t, ok := templates[op]; ok {
		return t
	}

	return template{noun: "request", generic: "Request failed."}
}

// transferCreated picks the completion or approval message. A status the
// backend reports wins; without one the quantity threshold decides.
func transferCreated(_ *Reconciler, in Input, body map[string]any, out *Outcome) error {
	out.ID = str(body, "transfer_id")
	out.Toast = "Transfer created successfully"

	tr := in.Transfer
	if tr == nil {
		tr = &models.CreateTransfer{}
	}

	reported := workflow.Status(str(body, "status"))
	awaiting, known := workflow.AwaitsApproval(reported)
	if !known {
		awaiting = workflow.IsApprovalRequired(tr.Quantity)
	}

	if awaiting {
		out.Status = string(firstStatus(reported, known, workflow.TransferPendingApproval))
		out.Message = fmt.Sprintf("Transfer %s submitted for approval (qty > %d). Stock will be moved once approved by Ops.",
			out.ID, workflow.ApprovalThreshold)
	} else {
		out.Status = string(firstStatus(reported, known, workflow.TransferCompleted))
		out.Message = fmt.Sprintf("Transfer %s auto-approved. Stock of %q (qty: %d) has been moved from %s/%s to %s/%s.",
			out.ID, tr.SKU, tr.Quantity, tr.FromLocation, tr.FromRack, tr.ToLocation, tr.ToRack)
	}

	out.Record = &models.Record{ID: out.ID, Fields: map[string]any{
		"sku":           tr.SKU,
		"quantity":      float64(tr.Quantity),
		"from_location": tr.FromLocation,
		"from_rack":     tr.FromRack,
		"to_location":   tr.ToLocation,
		"to_rack":       tr.ToRack,
		"requested_by":  tr.RequestedBy,
		"status":        out.Status,
	}}

	return nil
}

func firstStatus(reported workflow.Status, known bool, fallback workflow.Status) workflow.Status {
	if known {
		return reported
	}
	return fallback
}

func decodeRoute(body map[string]any) (models.Route, error) {
	var route models.Route

	raw, err := json.Marshal(body)
	if err != nil {
		return route, fmt.Errorf("decode route: %w", err)
	}
	if err := json.Unmarshal(raw, &route); err != nil {
		return route, fmt.Errorf("decode route: %w", err)
	}

	return route, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
