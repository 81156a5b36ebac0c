package client

import "net/http"

type Operation string

const (
	OpCreateOrder          Operation = "create_order"
	OpListOrders           Operation = "list_orders"
	OpUpdateOrderStatus    Operation = "update_order_status"
	OpListPicklists        Operation = "list_picklists"
	OpUpdatePicklistStatus Operation = "update_picklist_status"
	OpOptimizeRoute        Operation = "optimize_route"
	OpPicklistQR           Operation = "picklist_qr"
	OpListStocks           Operation = "list_stocks"
	OpReceiveGoods         Operation = "receive_goods"
	OpListGoodsReceipts    Operation = "list_goods_receipts"
	OpCreateTransfer       Operation = "create_transfer"
	OpApproveTransfer      Operation = "approve_transfer"
	OpListTransfers        Operation = "list_transfers"
	OpListExceptions       Operation = "list_exceptions"
	OpListAuditLogs        Operation = "list_audit_logs"
	OpListBackorders       Operation = "list_backorders"
	OpListNotifications    Operation = "list_notifications"
	OpMetrics              Operation = "metrics_dashboard"
)

type route struct {
	method string
	// path may hold a single %s, filled with the escaped request ID.
	path string
	read bool
}

var routes = map[Operation]route{
	OpCreateOrder:          {http.MethodPost, "/orders", false},
	OpListOrders:           {http.MethodGet, "/orders", true},
	OpUpdateOrderStatus:    {http.MethodPatch, "/orders/%s/status", false},
	OpListPicklists:        {http.MethodGet, "/picklists", true},
	OpUpdatePicklistStatus: {http.MethodPatch, "/picklists/%s/status", false},
	OpOptimizeRoute:        {http.MethodGet, "/picklists/%s/route", false},
	OpPicklistQR:           {http.MethodGet, "/picklists/%s/qr", false},
	OpListStocks:           {http.MethodGet, "/stocks", true},
	OpReceiveGoods:         {http.MethodPost, "/stocks/goods-receipt", false},
	OpListGoodsReceipts:    {http.MethodGet, "/stocks/goods-receipts", true},
	OpCreateTransfer:       {http.MethodPost, "/stock-transfers", false},
	OpApproveTransfer:      {http.MethodPatch, "/stock-transfers/%s/approve", false},
	OpListTransfers:        {http.MethodGet, "/stock-transfers", true},
	OpListExceptions:       {http.MethodGet, "/exceptions", true},
	OpListAuditLogs:        {http.MethodGet, "/audit-logs", true},
	OpListBackorders:       {http.MethodGet, "/backorders", true},
	OpListNotifications:    {http.MethodGet, "/notifications", true},
	OpMetrics:              {http.MethodGet, "/metrics/dashboard", true},
}

// IsRead reports whether op is a list/read operation that honours the
// refresh directive.
func (op Operation) IsRead() bool {
	return routes[op].read
}

func (op Operation) Method() string {
	return routes[op].method
}

func (op Operation) Known() bool {
	_, ok := routes[op]
	return ok
}
