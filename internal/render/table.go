package render

import (
	"errors"
	"fmt"

	"ops-console/internal/models"
	"ops-console/internal/workflow"
)

var ErrUnknownView = errors.New("unknown view")

type View string

const (
	ViewOrders        View = "orders"
	ViewPicklists     View = "picklists"
	ViewStocks        View = "stocks"
	ViewGoodsReceipts View = "goods-receipts"
	ViewTransfers     View = "stock-transfers"
	ViewExceptions    View = "exceptions"
	ViewAuditLogs     View = "audit-logs"
	ViewBackorders    View = "backorders"
	ViewNotifications View = "notifications"
)

type Table struct {
	View    View       `json:"view"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	// IDs holds the record id of each row, used for optimistic updates.
	IDs []string `json:"ids,omitempty"`
	// Empty is set instead of rows when there is nothing to show.
	Empty string `json:"empty,omitempty"`
}

func (t Table) IsEmpty() bool {
	return len(t.Rows) == 0
}

type cellFunc func(f Formatter, rec models.Record) string

type column struct {
	title string
	cell  cellFunc
}

type layout struct {
	noun    string
	columns []column
}

func recordID(_ Formatter, rec models.Record) string {
	return text(rec.ID)
}

func field(key string) cellFunc {
	return func(_ Formatter, rec models.Record) string {
		return text(rec.Fields[key])
	}
}

func count(key string) cellFunc {
	return func(_ Formatter, rec models.Record) string {
		return number(rec.Fields[key])
	}
}

func when(key string) cellFunc {
	return func(f Formatter, rec models.Record) string {
		raw, _ := rec.Fields[key].(string)
		return f.Time(raw)
	}
}

func status(entity workflow.Entity) cellFunc {
	return func(_ Formatter, rec models.Record) string {
		raw, _ := rec.Fields["status"].(string)
		if raw == "" {
			return NA
		}
		return workflow.Label(entity, workflow.Status(raw))
	}
}

func place(locationKey, rackKey string) cellFunc {
	return func(_ Formatter, rec models.Record) string {
		return text(rec.Fields[locationKey]) + "/" + text(rec.Fields[rackKey])
	}
}

var layouts = map[View]layout{
	ViewOrders: {"orders", []column{
		{"Order ID", recordID},
		{"Customer Email", field("customer_email")},
		{"Priority", field("priority")},
		{"Status", status(workflow.EntityOrder)},
		{"Created", when("created_at")},
	}},
	ViewPicklists: {"picklists", []column{
		{"Picklist ID", recordID},
		{"Order ID", field("order_id")},
		{"Priority", field("priority")},
		{"Status", status(workflow.EntityPicklist)},
		{"Customer Email", field("customer_email")},
		{"Created", when("created_at")},
	}},
	ViewStocks: {"stocks", []column{
		{"SKU", field("sku")},
		{"Quantity", count("quantity")},
		{"Reserved", count("reserved")},
		{"Available", count("available")},
		{"Location", field("location")},
		{"Rack", field("rack")},
	}},
	ViewGoodsReceipts: {"goods receipts", []column{
		{"SKU", field("sku")},
		{"Quantity", count("quantity")},
		{"Location", field("location")},
		{"Rack", field("rack")},
		{"Received By", field("received_by")},
		{"Status", field("status")},
		{"Created", when("created_at")},
	}},
	ViewTransfers: {"transfers", []column{
		{"Transfer ID", recordID},
		{"SKU", field("sku")},
		{"Quantity", count("quantity")},
		{"From", place("from_location", "from_rack")},
		{"To", place("to_location", "to_rack")},
		{"Status", status(workflow.EntityTransfer)},
		{"Requested By", field("requested_by")},
		{"Created", when("created_at")},
	}},
	ViewExceptions: {"exceptions", []column{
		{"Error Type", field("error_type")},
		{"Message", field("error_message")},
		{"Severity", field("severity")},
		{"Status", field("status")},
		{"Assigned To", field("assigned_to")},
		{"Created", when("created_at")},
	}},
	ViewAuditLogs: {"audit logs", []column{
		{"Step", field("step")},
		{"Status", field("status")},
		{"Created", when("created_at")},
	}},
	ViewBackorders: {"backorders", []column{
		{"SKU", field("sku")},
		{"Quantity", count("quantity")},
		{"Customer Email", field("customer_email")},
		{"Status", field("status")},
		{"Created", when("created_at")},
	}},
	ViewNotifications: {"notifications", []column{
		{"Type", field("notification_type")},
		{"Message", field("message")},
		{"Recipient", field("recipient")},
		{"Status", field("status")},
		{"Created", when("created_at")},
	}},
}

func Views() []View {
	return []View{
		ViewOrders, ViewPicklists, ViewStocks, ViewGoodsReceipts, ViewTransfers,
		ViewExceptions, ViewAuditLogs, ViewBackorders, ViewNotifications,
	}
}

func ParseView(raw string) (View, error) {
	v := View(raw)
	if _, ok := layouts[v]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownView, raw)
	}

	return v, nil
}

// EmptyText is the placeholder shown for a view with no records.
func EmptyText(view View) string {
	return fmt.Sprintf("No %s found", layouts[view].noun)
}

func Columns(view View) []string {
	l := layouts[view]
	out := make([]string, len(l.columns))
	for i, c := range l.columns {
		out[i] = c.title
	}

	return out
}

func (f Formatter) Render(view View, records []models.Record) (Table, error) {
	l, ok := layouts[view]
	if !ok {
		return Table{}, fmt.Errorf("%w: %q", ErrUnknownView, view)
	}

	t := Table{View: view, Columns: Columns(view)}
	if len(records) == 0 {
		t.Empty = EmptyText(view)
		return t, nil
	}

	t.Rows = make([][]string, 0, len(records))
	t.IDs = make([]string, 0, len(records))
	for _, rec := range records {
		row := make([]string, len(l.columns))
		for i, c := range l.columns {
			row[i] = c.cell(f, rec)
		}
		t.Rows = append(t.Rows, row)
		t.IDs = append(t.IDs, rec.ID)
	}

	return t, nil
}

const emptyRoute = "No stops found for this picklist."

// RenderRoute keeps the stop order exactly as the backend returned it.
func (f Formatter) RenderRoute(route models.Route) Table {
	t := Table{Columns: []string{"#", "SKU", "Qty", "Location", "Rack"}}
	if len(route.Stops) == 0 {
		t.Empty = emptyRoute
		return t
	}

	for i, stop := range route.Stops {
		t.Rows = append(t.Rows, []string{
			fmt.Sprint(i + 1),
			text(stop.SKU),
			fmt.Sprint(stop.Qty),
			text(stop.Location),
			text(stop.Rack),
		})
	}

	return t
}
