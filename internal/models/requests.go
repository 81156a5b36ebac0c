package models

import (
	"net/url"
	"strconv"
	"time"

	"ops-console/internal/workflow"
)

type OrderItem struct {
	SKU string `json:"sku"`
	Qty int    `json:"qty"`
}

type CreateOrder struct {
	CustomerEmail string            `json:"customer_email"`
	CustomerID    string            `json:"customer_id"`
	Priority      workflow.Priority `json:"priority"`
	Items         []OrderItem       `json:"items"`
}

type UpdateOrderStatus struct {
	OrderID string          `json:"-"`
	Status  workflow.Status `json:"status"`
	ETA     *time.Time      `json:"eta,omitempty"`
}

type UpdatePicklistStatus struct {
	PicklistID string          `json:"-"`
	Status     workflow.Status `json:"status"`
}

type PicklistRef struct {
	PicklistID string `json:"picklist_id"`
}

type ApproveTransfer struct {
	TransferID string `json:"transfer_id"`
}

type CreateTransfer struct {
	SKU          string `json:"sku"`
	Quantity     int    `json:"quantity"`
	FromLocation string `json:"from_location"`
	FromRack     string `json:"from_rack"`
	ToLocation   string `json:"to_location"`
	ToRack       string `json:"to_rack"`
	RequestedBy  string `json:"requested_by"`
	// ApprovalRequired is the client-side expectation; the backend decides.
	ApprovalRequired bool `json:"approval_required"`
}

func (t CreateTransfer) Query() url.Values {
	q := url.Values{}
	q.Set("from_location", t.FromLocation)
	q.Set("to_location", t.ToLocation)
	q.Set("from_rack", t.FromRack)
	q.Set("to_rack", t.ToRack)
	q.Set("sku", t.SKU)
	q.Set("quantity", strconv.Itoa(t.Quantity))
	q.Set("requested_by", t.RequestedBy)

	return q
}

type GoodsReceipt struct {
	SKU        string `json:"sku"`
	Quantity   int    `json:"quantity"`
	Location   string `json:"location"`
	Rack       string `json:"rack"`
	ReceivedBy string `json:"received_by"`
}

func (g GoodsReceipt) Query() url.Values {
	q := url.Values{}
	q.Set("sku", g.SKU)
	q.Set("quantity", strconv.Itoa(g.Quantity))
	q.Set("location", g.Location)
	q.Set("rack", g.Rack)
	q.Set("received_by", g.ReceivedBy)

	return q
}
