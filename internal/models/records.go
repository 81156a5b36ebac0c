package models

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Record is one row of a backend list response.
type Record struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

type RecordList struct {
	Records []Record `json:"records"`
}

// RouteStop is one stop of an optimized picking route. Order comes from the
// backend and is kept as received.
type RouteStop struct {
	Sequence int    `json:"sequence"`
	SKU      string `json:"sku"`
	Qty      int    `json:"qty"`
	Location string `json:"location"`
	Rack     string `json:"rack"`
}

// UnmarshalJSON accepts both stop objects and the bare "location/rack"
// strings older backends return.
func (s *RouteStop) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}

		location, rack, _ := strings.Cut(raw, "/")
		*s = RouteStop{Location: location, Rack: rack}

		return nil
	}

	type plain RouteStop
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = RouteStop(p)

	return nil
}

type Route struct {
	PicklistID string      `json:"picklist_id"`
	Stops      []RouteStop `json:"optimized_route"`
}

type MetricsSnapshot struct {
	TotalOrders       int             `json:"total_orders"`
	TotalAuditLogs    int             `json:"total_audit_logs"`
	AvgProcessingTime decimal.Decimal `json:"avg_processing_time"`
	SuccessRate       decimal.Decimal `json:"success_rate"`
	OrdersByStatus    map[string]int  `json:"orders_by_status"`
}
