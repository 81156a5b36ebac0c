package form

import (
	"fmt"

	"ops-console/internal/models"
	"ops-console/internal/workflow"
)

const msgItemRow = "Each item must have both SKU and Quantity > 0"

type ItemRow struct {
	SKU Value `json:"sku"`
	Qty Value `json:"qty"`
}

func (r ItemRow) blank() bool {
	return r.SKU.Trim() == "" && r.Qty.Trim() == ""
}

type OrderForm struct {
	CustomerEmail Value     `json:"customer_email" validate:"required,email"`
	CustomerID    Value     `json:"customer_id"`
	Priority      Value     `json:"priority"`
	Items         []ItemRow `json:"items"`
}

func (f OrderForm) trimmed() OrderForm {
	out := OrderForm{
		CustomerEmail: Value(f.CustomerEmail.Trim()),
		CustomerID:    Value(f.CustomerID.Trim()),
		Priority:      Value(f.Priority.Trim()),
		Items:         make([]ItemRow, len(f.Items)),
	}
	for i, row := range f.Items {
		out.Items[i] = ItemRow{SKU: Value(row.SKU.Trim()), Qty: Value(row.Qty.Trim())}
	}

	return out
}

// CreateOrder validates a new order. Item rows that are entirely blank are
// ignored; a row with only one of SKU and quantity blocks the submission.
func (v *Validator) CreateOrder(f OrderForm) (models.CreateOrder, *Failure) {
	f = f.trimmed()

	presence, constraint := v.check(f, map[string]string{
		"customer_email": "Please enter Customer Email",
	})

	filled := 0
	for _, row := range f.Items {
		if !row.blank() {
			filled++
		}
	}
	if filled == 0 {
		presence = append(presence, FieldError{Field: "items", Message: "Please add at least one item"})
	}
	if len(presence) > 0 {
		return models.CreateOrder{}, firstOf(ClassPresence, "", presence)
	}

	priority, err := workflow.ParsePriority(string(f.Priority))
	if err != nil {
		constraint = append(constraint, FieldError{Field: "priority", Message: "Priority must be Normal or High"})
	}

	items := make([]models.OrderItem, 0, filled)
	var rowErrs []FieldError
	for i, row := range f.Items {
		if row.blank() {
			continue
		}

		sku := string(row.SKU)
		qty, ok := positive(string(row.Qty))
		if sku == "" {
			rowErrs = append(rowErrs, FieldError{Field: fmt.Sprintf("items[%d].sku", i), Message: msgItemRow})
		}
		if !ok {
			rowErrs = append(rowErrs, FieldError{Field: fmt.Sprintf("items[%d].qty", i), Message: msgItemRow})
		}
		if sku != "" && ok {
			items = append(items, models.OrderItem{SKU: sku, Qty: qty})
		}
	}

	if len(rowErrs) > 0 {
		return models.CreateOrder{}, firstOf(ClassConstraint, msgItemRow, append(rowErrs, constraint...))
	}
	if len(constraint) > 0 {
		return models.CreateOrder{}, firstOf(ClassConstraint, "", constraint)
	}

	customerID := string(f.CustomerID)
	if customerID == "" {
		customerID = fmt.Sprintf("CUST-%d", v.now().UnixMilli())
	}

	return models.CreateOrder{
		CustomerEmail: string(f.CustomerEmail),
		CustomerID:    customerID,
		Priority:      priority,
		Items:         items,
	}, nil
}

type OrderStatusForm struct {
	OrderID Value `json:"order_id" validate:"required"`
	Status  Value `json:"status" validate:"required"`
	ETA     Value `json:"eta"`
}

func (v *Validator) UpdateOrderStatus(f OrderStatusForm) (models.UpdateOrderStatus, *Failure) {
	f = OrderStatusForm{
		OrderID: Value(f.OrderID.Trim()),
		Status:  Value(f.Status.Trim()),
		ETA:     Value(f.ETA.Trim()),
	}

	presence, constraint := v.check(f, map[string]string{
		"order_id": "Please enter an Order ID",
		"status":   "Please select a Status",
	})
	if len(presence) > 0 {
		return models.UpdateOrderStatus{}, firstOf(ClassPresence, "", presence)
	}

	req := models.UpdateOrderStatus{
		OrderID: string(f.OrderID),
		Status:  workflow.Status(f.Status),
	}

	if f.ETA != "" {
		eta, err := v.parseETA(string(f.ETA))
		if err != nil {
			constraint = append(constraint, FieldError{Field: "eta", Message: "ETA must be a valid date and time"})
		} else {
			req.ETA = &eta
		}
	}
	if len(constraint) > 0 {
		return models.UpdateOrderStatus{}, firstOf(ClassConstraint, "", constraint)
	}

	if failure := requireFields(workflow.EntityOrder, req.Status, map[workflow.Field]bool{
		workflow.FieldETA: req.ETA != nil,
	}); failure != nil {
		return models.UpdateOrderStatus{}, failure
	}

	return req, nil
}

// requireFields applies the status table: every field the target status needs
// must be marked present.
func requireFields(entity workflow.Entity, status workflow.Status, present map[workflow.Field]bool) *Failure {
	var missing []FieldError
	for _, field := range workflow.RequiresField(entity, status) {
		if !present[field] {
			missing = append(missing, FieldError{
				Field:   string(field),
				Message: fmt.Sprintf("%s is required for %s", fieldLabel(field), status),
			})
		}
	}
	if len(missing) == 0 {
		return nil
	}

	return firstOf(ClassStatus, "", missing)
}

func fieldLabel(field workflow.Field) string {
	switch field {
	case workflow.FieldETA:
		return "ETA"
	}

	return string(field)
}
