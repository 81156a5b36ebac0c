// Package workflow holds the lifecycle tables for orders, picklists and stock
// transfers. Status sets are open: the backend may report values that are not
// listed here and those are carried through untouched.
package workflow

import "sort"

type Entity string

const (
	EntityOrder    Entity = "order"
	EntityPicklist Entity = "picklist"
	EntityTransfer Entity = "transfer"
)

type Status string

type Field string

const (
	FieldETA Field = "eta"
)

const (
	OrderPending   Status = "Pending"
	OrderValidated Status = "Validated"
	OrderPicking   Status = "Picking"
	OrderReady     Status = "Ready"
	OrderShipped   Status = "Shipped"
	OrderCancelled Status = "Cancelled"

	PicklistPending   Status = "Pending"
	PicklistPicking   Status = "Picking"
	PicklistPicked    Status = "Picked"
	PicklistCompleted Status = "Completed"
	PicklistCancelled Status = "Cancelled"

	TransferPending         Status = "Pending"
	TransferPendingApproval Status = "PendingApproval"
	TransferApproved        Status = "Approved"
	TransferCompleted       Status = "Completed"
	TransferFailed          Status = "Failed"
)

type machine struct {
	statuses []Status
	// required lists the companion fields a status cannot be entered without.
	required map[Status][]Field
	labels   map[Status]string
}

var machines = map[Entity]machine{
	EntityOrder: {
		statuses: []Status{OrderPending, OrderValidated, OrderPicking, OrderReady, OrderShipped, OrderCancelled},
		required: map[Status][]Field{
			OrderPicking: {FieldETA},
			OrderReady:   {FieldETA},
			OrderShipped: {FieldETA},
		},
	},
	EntityPicklist: {
		statuses: []Status{PicklistPending, PicklistPicking, PicklistPicked, PicklistCompleted, PicklistCancelled},
	},
	EntityTransfer: {
		statuses: []Status{TransferPending, TransferPendingApproval, TransferApproved, TransferCompleted, TransferFailed},
		labels: map[Status]string{
			TransferPendingApproval: "Pending Approval",
		},
	},
}

// AllowedStatuses returns the known vocabulary for an entity in lifecycle order.
func AllowedStatuses(entity Entity) []Status {
	m, ok := machines[entity]
	if !ok {
		return nil
	}

	out := make([]Status, len(m.statuses))
	copy(out, m.statuses)

	return out
}

// IsKnown reports whether status belongs to the known vocabulary of entity.
func IsKnown(entity Entity, status Status) bool {
	for _, s := range machines[entity].statuses {
		if s == status {
			return true
		}
	}

	return false
}

// RequiresField returns the fields that must accompany a transition into status.
func RequiresField(entity Entity, status Status) []Field {
	fields := machines[entity].required[status]
	if len(fields) == 0 {
		return nil
	}

	out := make([]Field, len(fields))
	copy(out, fields)

	return out
}

// Requires reports whether field is mandatory for status.
func Requires(entity Entity, status Status, field Field) bool {
	for _, f := range machines[entity].required[status] {
		if f == field {
			return true
		}
	}

	return false
}

// StatusesRequiring lists every status of entity that needs field, sorted.
func StatusesRequiring(entity Entity, field Field) []Status {
	var out []Status
	for status, fields := range machines[entity].required {
		for _, f := range fields {
			if f == field {
				out = append(out, status)
			}
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// Label is the display text for a status. Unknown statuses are shown verbatim.
func Label(entity Entity, status Status) string {
	if label, ok := machines[entity].labels[status]; ok {
		return label
	}

	return string(status)
}

// Rank orders statuses by their lifecycle position; unknown statuses sort last.
func Rank(entity Entity, status Status) int {
	for i, s := range machines[entity].statuses {
		if s == status {
			return i
		}
	}

	return len(machines[entity].statuses)
}
