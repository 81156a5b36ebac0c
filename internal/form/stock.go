package form

import (
	"ops-console/internal/models"
	"ops-console/internal/workflow"
)

const (
	defaultActor   = "System"
	msgMinQuantity = "Quantity must be at least 1"
)

type TransferForm struct {
	FromLocation Value `json:"from_location" validate:"required"`
	FromRack     Value `json:"from_rack" validate:"required"`
	ToLocation   Value `json:"to_location" validate:"required"`
	ToRack       Value `json:"to_rack" validate:"required"`
	SKU          Value `json:"sku" validate:"required"`
	Quantity     Value `json:"quantity"`
	RequestedBy  Value `json:"requested_by"`
}

func (v *Validator) CreateTransfer(f TransferForm) (models.CreateTransfer, *Failure) {
	f = TransferForm{
		FromLocation: Value(f.FromLocation.Trim()),
		FromRack:     Value(f.FromRack.Trim()),
		ToLocation:   Value(f.ToLocation.Trim()),
		ToRack:       Value(f.ToRack.Trim()),
		SKU:          Value(f.SKU.Trim()),
		Quantity:     Value(f.Quantity.Trim()),
		RequestedBy:  Value(f.RequestedBy.Trim()),
	}

	presence, constraint := v.check(f, nil)
	if len(presence) > 0 {
		return models.CreateTransfer{}, firstOf(ClassPresence, "All fields are required", presence)
	}

	qty, ok := positive(string(f.Quantity))
	if !ok {
		constraint = append(constraint, FieldError{Field: "quantity", Message: msgMinQuantity})
	}
	if f.FromLocation == f.ToLocation && f.FromRack == f.ToRack {
		constraint = append(constraint,
			FieldError{Field: "to_location", Message: "Source and destination must differ"},
			FieldError{Field: "to_rack", Message: "Source and destination must differ"},
		)
	}
	if len(constraint) > 0 {
		return models.CreateTransfer{}, firstOf(ClassConstraint, "", constraint)
	}

	requestedBy := string(f.RequestedBy)
	if requestedBy == "" {
		requestedBy = defaultActor
	}

	return models.CreateTransfer{
		SKU:              string(f.SKU),
		Quantity:         qty,
		FromLocation:     string(f.FromLocation),
		FromRack:         string(f.FromRack),
		ToLocation:       string(f.ToLocation),
		ToRack:           string(f.ToRack),
		RequestedBy:      requestedBy,
		ApprovalRequired: workflow.IsApprovalRequired(qty),
	}, nil
}

type ApproveTransferForm struct {
	TransferID Value `json:"transfer_id" validate:"required"`
}

func (v *Validator) ApproveTransfer(f ApproveTransferForm) (models.ApproveTransfer, *Failure) {
	f.TransferID = Value(f.TransferID.Trim())

	presence, _ := v.check(f, map[string]string{
		"transfer_id": "Please enter a Transfer ID",
	})
	if len(presence) > 0 {
		return models.ApproveTransfer{}, firstOf(ClassPresence, "", presence)
	}

	return models.ApproveTransfer{TransferID: string(f.TransferID)}, nil
}

type ReceiptForm struct {
	SKU        Value `json:"sku" validate:"required"`
	Quantity   Value `json:"quantity" validate:"required"`
	Location   Value `json:"location" validate:"required"`
	Rack       Value `json:"rack" validate:"required"`
	ReceivedBy Value `json:"received_by"`
}

func (v *Validator) ReceiveGoods(f ReceiptForm) (models.GoodsReceipt, *Failure) {
	f = ReceiptForm{
		SKU:        Value(f.SKU.Trim()),
		Quantity:   Value(f.Quantity.Trim()),
		Location:   Value(f.Location.Trim()),
		Rack:       Value(f.Rack.Trim()),
		ReceivedBy: Value(f.ReceivedBy.Trim()),
	}

	presence, constraint := v.check(f, nil)
	if len(presence) > 0 {
		return models.GoodsReceipt{}, firstOf(ClassPresence, "Please fill in all required fields", presence)
	}

	qty, ok := positive(string(f.Quantity))
	if !ok {
		constraint = append(constraint, FieldError{Field: "quantity", Message: msgMinQuantity})
	}
	if len(constraint) > 0 {
		return models.GoodsReceipt{}, firstOf(ClassConstraint, "", constraint)
	}

	receivedBy := string(f.ReceivedBy)
	if receivedBy == "" {
		receivedBy = defaultActor
	}

	return models.GoodsReceipt{
		SKU:        string(f.SKU),
		Quantity:   qty,
		Location:   string(f.Location),
		Rack:       string(f.Rack),
		ReceivedBy: receivedBy,
	}, nil
}
