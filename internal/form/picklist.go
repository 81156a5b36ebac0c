package form

import (
	"ops-console/internal/models"
	"ops-console/internal/workflow"
)

type PicklistStatusForm struct {
	PicklistID Value `json:"picklist_id" validate:"required"`
	Status     Value `json:"status" validate:"required"`
}

func (v *Validator) UpdatePicklistStatus(f PicklistStatusForm) (models.UpdatePicklistStatus, *Failure) {
	f = PicklistStatusForm{PicklistID: Value(f.PicklistID.Trim()), Status: Value(f.Status.Trim())}

	presence, constraint := v.check(f, map[string]string{
		"picklist_id": "Please enter a Picklist ID",
		"status":      "Please select a Status",
	})
	if len(presence) > 0 {
		return models.UpdatePicklistStatus{}, firstOf(ClassPresence, "", presence)
	}
	if len(constraint) > 0 {
		return models.UpdatePicklistStatus{}, firstOf(ClassConstraint, "", constraint)
	}

	req := models.UpdatePicklistStatus{
		PicklistID: string(f.PicklistID),
		Status:     workflow.Status(f.Status),
	}
	if failure := requireFields(workflow.EntityPicklist, req.Status, nil); failure != nil {
		return models.UpdatePicklistStatus{}, failure
	}

	return req, nil
}

type PicklistRefForm struct {
	PicklistID Value `json:"picklist_id" validate:"required"`
}

// PicklistRef is used by the route and QR lookups.
func (v *Validator) PicklistRef(f PicklistRefForm) (models.PicklistRef, *Failure) {
	f.PicklistID = Value(f.PicklistID.Trim())

	presence, _ := v.check(f, map[string]string{
		"picklist_id": "Please enter a Picklist ID",
	})
	if len(presence) > 0 {
		return models.PicklistRef{}, firstOf(ClassPresence, "", presence)
	}

	return models.PicklistRef{PicklistID: string(f.PicklistID)}, nil
}
