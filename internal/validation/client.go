package validation

import (
	"clientdesk/internal/apperr"
	"clientdesk/internal/models"
)

type ClientInput struct {
	Name    string `form:"name" json:"name" validate:"required"`
	Email   string `form:"email" json:"email" validate:"required,email,max=254"`
	Phone   string `form:"phone" json:"phone" validate:"required"`
	Company string `form:"company" json:"company" validate:"required"`
	Address string `form:"address" json:"address" validate:"required"`
	Status  string `form:"status" json:"status" validate:"required,oneof=active inactive"`
}

// Client validates a client payload. excludeID skips that record in the
// uniqueness check; zero means no exclusion (a create). The pre-check is
// advisory only: the unique index remains the authoritative race guard.
func (v *Validator) Client(in ClientInput, excludeID uint) error {
	verr := apperr.NewValidationError()
	v.collect(in, verr)

	if in.Email != "" {
		// the unique index spans trashed rows, so the pre-check must too
		q := v.db.Unscoped().Model(&models.Client{}).
			Where("LOWER(email) = LOWER(?)", in.Email)
		if excludeID != 0 {
			q = q.Where("id <> ?", excludeID)
		}
		var count int64
		if err := q.Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			verr.Add("email", "has already been taken")
		}
	}

	if verr.Empty() {
		return nil
	}
	return verr
}
