// Package repository is the caller-scoped data-access layer. Every call
// takes the caller explicitly; there is no ambient identity.
package repository

import (
	"errors"

	"gorm.io/gorm"

	"clientdesk/internal/apperr"
)

// translateConstraint maps a unique-index race (detected at the storage
// layer, after the advisory pre-check already passed) onto the same
// validation-style outcome the pre-check produces.
func translateConstraint(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		verr := apperr.NewValidationError()
		verr.Add("email", "has already been taken")
		return verr
	}
	return err
}
