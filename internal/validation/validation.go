// Package validation holds the per-operation rule sets. Each entry point
// collects every field violation in one pass and returns a
// *apperr.ValidationError, never just the first failure.
package validation

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"clientdesk/internal/apperr"
)

// Validator runs the rule sets. Now is swappable so the clock-dependent
// deadline rule can be pinned in tests.
type Validator struct {
	db       *gorm.DB
	validate *validator.Validate
	Now      func() time.Time
}

func New(db *gorm.DB) *Validator {
	v := validator.New()
	// report violations under the wire field name, not the Go field name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return &Validator{db: db, validate: v, Now: time.Now}
}

func (v *Validator) collect(in any, verr *apperr.ValidationError) {
	err := v.validate.Struct(in)
	if err == nil {
		return
	}
	var ferrs validator.ValidationErrors
	if !errors.As(err, &ferrs) {
		verr.Add("_", "invalid input")
		return
	}
	for _, fe := range ferrs {
		verr.Add(fe.Field(), message(fe))
	}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return "must not be longer than " + fe.Param() + " characters"
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ")
	default:
		return "is invalid"
	}
}
