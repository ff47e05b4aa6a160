package validation

import (
	"time"

	"clientdesk/internal/apperr"
	"clientdesk/internal/models"
)

const deadlineLayout = "2006-01-02"

type ProjectInput struct {
	ClientID    uint   `form:"client_id" json:"client_id" validate:"required"`
	UserID      uint   `form:"user_id" json:"user_id" validate:"required"`
	Title       string `form:"title" json:"title" validate:"required"`
	Description string `form:"description" json:"description"`
	Status      string `form:"status" json:"status" validate:"required,oneof=pending in_progress on_hold review completed cancelled"`
	Deadline    string `form:"deadline" json:"deadline"`
}

// ProjectFields is the validated, typed payload handed to the repository.
type ProjectFields struct {
	ClientID    uint
	UserID      uint
	Title       string
	Description string
	Status      models.ProjectStatus
	Deadline    *time.Time
}

// Project validates a project payload. The deadline rule is clock
// dependent: the parse and the not-in-the-past comparison use one captured
// now, so the check and the eventual write agree on what "today" was.
func (v *Validator) Project(in ProjectInput) (*ProjectFields, error) {
	verr := apperr.NewValidationError()
	v.collect(in, verr)

	var deadline *time.Time
	if in.Deadline != "" {
		d, ok := parseDeadline(in.Deadline)
		if !ok {
			verr.Add("deadline", "must be a valid date")
		} else {
			now := v.Now().UTC()
			today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
			if d.Before(today) {
				verr.Add("deadline", "must be a date on or after today")
			} else {
				deadline = &d
			}
		}
	}

	if in.ClientID != 0 {
		exists, err := v.exists(&models.Client{}, in.ClientID)
		if err != nil {
			return nil, err
		}
		if !exists {
			verr.Add("client_id", "does not exist")
		}
	}
	if in.UserID != 0 {
		exists, err := v.exists(&models.User{}, in.UserID)
		if err != nil {
			return nil, err
		}
		if !exists {
			verr.Add("user_id", "does not exist")
		}
	}

	if !verr.Empty() {
		return nil, verr
	}
	return &ProjectFields{
		ClientID:    in.ClientID,
		UserID:      in.UserID,
		Title:       in.Title,
		Description: in.Description,
		Status:      models.ProjectStatus(in.Status),
		Deadline:    deadline,
	}, nil
}

func (v *Validator) exists(model any, id uint) (bool, error) {
	var count int64
	err := v.db.Model(model).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func parseDeadline(s string) (time.Time, bool) {
	for _, layout := range []string{deadlineLayout, "2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}
