package models

import "gorm.io/gorm"

type ClientStatus string

const (
	ClientActive   ClientStatus = "active"
	ClientInactive ClientStatus = "inactive"
)

// Client is soft-deleted: DeletedAt hides the row from default queries but
// keeps it in storage for recovery. Hard removal is not exposed.
type Client struct {
	gorm.Model
	Name    string       `gorm:"size:255;not null"`
	Email   string       `gorm:"uniqueIndex;size:254;not null"`
	Phone   string       `gorm:"size:50;not null"`
	Company string       `gorm:"size:255;not null"`
	Address string       `gorm:"size:255;not null"`
	Status  ClientStatus `gorm:"type:varchar(20);not null"`

	Projects []Project `gorm:"constraint:OnDelete:CASCADE"`
}
