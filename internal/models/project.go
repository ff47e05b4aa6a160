package models

import "time"

type ProjectStatus string

const (
	StatusPending    ProjectStatus = "pending"
	StatusInProgress ProjectStatus = "in_progress"
	StatusOnHold     ProjectStatus = "on_hold"
	StatusReview     ProjectStatus = "review"
	StatusCompleted  ProjectStatus = "completed"
	StatusCancelled  ProjectStatus = "cancelled"
)

// Project deletion is a hard delete, so no gorm.Model / DeletedAt here.
type Project struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	ClientID uint   `gorm:"not null;index"`
	Client   Client `gorm:"constraint:OnDelete:CASCADE"`
	UserID   uint   `gorm:"not null;index"`
	User     User

	Title       string        `gorm:"size:255;not null"`
	Description string        `gorm:"type:text"`
	Status      ProjectStatus `gorm:"type:varchar(20);not null;default:pending"`
	Deadline    *time.Time    `gorm:"type:date"`

	Files []File `gorm:"polymorphic:Fileable"`
}
