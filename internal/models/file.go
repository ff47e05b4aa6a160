package models

import "time"

// File is a stored attachment. The owner is polymorphic: FileableType holds
// the owning table name ("projects"), FileableID the owning row id.
type File struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Disk         string `gorm:"size:50;not null"`
	Path         string `gorm:"size:255;not null"`
	OriginalName string `gorm:"size:255;not null"`
	MimeType     string `gorm:"size:100;not null"`
	Size         int64  `gorm:"not null"`

	FileableID   uint   `gorm:"not null;index"`
	FileableType string `gorm:"size:50;not null;index"`
}
