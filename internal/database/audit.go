package database

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"clientdesk/internal/models"
)

// Auditor appends to the mutation audit trail. Failures are logged and
// swallowed: auditing never fails the parent operation.
type Auditor struct {
	db *gorm.DB
}

func NewAuditor(db *gorm.DB) *Auditor {
	return &Auditor{db: db}
}

func (a *Auditor) Record(userID uint, entity string, entityID uint, action, details string) {
	record := models.AuditLog{
		UserID:   userID,
		Entity:   entity,
		EntityID: entityID,
		Action:   action,
		Details:  details,
	}
	if err := a.db.Create(&record).Error; err != nil {
		log.Warn().Err(err).
			Str("entity", entity).
			Uint("entity_id", entityID).
			Str("action", action).
			Msg("audit record not written")
	}
}
