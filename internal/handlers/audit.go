package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clientdesk/internal/models"
)

type AuditHandler struct {
	db *gorm.DB
}

func NewAuditHandler(db *gorm.DB) *AuditHandler {
	return &AuditHandler{db: db}
}

type AuditLogResponse struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	User      string    `json:"user,omitempty"`
	Entity    string    `json:"entity"`
	EntityID  uint      `json:"entity_id"`
	Action    string    `json:"action"`
	Details   string    `json:"details,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// List returns the audit trail, newest first.
func (h *AuditHandler) List(c *gin.Context) {
	var logs []models.AuditLog
	if err := h.db.Preload("User").Order("id desc").Limit(200).Find(&logs).Error; err != nil {
		respondError(c, err)
		return
	}

	out := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, AuditLogResponse{
			ID:        l.ID,
			UserID:    l.UserID,
			User:      l.User.Name,
			Entity:    l.Entity,
			EntityID:  l.EntityID,
			Action:    l.Action,
			Details:   l.Details,
			CreatedAt: l.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"audit": out})
}
