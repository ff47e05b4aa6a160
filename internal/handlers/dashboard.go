package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clientdesk/internal/models"
)

type DashboardHandler struct {
	db *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{db: db}
}

// Summary reports live client and project counts.
func (h *DashboardHandler) Summary(c *gin.Context) {
	var clientCount, projectCount int64
	if err := h.db.Model(&models.Client{}).Count(&clientCount).Error; err != nil {
		respondError(c, err)
		return
	}
	if err := h.db.Model(&models.Project{}).Count(&projectCount).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"clients":  clientCount,
		"projects": projectCount,
	})
}
