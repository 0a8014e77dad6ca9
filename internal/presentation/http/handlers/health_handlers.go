package handlers

import (
	"net/http"

	"github.com/HearthApp/hearth-go/internal/infrastructure/persistence/database"
	"github.com/gin-gonic/gin"
)

// HealthHandlers exposes liveness and readiness.
type HealthHandlers struct {
	db *database.DB
}

func NewHealthHandlers(db *database.DB) *HealthHandlers {
	return &HealthHandlers{db: db}
}

// HandleHealth handles GET /api/v1/health
func (h *HealthHandlers) HandleHealth(c *gin.Context) {
	dbStatus := "ok"
	status := http.StatusOK
	if err := h.db.Ping(); err != nil {
		dbStatus = "unavailable"
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":   "ok",
		"database": dbStatus,
	})
}
