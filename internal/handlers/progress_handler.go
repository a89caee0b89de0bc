package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"challenge-service/internal/service"
)

type ProgressHandler struct {
	Progression *service.ProgressionService
}

func NewProgressHandler(progression *service.ProgressionService) *ProgressHandler {
	return &ProgressHandler{Progression: progression}
}

// GetProgress returns counters, streak, and achievements for the user,
// seeding a pristine record for first-time users.
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	progress, err := h.Progression.Get(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, progress)
}
