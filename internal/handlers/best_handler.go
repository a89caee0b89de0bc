package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"challenge-service/internal/best"
	"challenge-service/internal/syncer"
)

type BestHandler struct {
	Store  *best.Store
	Engine *syncer.Engine
}

func NewBestHandler(store *best.Store, engine *syncer.Engine) *BestHandler {
	return &BestHandler{Store: store, Engine: engine}
}

// GetBests returns the user's current merged personal-best map.
func (h *BestHandler) GetBests(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	c.JSON(http.StatusOK, h.Store.Current(userID))
}

// TriggerSync runs one sync cycle for the user. A cycle already in flight is
// a no-op, reported as a conflict.
func (h *BestHandler) TriggerSync(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	report, err := h.Engine.SyncUser(c.Request.Context(), userID)
	switch {
	case errors.Is(err, syncer.ErrSyncInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": "Sync already in progress"})
	case errors.Is(err, syncer.ErrGuestSession):
		c.JSON(http.StatusForbidden, gin.H{"error": "Guest sessions cannot sync"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, report)
	}
}
