package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"challenge-service/internal/best"
	"challenge-service/internal/repository"
)

type AdminHandler struct {
	Remote *repository.RemoteStore
	Store  *best.Store
}

func NewAdminHandler(remote *repository.RemoteStore, store *best.Store) *AdminHandler {
	return &AdminHandler{Remote: remote, Store: store}
}

// WipeUser clears everything for one user: remote documents and this node's
// in-memory state. Other devices observe the empty remote on their next sync
// and discard their local copies.
func (h *AdminHandler) WipeUser(c *gin.Context) {
	userID := c.Param("id")
	if err := h.Remote.WipeUser(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to wipe user",
			"details": err.Error(),
		})
		return
	}
	h.Store.Drop(userID)
	c.JSON(http.StatusOK, gin.H{"message": "User data wiped"})
}
