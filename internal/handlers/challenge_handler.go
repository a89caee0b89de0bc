package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"challenge-service/internal/service"
)

type ChallengeHandler struct {
	Catalog *service.Catalog
}

func NewChallengeHandler(catalog *service.Catalog) *ChallengeHandler {
	return &ChallengeHandler{Catalog: catalog}
}

func (h *ChallengeHandler) ListChallenges(c *gin.Context) {
	c.JSON(http.StatusOK, h.Catalog.List())
}

func (h *ChallengeHandler) GetChallenge(c *gin.Context) {
	def, err := h.Catalog.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Challenge not found"})
		return
	}
	c.JSON(http.StatusOK, def)
}
