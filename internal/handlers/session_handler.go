package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"challenge-service/internal/service"
	"challenge-service/internal/session"
)

type SessionHandler struct {
	Orchestrator *session.Orchestrator
	Catalog      *service.Catalog
}

func NewSessionHandler(orch *session.Orchestrator, catalog *service.Catalog) *SessionHandler {
	return &SessionHandler{Orchestrator: orch, Catalog: catalog}
}

// CreateSession starts a challenge run. Guests (no X-User-ID header) are
// allowed; their results stay local and are discarded with the session.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req struct {
		ChallengeID string `json:"challenge_id" binding:"required"`
		Practice    bool   `json:"practice"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	def, err := h.Catalog.Get(req.ChallengeID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Challenge not found"})
		return
	}

	userID := c.GetHeader("X-User-ID")
	s, err := h.Orchestrator.Start(def, userID, req.Practice)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to create session",
			"details": err.Error(),
		})
		return
	}

	// Countdown runs server-side for the life of the session.
	go h.Orchestrator.Run(context.Background(), s.ID)

	c.JSON(http.StatusCreated, s)
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	s, err := h.Orchestrator.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.JSON(http.StatusOK, s)
}

// SubmitAnswer appends one answer. The response carries the completion once
// the final question has been answered.
func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	var req struct {
		QuestionIndex int  `json:"question_index"`
		ChosenOption  int  `json:"chosen_option"`
		IsCorrect     bool `json:"is_correct"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid answer format",
			"details": err.Error(),
		})
		return
	}

	completion, err := h.Orchestrator.Answer(c.Request.Context(), c.Param("id"), req.QuestionIndex, req.ChosenOption, req.IsCorrect)
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	case errors.Is(err, session.ErrSessionComplete), errors.Is(err, session.ErrSessionInactive):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if completion != nil {
		c.JSON(http.StatusOK, gin.H{"status": session.StatusCompleted, "completion": completion})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": session.StatusActive})
}

// QuitSession cancels an active run; nothing is graded or synced.
func (h *SessionHandler) QuitSession(c *gin.Context) {
	err := h.Orchestrator.Quit(c.Param("id"))
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
	case err != nil:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Session cancelled"})
	}
}
