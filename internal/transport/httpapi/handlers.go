package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sandevgo/kpigpt/internal/core"
	"github.com/sandevgo/kpigpt/pkg/log"
)

type chatRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionID string `json:"session_id"`
}

type resetRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (r *chatRequest) sessionID() string {
	if r.SessionID == "" {
		// Callers without a session still get context within the turn.
		return "web-" + uuid.NewString()
	}
	return r.SessionID
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "message is required"})
		return
	}

	result, err := s.orchestrator.HandleChatTurn(c.Request.Context(), req.sessionID(), req.Message)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// handleChatStream emits SSE events: "chunk" per generated fragment,
// then "done" with the complete result. Short-circuit answers arrive
// as a single "done" event with no chunks.
func (s *Server) handleChatStream(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "message is required"})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Flush()

	result, err := s.orchestrator.HandleChatTurnStream(c.Request.Context(), req.sessionID(), req.Message, func(fragment string) {
		writeSSE(c, "chunk", gin.H{"content": fragment})
	})
	if err != nil {
		log.FromCtx(c.Request.Context()).Error().Err(err).Msg("stream turn failed")
		writeSSE(c, "error", errorResponse{Error: userFacingError(err)})
		return
	}
	writeSSE(c, "done", result)
}

func (s *Server) handleSessionReset(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "session_id is required"})
		return
	}

	if err := s.orchestrator.ResetSession(c.Request.Context(), req.SessionID); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reset", "session_id": req.SessionID})
}

func (s *Server) handleSystemStatus(c *gin.Context) {
	status := s.orchestrator.SystemStatus(c.Request.Context())
	code := http.StatusOK
	if !status.Ready {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}

func (s *Server) writeError(c *gin.Context, err error) {
	log.FromCtx(c.Request.Context()).Error().Err(err).Msg("chat turn failed")
	code := http.StatusInternalServerError
	if errors.Is(err, core.ErrVectorStoreUnavailable) {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, errorResponse{Error: userFacingError(err)})
}

func userFacingError(err error) string {
	if errors.Is(err, core.ErrVectorStoreUnavailable) {
		return "knowledge base is temporarily unavailable"
	}
	return "internal error"
}

func writeSSE(c *gin.Context, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	c.Writer.WriteString("event: " + event + "\n")
	c.Writer.WriteString("data: " + string(data) + "\n\n")
	c.Writer.Flush()
}
