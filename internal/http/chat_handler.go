package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"todo-agent/internal/agent"
	"todo-agent/internal/service"
)

// ChatHandler mantiene dependencias para el endpoint conversacional.
type ChatHandler struct {
	logger  *zap.Logger
	chatSvc *service.ChatService
	limiter service.ChatRateLimiter
}

func NewChatHandler(logger *zap.Logger, chatSvc *service.ChatService, limiter service.ChatRateLimiter) *ChatHandler {
	return &ChatHandler{
		logger:  logger,
		chatSvc: chatSvc,
		limiter: limiter,
	}
}

// Chat maneja POST /api/chat.
func (h *ChatHandler) Chat(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	var req struct {
		Message        string `json:"message" binding:"required"`
		ConversationID string `json:"conversation_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid chat request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "status": "error"})
		return
	}

	if h.limiter != nil && !h.limiter.Allow(claims.UserID) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many messages, slow down", "status": "error"})
		return
	}

	result, err := h.chatSvc.ProcessChat(c.Request.Context(), claims.UserID, req.Message, req.ConversationID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrChatEmptyMessage):
			c.JSON(http.StatusBadRequest, gin.H{"error": "message is empty", "status": "error"})
		case errors.Is(err, agent.ErrModelUnavailable):
			// El turno del usuario quedó persistido; no inventamos
			// una respuesta del asistente.
			h.logger.Error("model unavailable", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "assistant unavailable, try again later", "status": "error"})
		default:
			h.logger.Error("chat failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not process message", "status": "error"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
