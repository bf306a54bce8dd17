package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Lila-pv/agente-ia-demo/logic"
	"github.com/Lila-pv/agente-ia-demo/middleware"
)

// MessageController handles HTTP requests
type MessageController struct {
	messageLogic *logic.MessageLogic
}

func NewMessageController(messageLogic *logic.MessageLogic) *MessageController {
	return &MessageController{messageLogic: messageLogic}
}

// ProcessMessage handles POST /process_message
func (c *MessageController) ProcessMessage(ctx *gin.Context) {
	type Request struct {
		UserMessage string `json:"user_message"`
		// Accepted for wire compatibility with older clients, never trusted.
		UserID string `json:"user_id"`
	}
	var req Request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	userID, ok := middleware.UserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	reply, err := c.messageLogic.ProcessMessage(ctx.Request.Context(), userID, req.UserMessage)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"agent_response": reply})
}

// writeError maps pipeline errors onto the endpoint's status taxonomy:
// validation 400, upstream 503, persistence and anything unexpected 500.
func writeError(ctx *gin.Context, err error) {
	var upstreamErr *logic.UpstreamError
	var persistErr *logic.PersistenceError
	switch {
	case errors.Is(err, logic.ErrEmptyMessage):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "user_message is required"})
	case errors.As(err, &upstreamErr):
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "error from the AI: " + upstreamErr.Message})
	case errors.As(err, &persistErr):
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save the conversation"})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
