package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Lila-pv/agente-ia-demo/logic"
	"github.com/Lila-pv/agente-ia-demo/middleware"
)

// HistoryController handles HTTP requests
type HistoryController struct {
	historyLogic *logic.HistoryLogic
}

func NewHistoryController(historyLogic *logic.HistoryLogic) *HistoryController {
	return &HistoryController{historyLogic: historyLogic}
}

// GetHistory handles GET /conversations. Results are filtered to the
// authenticated caller's own turns, newest first.
func (c *HistoryController) GetHistory(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	turns, err := c.historyLogic.GetUserTurns(userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load conversation history"})
		return
	}

	ctx.JSON(http.StatusOK, turns)
}
