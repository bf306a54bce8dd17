package logic

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/Lila-pv/agente-ia-demo/config"
	"github.com/Lila-pv/agente-ia-demo/dao"
	"github.com/Lila-pv/agente-ia-demo/pkg"
)

// MessageLogic handles the single-turn message pipeline
type MessageLogic struct {
	turnDAO    *dao.TurnDAO
	chatClient *pkg.ChatClient
	logger     *zap.Logger
}

func NewMessageLogic(
	turnDAO *dao.TurnDAO,
	chatClient *pkg.ChatClient,
	logger *zap.Logger,
) *MessageLogic {
	return &MessageLogic{
		turnDAO:    turnDAO,
		chatClient: chatClient,
		logger:     logger,
	}
}

// ProcessMessage runs one chat turn: validate, call the inference API,
// persist the turn, return the reply. The turn is only written after a
// successful inference call; a failed write discards the reply and is
// reported as a PersistenceError.
func (l *MessageLogic) ProcessMessage(ctx context.Context, userID, userMessage string) (string, error) {
	userMessage = strings.TrimSpace(userMessage)
	if userMessage == "" {
		return "", ErrEmptyMessage
	}

	req := pkg.ChatCompletionRequest{
		Model:    config.GlobalConfig.LLM.Model,
		Messages: pkg.BuildMessages(config.GlobalConfig.LLM.SystemPrompt, userMessage),
	}

	resp, err := l.chatClient.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *pkg.APIError
		if errors.As(err, &apiErr) {
			l.logger.Warn("inference call rejected",
				zap.Int("status", apiErr.StatusCode),
				zap.String("user_id", userID))
			return "", &UpstreamError{Status: apiErr.StatusCode, Message: apiErr.Message}
		}
		l.logger.Warn("inference call failed", zap.Error(err), zap.String("user_id", userID))
		return "", &UpstreamError{Message: err.Error()}
	}

	agentResponse := pkg.CleanResponse(resp.FirstChoiceContent())
	if agentResponse == "" {
		agentResponse = config.GlobalConfig.LLM.FallbackResponse
	}

	if _, err := l.turnDAO.CreateTurn(userID, userMessage, agentResponse); err != nil {
		l.logger.Error("failed to save conversation turn",
			zap.Error(err),
			zap.String("user_id", userID))
		return "", &PersistenceError{Err: err}
	}

	return agentResponse, nil
}
