package logic

import (
	"github.com/Lila-pv/agente-ia-demo/dao"
	"github.com/Lila-pv/agente-ia-demo/models"
)

// HistoryLogic handles conversation-history reads
type HistoryLogic struct {
	turnDAO *dao.TurnDAO
}

func NewHistoryLogic(turnDAO *dao.TurnDAO) *HistoryLogic {
	return &HistoryLogic{turnDAO: turnDAO}
}

// GetUserTurns retrieves all turns owned by a user, newest first
func (l *HistoryLogic) GetUserTurns(userID string) ([]models.ConversationTurn, error) {
	turns, err := l.turnDAO.GetTurnsByUserID(userID)
	if err != nil {
		return nil, err
	}
	if turns == nil {
		turns = []models.ConversationTurn{}
	}
	return turns, nil
}
