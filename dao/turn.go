package dao

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Lila-pv/agente-ia-demo/models"
)

// TurnDAO handles conversation-turn database operations
type TurnDAO struct {
	db *gorm.DB
}

func NewTurnDAO(db *gorm.DB) *TurnDAO {
	return &TurnDAO{db: db}
}

// CreateTurn inserts one completed turn for a user
func (d *TurnDAO) CreateTurn(userID, userMessage, agentResponse string) (*models.ConversationTurn, error) {
	turn := &models.ConversationTurn{
		ID:            uuid.New(),
		UserID:        userID,
		UserMessage:   userMessage,
		AgentResponse: agentResponse,
	}
	if err := d.db.Create(turn).Error; err != nil {
		return nil, err
	}
	return turn, nil
}

// GetTurnsByUserID retrieves all turns owned by a user, newest first
func (d *TurnDAO) GetTurnsByUserID(userID string) ([]models.ConversationTurn, error) {
	var turns []models.ConversationTurn
	if err := d.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&turns).Error; err != nil {
		return nil, err
	}
	return turns, nil
}
