package models

import (
	"time"

	"github.com/google/uuid"
)

// ConversationTurn is one user message and its generated reply.
// Turns are immutable once written; there are no update or delete paths.
type ConversationTurn struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UserID        string    `gorm:"not null;index" json:"user_id"`
	UserMessage   string    `gorm:"not null" json:"user_message"`
	AgentResponse string    `gorm:"not null" json:"agent_response"`
}

func (ConversationTurn) TableName() string {
	return "conversations"
}
