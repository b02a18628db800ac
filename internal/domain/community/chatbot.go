package community

import (
	"github.com/agrimarket/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ChatbotRole identifies the author of a chatbot message
type ChatbotRole string

const (
	ChatbotRoleUser      ChatbotRole = "USER"
	ChatbotRoleAssistant ChatbotRole = "ASSISTANT"
)

// IsValid checks if the role is valid
func (r ChatbotRole) IsValid() bool {
	return r == ChatbotRoleUser || r == ChatbotRoleAssistant
}

// ChatbotConversation groups the messages of a single chatbot session.
// Anonymous sessions leave UserID nil and are keyed by SessionKey.
type ChatbotConversation struct {
	shared.BaseEntity
	UserID     *uuid.UUID       `gorm:"type:uuid;index"`
	SessionKey string           `gorm:"type:varchar(64);not null;uniqueIndex"`
	Topic      string           `gorm:"type:varchar(200)"`
	Messages   []ChatbotMessage `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ChatbotConversation) TableName() string {
	return "chatbot_conversations"
}

// NewChatbotConversation opens a session. userID may be nil for guests.
func NewChatbotConversation(userID *uuid.UUID, sessionKey, topic string) (*ChatbotConversation, error) {
	if sessionKey == "" {
		return nil, shared.NewDomainError("INVALID_SESSION", "Session key cannot be empty")
	}
	return &ChatbotConversation{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		SessionKey: sessionKey,
		Topic:      topic,
	}, nil
}

// ChatbotMessage is one turn in a conversation. Metadata holds the raw
// model payload for later inspection.
type ChatbotMessage struct {
	shared.BaseEntity
	ConversationID uuid.UUID   `gorm:"type:uuid;not null;index"`
	Role           ChatbotRole `gorm:"type:varchar(20);not null"`
	Content        string      `gorm:"type:text;not null"`
	Metadata       string      `gorm:"type:jsonb;default:'{}'"`
}

// TableName returns the table name for GORM
func (ChatbotMessage) TableName() string {
	return "chatbot_messages"
}

// NewChatbotMessage appends a turn to a conversation
func NewChatbotMessage(conversationID uuid.UUID, role ChatbotRole, content string) (*ChatbotMessage, error) {
	if conversationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CONVERSATION", "Conversation ID cannot be empty")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Invalid chatbot role")
	}
	if content == "" {
		return nil, shared.NewDomainError("INVALID_CONTENT", "Content cannot be empty")
	}
	return &ChatbotMessage{
		BaseEntity:     shared.NewBaseEntity(),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		Metadata:       "{}",
	}, nil
}
