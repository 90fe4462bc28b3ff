package models

import "time"

// ChatMessage is a persisted support chat message.
// Its JSON form is the outbound relay event pushed to live connections.
type ChatMessage struct {
	// ID is assigned by the database and grows with creation order.
	ID uint `gorm:"primaryKey" json:"id"`
	// UserID is the conversation (customer id) the message belongs to, whoever sent it.
	UserID string `gorm:"type:text;not null;index:idx_chat_conversation" json:"user_id"`
	// SenderID is AdminIdentity for operator messages and the customer id otherwise.
	SenderID string `gorm:"type:text;not null" json:"sender_id"`
	Text     string `gorm:"type:text;not null" json:"text"`
	// CreatedAt is set on insert and never updated.
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_chat_conversation" json:"created_at"`
	// IsRead only ever moves from false to true.
	IsRead bool `gorm:"not null" json:"is_read"`
}

// TableName pins the table name independent of gorm's pluralisation.
func (ChatMessage) TableName() string { return "chat_messages" }

// IsAdmin reports whether the message was written by an operator.
func (m ChatMessage) IsAdmin() bool { return RoleOf(m.SenderID) == RoleAdmin }

// HistoryItem is the REST representation of a message in a conversation history.
type HistoryItem struct {
	ID        uint      `json:"id"`
	SenderID  string    `json:"senderId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	IsAdmin   bool      `json:"isAdmin"`
	IsRead    bool      `json:"isRead"`
}

// NewHistoryItem converts a stored message for the history endpoint.
func NewHistoryItem(m ChatMessage) HistoryItem {
	return HistoryItem{
		ID:        m.ID,
		SenderID:  m.SenderID,
		Text:      m.Text,
		CreatedAt: m.CreatedAt,
		IsAdmin:   m.IsAdmin(),
		IsRead:    m.IsRead,
	}
}
