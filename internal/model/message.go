package model

import "time"

// Message belongs to one conversation. Messages are append-only and ordered by ID.
type Message struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ConversationID uint      `gorm:"not null;index" json:"conversationId"`
	IsUser         bool      `gorm:"not null" json:"isUser"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	Timestamp      time.Time `gorm:"not null" json:"timestamp"`
}
