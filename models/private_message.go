package models

import (
	"time"
)

// PrivateMessage represents a message sent between two profiles
type PrivateMessage struct {
	ID         string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	SenderID   string    `json:"senderId" gorm:"column:sender_id;type:uuid;not null;index"`
	ReceiverID string    `json:"receiverId" gorm:"column:receiver_id;type:uuid;not null;index"`
	Content    string    `json:"content" binding:"required"`
	Status     string    `json:"status" gorm:"default:UNREAD"` // UNREAD, READ
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// PrivateMessageCreate model for creating a private message
type PrivateMessageCreate struct {
	ReceiverID string `json:"receiverId" binding:"required"`
	Content    string `json:"content" binding:"required"`
}

func (PrivateMessage) TableName() string {
	return "private_messages"
}
