package models

import (
	"time"
)

// Notification is produced as a side effect of other transitions, e.g.
// a new subscription notifies the creator. Delivery is external.
type Notification struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ProfileID string    `json:"profileId" gorm:"type:uuid;not null;index"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead" gorm:"default:false"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Notification) TableName() string {
	return "notifications"
}
