package models

import (
	"time"
)

type ModerationAction string

const (
	ActionApproved             ModerationAction = "approved"
	ActionRejected             ModerationAction = "rejected"
	ActionVerifiedCreator      ModerationAction = "verified_creator"
	ActionRejectedVerification ModerationAction = "rejected_verification"
)

// ModerationLogEntry is the append-only audit trail of moderation
// decisions. Rows are never updated or deleted. ModeratorID is empty
// for automatic decisions.
type ModerationLogEntry struct {
	ID          string           `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	PostID      *string          `json:"postId,omitempty" gorm:"type:uuid;index"`
	CreatorID   *string          `json:"creatorId,omitempty" gorm:"type:uuid;index"`
	ModeratorID string           `json:"moderatorId"`
	Action      ModerationAction `json:"action" gorm:"type:varchar(30);not null"`
	Reason      string           `json:"reason"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// RejectPostInput carries the optional rejection reason
type RejectPostInput struct {
	Reason string `json:"reason"`
}

func (ModerationLogEntry) TableName() string {
	return "moderation_log"
}
