package models

import (
	"time"
)

type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "ACTIVE"
	SubscriptionPastDue  SubscriptionStatus = "PAST_DUE"
	SubscriptionCanceled SubscriptionStatus = "CANCELED"
)

// Subscription links a subscriber profile to a creator account. Status
// transitions are driven by payment events; CANCELED is terminal and no
// row is ever deleted.
type Subscription struct {
	ID                   string             `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	SubscriberID         string             `json:"subscriberId" gorm:"type:uuid;not null;index"`
	CreatorID            string             `json:"creatorId" gorm:"type:uuid;not null;index"`
	StripeSubscriptionID string             `json:"stripeSubscriptionId" gorm:"column:stripe_subscription_id;uniqueIndex"`
	StripeCustomerID     string             `json:"stripeCustomerId" gorm:"column:stripe_customer_id"`
	Status               SubscriptionStatus `json:"status" gorm:"type:varchar(20);default:'ACTIVE'"`
	CurrentPeriodStart   time.Time          `json:"currentPeriodStart"`
	CurrentPeriodEnd     *time.Time         `json:"currentPeriodEnd"`
	CanceledAt           *time.Time         `json:"canceledAt"`
	CreatedAt            time.Time          `json:"createdAt"`
	UpdatedAt            time.Time          `json:"updatedAt"`
}

// CanTransition reports whether the subscription state machine allows
// moving from one status to another. Nothing leaves CANCELED.
func CanTransition(from, to SubscriptionStatus) bool {
	if from == to {
		return true
	}
	switch from {
	case SubscriptionActive:
		return to == SubscriptionPastDue || to == SubscriptionCanceled
	case SubscriptionPastDue:
		return to == SubscriptionActive || to == SubscriptionCanceled
	default:
		return false
	}
}

func (Subscription) TableName() string {
	return "subscriptions"
}
