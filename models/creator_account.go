package models

import (
	"time"
)

// VerificationState définit les états de vérification d'un compte créateur
type VerificationState string

const (
	VerificationUnverified VerificationState = "UNVERIFIED"
	VerificationPending    VerificationState = "PENDING"
	VerificationVerified   VerificationState = "VERIFIED"
)

// CreatorAccount is the publishing side of a profile. At most one per
// profile, created lazily on the first creator action.
type CreatorAccount struct {
	ID              string            `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ProfileID       string            `json:"profileId" gorm:"type:uuid;uniqueIndex;not null"`
	DisplayName     string            `json:"displayName"`
	Bio             string            `json:"bio"`
	CoverURL        string            `json:"coverUrl" gorm:"column:cover_url"`
	MonthlyPrice    int               `json:"monthlyPrice" gorm:"default:0"` // minor currency units
	Verification    VerificationState `json:"verification" gorm:"type:varchar(20);default:'UNVERIFIED'"`
	IDDocumentURL   string            `json:"idDocumentUrl" gorm:"column:id_document_url"`
	SubscriberCount int               `json:"subscriberCount" gorm:"default:0"`
	VerifiedAt      *time.Time        `json:"verifiedAt"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// CreatorUpdate model for updating one's own creator account
type CreatorUpdate struct {
	DisplayName  string `json:"displayName"`
	Bio          string `json:"bio"`
	CoverURL     string `json:"coverUrl"`
	MonthlyPrice *int   `json:"monthlyPrice"`
}

// CreatorStats aggregated counters shown on the creator dashboard
type CreatorStats struct {
	SubscriberCount int64 `json:"subscriberCount"`
	PostCount       int64 `json:"postCount"`
}

func (CreatorAccount) TableName() string {
	return "creator_accounts"
}
