package models

import (
	"time"
)

// Role définit les rôles applicatifs d'un profil
type Role string

const (
	MemberRole Role = "MEMBER"
	AdminRole  Role = "ADMIN"
)

// Profile is the application-level identity record, distinct from the
// identity provider's principal. AuthID is the only link back to it.
type Profile struct {
	ID               string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	AuthID           string    `json:"authId" gorm:"column:auth_id;uniqueIndex;not null"`
	Email            string    `json:"email" gorm:"uniqueIndex;not null"`
	Username         string    `json:"username" gorm:"uniqueIndex"`
	FullName         string    `json:"fullName"`
	Role             Role      `json:"role" gorm:"type:varchar(20);default:'MEMBER'"`
	IsVerified       bool      `json:"isVerified" gorm:"default:false"`
	AvatarURL        string    `json:"avatarUrl" gorm:"column:avatar_url"`
	StripeCustomerID string    `json:"stripeCustomerId" gorm:"column:stripe_customer_id"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// ProfileUpdate model for updating one's own profile
type ProfileUpdate struct {
	Username  string `json:"username"`
	FullName  string `json:"fullName"`
	AvatarURL string `json:"avatarUrl"`
}

func (Profile) TableName() string {
	return "profiles"
}
