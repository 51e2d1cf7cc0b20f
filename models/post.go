package models

import (
	"time"
)

type PostStatus string

const (
	PostScheduled PostStatus = "scheduled"
	PostPending   PostStatus = "pending"
	PostApproved  PostStatus = "approved"
	PostRejected  PostStatus = "rejected"
)

type Visibility string

const (
	VisibilityPublic      Visibility = "public"
	VisibilitySubscribers Visibility = "subscribers"
	VisibilityPrivate     Visibility = "private"
)

type MediaType string

const (
	MediaText  MediaType = "text"
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// Post is a piece of creator content. Price is set iff IsPaid is true.
type Post struct {
	ID          string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatorID   string     `json:"creatorId" gorm:"type:uuid;not null;index"`
	Caption     string     `json:"caption"`
	MediaURL    string     `json:"mediaUrl" gorm:"column:media_url"`
	MediaType   MediaType  `json:"mediaType" gorm:"type:varchar(10);default:'text'"`
	IsPaid      bool       `json:"isPaid" gorm:"default:false"`
	Price       *int       `json:"price,omitempty"` // minor currency units
	Visibility  Visibility `json:"visibility" gorm:"type:varchar(20);default:'public'"`
	Status      PostStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
	Tags        []string   `json:"tags" gorm:"serializer:json"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// PostCreate model for creating a post
type PostCreate struct {
	Caption     string     `json:"caption"`
	MediaURL    string     `json:"mediaUrl"`
	MediaType   MediaType  `json:"mediaType"`
	IsPaid      bool       `json:"isPaid"`
	Price       *int       `json:"price"`
	Visibility  Visibility `json:"visibility"`
	ScheduledAt *time.Time `json:"scheduledAt"`
	Tags        []string   `json:"tags"`
}

// PostUpdate model for editing a post before it has been moderated.
// Nil fields are left unchanged.
type PostUpdate struct {
	Caption    *string     `json:"caption"`
	MediaURL   *string     `json:"mediaUrl"`
	MediaType  *MediaType  `json:"mediaType"`
	IsPaid     *bool       `json:"isPaid"`
	Price      *int        `json:"price"`
	Visibility *Visibility `json:"visibility"`
	Tags       []string    `json:"tags"`
}

// FeedItem is a post as rendered for a given viewer. Locked content has
// its caption and media blanked out.
type FeedItem struct {
	Post
	Locked bool `json:"locked"`
}

func (Post) TableName() string {
	return "posts"
}
