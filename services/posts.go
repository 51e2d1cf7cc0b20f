package services

import (
	"errors"
	"time"

	"fanlink-backend/apperrors"
	"fanlink-backend/models"

	"gorm.io/gorm"
)

type PostService struct {
	db            *gorm.DB
	subscriptions *SubscriptionService

	// autoApprove selects the initial status of new posts: approved
	// when set, pending moderation otherwise.
	autoApprove bool
}

func NewPostService(db *gorm.DB, subscriptions *SubscriptionService, autoApprove bool) *PostService {
	return &PostService{db: db, subscriptions: subscriptions, autoApprove: autoApprove}
}

// CreatePost validates and stores a new post for the creator.
func (s *PostService) CreatePost(creatorID string, in models.PostCreate) (*models.Post, error) {
	if in.Caption == "" && in.MediaURL == "" {
		return nil, apperrors.ErrEmptyPostContent
	}
	if in.IsPaid {
		if in.Price == nil || *in.Price < 0 {
			return nil, apperrors.ErrInvalidPrice
		}
	} else if in.Price != nil {
		return nil, apperrors.ErrInvalidPrice
	}

	status := models.PostPending
	if s.autoApprove {
		status = models.PostApproved
	}
	if in.ScheduledAt != nil && in.ScheduledAt.After(time.Now()) {
		status = models.PostScheduled
	}

	mediaType := in.MediaType
	if mediaType == "" {
		mediaType = models.MediaText
	}
	visibility := in.Visibility
	if visibility == "" {
		visibility = models.VisibilityPublic
	}

	post := models.Post{
		CreatorID:   creatorID,
		Caption:     in.Caption,
		MediaURL:    in.MediaURL,
		MediaType:   mediaType,
		IsPaid:      in.IsPaid,
		Price:       in.Price,
		Visibility:  visibility,
		Status:      status,
		ScheduledAt: in.ScheduledAt,
		Tags:        in.Tags,
	}

	if err := s.db.Create(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// Feed returns approved posts newest first, with gated content redacted
// for viewers who are not entitled to it. viewerProfileID may be empty
// for anonymous viewers.
func (s *PostService) Feed(viewerProfileID string, limit, offset int) ([]models.FeedItem, error) {
	viewerCreatorID := s.viewerCreatorID(viewerProfileID)

	query := s.db.
		Where("status = ?", models.PostApproved).
		Order("created_at DESC").
		Limit(limit).Offset(offset)

	if viewerCreatorID != "" {
		query = query.Where("visibility <> ? OR creator_id = ?", models.VisibilityPrivate, viewerCreatorID)
	} else {
		query = query.Where("visibility <> ?", models.VisibilityPrivate)
	}

	var posts []models.Post
	if err := query.Find(&posts).Error; err != nil {
		return nil, err
	}

	entitled, err := s.entitledCreators(viewerProfileID, posts)
	if err != nil {
		return nil, err
	}

	items := make([]models.FeedItem, 0, len(posts))
	for _, post := range posts {
		items = append(items, s.render(post, viewerCreatorID, entitled))
	}
	return items, nil
}

// GetPost returns a single post with the same gating as the feed. The
// owner sees their own post regardless of status; everyone else only
// sees approved posts.
func (s *PostService) GetPost(id, viewerProfileID string) (*models.FeedItem, error) {
	var post models.Post
	if err := s.db.First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, err
	}

	viewerCreatorID := s.viewerCreatorID(viewerProfileID)
	isOwner := viewerCreatorID != "" && viewerCreatorID == post.CreatorID

	if !isOwner && (post.Status != models.PostApproved || post.Visibility == models.VisibilityPrivate) {
		return nil, apperrors.ErrPostNotFound
	}

	entitled, err := s.entitledCreators(viewerProfileID, []models.Post{post})
	if err != nil {
		return nil, err
	}

	item := s.render(post, viewerCreatorID, entitled)
	return &item, nil
}

// CreatorPosts lists a creator's posts for their public page. The owner
// sees every status, other viewers only approved content.
func (s *PostService) CreatorPosts(creatorID, viewerProfileID string, limit, offset int) ([]models.FeedItem, error) {
	viewerCreatorID := s.viewerCreatorID(viewerProfileID)
	isOwner := viewerCreatorID != "" && viewerCreatorID == creatorID

	query := s.db.
		Where("creator_id = ?", creatorID).
		Order("created_at DESC").
		Limit(limit).Offset(offset)
	if !isOwner {
		query = query.Where("status = ? AND visibility <> ?", models.PostApproved, models.VisibilityPrivate)
	}

	var posts []models.Post
	if err := query.Find(&posts).Error; err != nil {
		return nil, err
	}

	entitled, err := s.entitledCreators(viewerProfileID, posts)
	if err != nil {
		return nil, err
	}

	items := make([]models.FeedItem, 0, len(posts))
	for _, post := range posts {
		items = append(items, s.render(post, viewerCreatorID, entitled))
	}
	return items, nil
}

// UpdatePost edits caption/media while the post has not been moderated.
// Only the owning creator may edit, and only in pending or scheduled.
func (s *PostService) UpdatePost(id, profileID string, upd models.PostUpdate) (*models.Post, error) {
	var post models.Post
	if err := s.db.First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, err
	}

	var owner models.CreatorAccount
	if err := s.db.First(&owner, "id = ?", post.CreatorID).Error; err != nil {
		return nil, err
	}
	if owner.ProfileID != profileID {
		return nil, apperrors.ErrNotOwner
	}

	if post.Status != models.PostPending && post.Status != models.PostScheduled {
		return nil, apperrors.ErrImmutablePost
	}

	if upd.Caption != nil {
		post.Caption = *upd.Caption
	}
	if upd.MediaURL != nil {
		post.MediaURL = *upd.MediaURL
	}
	if upd.MediaType != nil {
		post.MediaType = *upd.MediaType
	}
	if upd.Visibility != nil {
		post.Visibility = *upd.Visibility
	}
	if upd.Tags != nil {
		post.Tags = upd.Tags
	}
	if upd.IsPaid != nil {
		post.IsPaid = *upd.IsPaid
	}
	if upd.Price != nil {
		post.Price = upd.Price
	}

	if post.Caption == "" && post.MediaURL == "" {
		return nil, apperrors.ErrEmptyPostContent
	}
	if post.IsPaid {
		if post.Price == nil || *post.Price < 0 {
			return nil, apperrors.ErrInvalidPrice
		}
	} else {
		post.Price = nil
	}

	if err := s.db.Save(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost lets the owner discard a post that never went live.
// Approved content is immutable to the creator.
func (s *PostService) DeletePost(id, profileID string) error {
	var post models.Post
	if err := s.db.First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrPostNotFound
		}
		return err
	}

	var owner models.CreatorAccount
	if err := s.db.First(&owner, "id = ?", post.CreatorID).Error; err != nil {
		return err
	}
	if owner.ProfileID != profileID {
		return apperrors.ErrNotOwner
	}

	if post.Status == models.PostApproved {
		return apperrors.ErrImmutablePost
	}

	return s.db.Delete(&post).Error
}

// viewerCreatorID resolves the viewer's own creator account id, or ""
// if the viewer is anonymous or not a creator.
func (s *PostService) viewerCreatorID(viewerProfileID string) string {
	if viewerProfileID == "" {
		return ""
	}
	var account models.CreatorAccount
	if err := s.db.First(&account, "profile_id = ?", viewerProfileID).Error; err != nil {
		return ""
	}
	return account.ID
}

// entitledCreators returns the set of creator ids among the given posts
// the viewer holds an active subscription with. One query for the whole
// page.
func (s *PostService) entitledCreators(viewerProfileID string, posts []models.Post) (map[string]bool, error) {
	entitled := make(map[string]bool)
	if viewerProfileID == "" {
		return entitled, nil
	}

	seen := make(map[string]bool)
	var creatorIDs []string
	for _, post := range posts {
		if (post.IsPaid || post.Visibility == models.VisibilitySubscribers) && !seen[post.CreatorID] {
			seen[post.CreatorID] = true
			creatorIDs = append(creatorIDs, post.CreatorID)
		}
	}
	if len(creatorIDs) == 0 {
		return entitled, nil
	}

	var subs []models.Subscription
	err := s.db.
		Where("subscriber_id = ? AND creator_id IN ? AND status = ?",
			viewerProfileID, creatorIDs, models.SubscriptionActive).
		Find(&subs).Error
	if err != nil {
		return nil, err
	}

	for _, sub := range subs {
		entitled[sub.CreatorID] = true
	}
	return entitled, nil
}

// render applies the entitlement gate: gated content from creators the
// viewer is not subscribed to is blanked out. Creators always see their
// own content in full.
func (s *PostService) render(post models.Post, viewerCreatorID string, entitled map[string]bool) models.FeedItem {
	gated := post.IsPaid || post.Visibility == models.VisibilitySubscribers
	if !gated || post.CreatorID == viewerCreatorID || entitled[post.CreatorID] {
		return models.FeedItem{Post: post}
	}

	locked := post
	locked.Caption = ""
	locked.MediaURL = ""
	return models.FeedItem{Post: locked, Locked: true}
}
