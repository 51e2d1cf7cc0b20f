package services

import (
	"errors"
	"time"

	"fanlink-backend/apperrors"
	"fanlink-backend/models"
	"fanlink-backend/utils"

	"gorm.io/gorm"
)

// ContentClassifier is the external content-safety collaborator. Its
// absence or failure never changes a post's status.
type ContentClassifier interface {
	Enabled() bool
	Classify(caption, mediaURL string) (bool, error)
}

type ModerationService struct {
	db         *gorm.DB
	classifier ContentClassifier

	// requireReason makes the rejection reason mandatory
	requireReason bool
}

func NewModerationService(db *gorm.DB, classifier ContentClassifier, requireReason bool) *ModerationService {
	return &ModerationService{db: db, classifier: classifier, requireReason: requireReason}
}

// PendingPosts returns the moderation queue, oldest first so the first
// submitted post is the first reviewed.
func (s *ModerationService) PendingPosts(limit, offset int) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.
		Where("status = ?", models.PostPending).
		Order("created_at ASC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// ApprovePost moves a pending post to approved and appends exactly one
// log entry. Acting on an already-moderated post is reported as a
// conflict so redeliveries and caller bugs surface instead of
// double-logging.
func (s *ModerationService) ApprovePost(postID, moderatorID string) (*models.Post, error) {
	post, err := s.pendingPost(postID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(post).Update("status", models.PostApproved).Error; err != nil {
		return nil, err
	}
	post.Status = models.PostApproved

	if err := s.appendLog(models.ModerationLogEntry{
		PostID:      &post.ID,
		ModeratorID: moderatorID,
		Action:      models.ActionApproved,
	}); err != nil {
		return nil, err
	}

	return post, nil
}

// RejectPost moves a pending post to rejected with an optional reason.
func (s *ModerationService) RejectPost(postID, moderatorID, reason string) (*models.Post, error) {
	if reason == "" && s.requireReason {
		return nil, apperrors.ErrReasonRequired
	}

	post, err := s.pendingPost(postID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(post).Update("status", models.PostRejected).Error; err != nil {
		return nil, err
	}
	post.Status = models.PostRejected

	if err := s.appendLog(models.ModerationLogEntry{
		PostID:      &post.ID,
		ModeratorID: moderatorID,
		Action:      models.ActionRejected,
		Reason:      reason,
	}); err != nil {
		return nil, err
	}

	return post, nil
}

// AutoModerate is the asynchronous post-creation hook. A safe verdict
// approves the post with an automatic log entry. Anything else leaves
// the post pending for human review.
func (s *ModerationService) AutoModerate(postID string) error {
	var post models.Post
	if err := s.db.First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrPostNotFound
		}
		return err
	}
	if post.Status != models.PostPending {
		return nil
	}

	if s.classifier == nil || !s.classifier.Enabled() {
		return nil
	}

	safe, err := s.classifier.Classify(post.Caption, post.MediaURL)
	if err != nil {
		utils.LogError(err, "Classifier unavailable, leaving post pending for human review")
		return nil
	}
	if !safe {
		utils.LogInfo("Post flagged by the classifier, left pending for human review")
		return nil
	}

	if err := s.db.Model(&post).Update("status", models.PostApproved).Error; err != nil {
		return err
	}

	return s.appendLog(models.ModerationLogEntry{
		PostID: &post.ID,
		Action: models.ActionApproved,
		Reason: "Auto-approved",
	})
}

// PendingVerifications lists creator accounts awaiting identity review,
// oldest first.
func (s *ModerationService) PendingVerifications() ([]models.CreatorAccount, error) {
	var accounts []models.CreatorAccount
	err := s.db.
		Where("verification = ?", models.VerificationPending).
		Order("created_at ASC").
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// VerifyCreator grants the verified badge to a creator with a pending
// verification request.
func (s *ModerationService) VerifyCreator(creatorID, moderatorID string) (*models.CreatorAccount, error) {
	account, err := s.pendingVerification(creatorID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.db.Model(account).Updates(map[string]interface{}{
		"verification": models.VerificationVerified,
		"verified_at":  now,
	}).Error
	if err != nil {
		return nil, err
	}
	account.Verification = models.VerificationVerified
	account.VerifiedAt = &now

	if err := s.appendLog(models.ModerationLogEntry{
		CreatorID:   &account.ID,
		ModeratorID: moderatorID,
		Action:      models.ActionVerifiedCreator,
	}); err != nil {
		return nil, err
	}

	return account, nil
}

// RejectVerification denies the request and drops the account back to
// unverified so it can reapply.
func (s *ModerationService) RejectVerification(creatorID, moderatorID, reason string) (*models.CreatorAccount, error) {
	account, err := s.pendingVerification(creatorID)
	if err != nil {
		return nil, err
	}

	err = s.db.Model(account).Updates(map[string]interface{}{
		"verification":    models.VerificationUnverified,
		"id_document_url": "",
	}).Error
	if err != nil {
		return nil, err
	}
	account.Verification = models.VerificationUnverified
	account.IDDocumentURL = ""

	if err := s.appendLog(models.ModerationLogEntry{
		CreatorID:   &account.ID,
		ModeratorID: moderatorID,
		Action:      models.ActionRejectedVerification,
		Reason:      reason,
	}); err != nil {
		return nil, err
	}

	return account, nil
}

// Logs returns the audit trail, newest first.
func (s *ModerationService) Logs(limit, offset int) ([]models.ModerationLogEntry, error) {
	var entries []models.ModerationLogEntry
	err := s.db.
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *ModerationService) pendingPost(postID string) (*models.Post, error) {
	var post models.Post
	if err := s.db.First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, err
	}

	switch post.Status {
	case models.PostPending:
		return &post, nil
	case models.PostApproved, models.PostRejected:
		return nil, apperrors.ErrAlreadyModerated
	default:
		return nil, apperrors.ErrPostNotPending
	}
}

func (s *ModerationService) pendingVerification(creatorID string) (*models.CreatorAccount, error) {
	var account models.CreatorAccount
	if err := s.db.First(&account, "id = ?", creatorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCreatorNotFound
		}
		return nil, err
	}
	if account.Verification != models.VerificationPending {
		return nil, apperrors.ErrVerificationNotPending
	}
	return &account, nil
}

func (s *ModerationService) appendLog(entry models.ModerationLogEntry) error {
	return s.db.Create(&entry).Error
}
