package services

import (
	"errors"

	"fanlink-backend/apperrors"
	"fanlink-backend/models"

	"gorm.io/gorm"
)

type CreatorService struct {
	db *gorm.DB
}

func NewCreatorService(db *gorm.DB) *CreatorService {
	return &CreatorService{db: db}
}

// EnsureCreatorAccount returns the creator account for a profile,
// creating a default one (price 0, unverified) the first time the
// profile performs a creator action. Same insert-or-refetch pattern as
// profile provisioning, keyed on the profile_id unique constraint.
func (s *CreatorService) EnsureCreatorAccount(profileID string) (*models.CreatorAccount, error) {
	var account models.CreatorAccount
	err := s.db.First(&account, "profile_id = ?", profileID).Error
	if err == nil {
		return &account, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var profile models.Profile
	if err := s.db.First(&profile, "id = ?", profileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCreatorCreateFailed
		}
		return nil, err
	}

	account = models.CreatorAccount{
		ProfileID:    profileID,
		DisplayName:  profile.Username,
		MonthlyPrice: 0,
		Verification: models.VerificationUnverified,
	}

	if err := s.db.Create(&account).Error; err != nil {
		var existing models.CreatorAccount
		if ferr := s.db.First(&existing, "profile_id = ?", profileID).Error; ferr == nil {
			return &existing, nil
		}
		return nil, err
	}

	return &account, nil
}

func (s *CreatorService) GetCreator(id string) (*models.CreatorAccount, error) {
	var account models.CreatorAccount
	if err := s.db.First(&account, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCreatorNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (s *CreatorService) GetCreatorByProfile(profileID string) (*models.CreatorAccount, error) {
	var account models.CreatorAccount
	if err := s.db.First(&account, "profile_id = ?", profileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCreatorNotFound
		}
		return nil, err
	}
	return &account, nil
}

// UpdateCreator applies creator settings. This is a creator action, so
// the account is provisioned on first use.
func (s *CreatorService) UpdateCreator(profileID string, upd models.CreatorUpdate) (*models.CreatorAccount, error) {
	account, err := s.EnsureCreatorAccount(profileID)
	if err != nil {
		return nil, err
	}

	if upd.DisplayName != "" {
		account.DisplayName = upd.DisplayName
	}
	if upd.Bio != "" {
		account.Bio = upd.Bio
	}
	if upd.CoverURL != "" {
		account.CoverURL = upd.CoverURL
	}
	if upd.MonthlyPrice != nil {
		if *upd.MonthlyPrice < 0 {
			return nil, apperrors.ErrInvalidPrice
		}
		account.MonthlyPrice = *upd.MonthlyPrice
	}

	if err := s.db.Save(account).Error; err != nil {
		return nil, err
	}
	return account, nil
}

// ListCreators returns verified creators ordered by audience size.
func (s *CreatorService) ListCreators(limit, offset int) ([]models.CreatorAccount, error) {
	var accounts []models.CreatorAccount
	err := s.db.
		Where("verification = ?", models.VerificationVerified).
		Order("subscriber_count DESC").
		Limit(limit).Offset(offset).
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (s *CreatorService) SearchCreators(query string) ([]models.CreatorAccount, error) {
	var accounts []models.CreatorAccount
	pattern := "%" + query + "%"
	err := s.db.
		Where("verification = ?", models.VerificationVerified).
		Where("display_name ILIKE ? OR bio ILIKE ?", pattern, pattern).
		Limit(20).
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (s *CreatorService) CreatorStats(creatorID string) (*models.CreatorStats, error) {
	if _, err := s.GetCreator(creatorID); err != nil {
		return nil, err
	}

	var stats models.CreatorStats
	err := s.db.Model(&models.Subscription{}).
		Where("creator_id = ? AND status = ?", creatorID, models.SubscriptionActive).
		Count(&stats.SubscriberCount).Error
	if err != nil {
		return nil, err
	}

	err = s.db.Model(&models.Post{}).
		Where("creator_id = ? AND status = ?", creatorID, models.PostApproved).
		Count(&stats.PostCount).Error
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

// RequestVerification files a verification request with the uploaded
// identity document and moves the account to PENDING.
func (s *CreatorService) RequestVerification(profileID, documentURL string) (*models.CreatorAccount, error) {
	account, err := s.EnsureCreatorAccount(profileID)
	if err != nil {
		return nil, err
	}

	if account.Verification != models.VerificationUnverified {
		return nil, apperrors.ErrVerificationRequested
	}

	account.Verification = models.VerificationPending
	account.IDDocumentURL = documentURL

	if err := s.db.Save(account).Error; err != nil {
		return nil, err
	}
	return account, nil
}
