package services

import (
	"errors"
	"strings"

	"fanlink-backend/apperrors"
	"fanlink-backend/models"

	"gorm.io/gorm"
)

// Principal is what the identity provider asserts about the caller:
// the stable subject id plus the claims carried in the token.
type Principal struct {
	SubjectID string
	Email     string
	Username  string
	FullName  string
}

type IdentityService struct {
	db *gorm.DB
}

func NewIdentityService(db *gorm.DB) *IdentityService {
	return &IdentityService{db: db}
}

// EnsureProfile resolves a principal to its profile row, creating one
// on first use. Two concurrent first requests race on the auth_id
// unique constraint; the loser re-fetches the winner's row, so the
// conflict never reaches the caller.
func (s *IdentityService) EnsureProfile(p Principal) (*models.Profile, error) {
	if p.SubjectID == "" || p.Email == "" {
		return nil, apperrors.ErrIdentityUnresolvable
	}

	var profile models.Profile
	err := s.db.First(&profile, "auth_id = ?", p.SubjectID).Error
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	username := p.Username
	if username == "" {
		username = emailLocalPart(p.Email)
	}
	fullName := p.FullName
	if fullName == "" {
		fullName = username
	}

	profile = models.Profile{
		AuthID:   p.SubjectID,
		Email:    p.Email,
		Username: username,
		FullName: fullName,
		Role:     models.MemberRole,
	}

	if err := s.db.Create(&profile).Error; err != nil {
		// Lost the provisioning race: the unique constraint on auth_id
		// rejected our insert, the row exists now.
		var existing models.Profile
		if ferr := s.db.First(&existing, "auth_id = ?", p.SubjectID).Error; ferr == nil {
			return &existing, nil
		}
		return nil, err
	}

	return &profile, nil
}

func (s *IdentityService) GetProfile(id string) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.First(&profile, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (s *IdentityService) UpdateProfile(id string, upd models.ProfileUpdate) (*models.Profile, error) {
	profile, err := s.GetProfile(id)
	if err != nil {
		return nil, err
	}

	if upd.Username != "" {
		profile.Username = upd.Username
	}
	if upd.FullName != "" {
		profile.FullName = upd.FullName
	}
	if upd.AvatarURL != "" {
		profile.AvatarURL = upd.AvatarURL
	}

	if err := s.db.Save(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// SetStripeCustomerID records the payment processor's customer id on
// the profile so later checkouts reuse it.
func (s *IdentityService) SetStripeCustomerID(id, customerID string) (*models.Profile, error) {
	profile, err := s.GetProfile(id)
	if err != nil {
		return nil, err
	}

	profile.StripeCustomerID = customerID
	if err := s.db.Save(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// ListProfiles returns every profile, newest first. Admin only.
func (s *IdentityService) ListProfiles() ([]models.Profile, error) {
	var profiles []models.Profile
	if err := s.db.Order("created_at DESC").Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func emailLocalPart(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
