package services

import (
	"errors"

	"fanlink-backend/apperrors"
	"fanlink-backend/models"

	"gorm.io/gorm"
)

type MessagingService struct {
	db *gorm.DB
}

func NewMessagingService(db *gorm.DB) *MessagingService {
	return &MessagingService{db: db}
}

func (s *MessagingService) SendMessage(senderID string, in models.PrivateMessageCreate) (*models.PrivateMessage, error) {
	var receiver models.Profile
	if err := s.db.First(&receiver, "id = ?", in.ReceiverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, err
	}

	message := models.PrivateMessage{
		SenderID:   senderID,
		ReceiverID: in.ReceiverID,
		Content:    in.Content,
		Status:     "UNREAD",
	}
	if err := s.db.Create(&message).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// Conversation returns the exchange between two profiles in
// chronological order.
func (s *MessagingService) Conversation(profileID, otherID string) ([]models.PrivateMessage, error) {
	var messages []models.PrivateMessage
	err := s.db.
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			profileID, otherID, otherID, profileID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkMessageRead flips the flag; only the receiver may.
func (s *MessagingService) MarkMessageRead(messageID, profileID string) error {
	var message models.PrivateMessage
	if err := s.db.First(&message, "id = ?", messageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrMessageNotFound
		}
		return err
	}
	if message.ReceiverID != profileID {
		return apperrors.ErrNotOwner
	}

	return s.db.Model(&message).Update("status", "READ").Error
}

func (s *MessagingService) Notifications(profileID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.db.
		Where("profile_id = ?", profileID).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (s *MessagingService) MarkNotificationRead(notificationID, profileID string) error {
	var notification models.Notification
	if err := s.db.First(&notification, "id = ?", notificationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotificationNotFound
		}
		return err
	}
	if notification.ProfileID != profileID {
		return apperrors.ErrNotOwner
	}

	return s.db.Model(&notification).Update("is_read", true).Error
}
