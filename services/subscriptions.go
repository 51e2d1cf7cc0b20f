package services

import (
	"errors"
	"time"

	"fanlink-backend/apperrors"
	"fanlink-backend/models"
	"fanlink-backend/utils"

	"gorm.io/gorm"
)

type SubscriptionService struct {
	db *gorm.DB
}

func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{db: db}
}

// CheckoutCompletedEvent is the normalized form of the payment
// processor's checkout notification.
type CheckoutCompletedEvent struct {
	SubscriberID         string
	CreatorID            string
	StripeSubscriptionID string
	StripeCustomerID     string
	PeriodStart          time.Time
	PeriodEnd            *time.Time
}

// HandleCheckoutCompleted creates the subscription in ACTIVE state and
// notifies the creator. Webhooks are delivered at least once, so both
// the external subscription id and the (subscriber, creator) pair are
// checked before inserting.
func (s *SubscriptionService) HandleCheckoutCompleted(evt CheckoutCompletedEvent) error {
	if evt.StripeSubscriptionID != "" {
		var existing models.Subscription
		if err := s.db.First(&existing, "stripe_subscription_id = ?", evt.StripeSubscriptionID).Error; err == nil {
			utils.LogInfo("Checkout event redelivered for an existing subscription, ignoring")
			return nil
		}
	}

	var dup models.Subscription
	err := s.db.
		Where("subscriber_id = ? AND creator_id = ? AND status IN ?",
			evt.SubscriberID, evt.CreatorID,
			[]models.SubscriptionStatus{models.SubscriptionActive, models.SubscriptionPastDue}).
		First(&dup).Error
	if err == nil {
		utils.LogInfo("Subscriber already has a live subscription with this creator, ignoring checkout event")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	sub := models.Subscription{
		SubscriberID:         evt.SubscriberID,
		CreatorID:            evt.CreatorID,
		StripeSubscriptionID: evt.StripeSubscriptionID,
		StripeCustomerID:     evt.StripeCustomerID,
		Status:               models.SubscriptionActive,
		CurrentPeriodStart:   evt.PeriodStart,
		CurrentPeriodEnd:     evt.PeriodEnd,
	}
	if err := s.db.Create(&sub).Error; err != nil {
		return err
	}

	if err := s.db.Model(&models.CreatorAccount{}).
		Where("id = ?", evt.CreatorID).
		UpdateColumn("subscriber_count", gorm.Expr("subscriber_count + 1")).Error; err != nil {
		return err
	}

	return s.notifyCreator(evt.CreatorID)
}

// StatusFromExternal maps the payment processor's subscription status
// onto the local state machine. Unknown statuses are rejected rather
// than stored.
func StatusFromExternal(external string) (models.SubscriptionStatus, error) {
	switch external {
	case "active", "trialing":
		return models.SubscriptionActive, nil
	case "past_due":
		return models.SubscriptionPastDue, nil
	case "canceled":
		return models.SubscriptionCanceled, nil
	default:
		return "", apperrors.ErrUnmappedExternalStatus
	}
}

// HandleSubscriptionUpdated applies an external status change and the
// new billing period bounds. Events for unknown subscription ids are
// logged and dropped; transitions the state machine forbids are
// likewise dropped (a late update can never resurrect a canceled row).
func (s *SubscriptionService) HandleSubscriptionUpdated(stripeSubID, externalStatus string, periodStart time.Time, periodEnd *time.Time) error {
	sub, ok, err := s.byStripeID(stripeSubID)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	status, err := StatusFromExternal(externalStatus)
	if err != nil {
		return err
	}

	if !models.CanTransition(sub.Status, status) {
		utils.LogInfo("Dropping subscription update that would leave a terminal state")
		return nil
	}

	updates := map[string]interface{}{
		"status":               status,
		"current_period_start": periodStart,
	}
	if periodEnd != nil {
		updates["current_period_end"] = *periodEnd
	}
	if status == models.SubscriptionCanceled && sub.CanceledAt == nil {
		updates["canceled_at"] = time.Now()
	}

	return s.db.Model(sub).Updates(updates).Error
}

// HandleSubscriptionDeleted marks the subscription canceled. The row is
// kept; cancellation is a status change, not a removal.
func (s *SubscriptionService) HandleSubscriptionDeleted(stripeSubID string) error {
	sub, ok, err := s.byStripeID(stripeSubID)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if sub.Status == models.SubscriptionCanceled {
		return nil
	}

	err = s.db.Model(sub).Updates(map[string]interface{}{
		"status":      models.SubscriptionCanceled,
		"canceled_at": time.Now(),
	}).Error
	if err != nil {
		return err
	}

	return s.db.Model(&models.CreatorAccount{}).
		Where("id = ? AND subscriber_count > 0", sub.CreatorID).
		UpdateColumn("subscriber_count", gorm.Expr("subscriber_count - 1")).Error
}

// HandlePaymentFailed moves the subscription to PAST_DUE. Recoverable:
// a later successful payment brings it back to ACTIVE via an update
// event.
func (s *SubscriptionService) HandlePaymentFailed(stripeSubID string) error {
	sub, ok, err := s.byStripeID(stripeSubID)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if !models.CanTransition(sub.Status, models.SubscriptionPastDue) {
		return nil
	}

	return s.db.Model(sub).Update("status", models.SubscriptionPastDue).Error
}

// IsEntitled reports whether the viewer may see the creator's gated
// content: an active subscription, or the creator viewing their own.
func (s *SubscriptionService) IsEntitled(viewerProfileID, creatorID string) (bool, error) {
	if viewerProfileID == "" {
		return false, nil
	}

	var account models.CreatorAccount
	if err := s.db.First(&account, "id = ?", creatorID).Error; err == nil {
		if account.ProfileID == viewerProfileID {
			return true, nil
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	var count int64
	err := s.db.Model(&models.Subscription{}).
		Where("subscriber_id = ? AND creator_id = ? AND status = ?",
			viewerProfileID, creatorID, models.SubscriptionActive).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListForSubscriber returns the subscriber's full history, newest
// first.
func (s *SubscriptionService) ListForSubscriber(profileID string) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := s.db.
		Where("subscriber_id = ?", profileID).
		Order("created_at DESC").
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

// ListSubscribers returns a creator's active subscribers.
func (s *SubscriptionService) ListSubscribers(creatorID string) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := s.db.
		Where("creator_id = ? AND status = ?", creatorID, models.SubscriptionActive).
		Order("created_at DESC").
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

// GetSubscription returns a subscription its owner may inspect.
func (s *SubscriptionService) GetSubscription(id, profileID string) (*models.Subscription, error) {
	var sub models.Subscription
	if err := s.db.First(&sub, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSubscriptionNotFound
		}
		return nil, err
	}
	if sub.SubscriberID != profileID {
		return nil, apperrors.ErrNotOwner
	}
	return &sub, nil
}

// MarkCanceled applies a user cancellation request. It is the only
// subscription transition not driven by an external payment event.
func (s *SubscriptionService) MarkCanceled(id, profileID string) (*models.Subscription, error) {
	sub, err := s.GetSubscription(id, profileID)
	if err != nil {
		return nil, err
	}
	if sub.Status == models.SubscriptionCanceled {
		return sub, nil
	}

	now := time.Now()
	err = s.db.Model(sub).Updates(map[string]interface{}{
		"status":      models.SubscriptionCanceled,
		"canceled_at": now,
	}).Error
	if err != nil {
		return nil, err
	}
	sub.Status = models.SubscriptionCanceled
	sub.CanceledAt = &now
	return sub, nil
}

// byStripeID fetches by the external reference. A missing row is an
// expected redelivery condition, reported to the caller as ok=false
// after logging.
func (s *SubscriptionService) byStripeID(stripeSubID string) (*models.Subscription, bool, error) {
	var sub models.Subscription
	err := s.db.First(&sub, "stripe_subscription_id = ?", stripeSubID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.LogInfo("Payment event references an unknown subscription, dropping")
			return nil, false, nil
		}
		return nil, false, err
	}
	return &sub, true, nil
}

func (s *SubscriptionService) notifyCreator(creatorID string) error {
	var account models.CreatorAccount
	if err := s.db.First(&account, "id = ?", creatorID).Error; err != nil {
		// The subscription row exists either way; a missing creator is
		// logged, not fatal to the webhook.
		utils.LogError(err, "Could not load the creator account for the new-subscriber notification")
		return nil
	}

	notification := models.Notification{
		ProfileID: account.ProfileID,
		Type:      "subscription",
		Title:     "New Subscriber!",
		Message:   "You have a new subscriber",
	}
	return s.db.Create(&notification).Error
}
