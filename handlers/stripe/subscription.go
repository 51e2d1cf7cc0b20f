package stripe

import (
	"fmt"
	"net/http"

	"fanlink-backend/config"
	"fanlink-backend/middleware"
	"fanlink-backend/models"
	"fanlink-backend/services"
	"fanlink-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	stripe "github.com/stripe/stripe-go/v82"
	session "github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/customer"
	stripeSubscription "github.com/stripe/stripe-go/v82/subscription"
)

type Handler struct {
	cfg           config.Settings
	identity      *services.IdentityService
	creators      *services.CreatorService
	subscriptions *services.SubscriptionService
}

func New(cfg config.Settings, identity *services.IdentityService, creators *services.CreatorService, subscriptions *services.SubscriptionService) *Handler {
	return &Handler{cfg: cfg, identity: identity, creators: creators, subscriptions: subscriptions}
}

// CreateCheckoutSession starts a Stripe payment to subscribe to a creator
// @Summary Create a Stripe Checkout session for subscription
// @Description Start a Stripe payment to subscribe to a creator. Returns the session ID and URL for the frontend.
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param creatorId path string true "ID of the creator"
// @Security BearerAuth
// @Success 200 {object} map[string]string "sessionId: ID of the Stripe Checkout session, url: Stripe Checkout URL"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Creator not found"
// @Failure 409 {object} map[string]string "error: Already subscribed"
// @Failure 500 {object} map[string]string "error: Stripe error or server error"
// @Router /subscriptions/checkout/{creatorId} [post]
func (h *Handler) CreateCheckoutSession(c *gin.Context) {
	creatorID := c.Param("creatorId")
	if _, err := uuid.Parse(creatorID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid creator ID"})
		return
	}

	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	payer, err := h.identity.EnsureProfile(principal)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	creator, err := h.creators.GetCreator(creatorID)
	if err != nil {
		utils.LogErrorWithUser(payer.ID, err, "Creator not found in CreateCheckoutSession")
		utils.HandleServiceError(c, err)
		return
	}

	if creator.ProfileID == payer.ID {
		c.JSON(http.StatusConflict, gin.H{"error": "You cannot subscribe to yourself"})
		return
	}

	subs, err := h.subscriptions.ListForSubscriber(payer.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error checking existing subscriptions"})
		return
	}
	for _, sub := range subs {
		if sub.CreatorID == creator.ID && sub.Status != models.SubscriptionCanceled {
			utils.LogErrorWithUser(payer.ID, nil, "Already a live subscription in CreateCheckoutSession")
			c.JSON(http.StatusConflict, gin.H{"error": "You already have an active subscription with this creator."})
			return
		}
	}

	customerID, err := h.ensureStripeCustomer(payer)
	if err != nil {
		utils.LogErrorWithUser(payer.ID, err, "Error creating the Stripe customer in CreateCheckoutSession")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating the Stripe customer"})
		return
	}

	params := &stripe.CheckoutSessionParams{
		Customer:           stripe.String(customerID),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String("usd"),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("Subscription to %s", creator.DisplayName)),
					},
					UnitAmount: stripe.Int64(int64(creator.MonthlyPrice)),
					Recurring: &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
						Interval: stripe.String("month"),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(h.cfg.AppBaseURL + "/subscription/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:         stripe.String(h.cfg.AppBaseURL + "/creator/" + creator.ID),
		ClientReferenceID: stripe.String(creator.ID),
		Metadata: map[string]string{
			"subscriber_id": payer.ID,
			"creator_id":    creator.ID,
		},
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				"subscriber_id": payer.ID,
				"creator_id":    creator.ID,
			},
		},
	}

	s, err := session.New(params)
	if err != nil {
		utils.LogErrorWithUser(payer.ID, err, "Error creating the Stripe session in CreateCheckoutSession")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	utils.LogSuccessWithUser(payer.ID, "Stripe checkout session created successfully in CreateCheckoutSession")
	c.JSON(http.StatusOK, gin.H{"sessionId": s.ID, "url": s.URL})
}

// ensureStripeCustomer returns the payer's Stripe customer id, creating
// the customer when missing or stale.
func (h *Handler) ensureStripeCustomer(payer *models.Profile) (string, error) {
	if payer.StripeCustomerID != "" {
		if _, err := customer.Get(payer.StripeCustomerID, nil); err == nil {
			return payer.StripeCustomerID, nil
		}
		// The stored customer no longer exists on Stripe, recreate it
	}

	cust, err := customer.New(&stripe.CustomerParams{
		Name:  stripe.String(payer.Username),
		Email: stripe.String(payer.Email),
	})
	if err != nil {
		return "", err
	}

	if _, err := h.identity.SetStripeCustomerID(payer.ID, cust.ID); err != nil {
		return "", err
	}
	return cust.ID, nil
}

// CancelSubscription cancels at Stripe then marks the row canceled
// @Summary Cancel a subscription
// @Description Cancel a Stripe subscription and update its status in the database
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param subscriptionId path string true "ID of the subscription to cancel"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Subscription canceled successfully"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 403 {object} map[string]string "error: You are not authorized to cancel this subscription"
// @Failure 404 {object} map[string]string "error: Subscription not found"
// @Failure 500 {object} map[string]string "error: Error when canceling the Stripe subscription"
// @Router /subscriptions/{subscriptionId} [delete]
func (h *Handler) CancelSubscription(c *gin.Context) {
	subscriptionID := c.Param("subscriptionId")
	if _, err := uuid.Parse(subscriptionID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription ID"})
		return
	}

	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	profile, err := h.identity.EnsureProfile(principal)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	sub, err := h.subscriptions.GetSubscription(subscriptionID, profile.ID)
	if err != nil {
		utils.LogErrorWithUser(profile.ID, err, "Subscription not accessible in CancelSubscription")
		utils.HandleServiceError(c, err)
		return
	}

	if sub.StripeSubscriptionID != "" {
		_, err = stripeSubscription.Cancel(sub.StripeSubscriptionID, &stripe.SubscriptionCancelParams{
			Prorate: stripe.Bool(false),
		})
		if err != nil {
			utils.LogErrorWithUser(profile.ID, err, "Error canceling at Stripe in CancelSubscription")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error when canceling the Stripe subscription"})
			return
		}
	}

	if _, err := h.subscriptions.MarkCanceled(subscriptionID, profile.ID); err != nil {
		utils.LogErrorWithUser(profile.ID, err, "Error updating the status in CancelSubscription")
		utils.HandleServiceError(c, err)
		return
	}

	utils.LogSuccessWithUser(profile.ID, "Subscription canceled successfully in CancelSubscription")
	c.JSON(http.StatusOK, gin.H{"message": "Subscription canceled successfully"})
}

// GetUserSubscriptions lists the caller's subscriptions
// @Summary List the user's subscriptions
// @Description Return all the subscriptions (active, canceled, history) of the connected user
// @Tags subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Subscription
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /subscriptions [get]
func (h *Handler) GetUserSubscriptions(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	profile, err := h.identity.EnsureProfile(principal)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	subscriptions, err := h.subscriptions.ListForSubscriber(profile.ID)
	if err != nil {
		utils.LogErrorWithUser(profile.ID, err, "Error retrieving subscriptions in GetUserSubscriptions")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching subscriptions"})
		return
	}

	c.JSON(http.StatusOK, subscriptions)
}

// GetMySubscribers lists the subscriptions to the caller's creator account
// @Summary List my subscribers
// @Description Return the subscriptions pointing at the connected creator's account
// @Tags subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Subscription
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Creator account not found"
// @Router /subscriptions/subscribers [get]
func (h *Handler) GetMySubscribers(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	profile, err := h.identity.EnsureProfile(principal)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	creator, err := h.creators.GetCreatorByProfile(profile.ID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	subscribers, err := h.subscriptions.ListSubscribers(creator.ID)
	if err != nil {
		utils.LogErrorWithUser(profile.ID, err, "Error retrieving subscribers in GetMySubscribers")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching subscribers"})
		return
	}

	c.JSON(http.StatusOK, subscribers)
}

// GetSubscriptionDetail returns the detail of one subscription
// @Summary Details of a subscription
// @Description Return the detailed information of a subscription
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param subscriptionId path string true "ID of the subscription"
// @Security BearerAuth
// @Success 200 {object} models.Subscription
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 403 {object} map[string]string "error: You are not authorized to view this subscription"
// @Failure 404 {object} map[string]string "error: Subscription not found"
// @Router /subscriptions/{subscriptionId} [get]
func (h *Handler) GetSubscriptionDetail(c *gin.Context) {
	subscriptionID := c.Param("subscriptionId")
	if _, err := uuid.Parse(subscriptionID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription ID"})
		return
	}

	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	profile, err := h.identity.EnsureProfile(principal)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	sub, err := h.subscriptions.GetSubscription(subscriptionID, profile.ID)
	if err != nil {
		utils.LogErrorWithUser(profile.ID, err, "Subscription not accessible in GetSubscriptionDetail")
		utils.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}
