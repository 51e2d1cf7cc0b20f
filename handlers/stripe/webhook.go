package stripe

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"fanlink-backend/services"
	"fanlink-backend/utils"

	"github.com/gin-gonic/gin"
	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// subscriptionPayload carries the fields we read out of subscription
// events. The epoch fields are unmarshalled directly rather than
// through stripe.Subscription so the handler does not break when the
// SDK moves period bounds around between versions.
type subscriptionPayload struct {
	ID                 string `json:"id"`
	Status             string `json:"status"`
	CurrentPeriodStart int64  `json:"current_period_start"`
	CurrentPeriodEnd   int64  `json:"current_period_end"`
}

func (p subscriptionPayload) periodBounds() (time.Time, *time.Time) {
	start := time.Unix(p.CurrentPeriodStart, 0)
	if p.CurrentPeriodStart == 0 {
		start = time.Now()
	}
	var end *time.Time
	if p.CurrentPeriodEnd > 0 {
		t := time.Unix(p.CurrentPeriodEnd, 0)
		end = &t
	}
	return start, end
}

// HandleWebhook receives Stripe events
// @Summary Stripe webhook endpoint
// @Description Verify the Stripe signature and apply subscription lifecycle events
// @Tags subscriptions
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "message: Event processed"
// @Failure 400 {object} map[string]string "error: Signature verification failed"
// @Router /webhooks/stripe [post]
func (h *Handler) HandleWebhook(c *gin.Context) {
	const MaxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Unable to read the request body"})
		return
	}

	if h.cfg.StripeWebhookSecret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook secret not configured"})
		return
	}

	sig := c.GetHeader("Stripe-Signature")
	event, err := webhook.ConstructEvent(payload, sig, h.cfg.StripeWebhookSecret)
	if err != nil {
		utils.LogError(err, "Stripe signature verification failed in HandleWebhook")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Stripe signature verification failed"})
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		h.handleCheckoutSessionCompleted(c, event)
	case "customer.subscription.updated":
		h.handleSubscriptionUpdated(c, event)
	case "customer.subscription.deleted":
		h.handleSubscriptionDeleted(c, event)
	case "invoice.payment_failed":
		h.handleInvoicePaymentFailed(c, event)
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Event ignored"})
	}
}

func (h *Handler) handleCheckoutSessionCompleted(c *gin.Context, event stripe.Event) {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error parsing CheckoutSession"})
		return
	}

	subscriberID := session.Metadata["subscriber_id"]
	creatorID := session.Metadata["creator_id"]
	if creatorID == "" {
		creatorID = session.ClientReferenceID
	}
	if subscriberID == "" || creatorID == "" {
		utils.LogError(nil, "Checkout session without subscriber or creator metadata in HandleWebhook")
		c.JSON(http.StatusOK, gin.H{"message": "Session without subscription metadata, ignored"})
		return
	}

	evt := services.CheckoutCompletedEvent{
		SubscriberID: subscriberID,
		CreatorID:    creatorID,
		PeriodStart:  time.Now(),
	}
	if session.Subscription != nil {
		evt.StripeSubscriptionID = session.Subscription.ID
	}
	if session.Customer != nil {
		evt.StripeCustomerID = session.Customer.ID
	}

	if err := h.subscriptions.HandleCheckoutCompleted(evt); err != nil {
		utils.LogError(err, "Error creating the subscription in HandleWebhook")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating the subscription"})
		return
	}

	utils.LogSuccess("Subscription activated via checkout.session.completed")
	c.JSON(http.StatusOK, gin.H{"message": "Subscription activated"})
}

func (h *Handler) handleSubscriptionUpdated(c *gin.Context, event stripe.Event) {
	var sub subscriptionPayload
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil || sub.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error parsing Subscription"})
		return
	}

	start, end := sub.periodBounds()
	if err := h.subscriptions.HandleSubscriptionUpdated(sub.ID, sub.Status, start, end); err != nil {
		utils.LogError(err, "Error applying subscription update in HandleWebhook")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error applying the subscription update"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscription updated"})
}

func (h *Handler) handleSubscriptionDeleted(c *gin.Context, event stripe.Event) {
	var sub subscriptionPayload
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil || sub.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error parsing Subscription"})
		return
	}

	if err := h.subscriptions.HandleSubscriptionDeleted(sub.ID); err != nil {
		utils.LogError(err, "Error canceling the subscription in HandleWebhook")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error canceling the subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscription canceled"})
}

func (h *Handler) handleInvoicePaymentFailed(c *gin.Context, event stripe.Event) {
	var invoiceData map[string]interface{}
	if err := json.Unmarshal(event.Data.Raw, &invoiceData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error parsing Invoice"})
		return
	}

	stripeSubID := invoiceSubscriptionID(invoiceData)
	if stripeSubID == "" {
		utils.LogInfo("Failed invoice without a subscription id, ignoring")
		c.JSON(http.StatusOK, gin.H{"message": "Invoice without subscription, ignored"})
		return
	}

	if err := h.subscriptions.HandlePaymentFailed(stripeSubID); err != nil {
		utils.LogError(err, "Error marking the subscription past due in HandleWebhook")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating the subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscription marked past due"})
}

// invoiceSubscriptionID digs the subscription id out of an invoice
// payload. Newer API versions nest it under parent.subscription_details,
// older ones carry a top level subscription field.
func invoiceSubscriptionID(invoiceData map[string]interface{}) string {
	if parent, ok := invoiceData["parent"].(map[string]interface{}); ok {
		if subDetails, ok := parent["subscription_details"].(map[string]interface{}); ok {
			if sub, ok := subDetails["subscription"].(string); ok && sub != "" {
				return sub
			}
		}
	}
	if v, ok := invoiceData["subscription"].(string); ok {
		return v
	}
	return ""
}
