package routes

import (
	"fanlink-backend/handlers/stripe"
	"fanlink-backend/middleware"

	"github.com/gin-gonic/gin"
)

func SubscriptionsRoutes(r *gin.Engine, h *stripe.Handler) {
	subscriptionRoutes := r.Group("/subscriptions")
	subscriptionRoutes.Use(middleware.JWTAuth())
	{
		subscriptionRoutes.POST("/checkout/:creatorId", h.CreateCheckoutSession)
		subscriptionRoutes.DELETE("/:subscriptionId", h.CancelSubscription)
		subscriptionRoutes.GET("", h.GetUserSubscriptions)
		subscriptionRoutes.GET("/subscribers", h.GetMySubscribers)
		subscriptionRoutes.GET("/:subscriptionId", h.GetSubscriptionDetail)
	}
	r.POST("/webhooks/stripe", h.HandleWebhook)
}
