package routes

import (
	"fanlink-backend/handlers/messages"
	"fanlink-backend/handlers/notifications"
	"fanlink-backend/middleware"

	"github.com/gin-gonic/gin"
)

func MessagesRoutes(r *gin.Engine, m *messages.Handler, n *notifications.Handler) {
	messageRoutes := r.Group("/messages")
	messageRoutes.Use(middleware.JWTAuth())
	{
		messageRoutes.POST("", m.SendMessage)
		messageRoutes.GET("/:profileId", m.GetConversation)
		messageRoutes.PUT("/:messageId/read", m.MarkRead)
	}

	notificationRoutes := r.Group("/notifications")
	notificationRoutes.Use(middleware.JWTAuth())
	{
		notificationRoutes.GET("", n.GetNotifications)
		notificationRoutes.PUT("/:notificationId/read", n.MarkRead)
	}
}
