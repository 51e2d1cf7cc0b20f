package routes

import (
	"fanlink-backend/handlers/moderation"
	"fanlink-backend/middleware"

	"github.com/gin-gonic/gin"
)

func ModerationRoutes(r *gin.Engine, h *moderation.Handler) {
	moderationRoutes := r.Group("/moderation")
	moderationRoutes.Use(middleware.AdminAuth())
	{
		moderationRoutes.GET("/queue", h.GetQueue)
		moderationRoutes.PUT("/posts/:id/approve", h.ApprovePost)
		moderationRoutes.PUT("/posts/:id/reject", h.RejectPost)
		moderationRoutes.GET("/verifications", h.GetPendingVerifications)
		moderationRoutes.PUT("/verifications/:creatorId/approve", h.VerifyCreator)
		moderationRoutes.PUT("/verifications/:creatorId/reject", h.RejectVerification)
		moderationRoutes.GET("/logs", h.GetLogs)
	}
}
