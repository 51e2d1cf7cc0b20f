package routes

import (
	"fanlink-backend/handlers/profiles"
	"fanlink-backend/middleware"

	"github.com/gin-gonic/gin"
)

func ProfilesRoutes(r *gin.Engine, h *profiles.Handler) {
	profileRoutes := r.Group("/profiles")
	profileRoutes.Use(middleware.JWTAuth())
	{
		profileRoutes.GET("/me", h.GetMe)
		profileRoutes.PUT("/me", h.UpdateMe)
		profileRoutes.GET("/:id", h.GetProfile)
		profileRoutes.GET("", middleware.AdminAuth(), h.GetAllProfiles)
	}
}
