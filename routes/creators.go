package routes

import (
	"fanlink-backend/handlers/creators"
	"fanlink-backend/middleware"

	"github.com/gin-gonic/gin"
)

func CreatorsRoutes(r *gin.Engine, h *creators.Handler) {
	creatorRoutes := r.Group("/creators")
	{
		creatorRoutes.GET("", h.GetCreators)
		creatorRoutes.GET("/search", h.SearchCreators)
		creatorRoutes.POST("", middleware.JWTAuth(), h.EnsureCreator)
		creatorRoutes.PUT("/me", middleware.JWTAuth(), h.UpdateMe)
		creatorRoutes.GET("/me/stats", middleware.JWTAuth(), h.MyStats)
		creatorRoutes.POST("/me/verification", middleware.JWTAuth(), h.RequestVerification)
		creatorRoutes.GET("/:id", h.GetCreator)
	}
}
