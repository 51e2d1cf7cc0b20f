package routes

import (
	"fanlink-backend/handlers/posts"
	"fanlink-backend/middleware"

	"github.com/gin-gonic/gin"
)

func PostsRoutes(r *gin.Engine, h *posts.Handler) {
	r.GET("/feed", middleware.OptionalAuth(), h.GetFeed)
	r.GET("/creators/:id/posts", middleware.OptionalAuth(), h.GetCreatorPosts)

	postRoutes := r.Group("/posts")
	{
		postRoutes.GET("/:id", middleware.OptionalAuth(), h.GetPostByID)
		postRoutes.POST("", middleware.JWTAuth(), h.CreatePost)
		postRoutes.PUT("/:id", middleware.JWTAuth(), h.UpdatePost)
		postRoutes.DELETE("/:id", middleware.JWTAuth(), h.DeletePost)
	}
}
