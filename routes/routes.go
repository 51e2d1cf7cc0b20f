package routes

import (
	"time"

	"fanlink-backend/handlers/creators"
	"fanlink-backend/handlers/messages"
	"fanlink-backend/handlers/moderation"
	"fanlink-backend/handlers/notifications"
	"fanlink-backend/handlers/ping"
	"fanlink-backend/handlers/posts"
	"fanlink-backend/handlers/profiles"
	"fanlink-backend/handlers/stripe"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Ping          *ping.Handler
	Profiles      *profiles.Handler
	Creators      *creators.Handler
	Posts         *posts.Handler
	Moderation    *moderation.Handler
	Subscriptions *stripe.Handler
	Messages      *messages.Handler
	Notifications *notifications.Handler
}

func SetupRouter(h Handlers) *gin.Engine {

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // All origins allowed in dev
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/healthcheck", h.Ping.HandlePing)

	ProfilesRoutes(r, h.Profiles)
	CreatorsRoutes(r, h.Creators)
	PostsRoutes(r, h.Posts)
	ModerationRoutes(r, h.Moderation)
	SubscriptionsRoutes(r, h.Subscriptions)
	MessagesRoutes(r, h.Messages, h.Notifications)

	return r
}
