package main

import (
	"log"

	"fanlink-backend/config"
	"fanlink-backend/db"
	_ "fanlink-backend/docs"
	"fanlink-backend/handlers/creators"
	"fanlink-backend/handlers/messages"
	"fanlink-backend/handlers/moderation"
	"fanlink-backend/handlers/notifications"
	"fanlink-backend/handlers/ping"
	"fanlink-backend/handlers/posts"
	"fanlink-backend/handlers/profiles"
	stripeHandlers "fanlink-backend/handlers/stripe"
	"fanlink-backend/routes"
	"fanlink-backend/services"
	"fanlink-backend/utils"

	"github.com/gin-gonic/gin"
	stripe "github.com/stripe/stripe-go/v82"
)

// @title Fanlink API
// @version 1.0
// @description Backend for the Fanlink creator subscription platform
// @host localhost:8080
// @BasePath /
// @SecurityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter the JWT with the Bearer prefix: Bearer <JWT>
func main() {

	gin.SetMode(gin.ReleaseMode)

	cfg := config.Load()
	stripe.Key = cfg.StripeSecretKey

	database, err := db.Init(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Error connecting to the database:", err)
	}

	storage, err := utils.NewStorage(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		log.Printf("Warning: Cloudinary initialization failed: %v", err)
		log.Println("Media uploads will not work correctly.")
	}

	classifier := utils.NewClassifier(cfg.ModerationAPIURL, cfg.ModerationAPIKey)

	identitySvc := services.NewIdentityService(database)
	creatorSvc := services.NewCreatorService(database)
	subscriptionSvc := services.NewSubscriptionService(database)
	postSvc := services.NewPostService(database, subscriptionSvc, cfg.ModerationAutoApprove)
	moderationSvc := services.NewModerationService(database, classifier, cfg.ModerationRequireReason)
	messagingSvc := services.NewMessagingService(database)

	r := routes.SetupRouter(routes.Handlers{
		Ping:          ping.New(),
		Profiles:      profiles.New(identitySvc),
		Creators:      creators.New(identitySvc, creatorSvc, storage),
		Posts:         posts.New(identitySvc, creatorSvc, postSvc, moderationSvc, storage),
		Moderation:    moderation.New(identitySvc, moderationSvc),
		Subscriptions: stripeHandlers.New(cfg, identitySvc, creatorSvc, subscriptionSvc),
		Messages:      messages.New(identitySvc, messagingSvc),
		Notifications: notifications.New(identitySvc, messagingSvc),
	})

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Error starting the server:", err)
	}
}
