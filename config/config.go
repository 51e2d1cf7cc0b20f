package config

import (
	"os"

	"fanlink-backend/utils"

	"github.com/joho/godotenv"
)

// Settings holds everything the application reads from the environment.
// Loaded once in main and handed to the components that need it.
type Settings struct {
	Port                string
	DatabaseURL         string
	JWTSecret           string
	AppBaseURL          string
	StripeSecretKey     string
	StripeWebhookSecret string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	// Moderation policy. AutoApprove selects the initial status of new
	// posts (approved instead of pending). RequireReason makes the
	// rejection reason mandatory.
	ModerationAutoApprove   bool
	ModerationRequireReason bool
	ModerationAPIURL        string
	ModerationAPIKey        string
}

// Load reads the .env file if present, then the environment.
func Load() Settings {
	if err := godotenv.Load(); err != nil {
		utils.LogInfo("No .env file found, reading configuration from the environment")
	}

	return Settings{
		Port:                getEnv("PORT", "8080"),
		DatabaseURL:         os.Getenv("DB_URL"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		AppBaseURL:          getEnv("APP_BASE_URL", "http://localhost:5173"),
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),

		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),

		ModerationAutoApprove:   getEnv("MODERATION_AUTO_APPROVE", "false") == "true",
		ModerationRequireReason: getEnv("MODERATION_REQUIRE_REASON", "false") == "true",
		ModerationAPIURL:        os.Getenv("MODERATION_API_URL"),
		ModerationAPIKey:        os.Getenv("MODERATION_API_KEY"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
