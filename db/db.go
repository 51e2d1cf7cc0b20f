package db

import (
	"fmt"

	"fanlink-backend/models"
	"fanlink-backend/utils"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Init opens the postgres connection and migrates the schema. The
// returned handle is owned by the caller; services receive it through
// their constructors instead of a package global.
func Init(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DB_URL is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: utils.GetGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	err = conn.AutoMigrate(
		&models.Profile{},
		&models.CreatorAccount{},
		&models.Post{},
		&models.ModerationLogEntry{},
		&models.Subscription{},
		&models.PrivateMessage{},
		&models.Notification{},
	)
	if err != nil {
		return nil, fmt.Errorf("error migrating database: %w", err)
	}

	utils.LogSuccess("Database connection successful")
	return conn, nil
}
