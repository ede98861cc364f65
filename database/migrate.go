package database

import (
	"fmt"

	"gorm.io/gorm"

	"cargolink_backend/internal/models"
)

// AutoMigrate выполняет миграцию всех моделей
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Order{},
		&models.OrderLocation{},
		&models.Transport{},
		&models.UserBlock{},
		&models.Notification{},
	); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}
	return nil
}
