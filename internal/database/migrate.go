package database

import (
	"fmt"
	"log"

	"AgriLink/internal/models"
)

func Migrate() error {
	log.Println("Running database migrations...")

	err := DB.AutoMigrate(
		&models.User{},
		&models.Farmer{},
		&models.Buyer{},
		&models.Supplier{},
		&models.CropListing{},
		&models.EquipmentListing{},
		&models.Order{},
		&models.EquipmentOrder{},
		&models.Payment{},
		&models.MarketPrice{},
		&models.ChatMessage{},
		&models.Notification{},
		&models.ForumPost{},
		&models.ForumReply{},
	)

	if err != nil {
		log.Printf("Error migrating database: %v", err)
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Println("Database migration completed successfully")
	return nil
}
