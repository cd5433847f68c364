package database

import (
	"fmt"

	"github.com/yeremiapane/restaurant-api/models"
	"github.com/yeremiapane/restaurant-api/utils"
	"gorm.io/gorm"
)

// Models lists every table in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.Admin{},
		&models.Customer{},
		&models.FoodItem{},
		&models.Order{},
		&models.OrderLine{},
		&models.Booking{},
		&models.Feedback{},
	}
}

// Migrate creates or updates the schema, including the RESTRICT foreign keys towards customers.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to AutoMigrate: %w", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}
