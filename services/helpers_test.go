package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-api/config"
	"github.com/yeremiapane/restaurant-api/database"
	"github.com/yeremiapane/restaurant-api/models"
	"github.com/yeremiapane/restaurant-api/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	utils.SilenceLoggers()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(config.SQLiteDSN(dsn)), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func seedCustomer(t *testing.T, db *gorm.DB, name, email string) models.Customer {
	t.Helper()
	customer := models.Customer{Name: name, Email: email, Password: "hash", Phone: "9999999999"}
	require.NoError(t, db.Create(&customer).Error)
	return customer
}

func seedFoodItem(t *testing.T, db *gorm.DB, name string, price float64) models.FoodItem {
	t.Helper()
	item := models.FoodItem{Name: name, Price: price, Category: "Mains"}
	require.NoError(t, db.Create(&item).Error)
	return item
}
