package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-api/models"
	"github.com/yeremiapane/restaurant-api/utils"
	"gorm.io/gorm"
)

var errCustomerNotFound = utils.ErrNotFound("Customer not found")

type CustomerController struct {
	DB *gorm.DB
}

func NewCustomerController(db *gorm.DB) *CustomerController {
	return &CustomerController{DB: db}
}

// GetAllCustomers -> directory without password hashes
func (cc *CustomerController) GetAllCustomers(c *gin.Context) {
	customers := []models.CustomerProfile{}
	err := cc.DB.WithContext(c.Request.Context()).Model(&models.Customer{}).
		Select("customer_id, name, email, phone").
		Order("customer_id").
		Scan(&customers).Error
	if err != nil {
		utils.RespondError(c, utils.ErrServer(err))
		return
	}
	c.JSON(http.StatusOK, customers)
}

// GetCustomerByID
func (cc *CustomerController) GetCustomerByID(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		utils.RespondError(c, errCustomerNotFound)
		return
	}

	profile, appErr := loadCustomerProfile(cc.DB.WithContext(c.Request.Context()), id)
	if appErr != nil {
		utils.RespondError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// DeleteCustomer -> refused while orders, bookings or feedback still point at the customer
func (cc *CustomerController) DeleteCustomer(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		utils.RespondError(c, errCustomerNotFound)
		return
	}

	db := cc.DB.WithContext(c.Request.Context())
	if _, appErr := loadCustomerProfile(db, id); appErr != nil {
		utils.RespondError(c, appErr)
		return
	}

	for _, model := range []interface{}{&models.Order{}, &models.Booking{}, &models.Feedback{}} {
		var count int64
		if err := db.Model(model).Where("customer_id = ?", id).Count(&count).Error; err != nil {
			utils.RespondError(c, utils.ErrServer(err))
			return
		}
		if count > 0 {
			utils.RespondError(c, utils.ErrConflict("Customer has orders, bookings or feedback and cannot be deleted"))
			return
		}
	}

	result := db.Delete(&models.Customer{}, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
			utils.RespondError(c, utils.ErrConflict("Customer has orders, bookings or feedback and cannot be deleted"))
			return
		}
		utils.RespondError(c, utils.ErrServer(result.Error))
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondError(c, errCustomerNotFound)
		return
	}

	utils.InfoLogger.Printf("Customer %d deleted", id)
	utils.RespondMessage(c, http.StatusOK, "Customer deleted successfully")
}

func loadCustomerProfile(db *gorm.DB, id uint) (*models.CustomerProfile, *utils.AppError) {
	var profile models.CustomerProfile
	result := db.Model(&models.Customer{}).
		Select("customer_id, name, email, phone").
		Where("customer_id = ?", id).
		Limit(1).
		Scan(&profile)
	if result.Error != nil {
		return nil, utils.ErrServer(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, errCustomerNotFound
	}
	return &profile, nil
}
