package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-api/models"
	"github.com/yeremiapane/restaurant-api/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthController struct {
	DB     *gorm.DB
	Tokens *utils.TokenManager
}

func NewAuthController(db *gorm.DB, tokens *utils.TokenManager) *AuthController {
	return &AuthController{DB: db, Tokens: tokens}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// AdminLogin -> returns token + admin profile
func (ac *AuthController) AdminLogin(c *gin.Context) {
	var input loginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, badRequest(err))
		return
	}

	var admin models.Admin
	if err := ac.DB.WithContext(c.Request.Context()).Where("email = ?", normalizeEmail(input.Email)).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, utils.ErrInvalidCredentials)
			return
		}
		utils.RespondError(c, utils.ErrServer(err))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(input.Password)); err != nil {
		utils.InfoLogger.Warnf("Failed admin login for %s", admin.Email)
		utils.RespondError(c, utils.ErrInvalidCredentials)
		return
	}

	token, err := ac.Tokens.GenerateToken(admin.ID, admin.Email, utils.RoleAdmin)
	if err != nil {
		utils.RespondError(c, utils.ErrServer(err))
		return
	}

	utils.InfoLogger.Printf("Admin login successful: %s", admin.Email)
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"admin": gin.H{
			"id":    admin.ID,
			"name":  admin.Name,
			"email": admin.Email,
		},
	})
}

// AdminRegister -> creates an admin account
func (ac *AuthController) AdminRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, badRequest(err))
		return
	}

	db := ac.DB.WithContext(c.Request.Context())
	email := normalizeEmail(req.Email)

	var existing int64
	if err := db.Model(&models.Admin{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		utils.RespondError(c, utils.ErrServer(err))
		return
	}
	if existing > 0 {
		utils.RespondError(c, utils.ErrAlreadyExists("Admin already exists"))
		return
	}

	hashed, err := hashPassword(req.Password)
	if err != nil {
		utils.RespondError(c, utils.ErrServer(err))
		return
	}

	admin := models.Admin{Name: strings.TrimSpace(req.Name), Email: email, Password: hashed}
	if err := db.Create(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RespondError(c, utils.ErrAlreadyExists("Admin already exists"))
			return
		}
		utils.RespondError(c, utils.ErrServer(err))
		return
	}

	utils.InfoLogger.Printf("New admin registered: %s", admin.Email)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Admin registered successfully",
		"adminId": admin.ID,
	})
}

// CustomerLogin -> returns token + customer profile
func (ac *AuthController) CustomerLogin(c *gin.Context) {
	var input loginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, badRequest(err))
		return
	}

	var customer models.Customer
	if err := ac.DB.WithContext(c.Request.Context()).Where("email = ?", normalizeEmail(input.Email)).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, utils.ErrInvalidCredentials)
			return
		}
		utils.RespondError(c, utils.ErrServer(err))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(customer.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, utils.ErrInvalidCredentials)
		return
	}

	token, err := ac.Tokens.GenerateToken(customer.ID, customer.Email, utils.RoleCustomer)
	if err != nil {
		utils.RespondError(c, utils.ErrServer(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"customer": gin.H{
			"id":    customer.ID,
			"name":  customer.Name,
			"email": customer.Email,
			"phone": customer.Phone,
		},
	})
}

// CustomerRegister -> creates a customer account
func (ac *AuthController) CustomerRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, badRequest(err))
		return
	}

	db := ac.DB.WithContext(c.Request.Context())
	email := normalizeEmail(req.Email)

	var existing int64
	if err := db.Model(&models.Customer{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		utils.RespondError(c, utils.ErrServer(err))
		return
	}
	if existing > 0 {
		utils.RespondError(c, utils.ErrAlreadyExists("Customer already exists"))
		return
	}

	hashed, err := hashPassword(req.Password)
	if err != nil {
		utils.RespondError(c, utils.ErrServer(err))
		return
	}

	customer := models.Customer{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: hashed,
		Phone:    strings.TrimSpace(req.Phone),
	}
	if err := db.Create(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RespondError(c, utils.ErrAlreadyExists("Customer already exists"))
			return
		}
		utils.RespondError(c, utils.ErrServer(err))
		return
	}

	utils.InfoLogger.Printf("New customer registered: %s", customer.Email)
	c.JSON(http.StatusCreated, gin.H{
		"message":    "Registration successful",
		"customerId": customer.ID,
	})
}
