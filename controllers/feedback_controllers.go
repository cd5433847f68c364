package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-api/models"
	"github.com/yeremiapane/restaurant-api/utils"
	"gorm.io/gorm"
)

type FeedbackController struct {
	DB  *gorm.DB
	now func() time.Time
}

func NewFeedbackController(db *gorm.DB) *FeedbackController {
	return &FeedbackController{DB: db, now: time.Now}
}

// GetAllFeedback -> admin, newest date first
func (fc *FeedbackController) GetAllFeedback(c *gin.Context) {
	feedback := []models.FeedbackView{}
	err := fc.DB.WithContext(c.Request.Context()).Table("feedback f").
		Select("f.*, c.name AS customer_name, c.email AS customer_email").
		Joins("JOIN customers c ON f.customer_id = c.customer_id").
		Order("f.date DESC").Order("f.feedback_id DESC").
		Scan(&feedback).Error
	if err != nil {
		utils.RespondError(c, utils.ErrServer(err))
		return
	}
	c.JSON(http.StatusOK, feedback)
}

// GetCustomerFeedback -> caller's own feedback
func (fc *FeedbackController) GetCustomerFeedback(c *gin.Context) {
	who, ok := identity(c)
	if !ok {
		return
	}

	feedback := []models.Feedback{}
	err := fc.DB.WithContext(c.Request.Context()).
		Where("customer_id = ?", who.ID).
		Order("date DESC").Order("feedback_id DESC").
		Find(&feedback).Error
	if err != nil {
		utils.RespondError(c, utils.ErrServer(err))
		return
	}
	c.JSON(http.StatusOK, feedback)
}

// CreateFeedback -> stamped with today's UTC date
func (fc *FeedbackController) CreateFeedback(c *gin.Context) {
	who, ok := identity(c)
	if !ok {
		return
	}

	var req struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, badRequest(err))
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		utils.RespondError(c, utils.ErrBadRequest("message must not be empty"))
		return
	}

	feedback := models.Feedback{
		Message:    message,
		Date:       fc.now().UTC().Format("2006-01-02"),
		CustomerID: who.ID,
	}
	if err := fc.DB.WithContext(c.Request.Context()).Create(&feedback).Error; err != nil {
		utils.RespondError(c, utils.ErrServer(err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Feedback submitted successfully",
		"feedbackId": feedback.ID,
	})
}

// DeleteFeedback -> admin
func (fc *FeedbackController) DeleteFeedback(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		utils.RespondError(c, utils.ErrNotFound("Feedback not found"))
		return
	}

	result := fc.DB.WithContext(c.Request.Context()).Delete(&models.Feedback{}, id)
	if result.Error != nil {
		utils.RespondError(c, utils.ErrServer(result.Error))
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondError(c, utils.ErrNotFound("Feedback not found"))
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Feedback deleted successfully")
}
