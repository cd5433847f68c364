package controllers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-api/events"
	"github.com/yeremiapane/restaurant-api/models"
	"github.com/yeremiapane/restaurant-api/utils"
	"gorm.io/gorm"
)

var errBookingNotFound = utils.ErrNotFound("Booking not found")

type BookingController struct {
	DB        *gorm.DB
	Publisher events.Publisher
}

func NewBookingController(db *gorm.DB, publisher events.Publisher) *BookingController {
	if publisher == nil {
		publisher = events.Nop
	}
	return &BookingController{DB: db, Publisher: publisher}
}

type bookingRequest struct {
	Date       string `json:"date" binding:"required"`
	Time       string `json:"time" binding:"required"`
	NoOfPeople int    `json:"no_of_people" binding:"required,min=1"`
}

// normalizeBookingSlot -> date must be YYYY-MM-DD, time HH:MM or HH:MM:SS
func normalizeBookingSlot(date, clock string) (string, string, bool) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return "", "", false
	}
	if _, err := time.Parse("15:04", clock); err == nil {
		return date, clock, true
	}
	if _, err := time.Parse("15:04:05", clock); err == nil {
		return date, clock, true
	}
	return "", "", false
}

// GetAllBookings -> admin, with customer contact data
func (bc *BookingController) GetAllBookings(c *gin.Context) {
	bookings := []models.BookingView{}
	err := bc.DB.WithContext(c.Request.Context()).Table("bookings b").
		Select("b.*, c.name AS customer_name, c.email AS customer_email, c.phone AS customer_phone").
		Joins("JOIN customers c ON b.customer_id = c.customer_id").
		Order("b.date DESC").Order("b.time DESC").
		Scan(&bookings).Error
	if err != nil {
		utils.RespondError(c, utils.ErrServer(err))
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// GetCustomerBookings -> caller's own bookings
func (bc *BookingController) GetCustomerBookings(c *gin.Context) {
	who, ok := identity(c)
	if !ok {
		return
	}

	bookings := []models.Booking{}
	err := bc.DB.WithContext(c.Request.Context()).
		Where("customer_id = ?", who.ID).
		Order("date DESC").Order("time DESC").
		Find(&bookings).Error
	if err != nil {
		utils.RespondError(c, utils.ErrServer(err))
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// CreateBooking -> status starts PENDING
func (bc *BookingController) CreateBooking(c *gin.Context) {
	who, ok := identity(c)
	if !ok {
		return
	}

	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, badRequest(err))
		return
	}

	date, clock, valid := normalizeBookingSlot(req.Date, req.Time)
	if !valid {
		utils.RespondError(c, utils.ErrBadRequest("date must be YYYY-MM-DD and time HH:MM"))
		return
	}

	booking := models.Booking{
		Date:       date,
		Time:       clock,
		NoOfPeople: req.NoOfPeople,
		CustomerID: who.ID,
		Status:     models.BookingStatusPending,
	}
	if err := bc.DB.WithContext(c.Request.Context()).Create(&booking).Error; err != nil {
		utils.RespondError(c, utils.ErrServer(err))
		return
	}

	bc.publish(c.Request.Context(), events.EventBookingCreated, booking.ID, map[string]interface{}{
		"booking_id":   booking.ID,
		"customer_id":  who.ID,
		"date":         booking.Date,
		"time":         booking.Time,
		"no_of_people": booking.NoOfPeople,
	})
	c.JSON(http.StatusCreated, gin.H{
		"message":   "Booking created successfully",
		"bookingId": booking.ID,
	})
}

// UpdateBookingStatus -> admin
func (bc *BookingController) UpdateBookingStatus(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		utils.RespondError(c, errBookingNotFound)
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, badRequest(err))
		return
	}

	status, valid := models.NormalizeBookingStatus(req.Status)
	if !valid {
		utils.RespondError(c, utils.ErrBadRequest("Invalid status"))
		return
	}

	if appErr := bc.setStatus(c.Request.Context(), id, 0, status); appErr != nil {
		utils.RespondError(c, appErr)
		return
	}

	bc.publish(c.Request.Context(), events.EventBookingStatusUpdated, id, map[string]interface{}{
		"booking_id": id,
		"status":     status,
	})
	utils.RespondMessage(c, http.StatusOK, "Booking status updated successfully")
}

// CancelBooking -> owner only, whatever the current status
func (bc *BookingController) CancelBooking(c *gin.Context) {
	who, ok := identity(c)
	if !ok {
		return
	}

	id, err := paramID(c, "id")
	if err != nil {
		utils.RespondError(c, errBookingNotFound)
		return
	}

	if appErr := bc.setStatus(c.Request.Context(), id, who.ID, models.BookingStatusCancelled); appErr != nil {
		utils.RespondError(c, appErr)
		return
	}

	bc.publish(c.Request.Context(), events.EventBookingCancelled, id, map[string]interface{}{
		"booking_id":  id,
		"customer_id": who.ID,
	})
	utils.RespondMessage(c, http.StatusOK, "Booking cancelled successfully")
}

// DeleteBooking -> admin
func (bc *BookingController) DeleteBooking(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		utils.RespondError(c, errBookingNotFound)
		return
	}

	result := bc.DB.WithContext(c.Request.Context()).Delete(&models.Booking{}, id)
	if result.Error != nil {
		utils.RespondError(c, utils.ErrServer(result.Error))
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondError(c, errBookingNotFound)
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Booking deleted successfully")
}

// setStatus -> ownerID 0 means any owner. Existence is checked separately so
// rewriting the same status is not reported as missing.
func (bc *BookingController) setStatus(ctx context.Context, id, ownerID uint, status string) *utils.AppError {
	query := bc.DB.WithContext(ctx).Model(&models.Booking{}).Where("booking_id = ?", id)
	if ownerID != 0 {
		query = query.Where("customer_id = ?", ownerID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return utils.ErrServer(err)
	}
	if count == 0 {
		return errBookingNotFound
	}

	if err := bc.DB.WithContext(ctx).Model(&models.Booking{}).Where("booking_id = ?", id).
		Update("status", status).Error; err != nil {
		return utils.ErrServer(err)
	}
	return nil
}

func (bc *BookingController) publish(ctx context.Context, eventType string, id uint, data interface{}) {
	bc.Publisher.Publish(ctx, events.New(eventType, "booking-"+strconv.FormatUint(uint64(id), 10), data))
}
