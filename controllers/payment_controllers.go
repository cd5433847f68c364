package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-api/models"
	"github.com/yeremiapane/restaurant-api/services"
	"github.com/yeremiapane/restaurant-api/utils"
	"gorm.io/gorm"
)

const defaultCurrency = "INR"

type PaymentController struct {
	DB       *gorm.DB
	Gateway  *services.RazorpayService
	Payments *services.PaymentService
	now      func() time.Time
}

func NewPaymentController(db *gorm.DB, gateway *services.RazorpayService, payments *services.PaymentService) *PaymentController {
	return &PaymentController{
		DB:       db,
		Gateway:  gateway,
		Payments: payments,
		now:      time.Now,
	}
}

type createPaymentOrderRequest struct {
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Currency string  `json:"currency"`
}

type bookingPaymentRequest struct {
	Amount    float64 `json:"amount" binding:"required,gt=0"`
	BookingID uint    `json:"booking_id" binding:"required"`
}

type verifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
	OrderID           uint   `json:"order_id"`
	BookingID         uint   `json:"booking_id"`
}

type refundRequest struct {
	PaymentID string  `json:"payment_id" binding:"required"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
}

// CreateOrder -> gateway order for a food order checkout
func (pc *PaymentController) CreateOrder(c *gin.Context) {
	var req createPaymentOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondPaymentError(c, badRequest(err))
		return
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = defaultCurrency
	}

	receipt := fmt.Sprintf("receipt_%d", pc.now().UnixMilli())
	pc.createGatewayOrder(c, req.Amount, currency, receipt, "Failed to create payment order")
}

// CreateBookingPayment -> gateway order for a booking deposit
func (pc *PaymentController) CreateBookingPayment(c *gin.Context) {
	who, ok := identity(c)
	if !ok {
		return
	}

	var req bookingPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondPaymentError(c, badRequest(err))
		return
	}

	query := pc.DB.WithContext(c.Request.Context()).Model(&models.Booking{}).Where("booking_id = ?", req.BookingID)
	if !who.IsAdmin() {
		query = query.Where("customer_id = ?", who.ID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		utils.RespondPaymentError(c, utils.NewAppError(http.StatusInternalServerError, "Failed to create booking payment", err))
		return
	}
	if count == 0 {
		utils.RespondPaymentError(c, errBookingNotFound)
		return
	}

	receipt := fmt.Sprintf("booking_%d_%d", req.BookingID, pc.now().UnixMilli())
	pc.createGatewayOrder(c, req.Amount, defaultCurrency, receipt, "Failed to create booking payment")
}

func (pc *PaymentController) createGatewayOrder(c *gin.Context, amount float64, currency, receipt, failure string) {
	minor, err := utils.ToMinorUnits(amount)
	if err != nil {
		utils.RespondPaymentError(c, utils.ErrBadRequest(err.Error()))
		return
	}

	order, err := pc.Gateway.CreateOrder(c.Request.Context(), minor, currency, receipt)
	if err != nil {
		utils.RespondPaymentError(c, utils.NewAppError(http.StatusInternalServerError, failure, err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"order_id": order.ID,
		"amount":   order.Amount,
		"currency": order.Currency,
		"key_id":   pc.Gateway.KeyID(),
	})
}

// VerifyPayment -> marks the order paid when the signature matches
func (pc *PaymentController) VerifyPayment(c *gin.Context) {
	pc.verify(c, services.PaymentSourceOrder)
}

// VerifyBookingPayment -> marks the booking paid when the signature matches
func (pc *PaymentController) VerifyBookingPayment(c *gin.Context) {
	pc.verify(c, services.PaymentSourceBooking)
}

func (pc *PaymentController) verify(c *gin.Context, source string) {
	who, ok := identity(c)
	if !ok {
		return
	}

	var req verifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondPaymentError(c, badRequest(err))
		return
	}

	v := services.PaymentVerification{
		GatewayOrderID: req.RazorpayOrderID,
		PaymentID:      req.RazorpayPaymentID,
		Signature:      req.RazorpaySignature,
	}

	var err error
	success, failure := "Payment verified successfully", "Payment verification failed"
	if source == services.PaymentSourceBooking {
		v.TargetID = req.BookingID
		success, failure = "Booking payment verified successfully", "Booking payment verification failed"
		err = pc.Payments.VerifyBookingPayment(c.Request.Context(), who, v)
	} else {
		v.TargetID = req.OrderID
		err = pc.Payments.VerifyOrderPayment(c.Request.Context(), who, v)
	}

	if err != nil {
		appErr := utils.AsAppError(err)
		if appErr.Status >= http.StatusInternalServerError {
			appErr = utils.NewAppError(http.StatusInternalServerError, failure, err)
		}
		utils.RespondPaymentError(c, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": success,
	})
}

// GetPayment -> proxied gateway payment object
func (pc *PaymentController) GetPayment(c *gin.Context) {
	payment, err := pc.Gateway.FetchPayment(c.Request.Context(), c.Param("payment_id"))
	if err != nil {
		utils.RespondPaymentError(c, utils.NewAppError(http.StatusInternalServerError, "Failed to fetch payment details", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"payment": payment,
	})
}

// RefundPayment -> admin; amount in rupees
func (pc *PaymentController) RefundPayment(c *gin.Context) {
	var req refundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondPaymentError(c, badRequest(err))
		return
	}

	minor, err := utils.ToMinorUnits(req.Amount)
	if err != nil {
		utils.RespondPaymentError(c, utils.ErrBadRequest(err.Error()))
		return
	}

	refund, err := pc.Payments.RefundPayment(c.Request.Context(), req.PaymentID, minor)
	if err != nil {
		utils.RespondPaymentError(c, utils.NewAppError(http.StatusInternalServerError, "Refund failed", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"refund":  refund,
		"message": "Refund initiated successfully",
	})
}
