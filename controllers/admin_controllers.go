package controllers

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/restaurant-api/kds"
	"github.com/yeremiapane/restaurant-api/models"
	"github.com/yeremiapane/restaurant-api/utils"
	"gorm.io/gorm"
)

// Activity types
const (
	ActivityOrderPlaced      = "ORDER_PLACED"
	ActivityBookingMade      = "BOOKING_MADE"
	ActivityFeedbackSent     = "FEEDBACK_SUBMITTED"
	activityDescriptionLimit = 80
)

type AdminController struct {
	DB       *gorm.DB
	Hub      *kds.Hub
	upgrader websocket.Upgrader
}

func NewAdminController(db *gorm.DB, hub *kds.Hub, allowedOrigin string) *AdminController {
	return &AdminController{
		DB:  db,
		Hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowedOrigin == "" || allowedOrigin == "*" || origin == "" || origin == allowedOrigin
			},
		},
	}
}

type CustomerActivity struct {
	ActivityType string    `json:"activity_type"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
}

type CustomerPayment struct {
	PaymentID string    `json:"payment_id"`
	Gateway   string    `json:"gateway"`
	Amount    *float64  `json:"amount"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	Source    string    `json:"source"`
	SourceID  uint      `json:"source_id"`
}

type DashboardStats struct {
	TotalCustomers   int64            `json:"total_customers"`
	TotalFoodItems   int64            `json:"total_food_items"`
	TotalOrders      int64            `json:"total_orders"`
	OrdersByStatus   map[string]int64 `json:"orders_by_status"`
	TotalBookings    int64            `json:"total_bookings"`
	BookingsByStatus map[string]int64 `json:"bookings_by_status"`
	TotalFeedback    int64            `json:"total_feedback"`
	PaidRevenue      float64          `json:"paid_revenue"`
	LiveListeners    int              `json:"live_listeners"`
}

// slotTime -> bookings and feedback only carry a date (and time); read them as UTC
func slotTime(date, clock string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02 15:04"} {
		if t, err := time.Parse(layout, date+" "+clock); err == nil {
			return t
		}
	}
	t, _ := time.Parse("2006-01-02", date)
	return t
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// GetCustomerActivity -> orders, bookings and feedback merged into one timeline
func (ac *AdminController) GetCustomerActivity(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		utils.RespondError(c, errCustomerNotFound)
		return
	}

	db := ac.DB.WithContext(c.Request.Context())
	if _, appErr := loadCustomerProfile(db, id); appErr != nil {
		utils.RespondError(c, appErr)
		return
	}

	var orders []models.Order
	var bookings []models.Booking
	var feedback []models.Feedback
	if err := db.Where("customer_id = ?", id).Find(&orders).Error; err != nil {
		utils.RespondError(c, utils.NewAppError(http.StatusInternalServerError, "Failed to fetch activity", err))
		return
	}
	if err := db.Where("customer_id = ?", id).Find(&bookings).Error; err != nil {
		utils.RespondError(c, utils.NewAppError(http.StatusInternalServerError, "Failed to fetch activity", err))
		return
	}
	if err := db.Where("customer_id = ?", id).Find(&feedback).Error; err != nil {
		utils.RespondError(c, utils.NewAppError(http.StatusInternalServerError, "Failed to fetch activity", err))
		return
	}

	activity := make([]CustomerActivity, 0, len(orders)+len(bookings)+len(feedback))
	for _, o := range orders {
		activity = append(activity, CustomerActivity{
			ActivityType: ActivityOrderPlaced,
			Description:  fmt.Sprintf("Order #%d placed, total %.2f (%s)", o.ID, o.TotalAmount, o.Status),
			CreatedAt:    o.CreatedAt,
		})
	}
	for _, b := range bookings {
		activity = append(activity, CustomerActivity{
			ActivityType: ActivityBookingMade,
			Description:  fmt.Sprintf("Table for %d on %s at %s (%s)", b.NoOfPeople, b.Date, b.Time, b.Status),
			CreatedAt:    slotTime(b.Date, b.Time),
		})
	}
	for _, f := range feedback {
		activity = append(activity, CustomerActivity{
			ActivityType: ActivityFeedbackSent,
			Description:  truncate(f.Message, activityDescriptionLimit),
			CreatedAt:    slotTime(f.Date, ""),
		})
	}

	sort.SliceStable(activity, func(i, j int) bool {
		return activity[i].CreatedAt.After(activity[j].CreatedAt)
	})
	c.JSON(http.StatusOK, activity)
}

// GetCustomerPayments -> every gateway payment recorded against the customer's orders and bookings
func (ac *AdminController) GetCustomerPayments(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		utils.RespondError(c, errCustomerNotFound)
		return
	}

	db := ac.DB.WithContext(c.Request.Context())
	if _, appErr := loadCustomerProfile(db, id); appErr != nil {
		utils.RespondError(c, appErr)
		return
	}

	var orders []models.Order
	var bookings []models.Booking
	if err := db.Where("customer_id = ? AND payment_id IS NOT NULL", id).Find(&orders).Error; err != nil {
		utils.RespondError(c, utils.NewAppError(http.StatusInternalServerError, "Failed to fetch payments", err))
		return
	}
	if err := db.Where("customer_id = ? AND payment_id IS NOT NULL", id).Find(&bookings).Error; err != nil {
		utils.RespondError(c, utils.NewAppError(http.StatusInternalServerError, "Failed to fetch payments", err))
		return
	}

	payments := make([]CustomerPayment, 0, len(orders)+len(bookings))
	for _, o := range orders {
		amount := o.TotalAmount
		payments = append(payments, CustomerPayment{
			PaymentID: deref(o.PaymentID),
			Gateway:   deref(o.PaymentMethod),
			Amount:    &amount,
			Status:    deref(o.PaymentStatus),
			CreatedAt: o.CreatedAt,
			Source:    "order",
			SourceID:  o.ID,
		})
	}
	for _, b := range bookings {
		payments = append(payments, CustomerPayment{
			PaymentID: deref(b.PaymentID),
			Gateway:   deref(b.PaymentMethod),
			Status:    deref(b.PaymentStatus),
			CreatedAt: slotTime(b.Date, b.Time),
			Source:    "booking",
			SourceID:  b.ID,
		})
	}

	sort.SliceStable(payments, func(i, j int) bool {
		return payments[i].CreatedAt.After(payments[j].CreatedAt)
	})
	c.JSON(http.StatusOK, payments)
}

// GetDashboardStats -> headline counters for the admin dashboard
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	db := ac.DB.WithContext(c.Request.Context())
	stats := DashboardStats{
		OrdersByStatus:   map[string]int64{},
		BookingsByStatus: map[string]int64{},
	}

	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&models.Customer{}, &stats.TotalCustomers},
		{&models.FoodItem{}, &stats.TotalFoodItems},
		{&models.Order{}, &stats.TotalOrders},
		{&models.Booking{}, &stats.TotalBookings},
		{&models.Feedback{}, &stats.TotalFeedback},
	}
	for _, q := range counts {
		if err := db.Model(q.model).Count(q.dest).Error; err != nil {
			utils.RespondError(c, utils.ErrServer(err))
			return
		}
	}

	var grouped []struct {
		Status string
		Count  int64
	}
	if err := db.Model(&models.Order{}).Select("status, COUNT(*) AS count").Group("status").Scan(&grouped).Error; err != nil {
		utils.RespondError(c, utils.ErrServer(err))
		return
	}
	for _, g := range grouped {
		stats.OrdersByStatus[g.Status] = g.Count
	}

	grouped = nil
	if err := db.Model(&models.Booking{}).Select("status, COUNT(*) AS count").Group("status").Scan(&grouped).Error; err != nil {
		utils.RespondError(c, utils.ErrServer(err))
		return
	}
	for _, g := range grouped {
		stats.BookingsByStatus[g.Status] = g.Count
	}

	if err := db.Model(&models.Order{}).Where("payment_status = ?", models.PaymentStatusPaid).
		Select("COALESCE(SUM(total_amount), 0)").Row().Scan(&stats.PaidRevenue); err != nil {
		utils.RespondError(c, utils.ErrServer(err))
		return
	}

	if ac.Hub != nil {
		stats.LiveListeners = ac.Hub.ClientCount()
	}
	c.JSON(http.StatusOK, stats)
}

// LiveFeed -> websocket endpoint streaming order, booking and payment events to admins
func (ac *AdminController) LiveFeed(c *gin.Context) {
	who, ok := utils.CurrentIdentity(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	if !who.IsAdmin() {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	ws, err := ac.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Errorf("websocket upgrade failed: %v", err)
		return
	}

	utils.InfoLogger.Printf("Admin %d connected to live feed", who.ID)
	ac.Hub.Serve(ws, who.ID)
	utils.InfoLogger.Printf("Admin %d disconnected from live feed", who.ID)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
