package router

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-api/config"
	"github.com/yeremiapane/restaurant-api/controllers"
	"github.com/yeremiapane/restaurant-api/events"
	"github.com/yeremiapane/restaurant-api/kds"
	"github.com/yeremiapane/restaurant-api/middlewares"
	"github.com/yeremiapane/restaurant-api/services"
	"github.com/yeremiapane/restaurant-api/utils"
	"gorm.io/gorm"
)

// Dependencies -> everything the HTTP layer needs, built once in main
type Dependencies struct {
	DB        *gorm.DB
	Config    *config.Config
	Tokens    *utils.TokenManager
	Gateway   *services.RazorpayService
	Hub       *kds.Hub
	Publisher events.Publisher
	Cache     *services.CatalogCache
}

var imageExts = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// imagesOnly -> /uploads serves image files and nothing else
func imagesOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		ext := strings.ToLower(filepath.Ext(c.Request.URL.Path))
		for _, allowed := range imageExts {
			if ext == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatus(http.StatusForbidden)
	}
}

func SetupRouter(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	if deps.Hub == nil {
		deps.Hub = kds.NewHub()
	}
	if deps.Publisher == nil {
		deps.Publisher = deps.Hub
	}

	r := gin.New()
	r.Use(middlewares.RequestID())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.Recovery())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(cfg.CORSOrigin))

	uploads := r.Group("/uploads", imagesOnly())
	uploads.Static("/", cfg.UploadDir)

	// services & controllers
	orderSvc := services.NewOrderService(deps.DB, deps.Publisher)
	paymentSvc := services.NewPaymentService(deps.DB, deps.Gateway, deps.Publisher)

	authCtrl := controllers.NewAuthController(deps.DB, deps.Tokens)
	foodCtrl := controllers.NewFoodItemController(deps.DB, deps.Cache, cfg.UploadDir, cfg.MaxUploadBytes())
	orderCtrl := controllers.NewOrderController(orderSvc)
	bookingCtrl := controllers.NewBookingController(deps.DB, deps.Publisher)
	feedbackCtrl := controllers.NewFeedbackController(deps.DB)
	customerCtrl := controllers.NewCustomerController(deps.DB)
	paymentCtrl := controllers.NewPaymentController(deps.DB, deps.Gateway, paymentSvc)
	adminCtrl := controllers.NewAdminController(deps.DB, deps.Hub, cfg.CORSOrigin)

	requireUser := middlewares.RequireUser(deps.Tokens)
	requireAdmin := middlewares.RequireAdmin()
	requireCustomer := middlewares.RequireCustomer()

	api := r.Group("/api")
	api.Use(middlewares.RequestTimeout(cfg.RequestTimeout))

	api.GET("/test", func(c *gin.Context) {
		utils.RespondMessage(c, http.StatusOK, "API is working!")
	})

	// ----------------------------------------------------------------
	//                      AUTH (rate limited)
	// ----------------------------------------------------------------
	authLimiter := middlewares.NewStrictRateLimiter()
	adminAuth := api.Group("/admin/auth", authLimiter.RateLimit())
	{
		adminAuth.POST("/login", authCtrl.AdminLogin)
		adminAuth.POST("/register", authCtrl.AdminRegister)
	}
	customerAuth := api.Group("/customer/auth", authLimiter.RateLimit())
	{
		customerAuth.POST("/login", authCtrl.CustomerLogin)
		customerAuth.POST("/register", authCtrl.CustomerRegister)
	}

	// ----------------------------------------------------------------
	//                      CATALOG
	// ----------------------------------------------------------------
	food := api.Group("/fooditems")
	{
		food.GET("", foodCtrl.GetAllFoodItems)
		food.GET("/:id", foodCtrl.GetFoodItemByID)
		food.POST("", requireUser, requireAdmin, foodCtrl.CreateFoodItem)
		food.PUT("/:id", requireUser, requireAdmin, foodCtrl.UpdateFoodItem)
		food.DELETE("/:id", requireUser, requireAdmin, foodCtrl.DeleteFoodItem)
	}

	// ----------------------------------------------------------------
	//                      ORDERS
	// ----------------------------------------------------------------
	orders := api.Group("/orders", requireUser)
	{
		orders.GET("/admin/all", requireAdmin, orderCtrl.GetAllOrders)
		orders.GET("/customer", requireCustomer, orderCtrl.GetCustomerOrders)
		orders.POST("", requireCustomer, orderCtrl.CreateOrder)
		orders.PUT("/:id/status", requireAdmin, orderCtrl.UpdateOrderStatus)
		orders.PUT("/:id/cancel", requireCustomer, orderCtrl.CancelOrder)
	}

	// ----------------------------------------------------------------
	//                      BOOKINGS
	// ----------------------------------------------------------------
	bookings := api.Group("/bookings", requireUser)
	{
		bookings.GET("/admin/all", requireAdmin, bookingCtrl.GetAllBookings)
		bookings.GET("/customer", requireCustomer, bookingCtrl.GetCustomerBookings)
		bookings.POST("", requireCustomer, bookingCtrl.CreateBooking)
		bookings.PUT("/:id/status", requireAdmin, bookingCtrl.UpdateBookingStatus)
		bookings.PUT("/:id/cancel", requireCustomer, bookingCtrl.CancelBooking)
		bookings.DELETE("/:id", requireAdmin, bookingCtrl.DeleteBooking)
	}

	// ----------------------------------------------------------------
	//                      FEEDBACK
	// ----------------------------------------------------------------
	feedback := api.Group("/feedback", requireUser)
	{
		feedback.GET("/admin/all", requireAdmin, feedbackCtrl.GetAllFeedback)
		feedback.GET("/customer", requireCustomer, feedbackCtrl.GetCustomerFeedback)
		feedback.POST("", requireCustomer, feedbackCtrl.CreateFeedback)
		feedback.DELETE("/:id", requireAdmin, feedbackCtrl.DeleteFeedback)
	}

	// ----------------------------------------------------------------
	//                      CUSTOMER DIRECTORY (admin)
	// ----------------------------------------------------------------
	customers := api.Group("/customers", requireUser, requireAdmin)
	{
		customers.GET("", customerCtrl.GetAllCustomers)
		customers.GET("/:id", customerCtrl.GetCustomerByID)
		customers.DELETE("/:id", customerCtrl.DeleteCustomer)
	}

	// ----------------------------------------------------------------
	//                      PAYMENT
	// ----------------------------------------------------------------
	payment := api.Group("/payment", requireUser,
		middlewares.PaymentRateLimiter(),
		middlewares.PaymentSecurityHeaders(),
		middlewares.LogPaymentRequest(),
	)
	{
		payment.POST("/razorpay/create-order", paymentCtrl.CreateOrder)
		payment.POST("/razorpay/verify", paymentCtrl.VerifyPayment)
		payment.POST("/razorpay/booking-payment", paymentCtrl.CreateBookingPayment)
		payment.POST("/razorpay/verify-booking", paymentCtrl.VerifyBookingPayment)
		payment.GET("/payment/:payment_id", paymentCtrl.GetPayment)
		payment.POST("/refund", requireAdmin, paymentCtrl.RefundPayment)
	}

	// ----------------------------------------------------------------
	//                      ADMIN INSIGHTS
	// ----------------------------------------------------------------
	admin := api.Group("/admin")
	{
		admin.GET("/customers/:id/activity", requireUser, requireAdmin, adminCtrl.GetCustomerActivity)
		admin.GET("/customers/:id/payments", requireUser, requireAdmin, adminCtrl.GetCustomerPayments)
		admin.GET("/dashboard/stats", requireUser, requireAdmin, adminCtrl.GetDashboardStats)
	}

	// registered on the engine so the request timeout does not cut the socket
	r.GET("/api/admin/ws", middlewares.WebSocketAuthMiddleware(deps.Tokens), adminCtrl.LiveFeed)

	return r
}
