package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-api/config"
	"github.com/yeremiapane/restaurant-api/database"
	"github.com/yeremiapane/restaurant-api/events"
	"github.com/yeremiapane/restaurant-api/kds"
	"github.com/yeremiapane/restaurant-api/models"
	"github.com/yeremiapane/restaurant-api/router"
	"github.com/yeremiapane/restaurant-api/services"
	"github.com/yeremiapane/restaurant-api/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	e2eKeyID     = "rzp_test_e2e"
	e2eKeySecret = "rzp_test_e2e_secret"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	utils.SilenceLoggers()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// TestEndToEndIntegration walks the main flow:
// 0. Seed admin & food item, register customer, login -> token
// 1. Place order => PENDING
// 2. Gateway order + verified payment => PAID
// 3. Admin moves the order to COMPLETED
// 4. Admin refund => REFUNDED
func TestEndToEndIntegration(t *testing.T) {
	gateway := fakeGatewayServer(t)
	db := setupTestDB(t)
	r, recorder := setupTestRouter(t, db, gateway.URL)

	customerToken := registerAndLoginTest(t, r)
	adminToken := adminLoginTest(t, r)

	var item models.FoodItem
	if err := db.First(&item).Error; err != nil {
		t.Fatalf("seeded food item missing: %v", err)
	}

	orderID := placeOrderTest(t, r, customerToken, item.ID)
	gatewayOrderID := createPaymentOrderTest(t, r, customerToken)
	verifyPaymentTest(t, r, customerToken, orderID, gatewayOrderID)
	completeOrderTest(t, r, adminToken, orderID)
	refundTest(t, r, adminToken, db, orderID)

	want := []string{
		events.EventOrderPlaced,
		events.EventPaymentVerified,
		events.EventOrderStatusUpdated,
		events.EventPaymentRefunded,
	}
	if got := recorder.Types(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("events: expected %v, got %v", want, got)
	}
}

// setupTestDB -> migrated in-memory SQLite with seed data
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(config.SQLiteDSN("file:e2e?mode=memory&cache=shared")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	// seed admin
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	db.Create(&models.Admin{
		Name:     "Test Admin",
		Email:    "admin@example.com",
		Password: string(hashedPassword),
	})

	db.Create(&models.FoodItem{
		Name:     "Paneer Butter Masala",
		Price:    249.75,
		Category: "Mains",
	})

	return db
}

func setupTestRouter(t *testing.T, db *gorm.DB, gatewayURL string) (*gin.Engine, *events.Recorder) {
	cfg := &config.Config{
		JWTSecret:         "e2e-secret",
		RazorpayKeyID:     e2eKeyID,
		RazorpayKeySecret: e2eKeySecret,
		RazorpayBaseURL:   gatewayURL,
		GatewayTimeout:    2 * time.Second,
		UploadDir:         t.TempDir(),
		MaxUploadMB:       1,
		RequestTimeout:    5 * time.Second,
		CORSOrigin:        "*",
	}
	recorder := &events.Recorder{}
	hub := kds.NewHub()

	r := router.SetupRouter(router.Dependencies{
		DB:     db,
		Config: cfg,
		Tokens: utils.NewTokenManager(cfg.JWTSecret),
		Gateway: services.NewRazorpayService(&services.RazorpayConfig{
			KeyID:     cfg.RazorpayKeyID,
			KeySecret: cfg.RazorpayKeySecret,
			BaseURL:   cfg.RazorpayBaseURL,
			Timeout:   cfg.GatewayTimeout,
		}),
		Hub:       hub,
		Publisher: events.Multi{hub, recorder},
	})
	return r, recorder
}

// fakeGatewayServer -> just enough of the gateway API for checkout and refund
func fakeGatewayServer(t *testing.T) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)

		switch r.URL.Path {
		case "/orders":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"id": "order_e2e", "amount": body["amount"], "currency": body["currency"], "status": "created",
			})
		case "/payments/pay_e2e/refund":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"id": "rfnd_e2e", "payment_id": "pay_e2e", "amount": body["amount"], "status": "processed",
			})
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"not found"}}`))
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func doRequest(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registerAndLoginTest(t *testing.T, r *gin.Engine) string {
	w := doRequest(r, http.MethodPost, "/api/customer/auth/register", "", map[string]string{
		"name":     "Asha",
		"email":    "Asha@Example.com",
		"password": "secret123",
		"phone":    "9876543210",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d, body=%s", w.Code, w.Body.String())
	}

	// emails are stored lower-cased
	return loginTest(t, r, "/api/customer/auth/login", "asha@example.com")
}

func adminLoginTest(t *testing.T, r *gin.Engine) string {
	return loginTest(t, r, "/api/admin/auth/login", "admin@example.com")
}

func loginTest(t *testing.T, r *gin.Engine, path, email string) string {
	w := doRequest(r, http.MethodPost, path, "", map[string]string{
		"email":    email,
		"password": "secret123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: code=%d, body=%s", path, w.Code, w.Body.String())
	}

	var resp struct {
		Message string `json:"message"`
		Token   string `json:"token"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Token == "" {
		t.Fatalf("login %s: token empty", path)
	}
	return resp.Token
}

// placeOrderTest -> POST /api/orders => 201 => status PENDING
func placeOrderTest(t *testing.T, r *gin.Engine, token string, foodItemID uint) uint {
	w := doRequest(r, http.MethodPost, "/api/orders", token, map[string]interface{}{
		"items":        []map[string]interface{}{{"fid": foodItemID, "quantity": 2}},
		"total_amount": 499.5,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("placeOrder: expected 201, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		OrderID uint `json:"orderId"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)

	w = doRequest(r, http.MethodGet, "/api/orders/customer", token, nil)
	var orders []models.OrderView
	json.Unmarshal(w.Body.Bytes(), &orders)
	if len(orders) != 1 || orders[0].Status != models.OrderStatusPending || len(orders[0].Items) != 1 {
		t.Fatalf("placeOrder: unexpected customer orders %s", w.Body.String())
	}
	return resp.OrderID
}

func createPaymentOrderTest(t *testing.T, r *gin.Engine, token string) string {
	w := doRequest(r, http.MethodPost, "/api/payment/razorpay/create-order", token, map[string]interface{}{"amount": 499.5})
	if w.Code != http.StatusOK {
		t.Fatalf("createPaymentOrder: expected 200, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		OrderID string `json:"order_id"`
		Amount  int64  `json:"amount"`
		KeyID   string `json:"key_id"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Amount != 49950 || resp.KeyID != e2eKeyID {
		t.Fatalf("createPaymentOrder: unexpected response %s", w.Body.String())
	}
	return resp.OrderID
}

func verifyPaymentTest(t *testing.T, r *gin.Engine, token string, orderID uint, gatewayOrderID string) {
	signer := services.NewRazorpayService(&services.RazorpayConfig{KeyID: e2eKeyID, KeySecret: e2eKeySecret})
	w := doRequest(r, http.MethodPost, "/api/payment/razorpay/verify", token, map[string]interface{}{
		"razorpay_order_id":   gatewayOrderID,
		"razorpay_payment_id": "pay_e2e",
		"razorpay_signature":  signer.Sign(gatewayOrderID, "pay_e2e"),
		"order_id":            orderID,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("verifyPayment: expected 200, got %d, body=%s", w.Code, w.Body.String())
	}
}

func completeOrderTest(t *testing.T, r *gin.Engine, token string, orderID uint) {
	path := fmt.Sprintf("/api/orders/%d/status", orderID)
	w := doRequest(r, http.MethodPut, path, token, map[string]string{"status": "COMPLETED"})
	if w.Code != http.StatusOK {
		t.Fatalf("completeOrder: expected 200, got %d, body=%s", w.Code, w.Body.String())
	}

	w = doRequest(r, http.MethodGet, "/api/orders/admin/all", token, nil)
	var orders []models.OrderView
	json.Unmarshal(w.Body.Bytes(), &orders)
	if len(orders) != 1 || orders[0].Status != models.OrderStatusCompleted {
		t.Fatalf("completeOrder: unexpected admin orders %s", w.Body.String())
	}
	if orders[0].PaymentStatus == nil || *orders[0].PaymentStatus != models.PaymentStatusPaid {
		t.Fatalf("completeOrder: order not paid %s", w.Body.String())
	}
}

func refundTest(t *testing.T, r *gin.Engine, token string, db *gorm.DB, orderID uint) {
	w := doRequest(r, http.MethodPost, "/api/payment/refund", token, map[string]interface{}{
		"payment_id": "pay_e2e",
		"amount":     499.5,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("refund: expected 200, got %d, body=%s", w.Code, w.Body.String())
	}

	var order models.Order
	db.First(&order, orderID)
	if order.PaymentStatus == nil || *order.PaymentStatus != models.PaymentStatusRefunded {
		t.Fatalf("refund: expected REFUNDED payment status")
	}
}
