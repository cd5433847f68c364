package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
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
	testJWTSecret = "controllers-test-secret"
	testKeyID     = "rzp_test_key"
	testKeySecret = "rzp_test_secret"
	testPassword  = "secret123"
)

type testApp struct {
	t        *testing.T
	router   *gin.Engine
	db       *gorm.DB
	tokens   *utils.TokenManager
	gateway  *services.RazorpayService
	recorder *events.Recorder
	hub      *kds.Hub
	cfg      *config.Config
}

type appOption func(*config.Config)

func withGatewayURL(url string) appOption {
	return func(cfg *config.Config) { cfg.RazorpayBaseURL = url }
}

func withRequestTimeout(d time.Duration) appOption {
	return func(cfg *config.Config) { cfg.RequestTimeout = d }
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(config.SQLiteDSN(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))), &gorm.Config{
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

func newTestApp(t *testing.T, opts ...appOption) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.SilenceLoggers()

	cfg := &config.Config{
		JWTSecret:         testJWTSecret,
		RazorpayKeyID:     testKeyID,
		RazorpayKeySecret: testKeySecret,
		RazorpayBaseURL:   "http://127.0.0.1:1",
		GatewayTimeout:    2 * time.Second,
		UploadDir:         t.TempDir(),
		MaxUploadMB:       1,
		RequestTimeout:    5 * time.Second,
		CORSOrigin:        "*",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	db := setupTestDB(t)
	tokens := utils.NewTokenManager(cfg.JWTSecret)
	gateway := services.NewRazorpayService(&services.RazorpayConfig{
		KeyID:     cfg.RazorpayKeyID,
		KeySecret: cfg.RazorpayKeySecret,
		BaseURL:   cfg.RazorpayBaseURL,
		Timeout:   cfg.GatewayTimeout,
	})
	recorder := &events.Recorder{}
	hub := kds.NewHub()

	r := router.SetupRouter(router.Dependencies{
		DB:        db,
		Config:    cfg,
		Tokens:    tokens,
		Gateway:   gateway,
		Hub:       hub,
		Publisher: events.Multi{hub, recorder},
	})

	return &testApp{
		t:        t,
		router:   r,
		db:       db,
		tokens:   tokens,
		gateway:  gateway,
		recorder: recorder,
		hub:      hub,
		cfg:      cfg,
	}
}

func (a *testApp) createAdmin(email string) models.Admin {
	a.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(a.t, err)
	admin := models.Admin{Name: "Admin", Email: email, Password: string(hash)}
	require.NoError(a.t, a.db.Create(&admin).Error)
	return admin
}

func (a *testApp) createCustomer(name, email string) models.Customer {
	a.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(a.t, err)
	customer := models.Customer{Name: name, Email: email, Password: string(hash), Phone: "9876543210"}
	require.NoError(a.t, a.db.Create(&customer).Error)
	return customer
}

func (a *testApp) createFoodItem(name string, price float64) models.FoodItem {
	a.t.Helper()
	item := models.FoodItem{Name: name, Price: price, Category: "Mains"}
	require.NoError(a.t, a.db.Create(&item).Error)
	return item
}

func (a *testApp) adminToken(admin models.Admin) string {
	a.t.Helper()
	token, err := a.tokens.GenerateToken(admin.ID, admin.Email, utils.RoleAdmin)
	require.NoError(a.t, err)
	return token
}

func (a *testApp) customerToken(customer models.Customer) string {
	a.t.Helper()
	token, err := a.tokens.GenerateToken(customer.ID, customer.Email, utils.RoleCustomer)
	require.NoError(a.t, err)
	return token
}

func (a *testApp) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewBuffer(payload)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(a.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decodeObject(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var body []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func itoa(id uint) string {
	return fmt.Sprintf("%d", id)
}
