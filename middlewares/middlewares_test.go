package middlewares

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-api/utils"
)

const testSecret = "middleware-test-secret"

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	utils.SilenceLoggers()
	return gin.New()
}

func doRequest(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func messageOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	msg, _ := body["message"].(string)
	return msg
}

func TestAccessGuard(t *testing.T) {
	tm := utils.NewTokenManager(testSecret)
	r := newTestEngine()
	r.GET("/me", RequireUser(tm), func(c *gin.Context) {
		who, _ := utils.CurrentIdentity(c)
		c.JSON(http.StatusOK, gin.H{"id": who.ID, "role": who.Role})
	})
	r.GET("/admin", RequireUser(tm), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.POST("/orders", RequireUser(tm), RequireCustomer(), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	adminToken, err := tm.GenerateToken(1, "admin@example.com", utils.RoleAdmin)
	require.NoError(t, err)
	customerToken, err := tm.GenerateToken(7, "asha@example.com", utils.RoleCustomer)
	require.NoError(t, err)
	foreignToken, err := utils.NewTokenManager("another-secret").GenerateToken(1, "admin@example.com", utils.RoleAdmin)
	require.NoError(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &utils.CustomClaims{
		ID: 7, Email: "asha@example.com", Role: utils.RoleCustomer,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-25 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	expiredToken, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)

	t.Run("missing token", func(t *testing.T) {
		w := doRequest(r, http.MethodGet, "/me", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Token "+customerToken)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		w := doRequest(r, http.MethodGet, "/me", expiredToken)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid or expired token", messageOf(t, w))
	})

	t.Run("wrong signing key", func(t *testing.T) {
		w := doRequest(r, http.MethodGet, "/me", foreignToken)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("customer identity is attached", func(t *testing.T) {
		w := doRequest(r, http.MethodGet, "/me", customerToken)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":7,"role":"customer"}`, w.Body.String())
	})

	t.Run("customer on admin route", func(t *testing.T) {
		w := doRequest(r, http.MethodGet, "/admin", customerToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "Admin access required", messageOf(t, w))
	})

	t.Run("admin on admin route", func(t *testing.T) {
		w := doRequest(r, http.MethodGet, "/admin", adminToken)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("admin on customer route", func(t *testing.T) {
		w := doRequest(r, http.MethodPost, "/orders", adminToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "Customer access required", messageOf(t, w))
	})

	t.Run("customer on customer route", func(t *testing.T) {
		w := doRequest(r, http.MethodPost, "/orders", customerToken)
		assert.Equal(t, http.StatusCreated, w.Code)
	})
}

func TestWebSocketAuthMiddleware(t *testing.T) {
	tm := utils.NewTokenManager(testSecret)
	r := newTestEngine()
	r.GET("/ws", WebSocketAuthMiddleware(tm), func(c *gin.Context) { c.Status(http.StatusOK) })

	token, err := tm.GenerateToken(1, "admin@example.com", utils.RoleAdmin)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, doRequest(r, http.MethodGet, "/ws", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, http.MethodGet, "/ws?token=garbage", "").Code)
	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/ws?token="+token, "").Code)
}

func TestRateLimiterPerIP(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)
	r := newTestEngine()
	r.POST("/login", limiter.RateLimit(), func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = ip + ":12345"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.2"))
}

func TestRateLimiterSweepsIdleVisitors(t *testing.T) {
	clock := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(2, time.Minute)
	limiter.now = func() time.Time { return clock }

	// first call sweeps an empty map and starts the interval
	assert.True(t, limiter.allow("10.0.0.1"))
	assert.True(t, limiter.allow("10.0.0.1"))
	assert.False(t, limiter.allow("10.0.0.1"))

	// 11 minutes after the first sweep: only 10.0.0.1 has been idle past the TTL
	clock = clock.Add(5 * time.Minute)
	assert.True(t, limiter.allow("10.0.0.2"))
	clock = clock.Add(6 * time.Minute)
	assert.True(t, limiter.allow("10.0.0.3"))
	assert.Len(t, limiter.visitors, 2)
	assert.NotContains(t, limiter.visitors, "10.0.0.1")

	// 10.0.0.2 is idle past the TTL again, but the next sweep is not due yet
	clock = clock.Add(9 * time.Minute)
	assert.True(t, limiter.allow("10.0.0.4"))
	assert.Len(t, limiter.visitors, 3)

	clock = clock.Add(2 * time.Minute)
	assert.True(t, limiter.allow("10.0.0.5"))
	assert.Equal(t, []string{"10.0.0.4", "10.0.0.5"}, visitorKeys(limiter))
}

func visitorKeys(rl *RateLimiter) []string {
	keys := make([]string, 0, len(rl.visitors))
	for k := range rl.visitors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func TestRecoveryAndRequestID(t *testing.T) {
	r := newTestEngine()
	r.Use(RequestID(), Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(utils.RequestIDKey)) })

	w := doRequest(r, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Something went wrong!", messageOf(t, w))
	_, err := uuid.Parse(w.Header().Get(RequestIDHeader))
	assert.NoError(t, err)

	known := uuid.New().String()
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(RequestIDHeader, known)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, known, w.Header().Get(RequestIDHeader))
	assert.Equal(t, known, w.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	r := newTestEngine()
	r.Use(CORSMiddlewares("https://shop.example.com"))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := doRequest(r, http.MethodOptions, "/x", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://shop.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestTimeout(t *testing.T) {
	r := newTestEngine()
	r.GET("/slow", RequestTimeout(50*time.Millisecond), func(c *gin.Context) {
		select {
		case <-c.Request.Context().Done():
			utils.RespondError(c, utils.NewAppError(http.StatusGatewayTimeout, "Request timed out", c.Request.Context().Err()))
		case <-time.After(2 * time.Second):
			c.Status(http.StatusOK)
		}
	})
	r.GET("/unbounded", RequestTimeout(0), func(c *gin.Context) {
		_, hasDeadline := c.Request.Context().Deadline()
		c.JSON(http.StatusOK, gin.H{"deadline": hasDeadline})
	})

	start := time.Now()
	w := doRequest(r, http.MethodGet, "/slow", "")
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Equal(t, "Request timed out", messageOf(t, w))

	w = doRequest(r, http.MethodGet, "/unbounded", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deadline":false}`, w.Body.String())
}
