package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-api/utils"
)

// PaymentSecurityHeaders adds security headers for payment endpoints
func PaymentSecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		c.Next()
	}
}

// PaymentRateLimiter -> 30 payment calls per minute per IP
func PaymentRateLimiter() gin.HandlerFunc {
	return NewRateLimiter(30, time.Minute).RateLimit()
}

// LogPaymentRequest logs payment request details
func LogPaymentRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		fields := logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"status":     c.Writer.Status(),
			"duration":   time.Since(start),
			"request_id": c.GetString(utils.RequestIDKey),
		}
		if who, ok := utils.CurrentIdentity(c); ok {
			fields["user_id"] = who.ID
			fields["role"] = who.Role
		}
		utils.InfoLogger.WithFields(fields).Info("payment request")
	}
}
