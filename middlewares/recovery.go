package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-api/utils"
)

// Recovery -> last-resort handler, answers 500 {message:"Something went wrong!"}
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, err interface{}) {
		utils.ErrorLogger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"request_id": c.GetString(utils.RequestIDKey),
		}).Errorf("panic recovered: %v", err)

		utils.RespondMessage(c, http.StatusInternalServerError, "Something went wrong!")
		c.Abort()
	})
}
