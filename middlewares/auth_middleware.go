package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-api/utils"
)

// RequireUser -> any valid bearer token, admin or customer
func RequireUser(tm *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondError(c, utils.ErrUnauthorized)
			c.Abort()
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || strings.TrimSpace(tokenString) == "" {
			utils.RespondError(c, utils.ErrUnauthorized)
			c.Abort()
			return
		}

		claims, err := tm.ParseToken(strings.TrimSpace(tokenString))
		if err != nil {
			utils.RespondError(c, utils.ErrTokenInvalid)
			c.Abort()
			return
		}

		utils.SetIdentity(c, claims)
		c.Next()
	}
}
