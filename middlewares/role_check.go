package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-api/utils"
)

// RequireAdmin -> must run after RequireUser
func RequireAdmin() gin.HandlerFunc {
	return requireRole(true, utils.ErrForbidden)
}

// RequireCustomer -> routes whose identity id is used as a customer_id
func RequireCustomer() gin.HandlerFunc {
	return requireRole(false, utils.ErrCustomerOnly)
}

func requireRole(admin bool, denied *utils.AppError) gin.HandlerFunc {
	return func(c *gin.Context) {
		who, exists := utils.CurrentIdentity(c)
		if !exists {
			utils.RespondError(c, utils.ErrUnauthorized)
			c.Abort()
			return
		}

		if who.IsAdmin() != admin {
			utils.RespondError(c, denied)
			c.Abort()
			return
		}

		c.Next()
	}
}
