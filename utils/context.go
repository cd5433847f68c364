package utils

import (
	"github.com/gin-gonic/gin"
)

// gin context keys
const (
	UserIDKey    = "user_id"
	EmailKey     = "email"
	RoleKey      = "role"
	RequestIDKey = "request_id"
)

type Identity struct {
	ID    uint
	Email string
	Role  string
}

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

func SetIdentity(c *gin.Context, claims *CustomClaims) {
	c.Set(UserIDKey, claims.ID)
	c.Set(EmailKey, claims.Email)
	c.Set(RoleKey, claims.Role)
}

// CurrentIdentity reads the identity stored by the auth middleware.
func CurrentIdentity(c *gin.Context) (Identity, bool) {
	id, ok := c.Get(UserIDKey)
	if !ok {
		return Identity{}, false
	}
	userID, ok := id.(uint)
	if !ok || userID == 0 {
		return Identity{}, false
	}
	return Identity{ID: userID, Email: c.GetString(EmailKey), Role: c.GetString(RoleKey)}, true
}
