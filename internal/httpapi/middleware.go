package httpapi

import (
	"restaurant-api/internal/audit"

	"github.com/gin-gonic/gin"
)

// ClientIP stores the resolved client address on the request context so
// audit events can pick it up.
func ClientIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := audit.WithClientIP(c.Request.Context(), c.ClientIP())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
