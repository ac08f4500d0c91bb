package rbac

import (
	"net/http"

	"restaurant-api/internal/auth"

	"github.com/gin-gonic/gin"
)

// RequireAnyStatus allows access if the caller's status is one of allowed.
// Rules:
// - admin passes every check
// - it must run after auth.RequireAccessToken; a missing status is a 401
func RequireAnyStatus(allowed ...string) gin.HandlerFunc {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, s := range allowed {
		allowedSet[s] = struct{}{}
	}

	return func(c *gin.Context) {
		status, err := auth.Status(c.Request.Context())
		if err != nil || status == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "authentication error"})
			return
		}

		if IsAdmin(status) {
			c.Next()
			return
		}

		if _, ok := allowedSet[status]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"msg": "forbidden"})
			return
		}
		c.Next()
	}
}

// RequireAdmin is RequireAnyStatus with no non-admin status allowed.
func RequireAdmin() gin.HandlerFunc {
	return RequireAnyStatus()
}
