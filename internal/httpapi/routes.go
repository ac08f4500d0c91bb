package httpapi

import (
	"restaurant-api/internal/rbac"

	"github.com/gin-gonic/gin"
)

// Register wires the routes onto r. gate must verify the access token.
// Keep this free of business logic; handlers delegate to internal modules.
func Register(r gin.IRouter, h Handlers, gate gin.HandlerFunc) error {
	if err := RegisterValidators(); err != nil {
		return err
	}

	// public
	r.GET("/healthz", h.Health)

	u := r.Group("/users")
	{
		u.POST("/signup", h.Signup)
		u.POST("/login", h.Login)
		// Refresh runs without the gate: it replaces an expired access token.
		u.POST("/refresh/:userID", h.Refresh)

		u.POST("/logout", gate, h.Logout)
		u.GET("/profile", gate, h.Profile)
		u.PUT("/profile", gate, h.UpdateProfile)
		u.DELETE("/profile", gate, h.DeleteProfile)
	}

	admin := r.Group("/admin")
	admin.Use(gate, rbac.RequireAdmin())
	{
		admin.GET("/users/:userID", h.AdminGetUser)
	}
	return nil
}
