package httpapi

import (
	"context"
	"net/http"
	"time"

	"restaurant-api/internal/audit"
	"restaurant-api/internal/auth"
	"restaurant-api/internal/config"
	"restaurant-api/internal/session"
	"restaurant-api/internal/users"
	"restaurant-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.
type Handlers struct {
	Users    *users.Service
	Sessions *session.Service
	Cookies  config.CookieConfig

	// Audit is optional.
	Audit session.EventRecorder
	// Ready reports storage health for /healthz. Nil means always ready.
	Ready func(ctx context.Context) error
}

func (h Handlers) Health(c *gin.Context) {
	if h.Ready != nil {
		if err := h.Ready(c.Request.Context()); err != nil {
			logger.FromGin(c).Warn("readiness check failed", "err", err)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// --- Users ---

type signupRequest struct {
	Name     string `json:"name" binding:"required,min=3,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,password"`
	Status   string `json:"status" binding:"required,oneof=customer admin"`
}

func (h Handlers) Signup(c *gin.Context) {
	var req signupRequest
	if !bindJSON(c, &req) {
		return
	}

	u, err := h.Users.Register(c.Request.Context(), users.RegisterRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Status:   users.Status(req.Status),
	})
	if err != nil {
		fail(c, err)
		return
	}

	if h.Audit != nil {
		h.Audit.Record(c.Request.Context(), audit.Event{Type: audit.EventTypeSignup, UserID: u.ID, Email: u.Email})
	}
	c.JSON(http.StatusCreated, gin.H{"msg": "registration completed"})
}

func (h Handlers) Profile(c *gin.Context) {
	uid, _ := auth.UserID(c.Request.Context())
	u, err := h.Users.Profile(c.Request.Context(), uid)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": gin.H{"name": u.Name, "email": u.Email}})
}

// updateRequest mirrors signupRequest; omitted fields keep their stored value.
type updateRequest struct {
	Name     string `json:"name" binding:"omitempty,min=3,max=30"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"omitempty,password"`
	Status   string `json:"status" binding:"omitempty,oneof=customer admin"`
}

func (h Handlers) UpdateProfile(c *gin.Context) {
	var req updateRequest
	if !bindJSON(c, &req) {
		return
	}

	uid, _ := auth.UserID(c.Request.Context())
	u, err := h.Users.Update(c.Request.Context(), uid, users.UpdateRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Status:   users.Status(req.Status),
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "profile updated", "user": u.Public()})
}

// DeleteProfile removes the account and clears its refresh cookie.
func (h Handlers) DeleteProfile(c *gin.Context) {
	uid, _ := auth.UserID(c.Request.Context())
	u, err := h.Users.Delete(c.Request.Context(), uid)
	if err != nil {
		fail(c, err)
		return
	}
	c.Writer.Header().Add("Set-Cookie", session.ClearCookieHeader(h.Cookies, session.CookieName(u.Email)))
	c.JSON(http.StatusOK, gin.H{"msg": u.Name + " has been deleted"})
}

// AdminGetUser returns any account by id. RBAC: admin.
func (h Handlers) AdminGetUser(c *gin.Context) {
	u, err := h.Users.Profile(c.Request.Context(), c.Param("userID"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u.Public()})
}

// --- Session ---

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password"`
}

// Login checks the credential, returns the access token in the
// Authorization header and stores the refresh token in the user's cookie.
func (h Handlers) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.Sessions.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	h.writeTokens(c, res)
	c.JSON(http.StatusOK, gin.H{"msg": "user connected"})
}

func (h Handlers) Logout(c *gin.Context) {
	uid, _ := auth.UserID(c.Request.Context())
	res, err := h.Sessions.Logout(c.Request.Context(), uid)
	if err != nil {
		fail(c, err)
		return
	}
	// Clients treat an empty bearer as "no token". Go trims the trailing
	// space on the wire, so the header arrives as "Bearer".
	c.Header(auth.AuthorizationHeader, auth.BearerPrefix)
	c.Writer.Header().Add("Set-Cookie", session.ClearCookieHeader(h.Cookies, res.CookieName))
	c.JSON(http.StatusOK, gin.H{"msg": "user disconnected"})
}

// Refresh rotates the token pair using the refresh cookie alone; it sits
// outside the access-token gate.
func (h Handlers) Refresh(c *gin.Context) {
	res, err := h.Sessions.Refresh(c.Request.Context(), c.Param("userID"), session.CookieFromHeader(c.Request.Header))
	if err != nil {
		fail(c, err)
		return
	}
	h.writeTokens(c, res)
	c.JSON(http.StatusOK, gin.H{"msg": "token refreshed"})
}

func (h Handlers) writeTokens(c *gin.Context, res session.Result) {
	c.Header(auth.AuthorizationHeader, auth.BearerPrefix+res.AccessToken)
	c.Writer.Header().Add("Set-Cookie", session.SetCookieHeader(h.Cookies, res.CookieName, res.RefreshToken, time.Now()))
}
