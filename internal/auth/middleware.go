package auth

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const AuthorizationHeader = "Authorization"
const BearerPrefix = "Bearer "

// Gin context keys set by RequireAccessToken.
const (
	GinKeyClaims = "claims"
	GinKeyUserID = "user_id"
)

// AccessVerifier is the part of Manager the gate needs.
type AccessVerifier interface {
	VerifyAccessToken(tokenString string, now time.Time) (Claims, error)
}

// RequireAccessToken verifies the bearer access token and injects its claim
// set into the request context. It does not perform status checks; those
// belong to internal/rbac.
func RequireAccessToken(v AccessVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, status, msg := authenticate(v, c.GetHeader(AuthorizationHeader))
		if status != 0 {
			c.AbortWithStatusJSON(status, gin.H{"msg": msg})
			return
		}

		ctx := WithClaims(c.Request.Context(), claims.ClaimSet)
		c.Request = c.Request.WithContext(ctx)

		// Also store on gin context for handler and logger convenience.
		c.Set(GinKeyClaims, claims.ClaimSet)
		c.Set(GinKeyUserID, claims.UserID)

		// Handler panics are left to gin.Recovery.
		c.Next()
	}
}

// authenticate extracts and verifies the bearer token. A non-zero status
// means the request must be rejected with msg.
func authenticate(v AccessVerifier, header string) (claims Claims, status int, msg string) {
	defer func() {
		if p := recover(); p != nil {
			slog.Error("auth gate panic", "panic", p)
			claims, status, msg = Claims{}, http.StatusInternalServerError, "error when trying to authenticate"
		}
	}()

	tok, ok := BearerToken(header)
	if !ok {
		return Claims{}, http.StatusUnauthorized, "access token not found or badly formatted"
	}
	claims, err := v.VerifyAccessToken(tok, time.Now())
	if err != nil {
		return Claims{}, http.StatusUnauthorized, "failed to decode access token"
	}
	return claims, 0, ""
}

// BearerToken strips the Bearer scheme (case-insensitive) from an
// Authorization header value. It reports false for other schemes and for
// an empty token.
func BearerToken(header string) (string, bool) {
	raw := strings.TrimSpace(header)
	if len(raw) < len(BearerPrefix) || !strings.EqualFold(raw[:len(BearerPrefix)], BearerPrefix) {
		return "", false
	}
	tok := strings.TrimSpace(raw[len(BearerPrefix):])
	if tok == "" {
		return "", false
	}
	return tok, true
}
