package auth

import "github.com/golang-jwt/jwt/v5"

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// ClaimSet is the identity projection embedded in every token.
// It never carries the password hash.
type ClaimSet struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Status string `json:"status"`
}

// Claims are the only supported JWT claims shape for this service.
// Access and refresh tokens share it and differ by TokenType and signing key.
type Claims struct {
	jwt.RegisteredClaims
	ClaimSet

	TokenType TokenType `json:"token_type"`
}
