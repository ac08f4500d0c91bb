package auth

import (
	"errors"
	"fmt"
	"time"

	"restaurant-api/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken covers every verification failure: expired, malformed,
// wrong signature, wrong token type. Callers treat it as "no claims".
var ErrInvalidToken = errors.New("invalid token")

// Manager issues and verifies access and refresh tokens.
// Each token class has its own secret and TTL, so a leaked access token
// can never be replayed as a refresh token.
type Manager struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	audience      string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewManager(cfg config.AuthConfig) (*Manager, error) {
	if cfg.AccessSecret == "" {
		return nil, errors.New("JWT_ACCESS_SECRET is required")
	}
	if cfg.RefreshSecret == "" {
		return nil, errors.New("JWT_REFRESH_SECRET is required")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, errors.New("access and refresh secrets must differ")
	}
	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0 {
		return nil, errors.New("token ttls must be positive")
	}

	return &Manager{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		issuer:        cfg.JWTIssuer,
		audience:      cfg.JWTAudience,
		accessTTL:     cfg.AccessTokenTTL,
		refreshTTL:    cfg.RefreshTokenTTL,
	}, nil
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	// RefreshID is the jti of RefreshToken, used by rotation tracking.
	RefreshID string
}

// RefreshTTL is how long a refresh token stays cryptographically valid.
func (m *Manager) RefreshTTL() time.Duration { return m.refreshTTL }

/* ===================== ISSUE TOKENS ===================== */

func (m *Manager) IssueAccessToken(now time.Time, cs ClaimSet) (string, error) {
	tok, _, err := m.issue(now, TokenTypeAccess, cs)
	return tok, err
}

// IssueRefreshToken returns the signed token and its jti.
func (m *Manager) IssueRefreshToken(now time.Time, cs ClaimSet) (string, string, error) {
	return m.issue(now, TokenTypeRefresh, cs)
}

func (m *Manager) IssuePair(now time.Time, cs ClaimSet) (TokenPair, error) {
	access, err := m.IssueAccessToken(now, cs)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, jti, err := m.IssueRefreshToken(now, cs)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		RefreshID:    jti,
	}, nil
}

/* ===================== VERIFY TOKEN ===================== */

func (m *Manager) VerifyAccessToken(tokenString string, now time.Time) (Claims, error) {
	return m.verify(tokenString, TokenTypeAccess, now)
}

func (m *Manager) VerifyRefreshToken(tokenString string, now time.Time) (Claims, error) {
	return m.verify(tokenString, TokenTypeRefresh, now)
}

func (m *Manager) verify(tokenString string, expected TokenType, now time.Time) (Claims, error) {
	if tokenString == "" {
		return Claims{}, ErrInvalidToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithLeeway(30 * time.Second), // clock skew tolerance
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}
	if m.audience != "" {
		opts = append(opts, jwt.WithAudience(m.audience))
	}

	var claims Claims
	_, err := jwt.NewParser(opts...).ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return m.secretFor(expected), nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.TokenType != expected {
		return Claims{}, fmt.Errorf("%w: token_type mismatch", ErrInvalidToken)
	}
	if claims.UserID == "" || claims.Subject != claims.UserID {
		return Claims{}, fmt.Errorf("%w: subject missing", ErrInvalidToken)
	}
	if claims.ID == "" {
		return Claims{}, fmt.Errorf("%w: jti missing", ErrInvalidToken)
	}

	return claims, nil
}

/* ===================== INTERNAL ISSUE ===================== */

func (m *Manager) issue(now time.Time, tokenType TokenType, cs ClaimSet) (string, string, error) {
	if cs.UserID == "" {
		return "", "", errors.New("claim set requires user id")
	}

	ttl := m.accessTTL
	if tokenType == TokenTypeRefresh {
		ttl = m.refreshTTL
	}
	jti := uuid.NewString()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   cs.UserID,
			Audience:  audienceOrNil(m.audience),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        jti,
		},
		ClaimSet:  cs,
		TokenType: tokenType,
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(m.secretFor(tokenType))
	if err != nil {
		return "", "", err
	}
	return signed, jti, nil
}

func (m *Manager) secretFor(t TokenType) []byte {
	if t == TokenTypeRefresh {
		return m.refreshSecret
	}
	return m.accessSecret
}

func audienceOrNil(aud string) jwt.ClaimStrings {
	if aud == "" {
		return nil
	}
	return jwt.ClaimStrings{aud}
}
