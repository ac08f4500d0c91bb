package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"restaurant-api/internal/config"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(config.AuthConfig{
		AccessSecret:    "access-secret",
		RefreshSecret:   "refresh-secret",
		JWTIssuer:       "issuer",
		JWTAudience:     "aud",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	return m
}

var testClaims = ClaimSet{UserID: "user-1", Name: "Ada", Email: "user@x.com", Status: "customer"}

func TestIssueAndVerifyAccessToken(t *testing.T) {
	m := newTestManager(t)

	now := time.Unix(1700000000, 0).UTC()
	pair, err := m.IssuePair(now, testClaims)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" || pair.RefreshID == "" {
		t.Fatalf("expected token strings")
	}

	claims, err := m.VerifyAccessToken(pair.AccessToken, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.ClaimSet != testClaims {
		t.Fatalf("unexpected claims: %+v", claims.ClaimSet)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("expected subject user-1, got %q", claims.Subject)
	}
}

func TestVerifyRefreshToken_CarriesJTI(t *testing.T) {
	m := newTestManager(t)
	now := time.Now()

	tok, jti, err := m.IssueRefreshToken(now, testClaims)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := m.VerifyRefreshToken(tok, now.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.ID != jti {
		t.Fatalf("expected jti %q, got %q", jti, claims.ID)
	}
}

func TestVerifyAccessToken_ExpiredIsInvalid(t *testing.T) {
	m := newTestManager(t)
	now := time.Now()
	tok, err := m.IssueAccessToken(now, testClaims)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := m.VerifyAccessToken(tok, now.Add(14*time.Minute)); err != nil {
		t.Fatalf("expected valid before expiry: %v", err)
	}
	_, err = m.VerifyAccessToken(tok, now.Add(16*time.Minute))
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after expiry, got %v", err)
	}
}

func TestVerifyAccessToken_TamperedSignature(t *testing.T) {
	m := newTestManager(t)
	now := time.Now()
	tok, _ := m.IssueAccessToken(now, testClaims)

	parts := strings.Split(tok, ".")
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	if _, err := m.VerifyAccessToken(tampered, now); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := m.VerifyAccessToken("not.a.jwt", now); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for garbage, got %v", err)
	}
	if _, err := m.VerifyAccessToken("", now); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for empty token, got %v", err)
	}
}

func TestCrossVerificationNeverSucceeds(t *testing.T) {
	m := newTestManager(t)
	now := time.Now()
	p, err := m.IssuePair(now, testClaims)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := m.VerifyAccessToken(p.RefreshToken, now); err == nil {
		t.Fatalf("refresh token must not verify as access token")
	}
	if _, err := m.VerifyRefreshToken(p.AccessToken, now); err == nil {
		t.Fatalf("access token must not verify as refresh token")
	}
}

func TestVerify_RejectsForeignIssuer(t *testing.T) {
	m := newTestManager(t)
	other, err := NewManager(config.AuthConfig{
		AccessSecret:    "access-secret",
		RefreshSecret:   "refresh-secret",
		JWTIssuer:       "someone-else",
		JWTAudience:     "aud",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
	})
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	tok, _ := other.IssueAccessToken(time.Now(), testClaims)
	if _, err := m.VerifyAccessToken(tok, time.Now()); err == nil {
		t.Fatalf("expected issuer mismatch")
	}
}

func TestNewManager_RejectsSharedSecret(t *testing.T) {
	_, err := NewManager(config.AuthConfig{
		AccessSecret:    "same",
		RefreshSecret:   "same",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
	})
	if err == nil {
		t.Fatalf("expected error for shared secret")
	}
}

func TestIssue_RequiresUserID(t *testing.T) {
	m := newTestManager(t)
	if _, err := m.IssueAccessToken(time.Now(), ClaimSet{Email: "a@b.c"}); err == nil {
		t.Fatalf("expected error without user id")
	}
}
