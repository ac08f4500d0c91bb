package config

import (
	"strings"
	"testing"
	"time"
)

func validLocal() Config {
	return Config{
		App:   AppConfig{Env: "local", Port: 8080},
		DB:    DBConfig{Host: "localhost", Port: 5432, User: "postgres", Password: "x", Name: "restaurant"},
		Redis: RedisConfig{Host: "localhost", Port: 6379},
		Auth:  AuthConfig{AccessSecret: "access", RefreshSecret: "refresh", EnforceRotation: true},
	}
}

func TestValidate_ReportsMissingRequired(t *testing.T) {
	c := Config{}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestValidate_ProductionRequiresSSLModeAndSecureCookie(t *testing.T) {
	c := validLocal()
	c.App.Env = "production"
	c.Auth.JWTIssuer = "restaurant"
	c.Auth.JWTAudience = "restaurant-web"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for production without DB_SSLMODE and COOKIE_SECURE")
	}

	c = validLocal()
	c.App.Env = "production"
	c.Auth.JWTIssuer = "restaurant"
	c.Auth.JWTAudience = "restaurant-web"
	c.DB.SSLMode = "require"
	c.Cookie.Secure = true
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidate_LocalDefaults(t *testing.T) {
	c := validLocal()
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.DB.SSLMode != "disable" {
		t.Fatalf("expected sslmode disable default, got %q", c.DB.SSLMode)
	}
	if c.Auth.AccessTokenTTL != 15*time.Minute {
		t.Fatalf("unexpected access ttl %v", c.Auth.AccessTokenTTL)
	}
	if c.Cookie.MaxAge != c.Auth.RefreshTokenTTL {
		t.Fatalf("expected cookie max-age to follow refresh ttl, got %v", c.Cookie.MaxAge)
	}
	if c.Notify.Queue != "email_jobs" {
		t.Fatalf("unexpected notify queue %q", c.Notify.Queue)
	}
}

func TestValidate_RejectsSharedSecret(t *testing.T) {
	c := validLocal()
	c.Auth.RefreshSecret = c.Auth.AccessSecret
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error when access and refresh secrets are equal")
	}
}

func TestValidate_RejectsRefreshShorterThanAccess(t *testing.T) {
	c := validLocal()
	c.Auth.AccessTokenTTL = time.Hour
	c.Auth.RefreshTokenTTL = time.Minute
	if err := c.Validate(); err == nil {
		t.Fatalf("expected ttl ordering error")
	}
}

func TestLoad_ParsesBooleansAndCost(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "u")
	t.Setenv("DB_NAME", "n")
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_PORT", "6379")
	t.Setenv("JWT_ACCESS_SECRET", "a")
	t.Setenv("JWT_REFRESH_SECRET", "r")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("COOKIE_HTTP_ONLY", "false")
	t.Setenv("AUTH_ENFORCE_ROTATION", "false")
	t.Setenv("BCRYPT_COST", "6")

	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !c.Cookie.Secure || c.Cookie.HTTPOnly {
		t.Fatalf("unexpected cookie config %+v", c.Cookie)
	}
	if c.Auth.EnforceRotation {
		t.Fatalf("expected rotation enforcement off")
	}
	if c.Auth.BcryptCost != 6 {
		t.Fatalf("expected bcrypt cost 6, got %d", c.Auth.BcryptCost)
	}
}

func TestLoad_RejectsBadBoolean(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "u")
	t.Setenv("DB_NAME", "n")
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_PORT", "6379")
	t.Setenv("JWT_ACCESS_SECRET", "a")
	t.Setenv("JWT_REFRESH_SECRET", "r")
	t.Setenv("COOKIE_SECURE", "sometimes")

	if _, err := Load(); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestValidate_RedisOnlyRequiredForRotation(t *testing.T) {
	c := validLocal()
	c.Redis = RedisConfig{}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected redis error with rotation enforced")
	}

	c = validLocal()
	c.Redis = RedisConfig{}
	c.Auth.EnforceRotation = false
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error without rotation, got %v", err)
	}
}

func TestLoad_RejectsBadDuration(t *testing.T) {
	cases := map[string]string{
		"JWT_ACCESS_TTL":  "5",
		"JWT_REFRESH_TTL": "30d",
		"COOKIE_MAX_AGE":  "1 day",
		"NOTIFY_TIMEOUT":  "-1s",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv("APP_ENV", "dev")
			t.Setenv("APP_PORT", "8080")
			t.Setenv("DB_HOST", "db")
			t.Setenv("DB_PORT", "5432")
			t.Setenv("DB_USER", "u")
			t.Setenv("DB_NAME", "n")
			t.Setenv("JWT_ACCESS_SECRET", "a")
			t.Setenv("JWT_REFRESH_SECRET", "r")
			t.Setenv("AUTH_ENFORCE_ROTATION", "false")
			t.Setenv(key, val)

			_, err := Load()
			if err == nil {
				t.Fatalf("expected parse error for %s=%q", key, val)
			}
			if !strings.Contains(err.Error(), key) {
				t.Fatalf("error should name %s, got %v", key, err)
			}
		})
	}
}

func TestLoad_ParsesDurations(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "u")
	t.Setenv("DB_NAME", "n")
	t.Setenv("JWT_ACCESS_SECRET", "a")
	t.Setenv("JWT_REFRESH_SECRET", "r")
	t.Setenv("AUTH_ENFORCE_ROTATION", "false")
	t.Setenv("JWT_ACCESS_TTL", "5m")
	t.Setenv("JWT_REFRESH_TTL", "720h")
	t.Setenv("COOKIE_MAX_AGE", "")
	t.Setenv("NOTIFY_TIMEOUT", "")

	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Auth.AccessTokenTTL != 5*time.Minute || c.Auth.RefreshTokenTTL != 720*time.Hour {
		t.Fatalf("unexpected ttls %v %v", c.Auth.AccessTokenTTL, c.Auth.RefreshTokenTTL)
	}
	if c.Cookie.MaxAge != c.Auth.RefreshTokenTTL {
		t.Fatalf("cookie max age should default to the refresh ttl, got %v", c.Cookie.MaxAge)
	}
}
