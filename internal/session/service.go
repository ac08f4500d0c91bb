// Package session implements the login, logout and refresh flows.
//
// Access tokens travel in the Authorization response header; refresh tokens
// live in a per-user cookie named CookieName(email). Both are stateless
// signed tokens. The optional RotationLedger narrows refresh to the latest
// issued token; without it any unexpired refresh token is accepted.
package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"restaurant-api/internal/apperr"
	"restaurant-api/internal/audit"
	"restaurant-api/internal/auth"
	"restaurant-api/internal/notify"
	"restaurant-api/internal/users"
	"restaurant-api/pkg/logger"
)

// UserFinder is the read side of the credential store.
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (users.User, error)
	FindByID(ctx context.Context, id string) (users.User, error)
}

type PasswordVerifier interface {
	Verify(plaintext, hash string) (bool, error)
}

type TokenIssuer interface {
	IssuePair(now time.Time, cs auth.ClaimSet) (auth.TokenPair, error)
	VerifyRefreshToken(tokenString string, now time.Time) (auth.Claims, error)
	RefreshTTL() time.Duration
}

type Mailer interface {
	Dispatch(m notify.Mail)
}

type EventRecorder interface {
	Record(ctx context.Context, e audit.Event)
}

// CookieReader looks a request cookie up by exact name.
type CookieReader func(name string) (string, bool)

// Options carries the optional collaborators. Nil fields are skipped.
type Options struct {
	Ledger RotationLedger
	Mailer Mailer
	Audit  EventRecorder
}

// Result is what a successful flow hands to the transport layer.
// Tokens are empty for logout.
type Result struct {
	User         users.PublicUser
	AccessToken  string
	RefreshToken string
	CookieName   string
}

type Service struct {
	users  UserFinder
	hasher PasswordVerifier
	tokens TokenIssuer
	ledger RotationLedger
	mailer Mailer
	audit  EventRecorder
	// clock is injectable for deterministic tests.
	clock func() time.Time
}

func NewService(u UserFinder, h PasswordVerifier, t TokenIssuer, opts Options) *Service {
	return &Service{
		users:  u,
		hasher: h,
		tokens: t,
		ledger: opts.Ledger,
		mailer: opts.Mailer,
		audit:  opts.Audit,
		clock:  time.Now,
	}
}

// Login checks the credential and issues a fresh token pair.
func (s *Service) Login(ctx context.Context, email, password string) (Result, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return Result{}, apperr.Validation("all fields are mandatory")
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			s.record(ctx, audit.Event{Type: audit.EventTypeLoginFailed, Email: email, Message: "unknown email"})
			return Result{}, apperr.NotFound("user does not exist")
		}
		return Result{}, apperr.Internal(err)
	}

	ok, err := s.hasher.Verify(password, u.PasswordHash)
	if err != nil {
		return Result{}, apperr.Internal(err)
	}
	if !ok {
		s.record(ctx, audit.Event{Type: audit.EventTypeLoginFailed, UserID: u.ID, Email: u.Email, Message: "incorrect password"})
		return Result{}, apperr.Unauthorized("incorrect password")
	}

	u = u.Stripped()
	pair, err := s.tokens.IssuePair(s.clock(), u.Claims())
	if err != nil {
		return Result{}, apperr.Internal(err)
	}
	if s.ledger != nil {
		if err := s.ledger.Record(ctx, u.ID, pair.RefreshID, s.tokens.RefreshTTL()); err != nil {
			return Result{}, apperr.Internal(err)
		}
	}

	s.record(ctx, audit.Event{Type: audit.EventTypeLogin, UserID: u.ID, Email: u.Email})
	s.notify(notify.Mail{
		To:      u.Email,
		Subject: "The Best Restaurant",
		Name:    u.Name,
		Content: "A new sign-in to your account was just made.",
	})
	return resultFor(u, pair), nil
}

// Logout resolves the authenticated user and names the cookie to clear.
// Previously issued access tokens stay valid until they expire.
func (s *Service) Logout(ctx context.Context, userID string) (Result, error) {
	if userID == "" {
		return Result{}, apperr.Unauthorized("authentication error")
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return Result{}, apperr.NotFound("user not found")
		}
		return Result{}, apperr.Internal(err)
	}
	u = u.Stripped()

	if s.ledger != nil {
		if err := s.ledger.Forget(ctx, u.ID); err != nil {
			logger.From(ctx).Warn("refresh ledger forget failed", "user_id", u.ID, "err", err)
		}
	}

	s.record(ctx, audit.Event{Type: audit.EventTypeLogout, UserID: u.ID, Email: u.Email})
	s.notify(notify.Mail{
		To:      u.Email,
		Subject: "The Best Restaurant",
		Name:    u.Name,
		Content: "You have just logged out of The Best Restaurant. See you soon!",
	})
	return Result{User: u.Public(), CookieName: CookieName(u.Email)}, nil
}

// Refresh exchanges the refresh cookie of userID for a new token pair.
// It needs no access token: its purpose is to replace an expired one.
// Claims are rebuilt from the stored record, not from the old token.
func (s *Service) Refresh(ctx context.Context, userID string, cookies CookieReader) (Result, error) {
	if userID == "" {
		return Result{}, apperr.Validation("user ID not found")
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return Result{}, apperr.NotFound("user not found")
		}
		return Result{}, apperr.Internal(err)
	}

	name := CookieName(u.Email)
	raw, ok := "", false
	if cookies != nil {
		raw, ok = cookies(name)
	}
	if !ok || raw == "" {
		s.rejectRefresh(ctx, u, "refresh cookie missing")
		return Result{}, apperr.Unauthorized("failed to fetch refresh token")
	}

	now := s.clock()
	claims, err := s.tokens.VerifyRefreshToken(raw, now)
	if err != nil || claims.UserID != u.ID {
		s.rejectRefresh(ctx, u, "refresh token invalid")
		return Result{}, apperr.Unauthorized("invalid refresh token")
	}

	u = u.Stripped()
	pair, err := s.tokens.IssuePair(now, u.Claims())
	if err != nil {
		return Result{}, apperr.Internal(err)
	}

	if s.ledger != nil {
		rotated, err := s.ledger.Rotate(ctx, u.ID, claims.ID, pair.RefreshID, s.tokens.RefreshTTL())
		if err != nil {
			return Result{}, apperr.Internal(err)
		}
		if !rotated {
			s.rejectRefresh(ctx, u, "refresh token superseded")
			return Result{}, apperr.Unauthorized("invalid refresh token")
		}
	}

	s.record(ctx, audit.Event{Type: audit.EventTypeRefresh, UserID: u.ID, Email: u.Email})
	return resultFor(u, pair), nil
}

func resultFor(u users.User, pair auth.TokenPair) Result {
	return Result{
		User:         u.Public(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		CookieName:   CookieName(u.Email),
	}
}

func (s *Service) rejectRefresh(ctx context.Context, u users.User, msg string) {
	s.record(ctx, audit.Event{Type: audit.EventTypeRefreshRejected, UserID: u.ID, Email: u.Email, Message: msg})
}

func (s *Service) record(ctx context.Context, e audit.Event) {
	if s.audit != nil {
		s.audit.Record(ctx, e)
	}
}

func (s *Service) notify(m notify.Mail) {
	if s.mailer != nil {
		s.mailer.Dispatch(m)
	}
}
