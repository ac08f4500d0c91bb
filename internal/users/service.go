package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"restaurant-api/internal/apperr"
	"restaurant-api/internal/notify"

	"github.com/google/uuid"
)

// Hasher is the password hashing contract the service needs.
type Hasher interface {
	Hash(plaintext string) (string, error)
}

// Mailer dispatches a notification without waiting for it.
type Mailer interface {
	Dispatch(m notify.Mail)
}

// Service owns registration and profile management.
//
// Invariants:
// - plaintext passwords are hashed before any write and never stored
// - returned values are stripped of the password hash
type Service struct {
	repo   Repository
	hasher Hasher
	mailer Mailer
	// clock is injectable for deterministic tests.
	clock func() time.Time
}

func NewService(repo Repository, hasher Hasher, mailer Mailer) *Service {
	return &Service{repo: repo, hasher: hasher, mailer: mailer, clock: time.Now}
}

type RegisterRequest struct {
	Name     string
	Email    string
	Password string
	Status   Status
}

type UpdateRequest struct {
	Name     string
	Email    string
	Password string
	Status   Status
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" || req.Status == "" {
		return User{}, apperr.Validation("all fields are mandatory")
	}
	if !req.Status.Valid() {
		return User{}, apperr.Validation("status must be customer or admin")
	}

	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return User{}, apperr.Conflict("email is already used")
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, apperr.Internal(err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return User{}, apperr.Internal(err)
	}

	now := s.clock().UTC()
	u, err := s.repo.Create(ctx, User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Status:       req.Status,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return User{}, apperr.Conflict("email is already used")
		}
		return User{}, apperr.Internal(err)
	}

	s.notify(notify.Mail{
		To:      u.Email,
		Subject: "Welcome to the Best Restaurant",
		Name:    u.Name,
		Content: "Thank you for signing up!",
	})
	return u.Stripped(), nil
}

func (s *Service) Profile(ctx context.Context, userID string) (User, error) {
	u, err := s.find(ctx, userID)
	if err != nil {
		return User{}, err
	}
	return u.Stripped(), nil
}

// Update replaces the editable fields. Empty fields keep their stored value.
// Changing the email orphans the refresh cookie named after the old address;
// the user has to log in again to get a cookie under the new name.
func (s *Service) Update(ctx context.Context, userID string, req UpdateRequest) (User, error) {
	u, err := s.find(ctx, userID)
	if err != nil {
		return User{}, err
	}

	if v := strings.TrimSpace(req.Name); v != "" {
		u.Name = v
	}
	if v := strings.TrimSpace(req.Email); v != "" {
		u.Email = v
	}
	if req.Status != "" {
		if !req.Status.Valid() {
			return User{}, apperr.Validation("status must be customer or admin")
		}
		u.Status = req.Status
	}
	if req.Password != "" {
		hash, err := s.hasher.Hash(req.Password)
		if err != nil {
			return User{}, apperr.Internal(err)
		}
		u.PasswordHash = hash
	}
	u.UpdatedAt = s.clock().UTC()

	out, err := s.repo.Update(ctx, u)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			return User{}, apperr.Conflict("email is already used")
		case errors.Is(err, ErrNotFound):
			return User{}, apperr.NotFound("user not found")
		default:
			return User{}, apperr.Internal(err)
		}
	}
	return out.Stripped(), nil
}

func (s *Service) Delete(ctx context.Context, userID string) (User, error) {
	if userID == "" {
		return User{}, apperr.Unauthorized("authentication error")
	}
	u, err := s.repo.Delete(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, apperr.NotFound("user not found")
		}
		return User{}, apperr.Internal(err)
	}
	return u.Stripped(), nil
}

func (s *Service) find(ctx context.Context, userID string) (User, error) {
	if userID == "" {
		return User{}, apperr.Unauthorized("authentication error")
	}
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, apperr.NotFound("user not found")
		}
		return User{}, apperr.Internal(err)
	}
	return u, nil
}

func (s *Service) notify(m notify.Mail) {
	if s.mailer != nil {
		s.mailer.Dispatch(m)
	}
}
