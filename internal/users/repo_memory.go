package users

import (
	"context"
	"sync"
)

// MemoryRepository is an in-memory Repository for tests and local runs.
// It is not intended for production use.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]User
	idByKey map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]User),
		idByKey: make(map[string]string),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, u User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.idByKey[u.Email]; ok {
		return User{}, ErrEmailTaken
	}
	r.byID[u.ID] = u
	r.idByKey[u.Email] = u.ID
	return u, nil
}

func (r *MemoryRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.idByKey[email]
	if !ok {
		return User{}, ErrNotFound
	}
	return r.byID[id], nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (r *MemoryRepository) Update(ctx context.Context, u User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.byID[u.ID]
	if !ok {
		return User{}, ErrNotFound
	}
	if u.Email != prev.Email {
		if _, taken := r.idByKey[u.Email]; taken {
			return User{}, ErrEmailTaken
		}
		delete(r.idByKey, prev.Email)
		r.idByKey[u.Email] = u.ID
	}
	u.CreatedAt = prev.CreatedAt
	r.byID[u.ID] = u
	return u, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	delete(r.byID, id)
	delete(r.idByKey, u.Email)
	return u, nil
}
