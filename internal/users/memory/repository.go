// Package memory provides an in-memory implementation of users.Repository.
package memory

import (
	"context"
	"sync"

	"github.com/bissquit/userdesk/internal/domain"
	"github.com/google/uuid"
)

// Repository keeps users in insertion order in process memory.
// All methods return copies; callers never hold references into the store.
type Repository struct {
	mu    sync.RWMutex
	users []domain.User
	newID func() string
}

// NewRepository creates an empty repository.
func NewRepository() *Repository {
	return &Repository{
		users: make([]domain.User, 0),
		newID: uuid.NewString,
	}
}

// FindAll returns all users without passwords.
func (r *Repository) FindAll(_ context.Context) []domain.PublicUser {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.PublicUser, 0, len(r.users))
	for _, u := range r.users {
		result = append(result, u.Public())
	}
	return result
}

// FindByID returns the full record, password included.
func (r *Repository) FindByID(_ context.Context, id string) (domain.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexByID(id); i >= 0 {
		return r.users[i], true
	}
	return domain.User{}, false
}

// FindByEmail matches email exactly, case included.
func (r *Repository) FindByEmail(_ context.Context, email string) (domain.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return u, true
		}
	}
	return domain.User{}, false
}

// Create assigns a fresh id and appends the user.
func (r *Repository) Create(_ context.Context, in domain.NewUser) domain.PublicUser {
	r.mu.Lock()
	defer r.mu.Unlock()

	user := domain.User{
		ID:       r.newID(),
		Name:     in.Name,
		Email:    in.Email,
		Type:     in.Type,
		Password: in.Password,
	}
	r.users = append(r.users, user)

	return user.Public()
}

// Update merges patch into the user with the given id.
func (r *Repository) Update(_ context.Context, id string, patch domain.UserPatch) (domain.PublicUser, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexByID(id)
	if i < 0 {
		return domain.PublicUser{}, false
	}

	patch.Apply(&r.users[i])
	return r.users[i].Public(), true
}

// Delete removes the user with the given id.
func (r *Repository) Delete(_ context.Context, id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexByID(id)
	if i < 0 {
		return false
	}

	r.users = append(r.users[:i], r.users[i+1:]...)
	return true
}

// Count returns the number of stored users.
func (r *Repository) Count(_ context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.users)
}

// indexByID must be called with mu held.
func (r *Repository) indexByID(id string) int {
	for i, u := range r.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}
