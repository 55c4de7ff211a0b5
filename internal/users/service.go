// Package users provides HTTP handlers and business logic for managing user records.
package users

import (
	"context"
	"errors"
	"sync"

	"github.com/bissquit/userdesk/internal/domain"
	"github.com/bissquit/userdesk/internal/pkg/ctxlog"
	"github.com/bissquit/userdesk/internal/pkg/metrics"
)

// Service errors.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already exists")
	ErrEmailTaken   = errors.New("email already exists for another user")
)

// Service implements user management business logic.
type Service struct {
	repo Repository

	// writeMu serializes uniqueness checks with the write that depends on them.
	writeMu sync.Mutex
}

// NewService creates a new users service.
func NewService(repo Repository) *Service {
	s := &Service{repo: repo}
	metrics.Users.Set(float64(repo.Count(context.Background())))
	return s
}

// List returns all users without passwords.
func (s *Service) List(ctx context.Context) []domain.PublicUser {
	return s.repo.FindAll(ctx)
}

// Get returns a single user by id.
func (s *Service) Get(ctx context.Context, id string) (domain.PublicUser, error) {
	user, ok := s.repo.FindByID(ctx, id)
	if !ok {
		return domain.PublicUser{}, ErrUserNotFound
	}
	return user.Public(), nil
}

// Create adds a new user. The email must not be in use.
func (s *Service) Create(ctx context.Context, in domain.NewUser) (domain.PublicUser, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, exists := s.repo.FindByEmail(ctx, in.Email); exists {
		return domain.PublicUser{}, ErrEmailExists
	}

	user := s.repo.Create(ctx, in)
	s.recordCount(ctx)

	ctxlog.FromContext(ctx).Info("user created", "user_id", user.ID, "type", user.Type)
	return user, nil
}

// Update merges patch into the user with the given id.
// Setting email to the user's own current email is allowed.
func (s *Service) Update(ctx context.Context, id string, patch domain.UserPatch) (domain.PublicUser, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, ok := s.repo.FindByID(ctx, id); !ok {
		return domain.PublicUser{}, ErrUserNotFound
	}

	if patch.Email != nil {
		if owner, exists := s.repo.FindByEmail(ctx, *patch.Email); exists && owner.ID != id {
			return domain.PublicUser{}, ErrEmailTaken
		}
	}

	user, ok := s.repo.Update(ctx, id, patch)
	if !ok {
		return domain.PublicUser{}, ErrUserNotFound
	}

	ctxlog.FromContext(ctx).Info("user updated", "user_id", id)
	return user, nil
}

// Delete removes the user with the given id.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if !s.repo.Delete(ctx, id) {
		return ErrUserNotFound
	}
	s.recordCount(ctx)

	ctxlog.FromContext(ctx).Info("user deleted", "user_id", id)
	return nil
}

// EnsureUser creates the user unless one with the same email already exists.
// Used to seed the bootstrap admin at startup.
func (s *Service) EnsureUser(ctx context.Context, in domain.NewUser) (domain.PublicUser, bool, error) {
	user, err := s.Create(ctx, in)
	if errors.Is(err, ErrEmailExists) {
		existing, _ := s.repo.FindByEmail(ctx, in.Email)
		return existing.Public(), false, nil
	}
	if err != nil {
		return domain.PublicUser{}, false, err
	}
	return user, true, nil
}

func (s *Service) recordCount(ctx context.Context) {
	metrics.Users.Set(float64(s.repo.Count(ctx)))
}
