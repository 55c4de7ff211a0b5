// Package identity provides sign-in and session endpoints.
package identity

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/bissquit/userdesk/internal/domain"
	"github.com/bissquit/userdesk/internal/pkg/ctxlog"
	"github.com/bissquit/userdesk/internal/pkg/metrics"
)

// Service errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

// UserFinder looks up stored users, password included.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (domain.User, bool)
	FindByEmail(ctx context.Context, email string) (domain.User, bool)
}

// Authenticator issues and validates session tokens.
type Authenticator interface {
	IssueToken(ctx context.Context, identity domain.Identity) (string, error)
	ValidateToken(ctx context.Context, token string) (domain.Identity, error)
}

// Service implements identity business logic.
type Service struct {
	users UserFinder
	auth  Authenticator
}

// NewService creates a new identity service.
func NewService(users UserFinder, auth Authenticator) *Service {
	return &Service{
		users: users,
		auth:  auth,
	}
}

// LoginInput contains credentials.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is a successful sign-in.
type LoginResult struct {
	Token string            `json:"token"`
	User  domain.PublicUser `json:"user"`
}

// Login checks credentials and issues a session token.
// Unknown email and wrong password both return ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, found := s.users.FindByEmail(ctx, input.Email)

	if !found || !passwordMatches(user.Password, input.Password) {
		metrics.AuthAttemptsTotal.WithLabelValues(metrics.AuthResultInvalidCredentials).Inc()
		ctxlog.FromContext(ctx).Debug("sign-in rejected", "email", input.Email)
		return nil, ErrInvalidCredentials
	}

	token, err := s.auth.IssueToken(ctx, user.Identity())
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues(metrics.AuthResultError).Inc()
		return nil, fmt.Errorf("issue token: %w", err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues(metrics.AuthResultSuccess).Inc()
	return &LoginResult{
		Token: token,
		User:  user.Public(),
	}, nil
}

// ValidateToken verifies a session token.
func (s *Service) ValidateToken(ctx context.Context, token string) (domain.Identity, error) {
	return s.auth.ValidateToken(ctx, token)
}

// GetUserByID returns the sanitized user for the given id.
func (s *Service) GetUserByID(ctx context.Context, id string) (domain.PublicUser, error) {
	user, ok := s.users.FindByID(ctx, id)
	if !ok {
		return domain.PublicUser{}, ErrUserNotFound
	}
	return user.Public(), nil
}

func passwordMatches(stored, provided string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(provided)) == 1
}
