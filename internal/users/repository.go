package users

import (
	"context"

	"github.com/bissquit/userdesk/internal/domain"
)

// Repository defines the interface for user data operations.
//
// Implementations do not enforce email uniqueness; Service serializes
// check-then-write sequences instead.
type Repository interface {
	FindAll(ctx context.Context) []domain.PublicUser
	FindByID(ctx context.Context, id string) (domain.User, bool)
	FindByEmail(ctx context.Context, email string) (domain.User, bool)
	Create(ctx context.Context, user domain.NewUser) domain.PublicUser
	Update(ctx context.Context, id string, patch domain.UserPatch) (domain.PublicUser, bool)
	Delete(ctx context.Context, id string) bool
	Count(ctx context.Context) int
}
