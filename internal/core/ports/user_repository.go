package ports

import (
	"context"

	"github.com/usergate/userauth/internal/core/domain"
)

// UserRepository is the credential store. Implementations return
// domain.ErrUserNotFound for missing rows and domain.ErrUserExists on an
// email collision. Users are always returned with their roles populated.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
