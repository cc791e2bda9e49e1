package ports

import (
	"context"
	"time"

	"github.com/usergate/userauth/internal/core/domain"
)

// CreateUserInput is the registration / admin-create payload after
// transport validation. Email is normalised by the service.
type CreateUserInput struct {
	Email    string
	Password string
	Roles    []string
}

// UpdateUserInput carries a partial update. Nil fields are left unchanged.
type UpdateUserInput struct {
	Email    *string
	Password *string
	Roles    []string
}

// UserView is the outward representation of a user. It has no password
// field, so no code path can leak the hash through it.
type UserView struct {
	ID        string
	Email     string
	Roles     []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserService defines user management use-cases.
type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*UserView, error)
	List(ctx context.Context) ([]UserView, error)
	Get(ctx context.Context, id string) (*UserView, error)
	Update(ctx context.Context, actor domain.Principal, id string, input UpdateUserInput) (*UserView, error)
	Delete(ctx context.Context, id string) error
}
