package ports

import (
	"context"
)

// AuthService coordinates registration, login and token refresh.
type AuthService interface {
	Register(ctx context.Context, input CreateUserInput) (*UserView, error)
	Login(ctx context.Context, email, password string) (string, error)
	Refresh(ctx context.Context, token string) (string, error)
}
