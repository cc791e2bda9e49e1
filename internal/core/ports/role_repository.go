package ports

import (
	"context"

	"github.com/usergate/userauth/internal/core/domain"
)

// RoleRepository is the authoritative role store. FindByNames returns only
// the roles that exist; callers compare lengths to detect unknown names.
type RoleRepository interface {
	FindByNames(ctx context.Context, names []string) ([]domain.Role, error)
	// EnsureRoles creates any of names that do not exist yet.
	EnsureRoles(ctx context.Context, names []string) error
}
