package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/usergate/userauth/internal/core/domain"
	"github.com/usergate/userauth/internal/core/ports"
)

// Password length bounds. bcrypt only accepts inputs up to 72 bytes.
const (
	MinPasswordLength = 6
	MaxPasswordLength = 72
)

// UserService implements user management on top of the credential and
// role stores.
type UserService struct {
	users  ports.UserRepository
	roles  ports.RoleRepository
	hasher ports.PasswordHasher
	log    zerolog.Logger
	now    func() time.Time
}

func NewUserService(users ports.UserRepository, roles ports.RoleRepository, hasher ports.PasswordHasher, log zerolog.Logger) *UserService {
	return &UserService{users: users, roles: roles, hasher: hasher, log: log, now: time.Now}
}

// Create registers a user. Roles default to domain.DefaultRoles and must
// all exist in the role store.
func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput) (*ports.UserView, error) {
	email := domain.NormalizeEmail(input.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrValidation)
	}
	if err := checkPassword(input.Password); err != nil {
		return nil, err
	}

	names := domain.DedupeRoleNames(input.Roles)
	if len(names) == 0 {
		names = domain.DefaultRoles
	}
	roles, err := s.resolveRoles(ctx, names)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: hash,
		Roles:        roles,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info().Str("user_id", created.ID).Strs("roles", names).Msg("user created")
	return toUserView(created), nil
}

func (s *UserService) List(ctx context.Context) ([]ports.UserView, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]ports.UserView, 0, len(users))
	for _, u := range users {
		out = append(out, *toUserView(u))
	}
	return out, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*ports.UserView, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return toUserView(user), nil
}

// Update applies a partial update. Admins may change any user; everyone
// else may only change their own email and password.
func (s *UserService) Update(ctx context.Context, actor domain.Principal, id string, input ports.UpdateUserInput) (*ports.UserView, error) {
	if !actor.IsAdmin() {
		if actor.Subject != id || input.Roles != nil {
			return nil, domain.ErrForbidden
		}
	}

	var patch domain.UserPatch
	if input.Email != nil {
		email := domain.NormalizeEmail(*input.Email)
		if email == "" {
			return nil, fmt.Errorf("%w: email cannot be empty", domain.ErrValidation)
		}
		patch.Email = &email
	}
	if input.Password != nil {
		if err := checkPassword(*input.Password); err != nil {
			return nil, err
		}
		hash, err := s.hasher.Hash(*input.Password)
		if err != nil {
			return nil, err
		}
		patch.PasswordHash = &hash
	}
	if input.Roles != nil {
		names := domain.DedupeRoleNames(input.Roles)
		if len(names) == 0 {
			return nil, fmt.Errorf("%w: roles cannot be empty", domain.ErrValidation)
		}
		roles, err := s.resolveRoles(ctx, names)
		if err != nil {
			return nil, err
		}
		patch.Roles = roles
	}

	if patch.IsEmpty() {
		return s.Get(ctx, id)
	}

	updated, err := s.users.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.log.Info().Str("user_id", id).Str("actor", actor.Subject).Msg("user updated")
	return toUserView(updated), nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("delete user: %w", err)
	}
	s.log.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

// resolveRoles looks names up in the role store and returns them in the
// requested order. Unknown names are rejected, never created.
func (s *UserService) resolveRoles(ctx context.Context, names []string) ([]domain.Role, error) {
	found, err := s.roles.FindByNames(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("resolve roles: %w", err)
	}

	byName := make(map[string]domain.Role, len(found))
	for _, r := range found {
		byName[r.Name] = r
	}

	roles := make([]domain.Role, 0, len(names))
	var missing []string
	for _, n := range names {
		r, ok := byName[n]
		if !ok {
			missing = append(missing, n)
			continue
		}
		roles = append(roles, r)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownRole, strings.Join(missing, ", "))
	}
	return roles, nil
}

func checkPassword(p string) error {
	switch {
	case len(p) < MinPasswordLength:
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, MinPasswordLength)
	case len(p) > MaxPasswordLength:
		return fmt.Errorf("%w: password must be at most %d bytes", domain.ErrValidation, MaxPasswordLength)
	}
	return nil
}

func toUserView(u *domain.User) *ports.UserView {
	return &ports.UserView{
		ID:        u.ID,
		Email:     u.Email,
		Roles:     domain.RoleNames(u.Roles),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
