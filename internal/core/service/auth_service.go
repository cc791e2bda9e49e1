package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/usergate/userauth/internal/core/domain"
	"github.com/usergate/userauth/internal/core/ports"
)

// timingPassword is hashed once so that logins for unknown emails still
// pay for a bcrypt comparison.
const timingPassword = "timing-equaliser"

// AuthService implements registration, login and token refresh.
type AuthService struct {
	users     ports.UserRepository
	accounts  ports.UserService
	hasher    ports.PasswordHasher
	tokens    ports.TokenIssuer
	log       zerolog.Logger
	dummyHash string
}

func NewAuthService(
	users ports.UserRepository,
	accounts ports.UserService,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	log zerolog.Logger,
) *AuthService {
	dummy, err := hasher.Hash(timingPassword)
	if err != nil {
		log.Warn().Err(err).Msg("could not prepare timing hash")
	}
	return &AuthService{
		users:     users,
		accounts:  accounts,
		hasher:    hasher,
		tokens:    tokens,
		log:       log,
		dummyHash: dummy,
	}
}

func (s *AuthService) Register(ctx context.Context, input ports.CreateUserInput) (*ports.UserView, error) {
	return s.accounts.Create(ctx, input)
}

// Login returns an access token. An unknown email and a wrong password
// both yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return "", domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.hasher.Compare(s.dummyHash, password)
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Compare(user.PasswordHash, password) {
		s.log.Debug().Str("user_id", user.ID).Msg("password mismatch")
		return "", domain.ErrInvalidCredentials
	}

	return s.issueFor(user)
}

// Refresh verifies token and issues a new one carrying the subject's
// current roles. The subject is re-read from the store, so deleted
// accounts cannot refresh.
func (s *AuthService) Refresh(ctx context.Context, token string) (string, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return "", err
	}

	user, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(claims.Email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrPrincipalNotFound
		}
		return "", fmt.Errorf("refresh: %w", err)
	}
	// Same email, different account: the original subject is gone.
	if user.ID != claims.Subject {
		return "", domain.ErrPrincipalNotFound
	}

	return s.issueFor(user)
}

func (s *AuthService) issueFor(user *domain.User) (string, error) {
	token, err := s.tokens.Issue(domain.Claims{
		Subject: user.ID,
		Email:   user.Email,
		Roles:   domain.RoleNames(user.Roles),
	})
	if err != nil {
		return "", err
	}
	s.log.Info().Str("user_id", user.ID).Msg("token issued")
	return token, nil
}
