package ports

import "github.com/usergate/userauth/internal/core/domain"

// TokenIssuer signs and verifies access tokens.
type TokenIssuer interface {
	Issue(claims domain.Claims) (string, error)
	// Verify returns domain.ErrInvalidToken for any signature, structure or
	// expiry failure.
	Verify(token string) (domain.Claims, error)
}

// PasswordHasher hashes and compares passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Compare reports whether plaintext matches hash. Malformed hashes
	// compare as false.
	Compare(hash, plaintext string) bool
}
