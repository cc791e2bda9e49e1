package domain

import (
	"strings"
	"time"
)

// User models an account holder. PasswordHash never leaves the service
// layer; transport code builds its own response type without it.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Roles        []Role    `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserPatch carries the optional fields of a partial update. Nil means
// "leave unchanged".
type UserPatch struct {
	Email        *string
	PasswordHash *string
	Roles        []Role
}

// IsEmpty reports whether the patch would change nothing.
func (p UserPatch) IsEmpty() bool {
	return p.Email == nil && p.PasswordHash == nil && p.Roles == nil
}

// NormalizeEmail applies the account email policy: surrounding whitespace
// is dropped and the address is compared case-insensitively, so it is
// stored and looked up in lower case.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
