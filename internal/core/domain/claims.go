package domain

import "time"

// Claims is the identity snapshot signed into an access token. Roles
// reflect the assignment at issuance time.
type Claims struct {
	Subject   string
	Email     string
	Roles     []string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Principal is the authenticated caller of a request, derived from
// verified claims.
type Principal struct {
	Subject string
	Email   string
	Roles   []string
}

// PrincipalFromClaims builds the request principal for verified claims.
func PrincipalFromClaims(c Claims) Principal {
	return Principal{Subject: c.Subject, Email: c.Email, Roles: c.Roles}
}

// IsAdmin reports whether the principal holds the admin role.
func (p Principal) IsAdmin() bool {
	for _, r := range p.Roles {
		if r == RoleAdmin {
			return true
		}
	}
	return false
}
