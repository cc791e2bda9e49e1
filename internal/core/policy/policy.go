// Package policy holds the request-time access decision. Every route falls
// into one of three tiers: public (no authentication at all), authenticated
// (any verified principal) or role-restricted (principal must hold at least
// one of the listed roles).
package policy

import "strings"

// Tier classifies how a route is protected.
type Tier int

const (
	// TierAuthenticated is the zero value so that an unannotated route
	// always requires a verified principal.
	TierAuthenticated Tier = iota
	TierPublic
	TierRoles
)

func (t Tier) String() string {
	switch t {
	case TierPublic:
		return "public"
	case TierRoles:
		return "roles"
	default:
		return "authenticated"
	}
}

// Access is the protection attached to a single route.
type Access struct {
	Tier  Tier
	Roles []string
}

// Public marks a route that bypasses authentication entirely.
func Public() Access { return Access{Tier: TierPublic} }

// Authenticated marks a route open to any verified principal.
func Authenticated() Access { return Access{Tier: TierAuthenticated} }

// RequireRoles marks a route open to principals holding any of roles.
// Called with no roles it degrades to Authenticated.
func RequireRoles(roles ...string) Access {
	if len(roles) == 0 {
		return Authenticated()
	}
	return Access{Tier: TierRoles, Roles: roles}
}

// IsPublic reports whether authentication is skipped.
func (a Access) IsPublic() bool { return a.Tier == TierPublic }

func (a Access) String() string {
	if a.Tier == TierRoles {
		return "roles:" + strings.Join(a.Roles, ",")
	}
	return a.Tier.String()
}

// Authorize decides whether a principal holding principalRoles may use a
// route that requires requiredRoles. An empty requirement always passes;
// otherwise holding any one required role is enough.
func Authorize(principalRoles, requiredRoles []string) bool {
	if len(requiredRoles) == 0 {
		return true
	}
	held := make(map[string]struct{}, len(principalRoles))
	for _, r := range principalRoles {
		held[r] = struct{}{}
	}
	for _, r := range requiredRoles {
		if _, ok := held[r]; ok {
			return true
		}
	}
	return false
}

// Allows applies Authorize to the route's required roles. Public and
// authenticated routes carry no role requirement.
func (a Access) Allows(principalRoles []string) bool {
	if a.Tier != TierRoles {
		return true
	}
	return Authorize(principalRoles, a.Roles)
}
