package domain

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// KnownRoles lists every role value accepted on the wire.
var KnownRoles = []string{RoleAdmin, RoleUser}

// IsKnownRole reports whether name is one of KnownRoles.
func IsKnownRole(name string) bool {
	for _, r := range KnownRoles {
		if r == name {
			return true
		}
	}
	return false
}

// DefaultRoles is assigned when a registration omits roles.
var DefaultRoles = []string{RoleUser}

// Role is a named permission tag. The role store is authoritative for which
// names exist.
type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RoleNames projects role entities onto the plain names carried in tokens
// and responses. Nothing but the name crosses this boundary.
func RoleNames(roles []Role) []string {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
	}
	return names
}

// DedupeRoleNames drops empty and repeated names while keeping order.
func DedupeRoleNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
