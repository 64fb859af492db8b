package entity

// RoleName is the closed set of roles a user can hold.
type RoleName string

const (
	RoleAdmin RoleName = "ROLE_ADMIN"
	RoleUser  RoleName = "ROLE_USER"
)

// AllRoleNames lists every known role, in seeding order.
func AllRoleNames() []RoleName {
	return []RoleName{RoleAdmin, RoleUser}
}

// Role is a named permission set stored once per RoleName.
type Role struct {
	ID   uint
	Name RoleName
}

// Authority returns the authority string the role grants.
// It is the role name itself.
func (n RoleName) Authority() string {
	return string(n)
}

// ParseRoleName maps an authority string back to a known RoleName.
func ParseRoleName(s string) (RoleName, bool) {
	for _, n := range AllRoleNames() {
		if string(n) == s {
			return n, true
		}
	}
	return "", false
}

// HasAnyRole reports whether granted contains at least one of required.
// An empty required list is never satisfied.
func HasAnyRole(granted []RoleName, required ...RoleName) bool {
	for _, r := range required {
		for _, g := range granted {
			if g == r {
				return true
			}
		}
	}
	return false
}
