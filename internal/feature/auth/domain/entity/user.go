// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered user in the system.
// It contains authentication credentials and the roles granted to the user.
type User struct {
	// ID is the unique identifier for the user.
	ID uint

	// Username is the login name. It must be unique across all users.
	Username string

	// Password is the bcrypt hash of the user's password.
	// This should never store plaintext passwords.
	Password string

	// Roles are the roles granted to the user. A user has at least one.
	Roles []Role

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time

	// UpdatedAt is the timestamp when the user was last updated.
	UpdatedAt time.Time
}

// RoleNames returns the names of every role granted to the user.
func (u *User) RoleNames() []RoleName {
	names := make([]RoleName, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// Authorities returns the authority strings carried in issued tokens.
func (u *User) Authorities() []string {
	names := u.RoleNames()
	authorities := make([]string, 0, len(names))
	for _, n := range names {
		authorities = append(authorities, n.Authority())
	}
	return authorities
}
