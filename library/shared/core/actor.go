package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownRole is returned by ParseRole for role claims outside the known set.
var ErrUnknownRole = errors.New("unknown role")

// Role is the role claim of an authenticated user.
type Role string

const (
	RoleMember    Role = "Member"
	RoleLibrarian Role = "Librarian"
	RoleAdmin     Role = "Admin"
)

// ParseRole maps a role claim to a Role, ignoring case.
func ParseRole(claim string) (Role, error) {
	for _, role := range []Role{RoleMember, RoleLibrarian, RoleAdmin} {
		if strings.EqualFold(strings.TrimSpace(claim), string(role)) {
			return role, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownRole, claim)
}

// Actor is the authenticated caller of a command or query.
// It is always passed explicitly, never looked up from ambient state.
type Actor struct {
	UserID   string
	Role     Role
	FullName string
	Email    string
}

// BuildActor creates an Actor without profile data.
func BuildActor(userID string, role Role) Actor {
	return Actor{UserID: userID, Role: role}
}

// CanBorrow reports whether the actor may request loans and list its own records.
func (a Actor) CanBorrow() bool {
	return a.UserID != "" && a.Role == RoleMember
}

// CanManageLoans reports whether the actor may approve and return records and list all of them.
// Admins pass every librarian gate.
func (a Actor) CanManageLoans() bool {
	return a.UserID != "" && (a.Role == RoleLibrarian || a.Role == RoleAdmin)
}

// CanManageCatalog reports whether the actor may add books to the catalog.
func (a Actor) CanManageCatalog() bool {
	return a.CanManageLoans()
}
