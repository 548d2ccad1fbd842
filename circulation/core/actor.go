package core

import (
	"fmt"
)

// Role is the role of the caller, supplied by the external identity provider.
type Role string

const (
	RoleMember Role = "member"
	RoleStaff  Role = "staff"
	RoleSystem Role = "system"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   string
	Role Role
}

// ParseRole converts a role string into a Role.
func ParseRole(role string) (Role, error) {
	switch r := Role(role); r {
	case RoleMember, RoleStaff, RoleSystem:
		return r, nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}
}

// IsStaff is true for staff and for the scheduler acting as system.
func (a Actor) IsStaff() bool {
	return a.Role == RoleStaff || a.Role == RoleSystem
}

// MayActFor is true if the actor is staff or is the member itself.
func (a Actor) MayActFor(memberID MemberIDString) bool {
	if a.IsStaff() {
		return true
	}

	return a.Role == RoleMember && a.ID != "" && a.ID == memberID
}
