package domain

import dErrors "classdesk/pkg/domain-errors"

// Role is the closed set of dashboard roles. Scope resolution and payload
// shape both branch exhaustively on it.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
	RoleParent  Role = "parent"
)

var validRoles = map[Role]bool{
	RoleAdmin:   true,
	RoleTeacher: true,
	RoleStudent: true,
	RoleParent:  true,
}

// ParseRole constructs a Role from external input (JWT claims, requests).
//
// Errors: CodeInvalidInput when the value is empty or not a known role.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "role cannot be empty")
	}
	r := Role(s)
	if !r.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown role")
	}
	return r, nil
}

// IsValid checks the role against the supported set.
func (r Role) IsValid() bool {
	return validRoles[r]
}

func (r Role) String() string {
	return string(r)
}
