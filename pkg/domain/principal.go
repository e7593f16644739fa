package domain

import dErrors "classdesk/pkg/domain-errors"

// Principal is a verified actor making a request: user, role, tenant.
// The identity layer produces it; the core only trusts it. Immutable for the
// lifetime of a request.
type Principal struct {
	UserID   UserID   `json:"user_id"`
	Role     Role     `json:"role"`
	TenantID TenantID `json:"tenant_id"`
}

// Validate enforces the principal invariants before any scope logic runs.
//
// Errors: CodeValidation when the role is unrecognized or tenant/user is
// missing. A request with an invalid principal never reaches a store.
func (p Principal) Validate() error {
	if p.UserID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "principal user id is missing")
	}
	if !p.Role.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "principal role is unrecognized")
	}
	if p.TenantID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "principal tenant id is missing")
	}
	return nil
}

func (p Principal) IsZero() bool {
	return p.UserID.IsNil() && p.Role == "" && p.TenantID.IsNil()
}
