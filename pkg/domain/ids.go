package domain

import (
	"github.com/google/uuid"

	dErrors "classdesk/pkg/domain-errors"
)

// Typed IDs prevent cross-entity assignment at compile time. A ClassID can
// never be passed where a StudentID is expected, which matters in the scope
// resolution path where both flow side by side.
type (
	// UserID identifies an authenticated account (any role).
	UserID uuid.UUID

	// TenantID identifies a school. Every record carries one; cross-tenant
	// reads are denied unconditionally.
	TenantID uuid.UUID

	// ClassID identifies a class within a tenant.
	ClassID uuid.UUID

	// StudentID identifies a student. For a Student principal it is the
	// same UUID as the UserID; the distinct type keeps scope sets honest.
	StudentID uuid.UUID

	// RoomID identifies a physical room used by timetable entries.
	RoomID uuid.UUID
)

func (id UserID) String() string    { return uuid.UUID(id).String() }
func (id TenantID) String() string  { return uuid.UUID(id).String() }
func (id ClassID) String() string   { return uuid.UUID(id).String() }
func (id StudentID) String() string { return uuid.UUID(id).String() }
func (id RoomID) String() string    { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id TenantID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id ClassID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id StudentID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id RoomID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

// Text marshaling keeps typed ids as canonical uuid strings in JSON and map
// keys. Defined types do not inherit uuid.UUID's methods.
func (id UserID) MarshalText() ([]byte, error)    { return uuid.UUID(id).MarshalText() }
func (id TenantID) MarshalText() ([]byte, error)  { return uuid.UUID(id).MarshalText() }
func (id ClassID) MarshalText() ([]byte, error)   { return uuid.UUID(id).MarshalText() }
func (id StudentID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id RoomID) MarshalText() ([]byte, error)    { return uuid.UUID(id).MarshalText() }

func (id *UserID) UnmarshalText(b []byte) error    { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *TenantID) UnmarshalText(b []byte) error  { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *ClassID) UnmarshalText(b []byte) error   { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *StudentID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *RoomID) UnmarshalText(b []byte) error    { return (*uuid.UUID)(id).UnmarshalText(b) }

// AsStudent reinterprets a user id as a student id. Only meaningful for
// principals whose role is Student; callers own that check.
func (id UserID) AsStudent() StudentID { return StudentID(id) }

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id is not a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be the nil UUID")
	}
	return u, nil
}

// ParseUserID validates external input into a UserID.
// Call at trust boundaries; direct casting bypasses validation.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return UserID{}, err
	}
	return UserID(u), nil
}

// ParseTenantID validates external input into a TenantID.
func ParseTenantID(s string) (TenantID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return TenantID{}, err
	}
	return TenantID(u), nil
}

// ParseClassID validates external input into a ClassID.
func ParseClassID(s string) (ClassID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return ClassID{}, err
	}
	return ClassID(u), nil
}

// ParseStudentID validates external input into a StudentID.
func ParseStudentID(s string) (StudentID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return StudentID{}, err
	}
	return StudentID(u), nil
}
