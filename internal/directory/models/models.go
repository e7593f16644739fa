// Package models defines the relationship rows the scope resolver traverses.
// The core only reads these; creation and mutation belong to the surrounding
// CRUD surface.
package models

import (
	"classdesk/pkg/domain"
	dErrors "classdesk/pkg/domain-errors"
)

// EnrollmentStatus is the lifecycle state of a student/class link.
type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentWithdrawn EnrollmentStatus = "withdrawn"
)

func (s EnrollmentStatus) IsValid() bool {
	return s == EnrollmentActive || s == EnrollmentWithdrawn
}

// Enrollment links a student to a class. Many-to-many: a student may be in
// several classes, a class holds many students.
type Enrollment struct {
	StudentID domain.StudentID `json:"student_id"`
	ClassID   domain.ClassID   `json:"class_id"`
	TenantID  domain.TenantID  `json:"tenant_id"`
	Status    EnrollmentStatus `json:"status"`
}

// Validate enforces row invariants before the store accepts it.
func (e Enrollment) Validate() error {
	if e.StudentID.IsNil() || e.ClassID.IsNil() || e.TenantID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "enrollment ids must be set")
	}
	if !e.Status.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "enrollment status is unrecognized")
	}
	return nil
}

// Guardianship links a parent to a student. Many-to-many: a parent may have
// multiple children and a student multiple guardians.
type Guardianship struct {
	ParentID  domain.UserID    `json:"parent_id"`
	StudentID domain.StudentID `json:"student_id"`
	TenantID  domain.TenantID  `json:"tenant_id"`
}

func (g Guardianship) Validate() error {
	if g.ParentID.IsNil() || g.StudentID.IsNil() || g.TenantID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "guardianship ids must be set")
	}
	return nil
}

// ClassAssignment links a teacher to a class. Many-to-many to allow
// co-teaching.
type ClassAssignment struct {
	TeacherID domain.UserID   `json:"teacher_id"`
	ClassID   domain.ClassID  `json:"class_id"`
	TenantID  domain.TenantID `json:"tenant_id"`
}

func (a ClassAssignment) Validate() error {
	if a.TeacherID.IsNil() || a.ClassID.IsNil() || a.TenantID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "class assignment ids must be set")
	}
	return nil
}
