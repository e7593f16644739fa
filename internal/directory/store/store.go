// Package store persists the scoping graph: enrollments, guardianships, and
// class assignments. An in-memory implementation serves development and unit
// tests; the postgres implementation is production.
package store

import (
	"context"

	"classdesk/internal/directory/models"
	"classdesk/pkg/domain"
)

// Store is the read/write surface over relationship rows. Every query is
// tenant-restricted; there is deliberately no cross-tenant listing.
type Store interface {
	AddEnrollment(ctx context.Context, e models.Enrollment) error
	AddGuardianship(ctx context.Context, g models.Guardianship) error
	AddClassAssignment(ctx context.Context, a models.ClassAssignment) error

	// ListEnrollmentsByStudent returns the student's active enrollments.
	ListEnrollmentsByStudent(ctx context.Context, tenantID domain.TenantID, studentID domain.StudentID) ([]models.Enrollment, error)
	// ListEnrollmentsByClasses returns active enrollments for the given classes.
	ListEnrollmentsByClasses(ctx context.Context, tenantID domain.TenantID, classIDs []domain.ClassID) ([]models.Enrollment, error)
	// ListAssignmentsByTeacher returns the teacher's class assignments.
	ListAssignmentsByTeacher(ctx context.Context, tenantID domain.TenantID, teacherID domain.UserID) ([]models.ClassAssignment, error)
	// ListGuardianshipsByParent returns the parent's guardianship rows.
	ListGuardianshipsByParent(ctx context.Context, tenantID domain.TenantID, parentID domain.UserID) ([]models.Guardianship, error)

	// ListClassIDs returns every class id in the tenant (admin scope).
	ListClassIDs(ctx context.Context, tenantID domain.TenantID) ([]domain.ClassID, error)
	// ListStudentIDs returns every actively enrolled student id in the tenant.
	ListStudentIDs(ctx context.Context, tenantID domain.TenantID) ([]domain.StudentID, error)
	// CountTeachers returns the number of distinct assigned teachers.
	CountTeachers(ctx context.Context, tenantID domain.TenantID) (int, error)
}
