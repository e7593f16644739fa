// Package store is the record store adapter: a queryable, consistent source
// of academic records. Queries are tenant-restricted and return id-ordered
// sequences; authorization narrowing is the access filter's job, not ours.
package store

import (
	"context"

	"github.com/google/uuid"

	"classdesk/internal/records/models"
	"classdesk/pkg/domain"
)

// Store is the read/write surface over academic records.
type Store interface {
	PutAnnouncement(ctx context.Context, a models.Announcement) error
	PutTimetableEntry(ctx context.Context, e models.TimetableEntry) error
	PutAssessment(ctx context.Context, a models.Assessment) error
	PutGrade(ctx context.Context, g models.Grade) error
	PutAttendance(ctx context.Context, r models.AttendanceRecord) error

	// List* return every record in the tenant, ordered by id (grades and
	// attendance by their composite keys).
	ListAnnouncements(ctx context.Context, tenantID domain.TenantID) ([]models.Announcement, error)
	ListTimetable(ctx context.Context, tenantID domain.TenantID) ([]models.TimetableEntry, error)
	ListAssessments(ctx context.Context, tenantID domain.TenantID) ([]models.Assessment, error)
	ListGrades(ctx context.Context, tenantID domain.TenantID) ([]models.Grade, error)
	ListAttendance(ctx context.Context, tenantID domain.TenantID) ([]models.AttendanceRecord, error)

	// Get* are direct lookups. They return sentinel.ErrNotFound for unknown
	// ids; tenant and scope checks happen in the access filter.
	GetAnnouncement(ctx context.Context, tenantID domain.TenantID, id uuid.UUID) (models.Announcement, error)
	GetTimetableEntry(ctx context.Context, tenantID domain.TenantID, id uuid.UUID) (models.TimetableEntry, error)
	GetAssessment(ctx context.Context, tenantID domain.TenantID, id uuid.UUID) (models.Assessment, error)
}
