// Package filter narrows raw record queries to what a principal's scope
// authorizes. Bulk filters never fail on out-of-scope records, they silently
// drop them; direct by-id lookups outside scope fail forbidden.
package filter

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"classdesk/internal/directory/scope"
	"classdesk/internal/records/models"
	"classdesk/internal/records/store"
	"classdesk/pkg/domain"
	dErrors "classdesk/pkg/domain-errors"
	"classdesk/pkg/platform/sentinel"
)

// Filter applies a resolved scope to record store queries. Every query is
// tenant-restricted at the store before any scope logic runs; the filter
// never widens what the store returned.
type Filter struct {
	records store.Store
}

// New constructs a Filter over the record store.
func New(records store.Store) *Filter {
	return &Filter{records: records}
}

// announcementVisible applies the announcement visibility rule: global, or
// class-scoped with the class in scope, or role-scoped matching the
// principal's role. Unrestricted (admin) scope sees everything.
func announcementVisible(a models.Announcement, principal domain.Principal, s scope.Set) bool {
	if s.Unrestricted {
		return true
	}
	switch a.Scope {
	case models.ScopeGlobal:
		return true
	case models.ScopeClass:
		return s.HasClass(a.ClassID)
	case models.ScopeRole:
		return a.Role == principal.Role
	default:
		return false
	}
}

// gradeVisible applies the grade visibility rule: a student sees only their
// own record; teachers and parents see grades of students in scope.
func gradeVisible(g models.Grade, principal domain.Principal, s scope.Set) bool {
	if principal.Role == domain.RoleStudent {
		return g.StudentID == principal.UserID.AsStudent()
	}
	return s.HasStudent(g.StudentID)
}

// Announcements returns the announcements the principal may see.
func (f *Filter) Announcements(ctx context.Context, principal domain.Principal, s scope.Set) ([]models.Announcement, error) {
	all, err := f.records.ListAnnouncements(ctx, principal.TenantID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list announcements")
	}
	out := make([]models.Announcement, 0, len(all))
	for _, a := range all {
		if announcementVisible(a, principal, s) {
			out = append(out, a)
		}
	}
	return out, nil
}

// Timetable returns the timetable entries for classes in scope.
func (f *Filter) Timetable(ctx context.Context, principal domain.Principal, s scope.Set) ([]models.TimetableEntry, error) {
	all, err := f.records.ListTimetable(ctx, principal.TenantID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list timetable entries")
	}
	out := make([]models.TimetableEntry, 0, len(all))
	for _, e := range all {
		if s.HasClass(e.ClassID) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Assessments returns the assessments for classes in scope.
func (f *Filter) Assessments(ctx context.Context, principal domain.Principal, s scope.Set) ([]models.Assessment, error) {
	all, err := f.records.ListAssessments(ctx, principal.TenantID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list assessments")
	}
	out := make([]models.Assessment, 0, len(all))
	for _, a := range all {
		if s.HasClass(a.ClassID) {
			out = append(out, a)
		}
	}
	return out, nil
}

// Grades returns the grades the principal may see.
func (f *Filter) Grades(ctx context.Context, principal domain.Principal, s scope.Set) ([]models.Grade, error) {
	all, err := f.records.ListGrades(ctx, principal.TenantID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list grades")
	}
	out := make([]models.Grade, 0, len(all))
	for _, g := range all {
		if gradeVisible(g, principal, s) {
			out = append(out, g)
		}
	}
	return out, nil
}

// Attendance returns attendance records for students in scope.
func (f *Filter) Attendance(ctx context.Context, principal domain.Principal, s scope.Set) ([]models.AttendanceRecord, error) {
	all, err := f.records.ListAttendance(ctx, principal.TenantID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list attendance records")
	}
	out := make([]models.AttendanceRecord, 0, len(all))
	for _, r := range all {
		if principal.Role == domain.RoleStudent {
			if r.StudentID == principal.UserID.AsStudent() {
				out = append(out, r)
			}
			continue
		}
		if s.HasStudent(r.StudentID) {
			out = append(out, r)
		}
	}
	return out, nil
}

// AnnouncementByID is the direct-lookup path. Unlike the bulk filters it
// fails: not_found for unknown or cross-tenant ids, forbidden for records the
// scope does not authorize.
func (f *Filter) AnnouncementByID(ctx context.Context, principal domain.Principal, s scope.Set, id uuid.UUID) (models.Announcement, error) {
	a, err := f.records.GetAnnouncement(ctx, principal.TenantID, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Announcement{}, dErrors.New(dErrors.CodeNotFound, "announcement not found")
		}
		return models.Announcement{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to load announcement")
	}
	if !announcementVisible(a, principal, s) {
		return models.Announcement{}, dErrors.New(dErrors.CodeForbidden, "announcement outside authorized scope")
	}
	return a, nil
}

// TimetableEntryByID is the direct-lookup path for timetable entries.
func (f *Filter) TimetableEntryByID(ctx context.Context, principal domain.Principal, s scope.Set, id uuid.UUID) (models.TimetableEntry, error) {
	e, err := f.records.GetTimetableEntry(ctx, principal.TenantID, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.TimetableEntry{}, dErrors.New(dErrors.CodeNotFound, "timetable entry not found")
		}
		return models.TimetableEntry{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to load timetable entry")
	}
	if !s.HasClass(e.ClassID) {
		return models.TimetableEntry{}, dErrors.New(dErrors.CodeForbidden, "timetable entry outside authorized scope")
	}
	return e, nil
}

// AssessmentByID is the direct-lookup path for assessments.
func (f *Filter) AssessmentByID(ctx context.Context, principal domain.Principal, s scope.Set, id uuid.UUID) (models.Assessment, error) {
	a, err := f.records.GetAssessment(ctx, principal.TenantID, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Assessment{}, dErrors.New(dErrors.CodeNotFound, "assessment not found")
		}
		return models.Assessment{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to load assessment")
	}
	if !s.HasClass(a.ClassID) {
		return models.Assessment{}, dErrors.New(dErrors.CodeForbidden, "assessment outside authorized scope")
	}
	return a, nil
}
