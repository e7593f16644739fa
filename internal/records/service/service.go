// Package service is the write path for records and relationship rows. Every
// accepted write bumps the tenant data version, which invalidates all cached
// dashboards for the tenant, and emits a lifecycle event.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	dirmodels "classdesk/internal/directory/models"
	"classdesk/internal/events"
	recmodels "classdesk/internal/records/models"
	"classdesk/internal/records/version"
	"classdesk/pkg/domain"
	dErrors "classdesk/pkg/domain-errors"
	"classdesk/pkg/platform/sentinel"
	"classdesk/pkg/requestcontext"
)

// RecordWriter is the slice of the record store the write path needs.
type RecordWriter interface {
	PutAnnouncement(ctx context.Context, a recmodels.Announcement) error
	PutTimetableEntry(ctx context.Context, e recmodels.TimetableEntry) error
	PutAssessment(ctx context.Context, a recmodels.Assessment) error
	PutGrade(ctx context.Context, g recmodels.Grade) error
	PutAttendance(ctx context.Context, r recmodels.AttendanceRecord) error
}

// DirectoryWriter is the slice of the directory store the write path needs.
type DirectoryWriter interface {
	AddEnrollment(ctx context.Context, e dirmodels.Enrollment) error
	AddGuardianship(ctx context.Context, g dirmodels.Guardianship) error
	AddClassAssignment(ctx context.Context, a dirmodels.ClassAssignment) error
}

// Service accepts validated writes. Only admins write through it; records
// arrive from the school's administrative flows, not from dashboards.
type Service struct {
	records   RecordWriter
	directory DirectoryWriter
	versions  version.Counter
	publisher events.Publisher
	logger    *slog.Logger
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithPublisher sets the event publisher. Defaults to a noop.
func WithPublisher(publisher events.Publisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

// New constructs the write service.
func New(records RecordWriter, directory DirectoryWriter, versions version.Counter, opts ...Option) *Service {
	s := &Service{
		records:   records,
		directory: directory,
		versions:  versions,
		publisher: events.Noop{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PutAnnouncement validates and stores an announcement.
func (s *Service) PutAnnouncement(ctx context.Context, principal domain.Principal, a recmodels.Announcement) error {
	if err := s.requireAdmin(principal, a.TenantID); err != nil {
		return err
	}
	if err := a.Validate(); err != nil {
		return err
	}
	if err := s.records.PutAnnouncement(ctx, a); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to store announcement")
	}
	return s.afterWrite(ctx, a.TenantID, events.TypeRecordWritten, "announcement", a.ID)
}

// PutTimetableEntry validates and stores a timetable entry. Conflicting
// entries are accepted; detection reports them, it does not reject them.
func (s *Service) PutTimetableEntry(ctx context.Context, principal domain.Principal, e recmodels.TimetableEntry) error {
	if err := s.requireAdmin(principal, e.TenantID); err != nil {
		return err
	}
	if err := e.Validate(); err != nil {
		return err
	}
	if err := s.records.PutTimetableEntry(ctx, e); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to store timetable entry")
	}
	return s.afterWrite(ctx, e.TenantID, events.TypeRecordWritten, "timetable_entry", e.ID)
}

// PutAssessment validates and stores an assessment.
func (s *Service) PutAssessment(ctx context.Context, principal domain.Principal, a recmodels.Assessment) error {
	if err := s.requireAdmin(principal, a.TenantID); err != nil {
		return err
	}
	if err := a.Validate(); err != nil {
		return err
	}
	if err := s.records.PutAssessment(ctx, a); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to store assessment")
	}
	return s.afterWrite(ctx, a.TenantID, events.TypeRecordWritten, "assessment", a.ID)
}

// PutGrade validates and stores a grade.
func (s *Service) PutGrade(ctx context.Context, principal domain.Principal, g recmodels.Grade) error {
	if err := s.requireAdmin(principal, g.TenantID); err != nil {
		return err
	}
	if err := g.Validate(); err != nil {
		return err
	}
	if err := s.records.PutGrade(ctx, g); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to store grade")
	}
	return s.afterWrite(ctx, g.TenantID, events.TypeRecordWritten, "grade", g.AssessmentID)
}

// PutAttendance validates and stores an attendance record.
func (s *Service) PutAttendance(ctx context.Context, principal domain.Principal, r recmodels.AttendanceRecord) error {
	if err := s.requireAdmin(principal, r.TenantID); err != nil {
		return err
	}
	if err := r.Validate(); err != nil {
		return err
	}
	if err := s.records.PutAttendance(ctx, r); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to store attendance record")
	}
	return s.afterWrite(ctx, r.TenantID, events.TypeRecordWritten, "attendance_record", uuid.UUID(r.StudentID))
}

// AddEnrollment validates and stores an enrollment row.
func (s *Service) AddEnrollment(ctx context.Context, principal domain.Principal, e dirmodels.Enrollment) error {
	if err := s.requireAdmin(principal, e.TenantID); err != nil {
		return err
	}
	if err := e.Validate(); err != nil {
		return err
	}
	if err := s.directory.AddEnrollment(ctx, e); err != nil {
		return s.wrapRelationshipErr(err, "enrollment already exists", "failed to store enrollment")
	}
	return s.afterWrite(ctx, e.TenantID, events.TypeRelationshipChanged, "enrollment", uuid.UUID(e.StudentID))
}

// AddGuardianship validates and stores a guardianship row.
func (s *Service) AddGuardianship(ctx context.Context, principal domain.Principal, g dirmodels.Guardianship) error {
	if err := s.requireAdmin(principal, g.TenantID); err != nil {
		return err
	}
	if err := g.Validate(); err != nil {
		return err
	}
	if err := s.directory.AddGuardianship(ctx, g); err != nil {
		return s.wrapRelationshipErr(err, "guardianship already exists", "failed to store guardianship")
	}
	return s.afterWrite(ctx, g.TenantID, events.TypeRelationshipChanged, "guardianship", uuid.UUID(g.StudentID))
}

// AddClassAssignment validates and stores a class assignment row.
func (s *Service) AddClassAssignment(ctx context.Context, principal domain.Principal, a dirmodels.ClassAssignment) error {
	if err := s.requireAdmin(principal, a.TenantID); err != nil {
		return err
	}
	if err := a.Validate(); err != nil {
		return err
	}
	if err := s.directory.AddClassAssignment(ctx, a); err != nil {
		return s.wrapRelationshipErr(err, "class assignment already exists", "failed to store class assignment")
	}
	return s.afterWrite(ctx, a.TenantID, events.TypeRelationshipChanged, "class_assignment", uuid.UUID(a.ClassID))
}

// requireAdmin gates the write path: only an admin of the row's tenant may
// write.
func (s *Service) requireAdmin(principal domain.Principal, tenantID domain.TenantID) error {
	if err := principal.Validate(); err != nil {
		return err
	}
	if principal.Role != domain.RoleAdmin {
		return dErrors.New(dErrors.CodeForbidden, "only admins may write records")
	}
	if principal.TenantID != tenantID {
		return dErrors.New(dErrors.CodeForbidden, "record tenant does not match principal tenant")
	}
	return nil
}

func (s *Service) wrapRelationshipErr(err error, conflictMsg, storeMsg string) error {
	if errors.Is(err, sentinel.ErrConflict) {
		return dErrors.New(dErrors.CodeConflict, conflictMsg)
	}
	return dErrors.Wrap(err, dErrors.CodeUnavailable, storeMsg)
}

// afterWrite bumps the tenant version and emits the lifecycle event. The bump
// must succeed for cached dashboards to notice the write, so its failure fails
// the call; the stored row stands and every Put/Add is an upsert, so the
// caller can retry the whole write. No event is emitted for an unversioned
// write.
func (s *Service) afterWrite(ctx context.Context, tenantID domain.TenantID, eventType events.Type, entityType string, entityID uuid.UUID) error {
	dataVersion, err := s.versions.Bump(ctx, tenantID)
	if err != nil {
		s.logger.ErrorContext(ctx, "data version bump failed",
			"tenant_id", tenantID,
			"entity_type", entityType,
			"error", err,
		)
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "record stored but data version bump failed, retry the write")
	}

	event := events.Event{
		Type:        eventType,
		TenantID:    tenantID,
		EntityType:  entityType,
		EntityID:    entityID,
		DataVersion: dataVersion,
		OccurredAt:  requestcontext.Now(ctx),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "event publish failed",
			"tenant_id", tenantID,
			"event_type", eventType,
			"error", err,
		)
	}
	return nil
}
