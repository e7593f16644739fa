package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"classdesk/internal/conflict"
	"classdesk/internal/conflict/findings"
	"classdesk/internal/dashboard"
	"classdesk/internal/dashboard/cache"
	"classdesk/internal/dashboard/metrics"
	dirmodels "classdesk/internal/directory/models"
	"classdesk/internal/directory/scope"
	recmodels "classdesk/internal/records/models"
	"classdesk/pkg/domain"
	dErrors "classdesk/pkg/domain-errors"
	"classdesk/pkg/requestcontext"
)

// ScopeResolver derives a principal's visibility set.
type ScopeResolver interface {
	Resolve(ctx context.Context, principal domain.Principal) (scope.Set, error)
}

// RecordFilter is the scope-narrowed read surface over records.
type RecordFilter interface {
	Announcements(ctx context.Context, principal domain.Principal, s scope.Set) ([]recmodels.Announcement, error)
	Timetable(ctx context.Context, principal domain.Principal, s scope.Set) ([]recmodels.TimetableEntry, error)
	Assessments(ctx context.Context, principal domain.Principal, s scope.Set) ([]recmodels.Assessment, error)
	Grades(ctx context.Context, principal domain.Principal, s scope.Set) ([]recmodels.Grade, error)
	Attendance(ctx context.Context, principal domain.Principal, s scope.Set) ([]recmodels.AttendanceRecord, error)

	AnnouncementByID(ctx context.Context, principal domain.Principal, s scope.Set, id uuid.UUID) (recmodels.Announcement, error)
	TimetableEntryByID(ctx context.Context, principal domain.Principal, s scope.Set, id uuid.UUID) (recmodels.TimetableEntry, error)
	AssessmentByID(ctx context.Context, principal domain.Principal, s scope.Set, id uuid.UUID) (recmodels.Assessment, error)
}

// Directory is the slice of the relationship store the composer needs beyond
// scope resolution.
type Directory interface {
	ListEnrollmentsByClasses(ctx context.Context, tenantID domain.TenantID, classIDs []domain.ClassID) ([]dirmodels.Enrollment, error)
	ListEnrollmentsByStudent(ctx context.Context, tenantID domain.TenantID, studentID domain.StudentID) ([]dirmodels.Enrollment, error)
	CountTeachers(ctx context.Context, tenantID domain.TenantID) (int, error)
}

// VersionReader exposes the tenant data version the cache keys on.
type VersionReader interface {
	Current(ctx context.Context, tenantID domain.TenantID) (uint64, error)
}

// FindingStore persists conflicts flagged during detection.
type FindingStore interface {
	Upsert(ctx context.Context, fs []findings.Finding) error
	ListByTenant(ctx context.Context, tenantID domain.TenantID) ([]findings.Finding, error)
}

// Service orchestrates dashboard reads: resolve scope, filter records, detect
// conflicts, compose, and cache the result under the tenant data version.
type Service struct {
	scopes    ScopeResolver
	filter    RecordFilter
	directory Directory
	versions  VersionReader
	cache     cache.Cache
	findings  FindingStore
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithFindingStore enables conflict write-back. Without it detection still
// runs, findings are just not persisted.
func WithFindingStore(store FindingStore) Option {
	return func(s *Service) {
		s.findings = store
	}
}

// New constructs a Service.
func New(scopes ScopeResolver, filter RecordFilter, directory Directory, versions VersionReader, payloadCache cache.Cache, opts ...Option) *Service {
	s := &Service{
		scopes:    scopes,
		filter:    filter,
		directory: directory,
		versions:  versions,
		cache:     payloadCache,
		logger:    slog.Default(),
		tracer:    otel.Tracer("classdesk/dashboard"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetDashboard returns the principal's dashboard at the tenant's current data
// version, from cache when a payload for that exact version exists.
func (s *Service) GetDashboard(ctx context.Context, principal domain.Principal) (dashboard.Payload, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.Get", trace.WithAttributes(
		attribute.String("tenant_id", principal.TenantID.String()),
		attribute.String("role", string(principal.Role)),
	))
	defer span.End()

	if err := principal.Validate(); err != nil {
		return dashboard.Payload{}, err
	}

	dataVersion, err := s.versions.Current(ctx, principal.TenantID)
	if err != nil {
		return dashboard.Payload{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to read tenant data version")
	}

	key := cache.Key{UserID: principal.UserID, Role: principal.Role, DataVersion: dataVersion}
	if payload, ok := s.cacheGet(ctx, principal.TenantID, key); ok {
		span.SetAttributes(attribute.Bool("cache_hit", true))
		s.incrementCacheHit()
		return payload, nil
	}
	s.incrementCacheMiss()

	start := time.Now()
	payload, err := s.compose(ctx, principal, dataVersion)
	if err != nil {
		return dashboard.Payload{}, err
	}
	s.observeCompose(start)

	s.cachePut(ctx, principal.TenantID, key, payload)
	return payload, nil
}

// compose runs the uncached path: scope, filtered records, conflict
// detection, role extras, and the pure composition itself.
func (s *Service) compose(ctx context.Context, principal domain.Principal, dataVersion uint64) (dashboard.Payload, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.Compose")
	defer span.End()

	visible, err := s.scopes.Resolve(ctx, principal)
	if err != nil {
		return dashboard.Payload{}, err
	}

	records, err := s.filterRecords(ctx, principal, visible)
	if err != nil {
		return dashboard.Payload{}, err
	}

	report := conflict.Detect(records.Timetable, records.Assessments)
	s.flagConflicts(ctx, principal.TenantID, report)

	in := dashboard.Input{
		Principal:   principal,
		Scope:       visible,
		Records:     records,
		Conflicts:   report,
		DataVersion: dataVersion,
		Now:         requestcontext.Now(ctx),
	}
	if err := s.loadRoleExtras(ctx, principal, visible, &in); err != nil {
		return dashboard.Payload{}, err
	}

	payload, err := dashboard.Compose(in)
	if err != nil {
		s.logger.ErrorContext(ctx, "dashboard composition failed",
			"error", err,
			"tenant_id", principal.TenantID,
			"user_id", principal.UserID,
			"request_id", requestcontext.RequestID(ctx))
		return dashboard.Payload{}, err
	}
	return payload, nil
}

// filterRecords fans the five record queries out concurrently; the filter is
// read-only and each query is independent.
func (s *Service) filterRecords(ctx context.Context, principal domain.Principal, visible scope.Set) (dashboard.Records, error) {
	var records dashboard.Records
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		records.Announcements, err = s.filter.Announcements(gctx, principal, visible)
		return err
	})
	g.Go(func() (err error) {
		records.Timetable, err = s.filter.Timetable(gctx, principal, visible)
		return err
	})
	g.Go(func() (err error) {
		records.Assessments, err = s.filter.Assessments(gctx, principal, visible)
		return err
	})
	g.Go(func() (err error) {
		records.Grades, err = s.filter.Grades(gctx, principal, visible)
		return err
	})
	g.Go(func() (err error) {
		records.Attendance, err = s.filter.Attendance(gctx, principal, visible)
		return err
	})
	if err := g.Wait(); err != nil {
		return dashboard.Records{}, err
	}
	return records, nil
}

// loadRoleExtras fills the directory-derived fields only the principal's role
// needs.
func (s *Service) loadRoleExtras(ctx context.Context, principal domain.Principal, visible scope.Set, in *dashboard.Input) error {
	switch principal.Role {
	case domain.RoleAdmin:
		count, err := s.directory.CountTeachers(ctx, principal.TenantID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to count teachers")
		}
		in.TeacherCount = count

	case domain.RoleTeacher:
		enrollments, err := s.directory.ListEnrollmentsByClasses(ctx, principal.TenantID, visible.ClassIDs())
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to load class rosters")
		}
		sizes := make(map[domain.ClassID]int, visible.ClassCount())
		for _, e := range enrollments {
			sizes[e.ClassID]++
		}
		in.RosterSizes = sizes

	case domain.RoleParent:
		children := make(map[domain.StudentID][]domain.ClassID, visible.StudentCount())
		for _, studentID := range visible.StudentIDs() {
			enrollments, err := s.directory.ListEnrollmentsByStudent(ctx, principal.TenantID, studentID)
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to load child enrollments")
			}
			classIDs := make([]domain.ClassID, 0, len(enrollments))
			for _, e := range enrollments {
				classIDs = append(classIDs, e.ClassID)
			}
			children[studentID] = classIDs
		}
		in.ChildClasses = children
	}
	return nil
}

// flagConflicts persists detected conflicts as findings. Best effort: a
// write-back failure is logged and never fails the read path. Only an
// unrestricted scope sees the whole tenant, so only then is the flagged set
// authoritative; partial scopes still upsert what they saw, finding ids are
// deterministic so repeats coalesce.
func (s *Service) flagConflicts(ctx context.Context, tenantID domain.TenantID, report conflict.Report) {
	if s.findings == nil || report.Count() == 0 {
		return
	}
	fs := findings.FromReport(tenantID, report, requestcontext.Now(ctx))
	if err := s.findings.Upsert(ctx, fs); err != nil {
		s.logger.WarnContext(ctx, "conflict write-back failed",
			"error", err,
			"tenant_id", tenantID,
			"findings", len(fs))
		return
	}
	s.addConflictsFlagged(len(fs))
}

// ListConflicts runs detection over the records the principal may see.
// Students and parents have no conflict surface.
func (s *Service) ListConflicts(ctx context.Context, principal domain.Principal) (conflict.Report, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.ListConflicts")
	defer span.End()

	if err := principal.Validate(); err != nil {
		return conflict.Report{}, err
	}
	if principal.Role != domain.RoleAdmin && principal.Role != domain.RoleTeacher {
		return conflict.Report{}, dErrors.New(dErrors.CodeForbidden, "role has no conflict view")
	}

	visible, err := s.scopes.Resolve(ctx, principal)
	if err != nil {
		return conflict.Report{}, err
	}
	entries, err := s.filter.Timetable(ctx, principal, visible)
	if err != nil {
		return conflict.Report{}, err
	}
	assessments, err := s.filter.Assessments(ctx, principal, visible)
	if err != nil {
		return conflict.Report{}, err
	}

	report := conflict.Detect(entries, assessments)
	s.flagConflicts(ctx, principal.TenantID, report)
	return report, nil
}

// ListFindings returns the persisted flagged conflicts for the tenant.
// Admin only.
func (s *Service) ListFindings(ctx context.Context, principal domain.Principal) ([]findings.Finding, error) {
	if err := principal.Validate(); err != nil {
		return nil, err
	}
	if principal.Role != domain.RoleAdmin {
		return nil, dErrors.New(dErrors.CodeForbidden, "role has no findings view")
	}
	if s.findings == nil {
		return []findings.Finding{}, nil
	}
	fs, err := s.findings.ListByTenant(ctx, principal.TenantID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list findings")
	}
	return fs, nil
}

// GetAnnouncement is the direct-lookup path for one announcement.
func (s *Service) GetAnnouncement(ctx context.Context, principal domain.Principal, id uuid.UUID) (recmodels.Announcement, error) {
	if err := principal.Validate(); err != nil {
		return recmodels.Announcement{}, err
	}
	visible, err := s.scopes.Resolve(ctx, principal)
	if err != nil {
		return recmodels.Announcement{}, err
	}
	return s.filter.AnnouncementByID(ctx, principal, visible, id)
}

// GetTimetableEntry is the direct-lookup path for one timetable entry.
func (s *Service) GetTimetableEntry(ctx context.Context, principal domain.Principal, id uuid.UUID) (recmodels.TimetableEntry, error) {
	if err := principal.Validate(); err != nil {
		return recmodels.TimetableEntry{}, err
	}
	visible, err := s.scopes.Resolve(ctx, principal)
	if err != nil {
		return recmodels.TimetableEntry{}, err
	}
	return s.filter.TimetableEntryByID(ctx, principal, visible, id)
}

// GetAssessment is the direct-lookup path for one assessment.
func (s *Service) GetAssessment(ctx context.Context, principal domain.Principal, id uuid.UUID) (recmodels.Assessment, error) {
	if err := principal.Validate(); err != nil {
		return recmodels.Assessment{}, err
	}
	visible, err := s.scopes.Resolve(ctx, principal)
	if err != nil {
		return recmodels.Assessment{}, err
	}
	return s.filter.AssessmentByID(ctx, principal, visible, id)
}

// cacheGet treats any cache failure as a miss.
func (s *Service) cacheGet(ctx context.Context, tenantID domain.TenantID, key cache.Key) (dashboard.Payload, bool) {
	payload, ok, err := s.cache.Get(ctx, tenantID, key)
	if err != nil {
		s.logger.WarnContext(ctx, "dashboard cache read failed",
			"error", err,
			"tenant_id", tenantID,
			"cache_key", key.String())
		return dashboard.Payload{}, false
	}
	return payload, ok
}

// cachePut is best effort; a failed write just means the next read recomputes.
func (s *Service) cachePut(ctx context.Context, tenantID domain.TenantID, key cache.Key, payload dashboard.Payload) {
	if err := s.cache.Put(ctx, tenantID, key, payload); err != nil {
		s.logger.WarnContext(ctx, "dashboard cache write failed",
			"error", err,
			"tenant_id", tenantID,
			"cache_key", key.String())
	}
}

func (s *Service) incrementCacheHit() {
	if s.metrics != nil {
		s.metrics.IncrementCacheHit()
	}
}

func (s *Service) incrementCacheMiss() {
	if s.metrics != nil {
		s.metrics.IncrementCacheMiss()
	}
}

func (s *Service) observeCompose(start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveCompose(start)
	}
}

func (s *Service) addConflictsFlagged(n int) {
	if s.metrics != nil {
		s.metrics.AddConflictsFlagged(n)
	}
}
