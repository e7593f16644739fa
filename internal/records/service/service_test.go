package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dirmodels "classdesk/internal/directory/models"
	dirstore "classdesk/internal/directory/store"
	"classdesk/internal/events"
	recmodels "classdesk/internal/records/models"
	recstore "classdesk/internal/records/store"
	"classdesk/internal/records/version"
	"classdesk/pkg/domain"
	dErrors "classdesk/pkg/domain-errors"
)

// capturingPublisher records published events for assertions.
type capturingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *capturingPublisher) Publish(ctx context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *capturingPublisher) Close() {}

func (p *capturingPublisher) published() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

type writeEnv struct {
	tenantID  domain.TenantID
	admin     domain.Principal
	records   *recstore.InMemory
	directory *dirstore.InMemory
	versions  *version.InMemory
	publisher *capturingPublisher
	service   *Service
}

func newWriteEnv() *writeEnv {
	tenantID := domain.TenantID(uuid.New())
	e := &writeEnv{
		tenantID:  tenantID,
		admin:     domain.Principal{UserID: domain.UserID(uuid.New()), Role: domain.RoleAdmin, TenantID: tenantID},
		records:   recstore.NewInMemory(),
		directory: dirstore.NewInMemory(),
		versions:  version.NewInMemory(),
		publisher: &capturingPublisher{},
	}
	e.service = New(e.records, e.directory, e.versions, WithPublisher(e.publisher))
	return e
}

func (e *writeEnv) announcement() recmodels.Announcement {
	return recmodels.Announcement{
		ID:        uuid.New(),
		TenantID:  e.tenantID,
		Scope:     recmodels.ScopeGlobal,
		CreatedAt: time.Now().UTC(),
		Body:      "sports day moved to friday",
	}
}

func TestPutAnnouncement(t *testing.T) {
	e := newWriteEnv()
	ctx := context.Background()
	a := e.announcement()

	require.NoError(t, e.service.PutAnnouncement(ctx, e.admin, a))

	got, err := e.records.GetAnnouncement(ctx, e.tenantID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Body, got.Body)

	v, err := e.versions.Current(ctx, e.tenantID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v, "every accepted write bumps the tenant version")

	published := e.publisher.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.TypeRecordWritten, published[0].Type)
	assert.Equal(t, "announcement", published[0].EntityType)
	assert.Equal(t, a.ID, published[0].EntityID)
	assert.Equal(t, uint64(1), published[0].DataVersion)
}

func TestWriteGate(t *testing.T) {
	e := newWriteEnv()
	ctx := context.Background()

	tests := []struct {
		name      string
		principal domain.Principal
		wantCode  dErrors.Code
	}{
		{
			"teacher refused",
			domain.Principal{UserID: domain.UserID(uuid.New()), Role: domain.RoleTeacher, TenantID: e.tenantID},
			dErrors.CodeForbidden,
		},
		{
			"admin of another tenant refused",
			domain.Principal{UserID: domain.UserID(uuid.New()), Role: domain.RoleAdmin, TenantID: domain.TenantID(uuid.New())},
			dErrors.CodeForbidden,
		},
		{
			"zero principal rejected",
			domain.Principal{},
			dErrors.CodeValidation,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := e.service.PutAnnouncement(ctx, tc.principal, e.announcement())
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, tc.wantCode))
		})
	}

	v, err := e.versions.Current(ctx, e.tenantID)
	require.NoError(t, err)
	assert.Zero(t, v, "refused writes must not move the version")
	assert.Empty(t, e.publisher.published())
}

func TestPutTimetableEntry_AcceptsConflictingSlots(t *testing.T) {
	e := newWriteEnv()
	ctx := context.Background()
	classID := domain.ClassID(uuid.New())

	first := recmodels.TimetableEntry{
		ID: uuid.New(), TenantID: e.tenantID, ClassID: classID,
		DayOfWeek: time.Monday, StartMinute: 540, EndMinute: 600, Subject: "maths",
	}
	overlapping := recmodels.TimetableEntry{
		ID: uuid.New(), TenantID: e.tenantID, ClassID: classID,
		DayOfWeek: time.Monday, StartMinute: 570, EndMinute: 630, Subject: "maths",
	}

	// Overlaps are flagged by detection, never rejected at write time.
	require.NoError(t, e.service.PutTimetableEntry(ctx, e.admin, first))
	require.NoError(t, e.service.PutTimetableEntry(ctx, e.admin, overlapping))

	all, err := e.records.ListTimetable(ctx, e.tenantID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestPutTimetableEntry_RejectsInvalidSlot(t *testing.T) {
	e := newWriteEnv()
	err := e.service.PutTimetableEntry(context.Background(), e.admin, recmodels.TimetableEntry{
		ID: uuid.New(), TenantID: e.tenantID, ClassID: domain.ClassID(uuid.New()),
		DayOfWeek: time.Monday, StartMinute: 600, EndMinute: 600,
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestAddEnrollment(t *testing.T) {
	e := newWriteEnv()
	ctx := context.Background()
	enrollment := dirmodels.Enrollment{
		StudentID: domain.StudentID(uuid.New()),
		ClassID:   domain.ClassID(uuid.New()),
		TenantID:  e.tenantID,
		Status:    dirmodels.EnrollmentActive,
	}

	require.NoError(t, e.service.AddEnrollment(ctx, e.admin, enrollment))

	published := e.publisher.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.TypeRelationshipChanged, published[0].Type)

	// The same row again is a conflict, not an availability failure.
	err := e.service.AddEnrollment(ctx, e.admin, enrollment)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))

	v, err := e.versions.Current(ctx, e.tenantID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)
}

func TestAddGuardianship_Duplicate(t *testing.T) {
	e := newWriteEnv()
	ctx := context.Background()
	g := dirmodels.Guardianship{
		ParentID:  domain.UserID(uuid.New()),
		StudentID: domain.StudentID(uuid.New()),
		TenantID:  e.tenantID,
	}

	require.NoError(t, e.service.AddGuardianship(ctx, e.admin, g))
	err := e.service.AddGuardianship(ctx, e.admin, g)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestVersionBumpsAccumulateAcrossWriteKinds(t *testing.T) {
	e := newWriteEnv()
	ctx := context.Background()

	require.NoError(t, e.service.PutAnnouncement(ctx, e.admin, e.announcement()))
	require.NoError(t, e.service.PutGrade(ctx, e.admin, recmodels.Grade{
		AssessmentID: uuid.New(), StudentID: domain.StudentID(uuid.New()),
		TenantID: e.tenantID, Score: 5, MaxScore: 10,
	}))
	require.NoError(t, e.service.AddClassAssignment(ctx, e.admin, dirmodels.ClassAssignment{
		TeacherID: domain.UserID(uuid.New()), ClassID: domain.ClassID(uuid.New()), TenantID: e.tenantID,
	}))

	v, err := e.versions.Current(ctx, e.tenantID)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), v)
	assert.Len(t, e.publisher.published(), 3)
}

// failingCounter fails every bump; the write path never reads.
type failingCounter struct {
	version.Counter
}

func (failingCounter) Bump(ctx context.Context, tenantID domain.TenantID) (uint64, error) {
	return 0, errors.New("counter down")
}

func TestPutAnnouncement_BumpFailureFailsTheWrite(t *testing.T) {
	e := newWriteEnv()
	e.service = New(e.records, e.directory, failingCounter{}, WithPublisher(e.publisher))
	ctx := context.Background()
	a := e.announcement()

	err := e.service.PutAnnouncement(ctx, e.admin, a)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable),
		"an unbumped write must not report success, cached dashboards would keep serving the old version")

	// The upsert stands, so retrying the identical write is safe.
	got, err := e.records.GetAnnouncement(ctx, e.tenantID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Body, got.Body)

	// No event may carry a version the counter never issued.
	assert.Empty(t, e.publisher.published())
}
