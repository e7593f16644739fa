package findings

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classdesk/internal/conflict"
	"classdesk/internal/records/models"
	"classdesk/pkg/domain"
)

func sampleReport() (conflict.Report, domain.ClassID, domain.RoomID) {
	classID := domain.ClassID(uuid.New())
	roomID := domain.RoomID(uuid.New())
	entryA := models.TimetableEntry{ID: uuid.New(), ClassID: classID, DayOfWeek: time.Monday, StartMinute: 540, EndMinute: 600}
	entryB := models.TimetableEntry{ID: uuid.New(), ClassID: classID, DayOfWeek: time.Monday, StartMinute: 570, EndMinute: 630}
	assessA := models.Assessment{ID: uuid.New(), ClassID: classID}
	assessB := models.Assessment{ID: uuid.New(), ClassID: classID}

	return conflict.Report{
		Timetable: []conflict.TimetableConflict{
			{Kind: conflict.KindClassOverlap, ClassID: classID, DayOfWeek: time.Monday, EntryA: entryA, EntryB: entryB},
			{Kind: conflict.KindRoomDoubleBooking, RoomID: roomID, DayOfWeek: time.Monday, EntryA: entryA, EntryB: entryB},
		},
		Assessments: []conflict.AssessmentConflict{
			{ClassID: classID, AssessmentA: assessA, AssessmentB: assessB},
		},
	}, classID, roomID
}

func TestFromReport(t *testing.T) {
	tenantID := domain.TenantID(uuid.New())
	detectedAt := time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC)
	report, classID, roomID := sampleReport()

	fs := FromReport(tenantID, report, detectedAt)
	require.Len(t, fs, 3)

	byKind := make(map[conflict.Kind]Finding, len(fs))
	for _, f := range fs {
		assert.Equal(t, tenantID, f.TenantID)
		assert.Equal(t, detectedAt, f.DetectedAt)
		assert.NotEqual(t, uuid.Nil, f.ID)
		byKind[f.Kind] = f
	}

	assert.Equal(t, uuid.UUID(classID), byKind[conflict.KindClassOverlap].SubjectID)
	assert.Equal(t, uuid.UUID(roomID), byKind[conflict.KindRoomDoubleBooking].SubjectID,
		"room double-bookings are flagged against the room")
	assert.Equal(t, uuid.UUID(classID), byKind[conflict.KindAssessmentOverlap].SubjectID)
}

func TestFromReport_IDsAreDeterministic(t *testing.T) {
	tenantID := domain.TenantID(uuid.New())
	report, _, _ := sampleReport()

	first := FromReport(tenantID, report, time.Now())
	second := FromReport(tenantID, report, time.Now().Add(time.Hour))

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID, "re-detection must address the same row")
	}
}

func TestInMemory_UpsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()
	tenantID := domain.TenantID(uuid.New())
	report, _, _ := sampleReport()

	first := FromReport(tenantID, report, time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC))
	require.NoError(t, store.Upsert(ctx, first))

	// A later detection of the same conflicts refreshes timestamps without
	// growing the set.
	refreshed := FromReport(tenantID, report, time.Date(2026, time.March, 3, 8, 0, 0, 0, time.UTC))
	require.NoError(t, store.Upsert(ctx, refreshed))

	got, err := store.ListByTenant(ctx, tenantID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for _, f := range got {
		assert.Equal(t, time.Date(2026, time.March, 3, 8, 0, 0, 0, time.UTC), f.DetectedAt)
	}
}

func TestInMemory_ListIsTenantScoped(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()
	tenantA := domain.TenantID(uuid.New())
	tenantB := domain.TenantID(uuid.New())

	reportA, _, _ := sampleReport()
	reportB, _, _ := sampleReport()
	require.NoError(t, store.Upsert(ctx, FromReport(tenantA, reportA, time.Now())))
	require.NoError(t, store.Upsert(ctx, FromReport(tenantB, reportB, time.Now())))

	got, err := store.ListByTenant(ctx, tenantA)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for _, f := range got {
		assert.Equal(t, tenantA, f.TenantID)
	}
}

func TestInMemory_UpsertEmptyIsNoop(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()
	require.NoError(t, store.Upsert(ctx, nil))

	got, err := store.ListByTenant(ctx, domain.TenantID(uuid.New()))
	require.NoError(t, err)
	assert.Empty(t, got)
}
