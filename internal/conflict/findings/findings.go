// Package findings persists detected conflicts as flagged records. This is
// the only derived write the core performs; findings are advisory and never
// block reads.
package findings

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"classdesk/internal/conflict"
	"classdesk/pkg/domain"
)

// Finding is one persisted conflict flag. The id is derived from the kind
// and the conflicting pair, so re-detecting the same conflict upserts the
// same row instead of accumulating duplicates.
type Finding struct {
	ID         uuid.UUID       `json:"id"`
	TenantID   domain.TenantID `json:"tenant_id"`
	Kind       conflict.Kind   `json:"kind"`
	SubjectID  uuid.UUID       `json:"subject_id"` // conflicting class or room
	DayOfWeek  time.Weekday    `json:"day_of_week,omitempty"`
	RecordA    uuid.UUID       `json:"record_a"`
	RecordB    uuid.UUID       `json:"record_b"`
	DetectedAt time.Time       `json:"detected_at"`
}

func findingID(kind conflict.Kind, a, b uuid.UUID) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, fmt.Appendf(nil, "%s:%s:%s", kind, a, b))
}

// FromReport flattens a conflict report into findings for one tenant.
func FromReport(tenantID domain.TenantID, report conflict.Report, detectedAt time.Time) []Finding {
	out := make([]Finding, 0, report.Count())
	for _, c := range report.Timetable {
		subject := uuid.UUID(c.ClassID)
		if c.Kind == conflict.KindRoomDoubleBooking {
			subject = uuid.UUID(c.RoomID)
		}
		out = append(out, Finding{
			ID:         findingID(c.Kind, c.EntryA.ID, c.EntryB.ID),
			TenantID:   tenantID,
			Kind:       c.Kind,
			SubjectID:  subject,
			DayOfWeek:  c.DayOfWeek,
			RecordA:    c.EntryA.ID,
			RecordB:    c.EntryB.ID,
			DetectedAt: detectedAt,
		})
	}
	for _, c := range report.Assessments {
		out = append(out, Finding{
			ID:         findingID(conflict.KindAssessmentOverlap, c.AssessmentA.ID, c.AssessmentB.ID),
			TenantID:   tenantID,
			Kind:       conflict.KindAssessmentOverlap,
			SubjectID:  uuid.UUID(c.ClassID),
			RecordA:    c.AssessmentA.ID,
			RecordB:    c.AssessmentB.ID,
			DetectedAt: detectedAt,
		})
	}
	return out
}
