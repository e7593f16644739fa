// Package models defines the academic records the core derives views over:
// announcements, timetable entries, assessments, grades, and attendance.
// The core reads these and never mutates them; writes flow through the
// surrounding CRUD surface and only bump the tenant data version here.
package models

import (
	"time"

	"github.com/google/uuid"

	"classdesk/pkg/domain"
	dErrors "classdesk/pkg/domain-errors"
)

// MinutesPerDay bounds timetable slot positions.
const MinutesPerDay = 24 * 60

// AnnouncementScope determines who an announcement targets.
type AnnouncementScope string

const (
	// ScopeGlobal targets everyone in the tenant.
	ScopeGlobal AnnouncementScope = "global"
	// ScopeClass targets members of one class.
	ScopeClass AnnouncementScope = "class"
	// ScopeRole targets every principal with a given role.
	ScopeRole AnnouncementScope = "role"
)

// Announcement is a tenant-wide, class-targeted, or role-targeted notice.
// ClassID is set iff Scope == ScopeClass; Role is set iff Scope == ScopeRole.
type Announcement struct {
	ID        uuid.UUID         `json:"id"`
	TenantID  domain.TenantID   `json:"tenant_id"`
	Scope     AnnouncementScope `json:"scope"`
	ClassID   domain.ClassID    `json:"class_id,omitempty"`
	Role      domain.Role       `json:"role,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	Body      string            `json:"body"`
}

// Validate enforces scope/target coherence.
func (a Announcement) Validate() error {
	if a.ID == uuid.Nil || a.TenantID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "announcement ids must be set")
	}
	switch a.Scope {
	case ScopeGlobal:
		if !a.ClassID.IsNil() || a.Role != "" {
			return dErrors.New(dErrors.CodeValidation, "global announcement must not carry a target")
		}
	case ScopeClass:
		if a.ClassID.IsNil() {
			return dErrors.New(dErrors.CodeValidation, "class announcement requires a class id")
		}
	case ScopeRole:
		if !a.Role.IsValid() {
			return dErrors.New(dErrors.CodeValidation, "role announcement requires a valid role")
		}
	default:
		return dErrors.New(dErrors.CodeValidation, "announcement scope is unrecognized")
	}
	return nil
}

// TimetableEntry is one recurring slot in a class's weekly schedule.
//
// Invariant: 0 <= StartMinute < EndMinute < MinutesPerDay.
type TimetableEntry struct {
	ID          uuid.UUID       `json:"id"`
	TenantID    domain.TenantID `json:"tenant_id"`
	ClassID     domain.ClassID  `json:"class_id"`
	DayOfWeek   time.Weekday    `json:"day_of_week"`
	StartMinute int             `json:"start_minute"`
	EndMinute   int             `json:"end_minute"`
	Subject     string          `json:"subject"`
	RoomID      domain.RoomID   `json:"room_id"`
}

func (e TimetableEntry) Validate() error {
	if e.ID == uuid.Nil || e.TenantID.IsNil() || e.ClassID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "timetable entry ids must be set")
	}
	if e.DayOfWeek < time.Sunday || e.DayOfWeek > time.Saturday {
		return dErrors.New(dErrors.CodeValidation, "timetable entry day of week is out of range")
	}
	if e.StartMinute < 0 || e.EndMinute >= MinutesPerDay || e.StartMinute >= e.EndMinute {
		return dErrors.New(dErrors.CodeValidation, "timetable entry slot must satisfy 0 <= start < end < 1440")
	}
	return nil
}

// Overlaps reports whether two entries' [start, end) intervals intersect on
// the same day. Room and class are not considered here.
func (e TimetableEntry) Overlaps(other TimetableEntry) bool {
	if e.DayOfWeek != other.DayOfWeek {
		return false
	}
	return e.StartMinute < other.EndMinute && other.StartMinute < e.EndMinute
}

// Assessment is a graded activity with an open window.
//
// Invariant: WindowStart <= WindowEnd.
type Assessment struct {
	ID          uuid.UUID       `json:"id"`
	TenantID    domain.TenantID `json:"tenant_id"`
	ClassID     domain.ClassID  `json:"class_id"`
	WindowStart time.Time       `json:"window_start"`
	WindowEnd   time.Time       `json:"window_end"`
	Title       string          `json:"title"`
}

func (a Assessment) Validate() error {
	if a.ID == uuid.Nil || a.TenantID.IsNil() || a.ClassID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "assessment ids must be set")
	}
	if a.WindowEnd.Before(a.WindowStart) {
		return dErrors.New(dErrors.CodeValidation, "assessment window start must not be after end")
	}
	return nil
}

// AssessmentStatus is the computed state of an assessment relative to the
// request time.
type AssessmentStatus string

const (
	AssessmentUpcoming AssessmentStatus = "upcoming"
	AssessmentOpen     AssessmentStatus = "open"
	AssessmentClosed   AssessmentStatus = "closed"
)

// StatusAt computes the assessment's status at the given instant. The window
// is inclusive on both ends.
func (a Assessment) StatusAt(now time.Time) AssessmentStatus {
	if now.Before(a.WindowStart) {
		return AssessmentUpcoming
	}
	if now.After(a.WindowEnd) {
		return AssessmentClosed
	}
	return AssessmentOpen
}

// Grade is one student's score on one assessment.
//
// Invariant: 0 <= Score <= MaxScore, MaxScore > 0.
type Grade struct {
	AssessmentID uuid.UUID        `json:"assessment_id"`
	StudentID    domain.StudentID `json:"student_id"`
	TenantID     domain.TenantID  `json:"tenant_id"`
	Score        float64          `json:"score"`
	MaxScore     float64          `json:"max_score"`
}

func (g Grade) Validate() error {
	if g.AssessmentID == uuid.Nil || g.StudentID.IsNil() || g.TenantID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "grade ids must be set")
	}
	if g.MaxScore <= 0 {
		return dErrors.New(dErrors.CodeValidation, "grade max score must be positive")
	}
	if g.Score < 0 || g.Score > g.MaxScore {
		return dErrors.New(dErrors.CodeValidation, "grade score must satisfy 0 <= score <= max score")
	}
	return nil
}

// Fraction returns score/maxScore for averaging.
func (g Grade) Fraction() float64 {
	return g.Score / g.MaxScore
}

// AttendanceStatus is a recorded daily attendance state.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
)

func (s AttendanceStatus) IsValid() bool {
	return s == AttendancePresent || s == AttendanceAbsent || s == AttendanceLate
}

// AttendanceRecord is one student's attendance on one date.
type AttendanceRecord struct {
	StudentID domain.StudentID `json:"student_id"`
	ClassID   domain.ClassID   `json:"class_id"`
	TenantID  domain.TenantID  `json:"tenant_id"`
	Date      time.Time        `json:"date"`
	Status    AttendanceStatus `json:"status"`
}

func (r AttendanceRecord) Validate() error {
	if r.StudentID.IsNil() || r.ClassID.IsNil() || r.TenantID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "attendance record ids must be set")
	}
	if !r.Status.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "attendance status is unrecognized")
	}
	if r.Date.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "attendance date must be set")
	}
	return nil
}
