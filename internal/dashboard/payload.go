// Package dashboard composes role-shaped dashboard payloads from scoped,
// filtered records. One composer branches on the closed role set instead of
// one view per role; each branch fills its own sub-payload under a uniform
// envelope.
package dashboard

import (
	"time"

	"classdesk/internal/conflict"
	"classdesk/internal/records/models"
	"classdesk/pkg/domain"
)

// Payload is the aggregate dashboard for one principal at one data version.
// Exactly one of the role sub-payloads is set, matching Role.
type Payload struct {
	UserID      domain.UserID   `json:"user_id"`
	Role        domain.Role     `json:"role"`
	TenantID    domain.TenantID `json:"tenant_id"`
	DataVersion uint64          `json:"data_version"`
	GeneratedAt time.Time       `json:"generated_at"`

	// Announcements visible to the principal, newest first, capped.
	Announcements []models.Announcement `json:"announcements"`

	Admin   *AdminPayload   `json:"admin,omitempty"`
	Teacher *TeacherPayload `json:"teacher,omitempty"`
	Student *StudentPayload `json:"student,omitempty"`
	Parent  *ParentPayload  `json:"parent,omitempty"`
}

// MaxAnnouncements caps the announcements carried per dashboard.
const MaxAnnouncements = 5

// AdminPayload carries tenant-wide counts and the full conflict report.
type AdminPayload struct {
	ActiveStudents int             `json:"active_students"`
	ActiveTeachers int             `json:"active_teachers"`
	ClassCount     int             `json:"class_count"`
	OpenConflicts  int             `json:"open_conflicts"`
	Conflicts      conflict.Report `json:"conflicts"`
}

// TeacherPayload covers the teacher's assigned classes.
type TeacherPayload struct {
	Classes            []ClassSummary   `json:"classes"`
	UpcomingTimetable  []UpcomingEntry  `json:"upcoming_timetable"`
	PendingAssessments []AssessmentView `json:"pending_assessments"`
	Conflicts          conflict.Report  `json:"conflicts"`
}

// ClassSummary is one assigned class with its roster size.
type ClassSummary struct {
	ClassID    domain.ClassID `json:"class_id"`
	RosterSize int            `json:"roster_size"`
}

// StudentPayload is one student's own view. Parent dashboards embed one per
// child, shaped identically to what that child would see.
type StudentPayload struct {
	StudentID         domain.StudentID `json:"student_id"`
	UpcomingTimetable []UpcomingEntry  `json:"upcoming_timetable"`
	Assessments       []AssessmentView `json:"assessments"`
	Grades            GradeSummary     `json:"grades"`
	AttendanceRate    float64          `json:"attendance_rate"`
}

// ParentPayload carries one sub-payload per child under guardianship.
type ParentPayload struct {
	Children []StudentPayload `json:"children"`
}

// UpcomingEntry is a timetable entry with its next concrete occurrence
// within the coming week.
type UpcomingEntry struct {
	Entry    models.TimetableEntry `json:"entry"`
	OccursAt time.Time             `json:"occurs_at"`
}

// AssessmentView is an assessment with its status computed at request time.
type AssessmentView struct {
	Assessment models.Assessment       `json:"assessment"`
	Status     models.AssessmentStatus `json:"status"`
}

// GradeSummary aggregates a student's grades. Average is the mean of
// score/maxScore fractions; 0 when the student has no grades yet.
type GradeSummary struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}
