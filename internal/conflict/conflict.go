// Package conflict detects structural violations in scoped timetable and
// assessment sets: overlapping class slots, room double-bookings, and
// overlapping assessment windows. Findings are advisory data, never errors,
// and are never auto-resolved.
package conflict

import (
	"time"

	"classdesk/internal/records/models"
	"classdesk/pkg/domain"
)

// Kind classifies a detected conflict.
type Kind string

const (
	// KindClassOverlap: two slots of the same class intersect on one day.
	KindClassOverlap Kind = "class_overlap"
	// KindRoomDoubleBooking: two classes share a room at intersecting times.
	KindRoomDoubleBooking Kind = "room_double_booking"
	// KindAssessmentOverlap: two assessment windows for one class intersect.
	KindAssessmentOverlap Kind = "assessment_overlap"
)

// TimetableConflict reports one overlapping pair. EntryA starts no later
// than EntryB; pairs with equal starts are ordered by id, so a given overlap
// is reported exactly once regardless of input order.
type TimetableConflict struct {
	Kind      Kind                  `json:"kind"`
	ClassID   domain.ClassID        `json:"class_id,omitempty"`
	RoomID    domain.RoomID         `json:"room_id,omitempty"`
	DayOfWeek time.Weekday          `json:"day_of_week"`
	EntryA    models.TimetableEntry `json:"entry_a"`
	EntryB    models.TimetableEntry `json:"entry_b"`
}

// AssessmentConflict reports two overlapping assessment windows for the same
// class. AssessmentA's window starts no later than AssessmentB's.
type AssessmentConflict struct {
	ClassID     domain.ClassID    `json:"class_id"`
	AssessmentA models.Assessment `json:"assessment_a"`
	AssessmentB models.Assessment `json:"assessment_b"`
}

// Report aggregates all conflicts found in one scoped record set.
type Report struct {
	Timetable   []TimetableConflict  `json:"timetable"`
	Assessments []AssessmentConflict `json:"assessments"`
}

// Count returns the total number of conflicts in the report.
func (r Report) Count() int {
	return len(r.Timetable) + len(r.Assessments)
}
