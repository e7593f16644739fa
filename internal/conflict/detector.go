package conflict

import (
	"sort"
	"strings"
	"time"

	"classdesk/internal/records/models"
	"classdesk/pkg/domain"
)

// Detect runs both detectors over an access-filtered record set. Passing an
// admin's unrestricted subset yields tenant-wide analysis with the same code
// path.
func Detect(entries []models.TimetableEntry, assessments []models.Assessment) Report {
	return Report{
		Timetable:   DetectTimetable(entries),
		Assessments: DetectAssessments(assessments),
	}
}

// DetectTimetable finds same-class overlapping slots and cross-class room
// double-bookings.
//
// Entries are grouped by (day, class) and by (day, room), each group sorted
// by (startMinute, id), then swept over adjacent pairs: entries[i] conflicts
// with entries[i+1] iff entries[i].EndMinute > entries[i+1].StartMinute.
// One pass per group, deterministic output order, each pair reported once.
func DetectTimetable(entries []models.TimetableEntry) []TimetableConflict {
	var out []TimetableConflict

	type classKey struct {
		day     time.Weekday
		classID domain.ClassID
	}
	byClass := make(map[classKey][]models.TimetableEntry)
	for _, e := range entries {
		k := classKey{e.DayOfWeek, e.ClassID}
		byClass[k] = append(byClass[k], e)
	}
	for _, group := range byClass {
		sortSlots(group)
		for i := 0; i+1 < len(group); i++ {
			if group[i].EndMinute > group[i+1].StartMinute {
				out = append(out, TimetableConflict{
					Kind:      KindClassOverlap,
					ClassID:   group[i].ClassID,
					DayOfWeek: group[i].DayOfWeek,
					EntryA:    group[i],
					EntryB:    group[i+1],
				})
			}
		}
	}

	type roomKey struct {
		day    time.Weekday
		roomID domain.RoomID
	}
	byRoom := make(map[roomKey][]models.TimetableEntry)
	for _, e := range entries {
		if e.RoomID.IsNil() {
			continue
		}
		k := roomKey{e.DayOfWeek, e.RoomID}
		byRoom[k] = append(byRoom[k], e)
	}
	for _, group := range byRoom {
		sortSlots(group)
		for i := 0; i+1 < len(group); i++ {
			// Same-class pairs in one room are already class overlaps.
			if group[i].ClassID == group[i+1].ClassID {
				continue
			}
			if group[i].EndMinute > group[i+1].StartMinute {
				out = append(out, TimetableConflict{
					Kind:      KindRoomDoubleBooking,
					RoomID:    group[i].RoomID,
					DayOfWeek: group[i].DayOfWeek,
					EntryA:    group[i],
					EntryB:    group[i+1],
				})
			}
		}
	}

	sortTimetableConflicts(out)
	return out
}

// DetectAssessments finds overlapping assessment windows within each class.
// Windows are inclusive on both ends, so back-to-back windows sharing an
// instant conflict.
func DetectAssessments(assessments []models.Assessment) []AssessmentConflict {
	byClass := make(map[domain.ClassID][]models.Assessment)
	for _, a := range assessments {
		byClass[a.ClassID] = append(byClass[a.ClassID], a)
	}

	var out []AssessmentConflict
	for classID, group := range byClass {
		sort.Slice(group, func(i, j int) bool {
			if !group[i].WindowStart.Equal(group[j].WindowStart) {
				return group[i].WindowStart.Before(group[j].WindowStart)
			}
			return strings.Compare(group[i].ID.String(), group[j].ID.String()) < 0
		})
		for i := 0; i+1 < len(group); i++ {
			if !group[i].WindowEnd.Before(group[i+1].WindowStart) {
				out = append(out, AssessmentConflict{
					ClassID:     classID,
					AssessmentA: group[i],
					AssessmentB: group[i+1],
				})
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if c := strings.Compare(out[i].AssessmentA.ID.String(), out[j].AssessmentA.ID.String()); c != 0 {
			return c < 0
		}
		return strings.Compare(out[i].AssessmentB.ID.String(), out[j].AssessmentB.ID.String()) < 0
	})
	return out
}

// sortSlots orders a group by (startMinute, id) for the adjacent-pair sweep.
func sortSlots(group []models.TimetableEntry) {
	sort.Slice(group, func(i, j int) bool {
		if group[i].StartMinute != group[j].StartMinute {
			return group[i].StartMinute < group[j].StartMinute
		}
		return strings.Compare(group[i].ID.String(), group[j].ID.String()) < 0
	})
}

// sortTimetableConflicts orders the report deterministically across groups.
func sortTimetableConflicts(out []TimetableConflict) {
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		if out[i].DayOfWeek != out[j].DayOfWeek {
			return out[i].DayOfWeek < out[j].DayOfWeek
		}
		if c := strings.Compare(out[i].EntryA.ID.String(), out[j].EntryA.ID.String()); c != 0 {
			return c < 0
		}
		return strings.Compare(out[i].EntryB.ID.String(), out[j].EntryB.ID.String()) < 0
	})
}
