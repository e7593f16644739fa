package dashboard

import (
	"sort"
	"strings"
	"time"

	"classdesk/internal/conflict"
	"classdesk/internal/directory/scope"
	"classdesk/internal/records/models"
	"classdesk/pkg/domain"
	dErrors "classdesk/pkg/domain-errors"
)

// Records bundles the access-filtered record sets feeding one composition.
type Records struct {
	Announcements []models.Announcement
	Timetable     []models.TimetableEntry
	Assessments   []models.Assessment
	Grades        []models.Grade
	Attendance    []models.AttendanceRecord
}

// Input carries everything Compose needs. Composition is pure given an
// Input: no clocks, no stores, no hidden state.
type Input struct {
	Principal domain.Principal
	Scope     scope.Set
	Records   Records
	Conflicts conflict.Report
	// RosterSizes maps each in-scope class to its active enrollment count
	// (teacher dashboards).
	RosterSizes map[domain.ClassID]int
	// ChildClasses maps each child to their enrolled classes (parent
	// dashboards).
	ChildClasses map[domain.StudentID][]domain.ClassID
	// TeacherCount is the tenant's distinct assigned teacher count (admin
	// dashboards).
	TeacherCount int
	DataVersion  uint64
	Now          time.Time
}

// upcomingWindow bounds the timetable lookahead.
const upcomingWindow = 7 * 24 * time.Hour

// Compose builds the role-shaped payload.
//
// Errors: CodeInternal when a filtered record references a class or student
// outside the scope. That is a scope/filter pairing bug, never
// user-triggerable when resolution and filtering are correct.
func Compose(in Input) (Payload, error) {
	if err := in.Principal.Validate(); err != nil {
		return Payload{}, err
	}
	if err := checkScopeInvariant(in); err != nil {
		return Payload{}, err
	}

	p := Payload{
		UserID:        in.Principal.UserID,
		Role:          in.Principal.Role,
		TenantID:      in.Principal.TenantID,
		DataVersion:   in.DataVersion,
		GeneratedAt:   in.Now,
		Announcements: topAnnouncements(in.Records.Announcements),
	}

	switch in.Principal.Role {
	case domain.RoleAdmin:
		p.Admin = composeAdmin(in)
	case domain.RoleTeacher:
		p.Teacher = composeTeacher(in)
	case domain.RoleStudent:
		student := composeStudent(in.Principal.UserID.AsStudent(), classSet(in.Scope.ClassIDs()), in)
		p.Student = &student
	case domain.RoleParent:
		p.Parent = composeParent(in)
	}
	return p, nil
}

// checkScopeInvariant verifies every filtered record sits inside the scope.
// A violation means the filter and resolver disagree.
func checkScopeInvariant(in Input) error {
	if in.Scope.Unrestricted {
		return nil
	}
	for _, e := range in.Records.Timetable {
		if !in.Scope.HasClass(e.ClassID) {
			return dErrors.New(dErrors.CodeInternal, "timetable entry references class outside scope")
		}
	}
	for _, a := range in.Records.Assessments {
		if !in.Scope.HasClass(a.ClassID) {
			return dErrors.New(dErrors.CodeInternal, "assessment references class outside scope")
		}
	}
	for _, g := range in.Records.Grades {
		if !in.Scope.HasStudent(g.StudentID) {
			return dErrors.New(dErrors.CodeInternal, "grade references student outside scope")
		}
	}
	for _, r := range in.Records.Attendance {
		if !in.Scope.HasStudent(r.StudentID) {
			return dErrors.New(dErrors.CodeInternal, "attendance record references student outside scope")
		}
	}
	return nil
}

func composeAdmin(in Input) *AdminPayload {
	return &AdminPayload{
		ActiveStudents: in.Scope.StudentCount(),
		ActiveTeachers: in.TeacherCount,
		ClassCount:     in.Scope.ClassCount(),
		OpenConflicts:  in.Conflicts.Count(),
		Conflicts:      in.Conflicts,
	}
}

func composeTeacher(in Input) *TeacherPayload {
	classes := make([]ClassSummary, 0, in.Scope.ClassCount())
	for _, classID := range in.Scope.ClassIDs() {
		classes = append(classes, ClassSummary{
			ClassID:    classID,
			RosterSize: in.RosterSizes[classID],
		})
	}

	pending := make([]AssessmentView, 0, len(in.Records.Assessments))
	for _, a := range in.Records.Assessments {
		status := a.StatusAt(in.Now)
		if status == models.AssessmentClosed {
			continue
		}
		pending = append(pending, AssessmentView{Assessment: a, Status: status})
	}

	return &TeacherPayload{
		Classes:            classes,
		UpcomingTimetable:  upcoming(in.Records.Timetable, in.Now),
		PendingAssessments: pending,
		Conflicts:          in.Conflicts,
	}
}

// composeStudent builds one student's view restricted to the given classes.
// Shared by the student branch and each parent child sub-payload so both
// shapes stay identical by construction.
func composeStudent(studentID domain.StudentID, classes map[domain.ClassID]struct{}, in Input) StudentPayload {
	var timetable []models.TimetableEntry
	for _, e := range in.Records.Timetable {
		if _, ok := classes[e.ClassID]; ok {
			timetable = append(timetable, e)
		}
	}

	var assessments []AssessmentView
	for _, a := range in.Records.Assessments {
		if _, ok := classes[a.ClassID]; ok {
			assessments = append(assessments, AssessmentView{Assessment: a, Status: a.StatusAt(in.Now)})
		}
	}

	var summary GradeSummary
	var sum float64
	for _, g := range in.Records.Grades {
		if g.StudentID != studentID {
			continue
		}
		summary.Count++
		sum += g.Fraction()
	}
	if summary.Count > 0 {
		summary.Average = sum / float64(summary.Count)
	}

	var present, total int
	for _, r := range in.Records.Attendance {
		if r.StudentID != studentID {
			continue
		}
		total++
		if r.Status == models.AttendancePresent {
			present++
		}
	}
	var rate float64
	if total > 0 {
		rate = float64(present) / float64(total)
	}

	return StudentPayload{
		StudentID:         studentID,
		UpcomingTimetable: upcoming(timetable, in.Now),
		Assessments:       assessments,
		Grades:            summary,
		AttendanceRate:    rate,
	}
}

func composeParent(in Input) *ParentPayload {
	children := make([]StudentPayload, 0, in.Scope.StudentCount())
	for _, studentID := range in.Scope.StudentIDs() {
		children = append(children, composeStudent(studentID, classSet(in.ChildClasses[studentID]), in))
	}
	return &ParentPayload{Children: children}
}

// topAnnouncements orders newest first (ties broken by id) and caps the list.
func topAnnouncements(all []models.Announcement) []models.Announcement {
	out := make([]models.Announcement, len(all))
	copy(out, all)
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return strings.Compare(out[i].ID.String(), out[j].ID.String()) < 0
	})
	if len(out) > MaxAnnouncements {
		out = out[:MaxAnnouncements]
	}
	return out
}

// upcoming projects each weekly entry onto its next occurrence after now
// within the lookahead window, ordered by occurrence then id.
func upcoming(entries []models.TimetableEntry, now time.Time) []UpcomingEntry {
	horizon := now.Add(upcomingWindow)
	out := make([]UpcomingEntry, 0, len(entries))
	for _, e := range entries {
		occurs, ok := nextOccurrence(e, now)
		if ok && !occurs.After(horizon) {
			out = append(out, UpcomingEntry{Entry: e, OccursAt: occurs})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OccursAt.Equal(out[j].OccursAt) {
			return out[i].OccursAt.Before(out[j].OccursAt)
		}
		return strings.Compare(out[i].Entry.ID.String(), out[j].Entry.ID.String()) < 0
	})
	return out
}

// nextOccurrence finds the first start instant of a weekly slot strictly
// after now.
func nextOccurrence(e models.TimetableEntry, now time.Time) (time.Time, bool) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for offset := 0; offset <= 7; offset++ {
		day := midnight.AddDate(0, 0, offset)
		if day.Weekday() != e.DayOfWeek {
			continue
		}
		occurs := day.Add(time.Duration(e.StartMinute) * time.Minute)
		if occurs.After(now) {
			return occurs, true
		}
	}
	return time.Time{}, false
}

func classSet(ids []domain.ClassID) map[domain.ClassID]struct{} {
	out := make(map[domain.ClassID]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}
