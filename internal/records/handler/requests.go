package handler

import (
	"time"

	"github.com/google/uuid"

	dirmodels "classdesk/internal/directory/models"
	recmodels "classdesk/internal/records/models"
	"classdesk/pkg/domain"
	dErrors "classdesk/pkg/domain-errors"
)

// Request DTOs parse external string ids into typed ids at the boundary.
// Records are keyed by server-generated ids unless the client supplies one,
// which makes re-sent writes upserts.

type announcementRequest struct {
	ID      string `json:"id,omitempty"`
	Scope   string `json:"scope"`
	ClassID string `json:"class_id,omitempty"`
	Role    string `json:"role,omitempty"`
	Body    string `json:"body"`
}

func (req announcementRequest) toModel(tenantID domain.TenantID, now time.Time) (recmodels.Announcement, error) {
	id, err := optionalID(req.ID)
	if err != nil {
		return recmodels.Announcement{}, err
	}
	a := recmodels.Announcement{
		ID:        id,
		TenantID:  tenantID,
		Scope:     recmodels.AnnouncementScope(req.Scope),
		CreatedAt: now,
		Body:      req.Body,
	}
	if req.ClassID != "" {
		if a.ClassID, err = domain.ParseClassID(req.ClassID); err != nil {
			return recmodels.Announcement{}, err
		}
	}
	if req.Role != "" {
		if a.Role, err = domain.ParseRole(req.Role); err != nil {
			return recmodels.Announcement{}, err
		}
	}
	return a, nil
}

type timetableEntryRequest struct {
	ID          string `json:"id,omitempty"`
	ClassID     string `json:"class_id"`
	DayOfWeek   int    `json:"day_of_week"`
	StartMinute int    `json:"start_minute"`
	EndMinute   int    `json:"end_minute"`
	Subject     string `json:"subject"`
	RoomID      string `json:"room_id,omitempty"`
}

func (req timetableEntryRequest) toModel(tenantID domain.TenantID) (recmodels.TimetableEntry, error) {
	id, err := optionalID(req.ID)
	if err != nil {
		return recmodels.TimetableEntry{}, err
	}
	classID, err := domain.ParseClassID(req.ClassID)
	if err != nil {
		return recmodels.TimetableEntry{}, err
	}
	if req.DayOfWeek < int(time.Sunday) || req.DayOfWeek > int(time.Saturday) {
		return recmodels.TimetableEntry{}, dErrors.New(dErrors.CodeInvalidInput, "day_of_week must be 0 through 6")
	}
	e := recmodels.TimetableEntry{
		ID:          id,
		TenantID:    tenantID,
		ClassID:     classID,
		DayOfWeek:   time.Weekday(req.DayOfWeek),
		StartMinute: req.StartMinute,
		EndMinute:   req.EndMinute,
		Subject:     req.Subject,
	}
	if req.RoomID != "" {
		roomUUID, err := uuid.Parse(req.RoomID)
		if err != nil {
			return recmodels.TimetableEntry{}, dErrors.New(dErrors.CodeInvalidInput, "room_id is not a valid UUID")
		}
		e.RoomID = domain.RoomID(roomUUID)
	}
	return e, nil
}

type assessmentRequest struct {
	ID          string    `json:"id,omitempty"`
	ClassID     string    `json:"class_id"`
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`
	Title       string    `json:"title"`
}

func (req assessmentRequest) toModel(tenantID domain.TenantID) (recmodels.Assessment, error) {
	id, err := optionalID(req.ID)
	if err != nil {
		return recmodels.Assessment{}, err
	}
	classID, err := domain.ParseClassID(req.ClassID)
	if err != nil {
		return recmodels.Assessment{}, err
	}
	return recmodels.Assessment{
		ID:          id,
		TenantID:    tenantID,
		ClassID:     classID,
		WindowStart: req.WindowStart,
		WindowEnd:   req.WindowEnd,
		Title:       req.Title,
	}, nil
}

type gradeRequest struct {
	AssessmentID string  `json:"assessment_id"`
	StudentID    string  `json:"student_id"`
	Score        float64 `json:"score"`
	MaxScore     float64 `json:"max_score"`
}

func (req gradeRequest) toModel(tenantID domain.TenantID) (recmodels.Grade, error) {
	assessmentID, err := uuid.Parse(req.AssessmentID)
	if err != nil {
		return recmodels.Grade{}, dErrors.New(dErrors.CodeInvalidInput, "assessment_id is not a valid UUID")
	}
	studentID, err := domain.ParseStudentID(req.StudentID)
	if err != nil {
		return recmodels.Grade{}, err
	}
	return recmodels.Grade{
		AssessmentID: assessmentID,
		StudentID:    studentID,
		TenantID:     tenantID,
		Score:        req.Score,
		MaxScore:     req.MaxScore,
	}, nil
}

type attendanceRequest struct {
	StudentID string    `json:"student_id"`
	ClassID   string    `json:"class_id"`
	Date      time.Time `json:"date"`
	Status    string    `json:"status"`
}

func (req attendanceRequest) toModel(tenantID domain.TenantID) (recmodels.AttendanceRecord, error) {
	studentID, err := domain.ParseStudentID(req.StudentID)
	if err != nil {
		return recmodels.AttendanceRecord{}, err
	}
	classID, err := domain.ParseClassID(req.ClassID)
	if err != nil {
		return recmodels.AttendanceRecord{}, err
	}
	return recmodels.AttendanceRecord{
		StudentID: studentID,
		ClassID:   classID,
		TenantID:  tenantID,
		Date:      req.Date,
		Status:    recmodels.AttendanceStatus(req.Status),
	}, nil
}

type enrollmentRequest struct {
	StudentID string `json:"student_id"`
	ClassID   string `json:"class_id"`
	Status    string `json:"status"`
}

func (req enrollmentRequest) toModel(tenantID domain.TenantID) (dirmodels.Enrollment, error) {
	studentID, err := domain.ParseStudentID(req.StudentID)
	if err != nil {
		return dirmodels.Enrollment{}, err
	}
	classID, err := domain.ParseClassID(req.ClassID)
	if err != nil {
		return dirmodels.Enrollment{}, err
	}
	status := dirmodels.EnrollmentStatus(req.Status)
	if req.Status == "" {
		status = dirmodels.EnrollmentActive
	}
	return dirmodels.Enrollment{
		StudentID: studentID,
		ClassID:   classID,
		TenantID:  tenantID,
		Status:    status,
	}, nil
}

type guardianshipRequest struct {
	ParentID  string `json:"parent_id"`
	StudentID string `json:"student_id"`
}

func (req guardianshipRequest) toModel(tenantID domain.TenantID) (dirmodels.Guardianship, error) {
	parentID, err := domain.ParseUserID(req.ParentID)
	if err != nil {
		return dirmodels.Guardianship{}, err
	}
	studentID, err := domain.ParseStudentID(req.StudentID)
	if err != nil {
		return dirmodels.Guardianship{}, err
	}
	return dirmodels.Guardianship{
		ParentID:  parentID,
		StudentID: studentID,
		TenantID:  tenantID,
	}, nil
}

type classAssignmentRequest struct {
	TeacherID string `json:"teacher_id"`
	ClassID   string `json:"class_id"`
}

func (req classAssignmentRequest) toModel(tenantID domain.TenantID) (dirmodels.ClassAssignment, error) {
	teacherID, err := domain.ParseUserID(req.TeacherID)
	if err != nil {
		return dirmodels.ClassAssignment{}, err
	}
	classID, err := domain.ParseClassID(req.ClassID)
	if err != nil {
		return dirmodels.ClassAssignment{}, err
	}
	return dirmodels.ClassAssignment{
		TeacherID: teacherID,
		ClassID:   classID,
		TenantID:  tenantID,
	}, nil
}

// optionalID parses a client-supplied record id, generating one when absent.
func optionalID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.New(), nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id is not a valid UUID")
	}
	return id, nil
}
