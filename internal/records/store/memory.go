package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"classdesk/internal/records/models"
	"classdesk/pkg/domain"
	"classdesk/pkg/platform/sentinel"
)

// InMemory implements Store with mutex-guarded maps. Puts are upserts, which
// mirrors the outer CRUD surface replacing rows in place.
type InMemory struct {
	mu            sync.RWMutex
	announcements map[uuid.UUID]models.Announcement
	timetable     map[uuid.UUID]models.TimetableEntry
	assessments   map[uuid.UUID]models.Assessment
	grades        map[gradeKey]models.Grade
	attendance    map[attendanceKey]models.AttendanceRecord
}

type gradeKey struct {
	assessmentID uuid.UUID
	studentID    domain.StudentID
}

type attendanceKey struct {
	studentID domain.StudentID
	date      string // yyyy-mm-dd
}

// NewInMemory creates an empty in-memory record store.
func NewInMemory() *InMemory {
	return &InMemory{
		announcements: make(map[uuid.UUID]models.Announcement),
		timetable:     make(map[uuid.UUID]models.TimetableEntry),
		assessments:   make(map[uuid.UUID]models.Assessment),
		grades:        make(map[gradeKey]models.Grade),
		attendance:    make(map[attendanceKey]models.AttendanceRecord),
	}
}

func (s *InMemory) PutAnnouncement(ctx context.Context, a models.Announcement) error {
	if err := a.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.announcements[a.ID] = a
	return nil
}

func (s *InMemory) PutTimetableEntry(ctx context.Context, e models.TimetableEntry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timetable[e.ID] = e
	return nil
}

func (s *InMemory) PutAssessment(ctx context.Context, a models.Assessment) error {
	if err := a.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assessments[a.ID] = a
	return nil
}

func (s *InMemory) PutGrade(ctx context.Context, g models.Grade) error {
	if err := g.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grades[gradeKey{g.AssessmentID, g.StudentID}] = g
	return nil
}

func (s *InMemory) PutAttendance(ctx context.Context, r models.AttendanceRecord) error {
	if err := r.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attendance[attendanceKey{r.StudentID, r.Date.Format("2006-01-02")}] = r
	return nil
}

func (s *InMemory) ListAnnouncements(ctx context.Context, tenantID domain.TenantID) ([]models.Announcement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Announcement
	for _, a := range s.announcements {
		if a.TenantID == tenantID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.Compare(out[i].ID.String(), out[j].ID.String()) < 0
	})
	return out, nil
}

func (s *InMemory) ListTimetable(ctx context.Context, tenantID domain.TenantID) ([]models.TimetableEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.TimetableEntry
	for _, e := range s.timetable {
		if e.TenantID == tenantID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.Compare(out[i].ID.String(), out[j].ID.String()) < 0
	})
	return out, nil
}

func (s *InMemory) ListAssessments(ctx context.Context, tenantID domain.TenantID) ([]models.Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Assessment
	for _, a := range s.assessments {
		if a.TenantID == tenantID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.Compare(out[i].ID.String(), out[j].ID.String()) < 0
	})
	return out, nil
}

func (s *InMemory) ListGrades(ctx context.Context, tenantID domain.TenantID) ([]models.Grade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Grade
	for _, g := range s.grades {
		if g.TenantID == tenantID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if c := strings.Compare(out[i].AssessmentID.String(), out[j].AssessmentID.String()); c != 0 {
			return c < 0
		}
		return strings.Compare(out[i].StudentID.String(), out[j].StudentID.String()) < 0
	})
	return out, nil
}

func (s *InMemory) ListAttendance(ctx context.Context, tenantID domain.TenantID) ([]models.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.AttendanceRecord
	for _, r := range s.attendance {
		if r.TenantID == tenantID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if c := strings.Compare(out[i].StudentID.String(), out[j].StudentID.String()); c != 0 {
			return c < 0
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

func (s *InMemory) GetAnnouncement(ctx context.Context, tenantID domain.TenantID, id uuid.UUID) (models.Announcement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.announcements[id]
	if !ok || a.TenantID != tenantID {
		// A foreign tenant's record is indistinguishable from a missing one.
		return models.Announcement{}, sentinel.ErrNotFound
	}
	return a, nil
}

func (s *InMemory) GetTimetableEntry(ctx context.Context, tenantID domain.TenantID, id uuid.UUID) (models.TimetableEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.timetable[id]
	if !ok || e.TenantID != tenantID {
		return models.TimetableEntry{}, sentinel.ErrNotFound
	}
	return e, nil
}

func (s *InMemory) GetAssessment(ctx context.Context, tenantID domain.TenantID, id uuid.UUID) (models.Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.assessments[id]
	if !ok || a.TenantID != tenantID {
		return models.Assessment{}, sentinel.ErrNotFound
	}
	return a, nil
}
