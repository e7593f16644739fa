package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"classdesk/internal/directory/models"
	"classdesk/pkg/domain"
	"classdesk/pkg/platform/sentinel"
)

// InMemory implements Store with mutex-guarded slices. Suitable for
// development and unit tests; use Postgres in production.
type InMemory struct {
	mu          sync.RWMutex
	enrollments []models.Enrollment
	guardians   []models.Guardianship
	assignments []models.ClassAssignment
}

// NewInMemory creates an empty in-memory directory store.
func NewInMemory() *InMemory {
	return &InMemory{}
}

func (s *InMemory) AddEnrollment(ctx context.Context, e models.Enrollment) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.enrollments {
		if existing.StudentID == e.StudentID && existing.ClassID == e.ClassID && existing.TenantID == e.TenantID {
			if existing.Status == e.Status {
				return sentinel.ErrConflict
			}
			// Status change replaces the row (re-enroll, withdraw).
			s.enrollments[i] = e
			return nil
		}
	}
	s.enrollments = append(s.enrollments, e)
	return nil
}

func (s *InMemory) AddGuardianship(ctx context.Context, g models.Guardianship) error {
	if err := g.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.guardians {
		if existing == g {
			return sentinel.ErrConflict
		}
	}
	s.guardians = append(s.guardians, g)
	return nil
}

func (s *InMemory) AddClassAssignment(ctx context.Context, a models.ClassAssignment) error {
	if err := a.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.assignments {
		if existing == a {
			return sentinel.ErrConflict
		}
	}
	s.assignments = append(s.assignments, a)
	return nil
}

func (s *InMemory) ListEnrollmentsByStudent(ctx context.Context, tenantID domain.TenantID, studentID domain.StudentID) ([]models.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Enrollment
	for _, e := range s.enrollments {
		if e.TenantID == tenantID && e.StudentID == studentID && e.Status == models.EnrollmentActive {
			out = append(out, e)
		}
	}
	sortEnrollments(out)
	return out, nil
}

func (s *InMemory) ListEnrollmentsByClasses(ctx context.Context, tenantID domain.TenantID, classIDs []domain.ClassID) ([]models.Enrollment, error) {
	wanted := make(map[domain.ClassID]struct{}, len(classIDs))
	for _, id := range classIDs {
		wanted[id] = struct{}{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Enrollment
	for _, e := range s.enrollments {
		if e.TenantID != tenantID || e.Status != models.EnrollmentActive {
			continue
		}
		if _, ok := wanted[e.ClassID]; ok {
			out = append(out, e)
		}
	}
	sortEnrollments(out)
	return out, nil
}

func (s *InMemory) ListAssignmentsByTeacher(ctx context.Context, tenantID domain.TenantID, teacherID domain.UserID) ([]models.ClassAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.ClassAssignment
	for _, a := range s.assignments {
		if a.TenantID == tenantID && a.TeacherID == teacherID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.Compare(out[i].ClassID.String(), out[j].ClassID.String()) < 0
	})
	return out, nil
}

func (s *InMemory) ListGuardianshipsByParent(ctx context.Context, tenantID domain.TenantID, parentID domain.UserID) ([]models.Guardianship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Guardianship
	for _, g := range s.guardians {
		if g.TenantID == tenantID && g.ParentID == parentID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.Compare(out[i].StudentID.String(), out[j].StudentID.String()) < 0
	})
	return out, nil
}

func (s *InMemory) ListClassIDs(ctx context.Context, tenantID domain.TenantID) ([]domain.ClassID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[domain.ClassID]struct{})
	for _, e := range s.enrollments {
		if e.TenantID == tenantID {
			seen[e.ClassID] = struct{}{}
		}
	}
	for _, a := range s.assignments {
		if a.TenantID == tenantID {
			seen[a.ClassID] = struct{}{}
		}
	}
	out := make([]domain.ClassID, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.Compare(out[i].String(), out[j].String()) < 0
	})
	return out, nil
}

func (s *InMemory) ListStudentIDs(ctx context.Context, tenantID domain.TenantID) ([]domain.StudentID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[domain.StudentID]struct{})
	for _, e := range s.enrollments {
		if e.TenantID == tenantID && e.Status == models.EnrollmentActive {
			seen[e.StudentID] = struct{}{}
		}
	}
	out := make([]domain.StudentID, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.Compare(out[i].String(), out[j].String()) < 0
	})
	return out, nil
}

func (s *InMemory) CountTeachers(ctx context.Context, tenantID domain.TenantID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[domain.UserID]struct{})
	for _, a := range s.assignments {
		if a.TenantID == tenantID {
			seen[a.TeacherID] = struct{}{}
		}
	}
	return len(seen), nil
}

func sortEnrollments(es []models.Enrollment) {
	sort.Slice(es, func(i, j int) bool {
		if c := strings.Compare(es[i].ClassID.String(), es[j].ClassID.String()); c != 0 {
			return c < 0
		}
		return strings.Compare(es[i].StudentID.String(), es[j].StudentID.String()) < 0
	})
}
