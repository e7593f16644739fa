// Package scope derives the set of classes and students a principal may see.
// Resolution is pure read/derive: it walks enrollment, guardianship, and
// class-assignment rows and always lands on a concrete, possibly empty, set.
package scope

import (
	"sort"
	"strings"

	"classdesk/pkg/domain"
)

// Set is the resolved visibility of one principal: which classes and which
// students. An empty Set is valid and yields an empty-but-valid dashboard.
type Set struct {
	// Unrestricted marks admin scope: every class and student in the tenant.
	// The id sets are still materialized so counts and admin-wide conflict
	// analysis have concrete inputs.
	Unrestricted bool

	classIDs   map[domain.ClassID]struct{}
	studentIDs map[domain.StudentID]struct{}
}

// NewSet builds a Set from explicit id lists.
func NewSet(classIDs []domain.ClassID, studentIDs []domain.StudentID) Set {
	s := Set{
		classIDs:   make(map[domain.ClassID]struct{}, len(classIDs)),
		studentIDs: make(map[domain.StudentID]struct{}, len(studentIDs)),
	}
	for _, id := range classIDs {
		s.classIDs[id] = struct{}{}
	}
	for _, id := range studentIDs {
		s.studentIDs[id] = struct{}{}
	}
	return s
}

// NewUnrestrictedSet builds an admin Set over the given tenant-wide ids.
func NewUnrestrictedSet(classIDs []domain.ClassID, studentIDs []domain.StudentID) Set {
	s := NewSet(classIDs, studentIDs)
	s.Unrestricted = true
	return s
}

// HasClass reports whether the class is visible.
func (s Set) HasClass(id domain.ClassID) bool {
	if s.Unrestricted {
		return true
	}
	_, ok := s.classIDs[id]
	return ok
}

// HasStudent reports whether the student is visible.
func (s Set) HasStudent(id domain.StudentID) bool {
	if s.Unrestricted {
		return true
	}
	_, ok := s.studentIDs[id]
	return ok
}

// ClassIDs returns the visible class ids in deterministic order.
func (s Set) ClassIDs() []domain.ClassID {
	out := make([]domain.ClassID, 0, len(s.classIDs))
	for id := range s.classIDs {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.Compare(out[i].String(), out[j].String()) < 0
	})
	return out
}

// StudentIDs returns the visible student ids in deterministic order.
func (s Set) StudentIDs() []domain.StudentID {
	out := make([]domain.StudentID, 0, len(s.studentIDs))
	for id := range s.studentIDs {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.Compare(out[i].String(), out[j].String()) < 0
	})
	return out
}

// ClassCount returns how many classes are visible.
func (s Set) ClassCount() int { return len(s.classIDs) }

// StudentCount returns how many students are visible.
func (s Set) StudentCount() int { return len(s.studentIDs) }
