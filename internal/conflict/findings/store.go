package findings

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"classdesk/pkg/domain"
)

// Store persists conflict findings.
type Store interface {
	// Upsert inserts or refreshes findings by id.
	Upsert(ctx context.Context, fs []Finding) error
	// ListByTenant returns the tenant's findings ordered by id.
	ListByTenant(ctx context.Context, tenantID domain.TenantID) ([]Finding, error)
}

// InMemory implements Store with a mutex-guarded map.
type InMemory struct {
	mu       sync.RWMutex
	findings map[uuid.UUID]Finding
}

// NewInMemory creates an empty in-memory findings store.
func NewInMemory() *InMemory {
	return &InMemory{findings: make(map[uuid.UUID]Finding)}
}

func (s *InMemory) Upsert(ctx context.Context, fs []Finding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range fs {
		s.findings[f.ID] = f
	}
	return nil
}

func (s *InMemory) ListByTenant(ctx context.Context, tenantID domain.TenantID) ([]Finding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Finding
	for _, f := range s.findings {
		if f.TenantID == tenantID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.Compare(out[i].ID.String(), out[j].ID.String()) < 0
	})
	return out, nil
}
