package version

import (
	"context"
	"sync"

	"classdesk/pkg/domain"
)

// InMemory implements Counter with a mutex-serialized map. Single-process
// only; use Redis when multiple instances share a cache.
type InMemory struct {
	mu       sync.Mutex
	versions map[domain.TenantID]uint64
}

// NewInMemory creates an in-memory version counter.
func NewInMemory() *InMemory {
	return &InMemory{versions: make(map[domain.TenantID]uint64)}
}

func (c *InMemory) Current(ctx context.Context, tenantID domain.TenantID) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.versions[tenantID], nil
}

func (c *InMemory) Bump(ctx context.Context, tenantID domain.TenantID) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions[tenantID]++
	return c.versions[tenantID], nil
}
