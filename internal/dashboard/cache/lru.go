package cache

import (
	"container/list"
	"context"
	"sync"

	"classdesk/internal/dashboard"
	"classdesk/pkg/domain"
)

// LRU implements Cache in process memory with a bounded entry count per
// tenant. Least-recently-used entries are evicted first; entries for stale
// data versions age out the same way since nothing touches them again.
type LRU struct {
	mu           sync.Mutex
	maxPerTenant int
	tenants      map[domain.TenantID]*tenantCache
}

type tenantCache struct {
	order   *list.List // front = most recently used
	entries map[Key]*list.Element
}

type lruEntry struct {
	key     Key
	payload dashboard.Payload
}

// NewLRU creates an LRU cache holding at most maxPerTenant entries per
// tenant.
func NewLRU(maxPerTenant int) *LRU {
	if maxPerTenant <= 0 {
		maxPerTenant = 1
	}
	return &LRU{
		maxPerTenant: maxPerTenant,
		tenants:      make(map[domain.TenantID]*tenantCache),
	}
}

func (c *LRU) Get(ctx context.Context, tenantID domain.TenantID, key Key) (dashboard.Payload, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tc, ok := c.tenants[tenantID]
	if !ok {
		return dashboard.Payload{}, false, nil
	}
	el, ok := tc.entries[key]
	if !ok {
		return dashboard.Payload{}, false, nil
	}
	tc.order.MoveToFront(el)
	return el.Value.(*lruEntry).payload, true, nil
}

func (c *LRU) Put(ctx context.Context, tenantID domain.TenantID, key Key, payload dashboard.Payload) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tc, ok := c.tenants[tenantID]
	if !ok {
		tc = &tenantCache{order: list.New(), entries: make(map[Key]*list.Element)}
		c.tenants[tenantID] = tc
	}

	if el, ok := tc.entries[key]; ok {
		el.Value.(*lruEntry).payload = payload
		tc.order.MoveToFront(el)
		return nil
	}

	tc.entries[key] = tc.order.PushFront(&lruEntry{key: key, payload: payload})
	if tc.order.Len() > c.maxPerTenant {
		oldest := tc.order.Back()
		tc.order.Remove(oldest)
		delete(tc.entries, oldest.Value.(*lruEntry).key)
	}
	return nil
}

// Len reports the entry count for a tenant. Test helper.
func (c *LRU) Len(tenantID domain.TenantID) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if tc, ok := c.tenants[tenantID]; ok {
		return tc.order.Len()
	}
	return 0
}
