// Package cache memoizes composed dashboards keyed by (principal, data
// version). A version mismatch is always a logical miss: serving a payload
// composed under stale data is a correctness failure, not a performance one.
package cache

import (
	"context"
	"fmt"

	"classdesk/internal/dashboard"
	"classdesk/pkg/domain"
)

// Key identifies one cached dashboard. Two principals never share a key;
// two data versions never share a key.
type Key struct {
	UserID      domain.UserID
	Role        domain.Role
	DataVersion uint64
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%s:%d", k.UserID, k.Role, k.DataVersion)
}

// Cache stores composed payloads. Concurrent Put calls for one key may race;
// last writer wins, which is safe because payloads for the same key are a
// pure function of the same inputs.
type Cache interface {
	// Get returns the cached payload and true on hit.
	Get(ctx context.Context, tenantID domain.TenantID, key Key) (dashboard.Payload, bool, error)
	// Put stores the payload under the key.
	Put(ctx context.Context, tenantID domain.TenantID, key Key, payload dashboard.Payload) error
}
