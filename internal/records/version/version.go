// Package version tracks the tenant-wide data version. Every write to any
// record or relationship row bumps the counter; the dashboard cache keys on
// it so a stale payload can never be served under a fresh version.
package version

import (
	"context"

	"classdesk/pkg/domain"
)

// Counter is the monotonically increasing per-tenant data version.
//
// Increments must be atomic: two concurrent writers must never observe the
// same version for different underlying states, or the cache would serve
// stale data under a reused key.
type Counter interface {
	// Current returns the tenant's current version. Zero for a tenant that
	// has never been written.
	Current(ctx context.Context, tenantID domain.TenantID) (uint64, error)
	// Bump atomically increments and returns the new version.
	Bump(ctx context.Context, tenantID domain.TenantID) (uint64, error)
}
