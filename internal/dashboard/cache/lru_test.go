package cache

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classdesk/internal/dashboard"
	"classdesk/pkg/domain"
)

func testKey(version uint64) Key {
	return Key{
		UserID:      domain.UserID(uuid.New()),
		Role:        domain.RoleTeacher,
		DataVersion: version,
	}
}

func testPayload(key Key) dashboard.Payload {
	return dashboard.Payload{
		UserID:      key.UserID,
		Role:        key.Role,
		DataVersion: key.DataVersion,
	}
}

func TestLRU_GetPut(t *testing.T) {
	ctx := context.Background()
	c := NewLRU(4)
	tenant := domain.TenantID(uuid.New())
	key := testKey(1)

	_, ok, err := c.Get(ctx, tenant, key)
	require.NoError(t, err)
	assert.False(t, ok, "empty cache must miss")

	require.NoError(t, c.Put(ctx, tenant, key, testPayload(key)))

	got, ok, err := c.Get(ctx, tenant, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, key.UserID, got.UserID)
	assert.Equal(t, key.DataVersion, got.DataVersion)
}

func TestLRU_VersionIsPartOfKey(t *testing.T) {
	ctx := context.Background()
	c := NewLRU(4)
	tenant := domain.TenantID(uuid.New())
	key := testKey(1)

	require.NoError(t, c.Put(ctx, tenant, key, testPayload(key)))

	bumped := key
	bumped.DataVersion = 2
	_, ok, err := c.Get(ctx, tenant, bumped)
	require.NoError(t, err)
	assert.False(t, ok, "a newer data version must never hit a stale entry")
}

func TestLRU_TenantsAreIsolated(t *testing.T) {
	ctx := context.Background()
	c := NewLRU(4)
	key := testKey(1)
	tenantA := domain.TenantID(uuid.New())
	tenantB := domain.TenantID(uuid.New())

	require.NoError(t, c.Put(ctx, tenantA, key, testPayload(key)))

	_, ok, err := c.Get(ctx, tenantB, key)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len(tenantA))
	assert.Zero(t, c.Len(tenantB))
}

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	c := NewLRU(2)
	tenant := domain.TenantID(uuid.New())

	first := testKey(1)
	second := testKey(1)
	require.NoError(t, c.Put(ctx, tenant, first, testPayload(first)))
	require.NoError(t, c.Put(ctx, tenant, second, testPayload(second)))

	// Touch first so second becomes the eviction candidate.
	_, ok, err := c.Get(ctx, tenant, first)
	require.NoError(t, err)
	require.True(t, ok)

	third := testKey(1)
	require.NoError(t, c.Put(ctx, tenant, third, testPayload(third)))
	assert.Equal(t, 2, c.Len(tenant))

	_, ok, err = c.Get(ctx, tenant, second)
	require.NoError(t, err)
	assert.False(t, ok, "least recently used entry must be evicted")

	_, ok, err = c.Get(ctx, tenant, first)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLRU_EvictionIsPerTenant(t *testing.T) {
	ctx := context.Background()
	c := NewLRU(2)
	tenantA := domain.TenantID(uuid.New())
	tenantB := domain.TenantID(uuid.New())

	keyB := testKey(1)
	require.NoError(t, c.Put(ctx, tenantB, keyB, testPayload(keyB)))

	for i := 0; i < 5; i++ {
		key := testKey(uint64(i))
		require.NoError(t, c.Put(ctx, tenantA, key, testPayload(key)))
	}

	assert.Equal(t, 2, c.Len(tenantA))
	_, ok, err := c.Get(ctx, tenantB, keyB)
	require.NoError(t, err)
	assert.True(t, ok, "pressure on one tenant must not evict another tenant's entries")
}

func TestLRU_PutOverwritesExistingKey(t *testing.T) {
	ctx := context.Background()
	c := NewLRU(4)
	tenant := domain.TenantID(uuid.New())
	key := testKey(1)

	stale := testPayload(key)
	require.NoError(t, c.Put(ctx, tenant, key, stale))

	fresh := stale
	fresh.TenantID = tenant
	require.NoError(t, c.Put(ctx, tenant, key, fresh))

	got, ok, err := c.Get(ctx, tenant, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, tenant, got.TenantID)
	assert.Equal(t, 1, c.Len(tenant))
}

func TestKeyString(t *testing.T) {
	userID := domain.UserID(uuid.New())
	key := Key{UserID: userID, Role: domain.RoleStudent, DataVersion: 17}
	assert.Equal(t, fmt.Sprintf("%s:student:17", userID), key.String())
}
