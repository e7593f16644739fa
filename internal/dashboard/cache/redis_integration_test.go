//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"classdesk/internal/dashboard"
	"classdesk/pkg/domain"
	"classdesk/pkg/testutil/containers"
)

type RedisCacheSuite struct {
	suite.Suite
	rc    *containers.RedisContainer
	cache *Redis
	ctx   context.Context
}

func TestRedisCacheSuite(t *testing.T) {
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	s.rc = containers.NewRedisContainer(s.T())
	s.cache = NewRedis(s.rc.Client, time.Minute)
	s.ctx = context.Background()
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.rc.FlushAll(s.ctx))
}

func (s *RedisCacheSuite) TestRoundTrip() {
	tenantID := domain.TenantID(uuid.New())
	key := Key{UserID: domain.UserID(uuid.New()), Role: domain.RoleTeacher, DataVersion: 4}
	payload := dashboard.Payload{
		UserID:      key.UserID,
		Role:        key.Role,
		TenantID:    tenantID,
		DataVersion: 4,
		GeneratedAt: time.Now().UTC().Truncate(time.Millisecond),
	}

	_, ok, err := s.cache.Get(s.ctx, tenantID, key)
	s.Require().NoError(err)
	s.False(ok)

	s.Require().NoError(s.cache.Put(s.ctx, tenantID, key, payload))

	got, ok, err := s.cache.Get(s.ctx, tenantID, key)
	s.Require().NoError(err)
	s.Require().True(ok)
	s.Equal(payload.UserID, got.UserID)
	s.Equal(payload.DataVersion, got.DataVersion)
	s.True(payload.GeneratedAt.Equal(got.GeneratedAt))
}

func (s *RedisCacheSuite) TestVersionMismatchMisses() {
	tenantID := domain.TenantID(uuid.New())
	key := Key{UserID: domain.UserID(uuid.New()), Role: domain.RoleStudent, DataVersion: 1}
	s.Require().NoError(s.cache.Put(s.ctx, tenantID, key, dashboard.Payload{DataVersion: 1}))

	key.DataVersion = 2
	_, ok, err := s.cache.Get(s.ctx, tenantID, key)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *RedisCacheSuite) TestCorruptEntryIsMiss() {
	tenantID := domain.TenantID(uuid.New())
	key := Key{UserID: domain.UserID(uuid.New()), Role: domain.RoleAdmin, DataVersion: 9}
	s.Require().NoError(s.rc.Client.Set(s.ctx, redisKey(tenantID, key), "{not json", time.Minute).Err())

	_, ok, err := s.cache.Get(s.ctx, tenantID, key)
	s.Require().NoError(err)
	s.False(ok, "corrupt entries must fall back to recomposition")
}

func (s *RedisCacheSuite) TestEntriesExpire() {
	shortLived := NewRedis(s.rc.Client, 50*time.Millisecond)
	tenantID := domain.TenantID(uuid.New())
	key := Key{UserID: domain.UserID(uuid.New()), Role: domain.RoleParent, DataVersion: 1}

	s.Require().NoError(shortLived.Put(s.ctx, tenantID, key, dashboard.Payload{}))
	time.Sleep(100 * time.Millisecond)

	_, ok, err := shortLived.Get(s.ctx, tenantID, key)
	s.Require().NoError(err)
	s.False(ok)
}
