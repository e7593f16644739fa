//go:build integration

package version

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"classdesk/pkg/domain"
	"classdesk/pkg/testutil/containers"
)

type RedisVersionSuite struct {
	suite.Suite
	rc      *containers.RedisContainer
	counter *Redis
	ctx     context.Context
}

func TestRedisVersionSuite(t *testing.T) {
	suite.Run(t, new(RedisVersionSuite))
}

func (s *RedisVersionSuite) SetupSuite() {
	s.rc = containers.NewRedisContainer(s.T())
	s.counter = NewRedis(s.rc.Client)
	s.ctx = context.Background()
}

func (s *RedisVersionSuite) SetupTest() {
	s.Require().NoError(s.rc.FlushAll(s.ctx))
}

func (s *RedisVersionSuite) TestUnwrittenTenantIsZero() {
	v, err := s.counter.Current(s.ctx, domain.TenantID(uuid.New()))
	s.Require().NoError(err)
	s.Zero(v)
}

func (s *RedisVersionSuite) TestBumpIsMonotonic() {
	tenantID := domain.TenantID(uuid.New())
	for want := uint64(1); want <= 3; want++ {
		got, err := s.counter.Bump(s.ctx, tenantID)
		s.Require().NoError(err)
		s.Equal(want, got)
	}

	v, err := s.counter.Current(s.ctx, tenantID)
	s.Require().NoError(err)
	s.Equal(uint64(3), v)
}

func (s *RedisVersionSuite) TestConcurrentBumpsNeverCollide() {
	tenantID := domain.TenantID(uuid.New())
	const writers = 8
	const bumpsPerWriter = 20

	seen := make(chan uint64, writers*bumpsPerWriter)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < bumpsPerWriter; j++ {
				v, err := s.counter.Bump(s.ctx, tenantID)
				if err != nil {
					s.T().Error(err)
					return
				}
				seen <- v
			}
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[uint64]bool)
	for v := range seen {
		s.False(unique[v], "two writers observed the same version")
		unique[v] = true
	}
	s.Len(unique, writers*bumpsPerWriter)
}

func (s *RedisVersionSuite) TestTenantsAreIndependent() {
	tenantA := domain.TenantID(uuid.New())
	tenantB := domain.TenantID(uuid.New())

	_, err := s.counter.Bump(s.ctx, tenantA)
	s.Require().NoError(err)

	v, err := s.counter.Current(s.ctx, tenantB)
	s.Require().NoError(err)
	s.Zero(v)
}
