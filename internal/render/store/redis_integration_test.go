//go:build integration

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/Estar-Games/sc-customize-nft/pkg/domain"
	"github.com/Estar-Games/sc-customize-nft/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	StoreSuite
	redis *containers.RedisContainer
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.newStore = func() Store { return NewRedis(s.redis.Client) }
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
	s.StoreSuite.SetupTest()
}

func (s *RedisStoreSuite) TestSetters() {
	store := NewRedis(s.redis.Client)
	ctx := context.Background()

	ok, err := store.IsSetter(ctx, domain.Principal("erd1renderer"))
	s.Require().NoError(err)
	s.False(ok)

	s.Require().NoError(store.AddSetter(ctx, "erd1renderer"))
	ok, err = store.IsSetter(ctx, "erd1renderer")
	s.Require().NoError(err)
	s.True(ok)
}
