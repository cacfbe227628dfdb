//go:build integration

package replay_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"caguard/internal/guardian/models"
	"caguard/internal/guardian/store/replay"
	"caguard/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	guardContractSuite
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
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
	s.store = replay.NewRedisStore(s.redis.Client)
}

func (s *RedisStoreSuite) TestKeysNeverExpire() {
	ctx := context.Background()
	key := models.HashOf([]byte("sig"))
	_, err := s.store.Mark(ctx, key)
	s.Require().NoError(err)
	_, err = s.store.Consume(ctx, "holder", "nonce")
	s.Require().NoError(err)

	for _, k := range []string{"caguard:sig:" + key.String(), "caguard:nonce:holder:nonce"} {
		ttl, err := s.redis.Client.TTL(ctx, k).Result()
		s.Require().NoError(err)
		s.Equal(int64(-1), int64(ttl), "key %s should have no expiry", k)
	}
}
