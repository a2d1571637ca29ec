package revocation

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/techelevate/platform/internal/clock"
)

const redisKeyPrefix = "revoked:"

// RedisLedger stores each revoked id as a key whose TTL equals the token's
// remaining lifetime, so Redis evicts records once they stop mattering.
type RedisLedger struct {
	client redis.UniversalClient
	clock  clock.Clock
}

func NewRedisLedger(client redis.UniversalClient, c clock.Clock) *RedisLedger {
	if c == nil {
		c = clock.Real()
	}
	return &RedisLedger{client: client, clock: c}
}

func (l *RedisLedger) Insert(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(l.clock.Now())
	if ttl <= 0 {
		// already expired, validation rejects it without a record
		return nil
	}
	// SETNX keeps the first revocation time on repeated logout.
	return l.client.SetNX(ctx, redisKeyPrefix+tokenID, l.clock.Now().Unix(), ttl).Err()
}

func (l *RedisLedger) Exists(ctx context.Context, tokenID string) (bool, error) {
	n, err := l.client.Exists(ctx, redisKeyPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
