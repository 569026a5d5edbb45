package redisad

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"flavor_sentiment/internal/domain"
)

// releaseScript deletes the lock only if we still own it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker is a single-owner lease on a key (SET NX PX).
type Locker struct {
	c      *redis.Client
	prefix string
}

func NewLocker(c *redis.Client, prefix string) *Locker {
	return &Locker{c: c, prefix: prefix}
}

func (l *Locker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	k := l.prefix + key
	token := uuid.NewString()
	ok, err := l.c.SetNX(ctx, k, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", k, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrLocked, k)
	}
	release := func(ctx context.Context) error {
		return releaseScript.Run(ctx, l.c, []string{k}, token).Err()
	}
	return release, nil
}

// StageLock takes the run lock for a pipeline stage. The returned func
// releases it and logs, never fails.
func StageLock(ctx context.Context, l domain.Locker, stage string, ttl time.Duration) (func(), error) {
	release, err := l.Acquire(ctx, stage, ttl)
	if err != nil {
		return nil, err
	}
	log.Info().Str("stage", stage).Dur("ttl", ttl).Msg("stage lock acquired")
	return func() {
		// the caller's ctx may already be done
		if err := release(context.Background()); err != nil {
			log.Warn().Err(err).Str("stage", stage).Msg("stage lock release failed")
		}
	}, nil
}
