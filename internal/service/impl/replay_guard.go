package impl

import (
	"context"
	"time"

	"journalist-api/internal/store"

	"github.com/redis/go-redis/v9"
)

// GormReplayGuard claims keys through the used_one_time_codes table.
type GormReplayGuard struct {
	store *store.Store
	now   func() time.Time
}

func NewGormReplayGuard(st *store.Store) *GormReplayGuard {
	return &GormReplayGuard{store: st, now: time.Now}
}

func (g *GormReplayGuard) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return g.store.UsedCodes().Claim(ctx, key, g.now().Add(ttl))
}

// Purge drops expired claims. Safe to call from a ticker.
func (g *GormReplayGuard) Purge(ctx context.Context) (int64, error) {
	return g.store.UsedCodes().PurgeExpired(ctx, g.now())
}

// RedisReplayGuard claims keys with SET NX and lets redis expire them.
type RedisReplayGuard struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisReplayGuard(rdb *redis.Client) *RedisReplayGuard {
	return &RedisReplayGuard{rdb: rdb, prefix: "journalist:otp:"}
}

func (r *RedisReplayGuard) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return r.rdb.SetNX(ctx, r.prefix+key, 1, ttl).Result()
}
