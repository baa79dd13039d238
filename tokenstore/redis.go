package tokenstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	fieldAccess  = "access_token"
	fieldRefresh = "refresh_token"
)

// Redis persists the pair in a single hash key, so a session survives
// process restarts and can be shared by replicas of the same client.
// Both fields are written with one HSET, which keeps the pair atomic.
type Redis struct {
	rdb redis.UniversalClient
	key string
	ttl time.Duration
}

// NewRedis builds a redis-backed store. ttl > 0 expires the stored pair;
// it should match the refresh token lifetime.
func NewRedis(rdb redis.UniversalClient, key string, ttl time.Duration) *Redis {
	return &Redis{rdb: rdb, key: key, ttl: ttl}
}

// Save implements Store.
func (r *Redis) Save(ctx context.Context, pair TokenPair) error {
	if pair.Empty() || pair.partial() {
		return ErrPartialPair
	}
	_, err := r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, r.key, fieldAccess, pair.AccessToken, fieldRefresh, pair.RefreshToken)
		if r.ttl > 0 {
			p.Expire(ctx, r.key, r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("tokenstore: save: %w", err)
	}
	return nil
}

// Load implements Store. A hash holding only one of the two fields is
// treated as corrupt and reported as ErrPartialPair.
func (r *Redis) Load(ctx context.Context) (TokenPair, error) {
	fields, err := r.rdb.HGetAll(ctx, r.key).Result()
	if err != nil {
		return TokenPair{}, fmt.Errorf("tokenstore: load: %w", err)
	}
	if len(fields) == 0 {
		return TokenPair{}, ErrNotFound
	}
	pair := TokenPair{
		AccessToken:  fields[fieldAccess],
		RefreshToken: fields[fieldRefresh],
	}
	if pair.Empty() || pair.partial() {
		return TokenPair{}, ErrPartialPair
	}
	return pair, nil
}

// Clear implements Store.
func (r *Redis) Clear(ctx context.Context) error {
	if err := r.rdb.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("tokenstore: clear: %w", err)
	}
	return nil
}
