package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dgallion1/findoc/internal/document"
)

const (
	redisDocPrefix  = "findoc:doc:"
	redisHashPrefix = "findoc:hash:"
	redisIndexKey   = "findoc:docs"
)

// Redis stores each bundle as a JSON string, with a set of IDs for listing
// and a hash-to-ID key for dedup. A positive ttl expires both keys.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedis connects to addr and verifies the connection.
func NewRedis(ctx context.Context, addr, password string, db int, ttl time.Duration) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return &Redis{rdb: rdb, ttl: ttl}, nil
}

func (r *Redis) Put(ctx context.Context, b *document.Bundle) error {
	data, err := encode(b)
	if err != nil {
		return err
	}
	_, err = r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, redisDocPrefix+b.ID, data, r.ttl)
		p.SAdd(ctx, redisIndexKey, b.ID)
		if b.ContentHash != "" {
			p.Set(ctx, redisHashPrefix+b.ContentHash, b.ID, r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis put %s: %w", b.ID, err)
	}
	return nil
}

func (r *Redis) Get(ctx context.Context, id string) (*document.Bundle, error) {
	data, err := r.rdb.Get(ctx, redisDocPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", id, err)
	}
	return decode(data)
}

func (r *Redis) Delete(ctx context.Context, id string) error {
	b, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	_, err = r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, redisDocPrefix+id)
		p.SRem(ctx, redisIndexKey, id)
		if b.ContentHash != "" {
			p.Del(ctx, redisHashPrefix+b.ContentHash)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis delete %s: %w", id, err)
	}
	return nil
}

// List drops index members whose bundle has expired.
func (r *Redis) List(ctx context.Context) ([]document.Summary, error) {
	ids, err := r.rdb.SMembers(ctx, redisIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list: %w", err)
	}
	out := make([]document.Summary, 0, len(ids))
	for _, id := range ids {
		b, err := r.Get(ctx, id)
		if errors.Is(err, ErrNotFound) {
			r.rdb.SRem(ctx, redisIndexKey, id)
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, b.Summarize())
	}
	sortSummaries(out)
	return out, nil
}

func (r *Redis) FindByHash(ctx context.Context, hash string) (string, error) {
	if hash == "" {
		return "", nil
	}
	id, err := r.rdb.Get(ctx, redisHashPrefix+hash).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis find hash: %w", err)
	}
	return id, nil
}

func (r *Redis) Close() error { return r.rdb.Close() }
