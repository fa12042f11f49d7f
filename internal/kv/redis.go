package kv

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

/*
Responsibilities

- Adapt the Store port onto a live Redis instance
- Own the client lifecycle (opened on construction, released by Close)
- Map redis.Nil onto the absent sentinel
- Classify connectivity and command failures into StoreError

Adapter Semantics

- Every command is a single round trip; nothing is retried here
- Expiry is Redis-native (SET with EX); the adapter never deletes keys
- The client is safe for concurrent use, so the adapter is too
*/

type RedisStore struct {
	client *redis.Client
}

// NewRedisStore builds an adapter around a fresh Redis client. The
// connection is established lazily by the client; call Ping to verify
// reachability before depending on it.
func NewRedisStore(addr string, password string, db int) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisStore{
		client: client,
	}
}

func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return &StoreError{
			Message:   err.Error(),
			Retryable: true,
			Cause:     ErrCauseConnection,
		}
	}
	return nil
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return &StoreError{
			Message:   err.Error(),
			Retryable: true,
			Cause:     ErrCauseOperation,
		}
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &StoreError{
			Message:   err.Error(),
			Retryable: true,
			Cause:     ErrCauseOperation,
		}
	}
	return raw, true, nil
}

func (r *RedisStore) Incr(ctx context.Context, key string) (int64, error) {
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, &StoreError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseOperation,
		}
	}
	return count, nil
}

func (r *RedisStore) FlushDB(ctx context.Context) error {
	if err := r.client.FlushDB(ctx).Err(); err != nil {
		return &StoreError{
			Message:   err.Error(),
			Retryable: true,
			Cause:     ErrCauseOperation,
		}
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
