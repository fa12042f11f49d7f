package kv

import (
	"context"
	"time"
)

// Store defines the port interface for the external key-value store.
// This interface follows the port-adapter pattern, allowing the Redis
// adapter and the in-memory adapter to be swapped without changing any
// component built on top of them.
//
// The surface is deliberately the command set the system actually issues:
// SET (with optional expiry), GET, INCR and FLUSHDB, plus lifecycle.
// Implementations are responsible for nothing beyond these commands —
// serialization of scalars happens in the callers.
type Store interface {
	// Ping checks connectivity with the store.
	// A nil return means the store is reachable and ready.
	Ping(ctx context.Context) error

	// Set writes value under key. A ttl greater than zero arms the store's
	// native expiry for the entry; zero means the entry never expires.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get retrieves the raw bytes stored under key.
	// A missing (or expired) key is not an error: it returns (nil, false, nil).
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Incr atomically increments the integer stored under key and returns
	// the new value. A missing key counts from zero, so the first Incr
	// yields 1. Incrementing a non-numeric value is an error.
	Incr(ctx context.Context, key string) (int64, error)

	// FlushDB clears every key in the active namespace. Destructive;
	// intended for initialization and test isolation only.
	FlushDB(ctx context.Context) error

	// Close releases the underlying client.
	Close() error
}
