package kv

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// MemoryStore is an in-memory implementation of the Store interface.
// It uses a map for storage and provides thread-safe operations via RWMutex.
//
// Expiry is lazy: entries past their deadline are dropped on the read that
// observes them, which reproduces the store-native expiry the Redis adapter
// gets for free. There is no background sweeper; the store lives only for
// the duration of a process (or test), so stale entries cost a map slot at
// worst.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]memoryEntry
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

func (e memoryEntry) expired() bool {
	return !e.expiresAt.IsZero() && time.Now().After(e.expiresAt)
}

// NewMemoryStore creates a new in-memory store instance.
// The store is initialized empty and ready for use.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]memoryEntry),
	}
}

// Ping always succeeds: process memory is never unreachable. The context
// is accepted for interface consistency only.
func (m *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

func (m *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	// Copy so later caller mutations of the slice cannot leak into the store.
	stored := make([]byte, len(value))
	copy(stored, value)

	m.data[key] = memoryEntry{
		value:     stored,
		expiresAt: expiresAt,
	}
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	// Exclusive lock: a read may delete an entry it finds expired.
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, found := m.data[key]
	if !found {
		return nil, false, nil
	}
	if entry.expired() {
		delete(m.data, key)
		return nil, false, nil
	}

	value := make([]byte, len(entry.value))
	copy(value, entry.value)
	return value, true, nil
}

func (m *MemoryStore) Incr(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	var expiresAt time.Time

	entry, found := m.data[key]
	if found && !entry.expired() {
		parsed, err := strconv.ParseInt(string(entry.value), 10, 64)
		if err != nil {
			return 0, &StoreError{
				Message:   "INCR on " + key,
				Retryable: false,
				Cause:     ErrCauseCounterValue,
			}
		}
		count = parsed
		// INCR rewrites the value but never touches the entry's expiry.
		expiresAt = entry.expiresAt
	}

	count++
	m.data[key] = memoryEntry{
		value:     []byte(strconv.FormatInt(count, 10)),
		expiresAt: expiresAt,
	}
	return count, nil
}

func (m *MemoryStore) FlushDB(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data = make(map[string]memoryEntry)
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}

// Size returns the number of live entries.
// This method is primarily useful for testing and diagnostics.
func (m *MemoryStore) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, entry := range m.data {
		if !entry.expired() {
			n++
		}
	}
	return n
}

// RemainingTTL reports the time left before key expires. It returns
// (0, true) for an entry without expiry and (0, false) for a missing or
// already-expired key.
// This method is primarily useful for testing and diagnostics.
func (m *MemoryStore) RemainingTTL(key string) (time.Duration, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, found := m.data[key]
	if !found || entry.expired() {
		return 0, false
	}
	if entry.expiresAt.IsZero() {
		return 0, true
	}
	return time.Until(entry.expiresAt), true
}
