package record

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rohmanhakim/redis-tracker/internal/kv"
	"github.com/rohmanhakim/redis-tracker/internal/metadata"
	"github.com/rohmanhakim/redis-tracker/internal/tally"
	"github.com/rohmanhakim/redis-tracker/pkg/failure"
	"github.com/rohmanhakim/redis-tracker/pkg/keyutil"
)

/*
Responsibilities

- Persist scalar values under fresh random keys
- Count every store invocation in the same keyspace
- Retrieve stored bytes with optional decoding

Storage Semantics

- Every Put draws a new UUID key; keys are never reused
- Stored records never expire
- The invocation counter lives under the operation's qualified name,
  right next to the records it counts
- The counter is bumped before the value is written, so an aborted
  write still counts as an invocation
- Retrieval of an absent key is not an error

The store never inspects stored bytes; decoding happens only on request.
*/

// putCallsCounter is the qualified name the invocation counter lives under.
const putCallsCounter = "RecordStore.Put"

type RecordStore struct {
	store        kv.Store
	tally        tally.Tally
	metadataSink metadata.MetadataSink
}

func NewRecordStore(
	store kv.Store,
	metadataSink metadata.MetadataSink,
) RecordStore {
	return RecordStore{
		store:        store,
		tally:        tally.NewTally(store),
		metadataSink: metadataSink,
	}
}

// Init verifies the store is reachable and resets the keyspace.
// Every record and counter in the configured database is dropped.
func (r *RecordStore) Init(ctx context.Context) error {
	callerMethod := "RecordStore.Init"

	if err := r.store.Ping(ctx); err != nil {
		wrapped := wrapStoreFailure("PING", err)
		r.recordError(callerMethod, wrapped, nil)
		return wrapped
	}

	if err := r.store.FlushDB(ctx); err != nil {
		wrapped := wrapStoreFailure("FLUSHDB", err)
		r.recordError(callerMethod, wrapped, nil)
		return wrapped
	}

	return nil
}

// Put stores value under a fresh random key and returns that key.
// Supported kinds are string, []byte, int, int64 and float64; anything
// else fails without writing a record.
func (r *RecordStore) Put(ctx context.Context, value any) (string, error) {
	callerMethod := "RecordStore.Put"

	// The invocation counts first, even when the write below never happens.
	if _, err := r.tally.Incr(ctx, putCallsCounter); err != nil {
		wrapped := wrapStoreFailure("INCR "+putCallsCounter, err)
		r.recordError(callerMethod, wrapped, []metadata.Attribute{
			metadata.NewAttr(metadata.AttrCounter, putCallsCounter),
		})
		return "", wrapped
	}

	data, kind, encodeErr := encodeValue(value)
	if encodeErr != nil {
		r.recordError(callerMethod, encodeErr, nil)
		return "", encodeErr
	}

	key := keyutil.NewRecordKey()

	if err := r.store.Set(ctx, key, data, 0); err != nil {
		wrapped := wrapStoreFailure("SET "+key, err)
		r.recordError(callerMethod, wrapped, []metadata.Attribute{
			metadata.NewAttr(metadata.AttrKey, key),
		})
		return "", wrapped
	}

	r.metadataSink.RecordWrite(key, kind, len(data))

	return key, nil
}

// Get retrieves the bytes stored under key. A nil decode returns them
// raw; otherwise the decoder's result is returned. The bool reports
// whether the key was present at all.
func (r *RecordStore) Get(ctx context.Context, key string, decode Decoder) (any, bool, error) {
	callerMethod := "RecordStore.Get"

	data, found, err := r.store.Get(ctx, key)
	if err != nil {
		wrapped := wrapStoreFailure("GET "+key, err)
		r.recordError(callerMethod, wrapped, []metadata.Attribute{
			metadata.NewAttr(metadata.AttrKey, key),
		})
		return nil, false, wrapped
	}
	if !found {
		return nil, false, nil
	}

	if decode == nil {
		return data, true, nil
	}

	value, decodeErr := decode(data)
	if decodeErr != nil {
		wrapped := &RecordError{
			Message:   fmt.Sprintf("key %s: %v", key, decodeErr),
			Retryable: false,
			Cause:     ErrCauseDecode,
		}
		r.recordError(callerMethod, wrapped, []metadata.Attribute{
			metadata.NewAttr(metadata.AttrKey, key),
		})
		return nil, true, wrapped
	}

	return value, true, nil
}

// GetText retrieves the value under key decoded as UTF-8 text.
func (r *RecordStore) GetText(ctx context.Context, key string) (string, bool, error) {
	value, found, err := r.Get(ctx, key, TextDecoder)
	if err != nil || !found {
		return "", found, err
	}
	return value.(string), true, nil
}

// GetInt retrieves the value under key decoded as a base-10 integer.
func (r *RecordStore) GetInt(ctx context.Context, key string) (int64, bool, error) {
	value, found, err := r.Get(ctx, key, IntDecoder)
	if err != nil || !found {
		return 0, found, err
	}
	return value.(int64), true, nil
}

// GetFloat retrieves the value under key decoded as a float.
func (r *RecordStore) GetFloat(ctx context.Context, key string) (float64, bool, error) {
	value, found, err := r.Get(ctx, key, FloatDecoder)
	if err != nil || !found {
		return 0, found, err
	}
	return value.(float64), true, nil
}

// PutCalls reads how many times Put has been invoked against the
// current keyspace. A store that never saw a Put reads as zero.
func (r *RecordStore) PutCalls(ctx context.Context) (int64, error) {
	count, err := r.tally.Count(ctx, putCallsCounter)
	if err != nil {
		wrapped := wrapStoreFailure("GET "+putCallsCounter, err)
		r.recordError("RecordStore.PutCalls", wrapped, []metadata.Attribute{
			metadata.NewAttr(metadata.AttrCounter, putCallsCounter),
		})
		return 0, wrapped
	}
	return count, nil
}

func (r *RecordStore) recordError(callerMethod string, err *RecordError, attrs []metadata.Attribute) {
	r.metadataSink.RecordError(
		time.Now(),
		"record",
		callerMethod,
		mapRecordErrorToMetadataCause(err),
		err.Error(),
		attrs,
	)
}

func wrapStoreFailure(op string, err error) *RecordError {
	return &RecordError{
		Message:   fmt.Sprintf("%s: %v", op, err),
		Retryable: retryable(err),
		Cause:     ErrCauseStoreFailure,
	}
}

func retryable(err error) bool {
	var classified failure.ClassifiedError
	if errors.As(err, &classified) {
		return classified.Severity() == failure.SeverityRecoverable
	}
	return false
}
