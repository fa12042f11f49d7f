package record_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rohmanhakim/redis-tracker/internal/kv"
	"github.com/rohmanhakim/redis-tracker/internal/metadata"
	"github.com/rohmanhakim/redis-tracker/internal/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() (record.RecordStore, *kv.MemoryStore, *metadataSinkMock) {
	store := kv.NewMemoryStore()
	sink := &metadataSinkMock{}
	return record.NewRecordStore(store, sink), store, sink
}

func TestRecordStore_PutAndGetText(t *testing.T) {
	// Arrange
	rs, _, _ := newTestStore()
	ctx := context.Background()

	// Act
	key, err := rs.Put(ctx, "hello")

	// Assert
	require.NoError(t, err)
	require.NotEmpty(t, key)

	got, found, err := rs.GetText(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "hello", got)
}

func TestRecordStore_PutAndGetBytes(t *testing.T) {
	rs, _, _ := newTestStore()
	ctx := context.Background()

	payload := []byte{0x00, 0xff, 0x10, 0x7f}
	key, err := rs.Put(ctx, payload)
	require.NoError(t, err)

	got, found, err := rs.Get(ctx, key, nil)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload, got)
}

func TestRecordStore_PutAndGetInt(t *testing.T) {
	rs, _, _ := newTestStore()
	ctx := context.Background()

	key, err := rs.Put(ctx, 42)
	require.NoError(t, err)

	got, found, err := rs.GetInt(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(42), got)

	negKey, err := rs.Put(ctx, int64(-7))
	require.NoError(t, err)

	neg, found, err := rs.GetInt(ctx, negKey)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(-7), neg)
}

func TestRecordStore_PutAndGetFloat(t *testing.T) {
	rs, _, _ := newTestStore()
	ctx := context.Background()

	key, err := rs.Put(ctx, 3.14)
	require.NoError(t, err)

	got, found, err := rs.GetFloat(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 3.14, got)
}

func TestRecordStore_Put_UniqueKeys(t *testing.T) {
	rs, _, _ := newTestStore()
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		key, err := rs.Put(ctx, i)
		require.NoError(t, err)
		require.False(t, seen[key], "key %s was handed out twice", key)
		seen[key] = true
	}
}

func TestRecordStore_Put_CountsInvocations(t *testing.T) {
	rs, store, _ := newTestStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := rs.Put(ctx, "value")
		require.NoError(t, err)
	}

	count, err := rs.PutCalls(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	// The counter lives in the same keyspace as the records it counts.
	raw, found, err := store.Get(ctx, "RecordStore.Put")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("3"), raw)
}

func TestRecordStore_PutCalls_FreshStore(t *testing.T) {
	rs, _, _ := newTestStore()

	count, err := rs.PutCalls(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestRecordStore_Put_UnsupportedKind(t *testing.T) {
	rs, store, sink := newTestStore()
	ctx := context.Background()

	_, err := rs.Put(ctx, struct{ Name string }{Name: "nope"})

	require.Error(t, err)
	var recErr *record.RecordError
	require.True(t, errors.As(err, &recErr))
	assert.EqualValues(t, record.ErrCauseUnsupportedKind, recErr.Cause)
	assert.False(t, recErr.IsRetryable())

	// The invocation still counted, but no record was written.
	count, err := rs.PutCalls(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, 1, store.Size(), "only the counter key should exist")

	assert.True(t, sink.recordErrorCalled)
	assert.Equal(t, "record", sink.recordErrorPackageName)
}

func TestRecordStore_Get_AbsentKey(t *testing.T) {
	rs, _, _ := newTestStore()
	ctx := context.Background()

	got, found, err := rs.Get(ctx, "no-such-key", nil)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, got)

	text, found, err := rs.GetText(ctx, "no-such-key")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, text)

	n, found, err := rs.GetInt(ctx, "no-such-key")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Zero(t, n)
}

func TestRecordStore_GetInt_NonNumericValue(t *testing.T) {
	rs, _, sink := newTestStore()
	ctx := context.Background()

	key, err := rs.Put(ctx, "hello")
	require.NoError(t, err)
	sink.Reset()

	_, found, err := rs.GetInt(ctx, key)

	require.Error(t, err)
	assert.True(t, found, "the key exists even though its value does not decode")

	var recErr *record.RecordError
	require.True(t, errors.As(err, &recErr))
	assert.EqualValues(t, record.ErrCauseDecode, recErr.Cause)

	require.True(t, sink.recordErrorCalled)
	assert.Equal(t, metadata.ErrorCause(metadata.CauseContentInvalid), sink.recordErrorCause)
	assert.Equal(t, key, findAttrValue(sink.recordErrorAttrs, metadata.AttrKey))
}

func TestRecordStore_Put_WriteFails_InvocationStillCounted(t *testing.T) {
	store := newSetFailingStore()
	sink := &metadataSinkMock{}
	rs := record.NewRecordStore(store, sink)
	ctx := context.Background()

	_, err := rs.Put(ctx, "hello")

	require.Error(t, err)
	var recErr *record.RecordError
	require.True(t, errors.As(err, &recErr))
	assert.EqualValues(t, record.ErrCauseStoreFailure, recErr.Cause)

	// The counter was bumped before the write was attempted.
	count, countErr := rs.PutCalls(ctx)
	require.NoError(t, countErr)
	assert.Equal(t, int64(1), count)

	require.True(t, sink.recordErrorCalled)
	assert.Equal(t, "RecordStore.Put", sink.recordErrorAction)
	assert.NotEmpty(t, findAttrValue(sink.recordErrorAttrs, metadata.AttrKey))
	assert.False(t, sink.recordWriteCalled, "a failed write must not produce a write event")
}

func TestRecordStore_Put_EmitsWriteEvent(t *testing.T) {
	rs, _, sink := newTestStore()
	ctx := context.Background()

	key, err := rs.Put(ctx, "hello")
	require.NoError(t, err)

	require.True(t, sink.recordWriteCalled)
	assert.Equal(t, key, sink.recordWriteKey)
	assert.Equal(t, "text", sink.recordWriteKind)
	assert.Equal(t, 5, sink.recordWriteSizeByte)
}

func TestRecordStore_Init_ResetsKeyspace(t *testing.T) {
	rs, store, _ := newTestStore()
	ctx := context.Background()

	_, err := rs.Put(ctx, "hello")
	require.NoError(t, err)
	require.NotZero(t, store.Size())

	require.NoError(t, rs.Init(ctx))

	assert.Zero(t, store.Size())

	count, err := rs.PutCalls(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count, "Init drops the invocation counter too")
}

func TestRecordStore_Init_Unreachable(t *testing.T) {
	store := newPingFailingStore()
	sink := &metadataSinkMock{}
	rs := record.NewRecordStore(store, sink)

	err := rs.Init(context.Background())

	require.Error(t, err)
	var recErr *record.RecordError
	require.True(t, errors.As(err, &recErr))
	assert.EqualValues(t, record.ErrCauseStoreFailure, recErr.Cause)
	assert.True(t, recErr.IsRetryable())

	require.True(t, sink.recordErrorCalled)
	assert.Equal(t, "RecordStore.Init", sink.recordErrorAction)
}
