package record_test

import (
	"context"
	"time"

	"github.com/rohmanhakim/redis-tracker/internal/kv"
	"github.com/rohmanhakim/redis-tracker/internal/metadata"
)

// metadataSinkMock is a mock for metadata.MetadataSink
type metadataSinkMock struct {
	recordErrorCalled      bool
	recordErrorObservedAt  time.Time
	recordErrorPackageName string
	recordErrorAction      string
	recordErrorCause       metadata.ErrorCause
	recordErrorDetails     string
	recordErrorAttrs       []metadata.Attribute
	recordFetchCalled      bool
	recordWriteCalled      bool
	recordWriteKey         string
	recordWriteKind        string
	recordWriteSizeByte    int
}

func (m *metadataSinkMock) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause metadata.ErrorCause,
	details string,
	attrs []metadata.Attribute,
) {
	m.recordErrorCalled = true
	m.recordErrorObservedAt = observedAt
	m.recordErrorPackageName = packageName
	m.recordErrorAction = action
	m.recordErrorCause = cause
	m.recordErrorDetails = details
	m.recordErrorAttrs = attrs
}

func (m *metadataSinkMock) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	contentHash string,
	fromCache bool,
) {
	m.recordFetchCalled = true
}

func (m *metadataSinkMock) RecordWrite(key string, kind string, sizeByte int) {
	m.recordWriteCalled = true
	m.recordWriteKey = key
	m.recordWriteKind = kind
	m.recordWriteSizeByte = sizeByte
}

// Reset clears all recorded state
func (m *metadataSinkMock) Reset() {
	m.recordErrorCalled = false
	m.recordErrorObservedAt = time.Time{}
	m.recordErrorPackageName = ""
	m.recordErrorAction = ""
	m.recordErrorCause = 0
	m.recordErrorDetails = ""
	m.recordErrorAttrs = nil
	m.recordFetchCalled = false
	m.recordWriteCalled = false
	m.recordWriteKey = ""
	m.recordWriteKind = ""
	m.recordWriteSizeByte = 0
}

// findAttrValue finds an attribute value by key in a slice of attributes
func findAttrValue(attrs []metadata.Attribute, key metadata.AttributeKey) string {
	for _, attr := range attrs {
		if attr.Key == key {
			return attr.Value
		}
	}
	return ""
}

// setFailingStore delegates to an in-memory store but fails every write.
type setFailingStore struct {
	*kv.MemoryStore
}

func newSetFailingStore() *setFailingStore {
	return &setFailingStore{MemoryStore: kv.NewMemoryStore()}
}

func (s *setFailingStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return &kv.StoreError{
		Message:   "write refused",
		Retryable: false,
		Cause:     kv.ErrCauseOperation,
	}
}

// pingFailingStore delegates to an in-memory store but reports the
// backend as unreachable.
type pingFailingStore struct {
	*kv.MemoryStore
}

func newPingFailingStore() *pingFailingStore {
	return &pingFailingStore{MemoryStore: kv.NewMemoryStore()}
}

func (s *pingFailingStore) Ping(ctx context.Context) error {
	return &kv.StoreError{
		Message:   "dial tcp refused",
		Retryable: true,
		Cause:     kv.ErrCauseConnection,
	}
}
