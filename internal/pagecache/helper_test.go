package pagecache_test

import (
	"context"
	"net/url"
	"time"

	"github.com/rohmanhakim/redis-tracker/internal/fetcher"
	"github.com/rohmanhakim/redis-tracker/internal/kv"
	"github.com/rohmanhakim/redis-tracker/internal/metadata"
	"github.com/rohmanhakim/redis-tracker/pkg/failure"
	"github.com/stretchr/testify/mock"
)

// metadataSinkMock is a test double for metadata.MetadataSink
type metadataSinkMock struct {
	fetchEvents []fetchEvent
	errorEvents []errorEvent
	writeEvents []writeEvent
}

type fetchEvent struct {
	fetchUrl    string
	httpStatus  int
	duration    time.Duration
	contentHash string
	fromCache   bool
}

type errorEvent struct {
	observedAt  time.Time
	packageName string
	action      string
	cause       metadata.ErrorCause
	details     string
	attrs       []metadata.Attribute
}

type writeEvent struct {
	key      string
	kind     string
	sizeByte int
}

func (m *metadataSinkMock) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	contentHash string,
	fromCache bool,
) {
	m.fetchEvents = append(m.fetchEvents, fetchEvent{
		fetchUrl:    fetchUrl,
		httpStatus:  httpStatus,
		duration:    duration,
		contentHash: contentHash,
		fromCache:   fromCache,
	})
}

func (m *metadataSinkMock) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause metadata.ErrorCause,
	details string,
	attrs []metadata.Attribute,
) {
	m.errorEvents = append(m.errorEvents, errorEvent{
		observedAt:  observedAt,
		packageName: packageName,
		action:      action,
		cause:       cause,
		details:     details,
		attrs:       attrs,
	})
}

func (m *metadataSinkMock) RecordWrite(key string, kind string, sizeByte int) {
	m.writeEvents = append(m.writeEvents, writeEvent{
		key:      key,
		kind:     kind,
		sizeByte: sizeByte,
	})
}

// fetcherMock is a testify mock for the Fetcher
type fetcherMock struct {
	mock.Mock
}

func (f *fetcherMock) Fetch(
	ctx context.Context,
	pageURL url.URL,
) (fetcher.FetchResult, failure.ClassifiedError) {
	args := f.Called(ctx, pageURL)
	result := args.Get(0).(fetcher.FetchResult)
	var err failure.ClassifiedError
	if args.Get(1) != nil {
		err = args.Get(1).(failure.ClassifiedError)
	}
	return result, err
}

// setupFetcherMockWithSuccess sets up the fetcher mock to return a successful response
func setupFetcherMockWithSuccess(m *fetcherMock, urlStr string, body []byte, statusCode int) {
	testURL, _ := url.Parse(urlStr)
	result := fetcher.NewFetchResultForTest(
		*testURL,
		body,
		statusCode,
		uint64(len(body)),
		map[string]string{
			"Content-Type": "text/html",
		},
	)
	m.On("Fetch", mock.Anything, mock.Anything).Return(result, nil)
}

// setupFetcherMockWithError sets up the fetcher mock to return an error
func setupFetcherMockWithError(m *fetcherMock, err failure.ClassifiedError) {
	m.On("Fetch", mock.Anything, mock.Anything).Return(fetcher.FetchResult{}, err)
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

// getFailingStore delegates to an in-memory store but fails every read.
type getFailingStore struct {
	*kv.MemoryStore
}

func newGetFailingStore() *getFailingStore {
	return &getFailingStore{MemoryStore: kv.NewMemoryStore()}
}

func (s *getFailingStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, &kv.StoreError{
		Message:   "dial tcp refused",
		Retryable: true,
		Cause:     kv.ErrCauseConnection,
	}
}
