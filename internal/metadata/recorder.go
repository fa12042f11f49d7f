package metadata

import (
	"io"
	"sync"
	"time"

	"github.com/go-logfmt/logfmt"
)

/*
Metadata Collected
- Fetch timestamps
- HTTP status codes
- Content hashes
- Record keys and value kinds

Logging Goals
- Debuggable fetch and store behavior
- Post-run auditability
- Failure diagnostics

Structured logging is preferred.

Allowed:
- Primitive values
- Timestamps
- URLs (as values, not objects with behavior)
- Hashes
- Status codes
- Durations
- Identifiers (record keys, counter names)

Never allowed:
- Stored values themselves

Metadata is write-only.
No component may read metadata to influence store or fetch decisions.
*/

/*
Recorder captures structured events as logfmt records on the writer it is
given. It must not:
- choose or manage the destination (the caller owns the writer)
- affect control flow
- surface encoding failures to callers
Ordering guarantees:
- Events are recorded synchronously in the order they arrive at the mutex.
- Interleaving across goroutines is arrival order, nothing more.
- Consumers MUST NOT assume causal ordering between records.
*/
type Recorder struct {
	mu     sync.Mutex
	source string
	enc    *logfmt.Encoder
}

func NewRecorder(source string, w io.Writer) *Recorder {
	return &Recorder{
		source: source,
		enc:    logfmt.NewEncoder(w),
	}
}

func (r *Recorder) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	errorString string,
	attrs []Attribute,
) {
	record := ErrorRecord{
		packageName: packageName,
		action:      action,
		cause:       cause,
		errorString: errorString,
		observedAt:  observedAt,
		attrs:       attrs,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.enc.EncodeKeyvals(
		"ts", record.observedAt.Format(time.RFC3339),
		"src", r.source,
		"event", "error",
		"package", record.packageName,
		"action", record.action,
		"cause", record.cause.String(),
		"details", record.errorString,
	)
	for _, attr := range record.attrs {
		r.enc.EncodeKeyval(string(attr.Key), attr.Value)
	}
	r.enc.EndRecord()
}

func (r *Recorder) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	contentHash string,
	fromCache bool,
) {
	event := FetchEvent{
		fetchUrl:    fetchUrl,
		httpStatus:  httpStatus,
		duration:    duration,
		contentHash: contentHash,
		fromCache:   fromCache,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.enc.EncodeKeyvals(
		"ts", time.Now().Format(time.RFC3339),
		"src", r.source,
		"event", "fetch",
		"url", event.fetchUrl,
		"http_status", event.httpStatus,
		"duration_ms", event.duration.Milliseconds(),
		"content_hash", event.contentHash,
		"from_cache", event.fromCache,
	)
	r.enc.EndRecord()
}

func (r *Recorder) RecordWrite(key string, kind string, sizeByte int) {
	event := writeEvent{
		key:      key,
		kind:     kind,
		sizeByte: sizeByte,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.enc.EncodeKeyvals(
		"ts", time.Now().Format(time.RFC3339),
		"src", r.source,
		"event", "write",
		"key", event.key,
		"kind", event.kind,
		"size_byte", event.sizeByte,
	)
	r.enc.EndRecord()
}

type MetadataSink interface {
	RecordError(
		observedAt time.Time,
		packageName string,
		action string,
		cause ErrorCause,
		details string,
		attrs []Attribute,
	)

	RecordFetch(
		fetchUrl string,
		httpStatus int,
		duration time.Duration,
		contentHash string,
		fromCache bool,
	)

	RecordWrite(key string, kind string, sizeByte int)
}

// NoopSink, struct that implements metadata.MetadataSink but does nothing
// Callers (or Test) can decide whether to inject Recorder or NoopSink
// Purpose is to make metadata orthogonal

type NoopSink struct{}

func (n *NoopSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	errorString string,
	attrs []Attribute,
) {

}

func (n *NoopSink) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	contentHash string,
	fromCache bool,
) {
}

func (n *NoopSink) RecordWrite(key string, kind string, sizeByte int) {}
