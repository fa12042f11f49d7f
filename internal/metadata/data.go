package metadata

import (
	"time"
)

type FetchEvent struct {
	fetchUrl    string
	httpStatus  int
	duration    time.Duration
	contentHash string
	fromCache   bool
}

/*
writeEvent
  - Represents a single completed record write
  - Contains only the stored key, the declared value kind and the byte size
  - Never contains the stored value itself
  - Must not influence storage decisions
*/
type writeEvent struct {
	key      string
	kind     string
	sizeByte int
}

/*
	ErrorCause is a closed, canonical classification used exclusively for
	observability (logging, metrics, reporting).

	Rules:
	 - ErrorCause is for observability only.
	 - It must never be used to derive retry, continuation, or abort decisions.
	 - Any use of metadata.ErrorCause outside logging, metrics, or reporting is a design violation.
	 - ErrorCause MUST NOT influence control flow.
	 - ErrorCause values MUST have stable, package-agnostic semantics.
	 - Pipeline packages MAY map their local errors to ErrorCause,
	   but MUST NOT invent new meanings.
	Non-goals:
	 - ErrorCause does not encode severity.
	 - ErrorCause does not imply retryability.
	 - ErrorCause does not imply correctness of downstream behavior.

If a failure does not clearly match a defined cause, CauseUnknown MUST be used.
*/
type ErrorCause int

/*
Canonical ErrorCause Table

# CauseUnknown

Meaning:
  - The failure does not map cleanly to any known category.
  - Used as a safe fallback.

Examples:
  - Unexpected internal errors
  - Unclassified third-party library failures

# CauseNetworkFailure

Meaning:
  - Failure caused by network transport or remote availability.

Examples:
  - TCP timeouts
  - DNS resolution failures
  - Connection resets
  - Non-2xx responses from the origin

# CauseStoreFailure

Meaning:
  - Failure while talking to the key-value store.

Examples:
  - Store unreachable
  - Command failures
  - INCR on a non-numeric value

# CauseContentInvalid

Meaning:
  - A value was retrieved but could not be decoded as requested.

Examples:
  - Integer decode on non-numeric bytes
  - Stored bytes that are not valid for the requested kind
*/
const (
	CauseUnknown = iota
	CauseNetworkFailure
	CauseStoreFailure
	CauseContentInvalid
)

func (c ErrorCause) String() string {
	switch c {
	case CauseNetworkFailure:
		return "network_failure"
	case CauseStoreFailure:
		return "store_failure"
	case CauseContentInvalid:
		return "content_invalid"
	default:
		return "unknown"
	}
}

type ErrorRecord struct {
	packageName string
	action      string
	cause       ErrorCause
	errorString string
	observedAt  time.Time
	attrs       []Attribute
}

type Attribute struct {
	Key   AttributeKey
	Value string
}

func NewAttr(key AttributeKey, val string) Attribute {
	return Attribute{
		Key:   key,
		Value: val,
	}
}

type AttributeKey string

const (
	AttrTime       AttributeKey = "time"
	AttrURL        AttributeKey = "url"
	AttrKey        AttributeKey = "key"
	AttrKind       AttributeKey = "kind"
	AttrCounter    AttributeKey = "counter"
	AttrHTTPStatus AttributeKey = "http_status"
	AttrSizeByte   AttributeKey = "size_byte"
)
