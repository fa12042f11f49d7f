package pagecache

import (
	"fmt"

	"github.com/rohmanhakim/redis-tracker/internal/metadata"
	"github.com/rohmanhakim/redis-tracker/pkg/failure"
)

type CacheErrorCause string

const (
	ErrCauseStoreFailure = "store operation failed"
	ErrCauseBadURL       = "malformed url"
)

type CacheError struct {
	Message   string
	Retryable bool
	Cause     CacheErrorCause
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("page cache error: %s: %s", e.Cause, e.Message)
}

func (e *CacheError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// IsRetryable returns whether this error is retryable
func (e *CacheError) IsRetryable() bool {
	return e.Retryable
}

// mapCacheErrorToMetadataCause maps cache-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapCacheErrorToMetadataCause(err *CacheError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseStoreFailure:
		return metadata.CauseStoreFailure
	default:
		return metadata.CauseUnknown
	}
}
