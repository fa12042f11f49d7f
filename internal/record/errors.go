package record

import (
	"fmt"

	"github.com/rohmanhakim/redis-tracker/internal/metadata"
	"github.com/rohmanhakim/redis-tracker/pkg/failure"
)

type RecordErrorCause string

const (
	ErrCauseStoreFailure    = "store operation failed"
	ErrCauseUnsupportedKind = "unsupported value kind"
	ErrCauseDecode          = "stored bytes do not decode as requested"
)

type RecordError struct {
	Message   string
	Retryable bool
	Cause     RecordErrorCause
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record error: %s: %s", e.Cause, e.Message)
}

func (e *RecordError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// IsRetryable returns whether this error is retryable
func (e *RecordError) IsRetryable() bool {
	return e.Retryable
}

// mapRecordErrorToMetadataCause maps record-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapRecordErrorToMetadataCause(err *RecordError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseStoreFailure:
		return metadata.CauseStoreFailure
	case ErrCauseDecode:
		return metadata.CauseContentInvalid
	case ErrCauseUnsupportedKind:
		return metadata.CauseContentInvalid
	default:
		return metadata.CauseUnknown
	}
}
