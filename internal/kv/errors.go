package kv

import (
	"fmt"

	"github.com/rohmanhakim/redis-tracker/pkg/failure"
)

type StoreErrorCause string

const (
	ErrCauseConnection   StoreErrorCause = "store unreachable"
	ErrCauseOperation    StoreErrorCause = "command failed"
	ErrCauseCounterValue StoreErrorCause = "value is not an integer"
)

type StoreError struct {
	Message   string
	Retryable bool
	Cause     StoreErrorCause
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error: %s: %s", e.Cause, e.Message)
}

func (e *StoreError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// IsRetryable returns whether this error is retryable
func (e *StoreError) IsRetryable() bool {
	return e.Retryable
}
