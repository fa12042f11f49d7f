package tally

import (
	"fmt"

	"github.com/rohmanhakim/redis-tracker/pkg/failure"
)

type TallyErrorCause string

const (
	ErrCauseStoreFailure = "store operation failed"
	ErrCauseCounterValue = "counter value is not an integer"
)

type TallyError struct {
	Message   string
	Retryable bool
	Cause     TallyErrorCause
}

func (e *TallyError) Error() string {
	return fmt.Sprintf("tally error: %s: %s", e.Cause, e.Message)
}

func (e *TallyError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// IsRetryable returns whether this error is retryable
func (e *TallyError) IsRetryable() bool {
	return e.Retryable
}
