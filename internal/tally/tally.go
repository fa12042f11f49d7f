package tally

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rohmanhakim/redis-tracker/internal/kv"
	"github.com/rohmanhakim/redis-tracker/pkg/failure"
)

/*
Responsibilities

- Bump named counters in the key-value store
- Read counters back without writing on the read path

Counting Semantics

- Counter names are full key names; the tally adds no prefix
- A counter that was never bumped reads as zero
- Bumps are atomic in the store and never touch an existing expiry

The tally never decides which operations get counted; callers do.
*/

type Tally struct {
	store kv.Store
}

func NewTally(store kv.Store) Tally {
	return Tally{
		store: store,
	}
}

// Incr bumps the counter stored under name and returns the new total.
func (t *Tally) Incr(ctx context.Context, name string) (int64, error) {
	count, err := t.store.Incr(ctx, name)
	if err != nil {
		return 0, wrapStoreError("INCR", name, err)
	}
	return count, nil
}

// Count reads the current total of the counter stored under name.
// A counter that was never bumped reads as zero.
func (t *Tally) Count(ctx context.Context, name string) (int64, error) {
	value, found, err := t.store.Get(ctx, name)
	if err != nil {
		return 0, wrapStoreError("GET", name, err)
	}
	if !found {
		return 0, nil
	}

	count, parseErr := strconv.ParseInt(string(value), 10, 64)
	if parseErr != nil {
		return 0, &TallyError{
			Message:   fmt.Sprintf("counter %s holds %q", name, value),
			Retryable: false,
			Cause:     ErrCauseCounterValue,
		}
	}
	return count, nil
}

func wrapStoreError(op string, name string, err error) *TallyError {
	var cause TallyErrorCause = ErrCauseStoreFailure
	var storeErr *kv.StoreError
	if errors.As(err, &storeErr) && storeErr.Cause == kv.ErrCauseCounterValue {
		cause = ErrCauseCounterValue
	}
	return &TallyError{
		Message:   fmt.Sprintf("%s %s: %v", op, name, err),
		Retryable: retryable(err),
		Cause:     cause,
	}
}

func retryable(err error) bool {
	var classified failure.ClassifiedError
	if errors.As(err, &classified) {
		return classified.Severity() == failure.SeverityRecoverable
	}
	return false
}
