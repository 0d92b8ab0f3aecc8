package shared

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrInternal         = errors.New("internal error")

	ErrInvalidStatus        = errors.New("invalid transaction status")
	ErrInvalidCurrency      = errors.New("currency must be a 3-letter code")
	ErrInvalidMetadataValue = errors.New("metadata value is not valid JSON")
)

// InvalidOperationError rejects a request that is illegal for the entry's current state
type InvalidOperationError struct {
	Reason string
}

func (e InvalidOperationError) Error() string {
	return "invalid operation: " + e.Reason
}

func (e InvalidOperationError) Unwrap() error {
	return ErrInvalidOperation
}

// NewInvalidOperation builds an InvalidOperationError with a formatted reason
func NewInvalidOperation(format string, args ...any) error {
	return InvalidOperationError{Reason: fmt.Sprintf(format, args...)}
}

// InternalError wraps a persistence, lock or collaborator failure
type InternalError struct {
	Op  string
	Err error
}

func (e InternalError) Error() string {
	return fmt.Sprintf("internal error during %s: %v", e.Op, e.Err)
}

func (e InternalError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match ErrInternal while Unwrap keeps the cause reachable
func (e InternalError) Is(target error) bool {
	return target == ErrInternal
}

// NewInternalError wraps err unless it is already classified as internal
func NewInternalError(op string, err error) error {
	if err == nil {
		return nil
	}
	var internal InternalError
	if errors.As(err, &internal) {
		return err
	}
	return InternalError{Op: op, Err: err}
}

// IsNotFound reports a NotFound outcome. An InternalError never counts,
// even when its cause is a missing record.
func IsNotFound(err error) bool {
	return !errors.Is(err, ErrInternal) && errors.Is(err, ErrNotFound)
}

// IsInvalidOperation reports a rejected request. An InternalError never counts.
func IsInvalidOperation(err error) bool {
	return !errors.Is(err, ErrInternal) && errors.Is(err, ErrInvalidOperation)
}
