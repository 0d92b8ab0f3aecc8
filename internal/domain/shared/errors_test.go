package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordMissing struct{}

func (recordMissing) Error() string { return "wallet not found" }
func (recordMissing) Unwrap() error { return ErrNotFound }

func TestErrorClassification(t *testing.T) {
	wrappedMissing := fmt.Errorf("failed to lock wallet: %w", recordMissing{})

	tests := []struct {
		name             string
		err              error
		notFound         bool
		invalidOperation bool
		internal         bool
	}{
		{name: "not found", err: wrappedMissing, notFound: true},
		{name: "invalid operation", err: NewInvalidOperation("transaction is %s", "COMPLETED"), invalidOperation: true},
		{name: "internal hides missing cause", err: NewInternalError("review resolution", wrappedMissing), internal: true},
		{name: "internal hides rejected cause", err: NewInternalError("review resolution", NewInvalidOperation("wallet frozen")), internal: true},
		{name: "plain error", err: errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.notFound, IsNotFound(tt.err))
			assert.Equal(t, tt.invalidOperation, IsInvalidOperation(tt.err))
			assert.Equal(t, tt.internal, errors.Is(tt.err, ErrInternal))
		})
	}
}

func TestNewInternalError_KeepsCauseAndDoesNotDoubleWrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewInternalError("review resolution", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, err, NewInternalError("outer", err))
	assert.Nil(t, NewInternalError("noop", nil))
}
