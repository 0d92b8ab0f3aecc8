package shared

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StatusUpdateRequest is the Kafka message webhook handlers and workers publish
// to move a ledger entry to a new status
type StatusUpdateRequest struct {
	EntryKind          EntryKind         `json:"entry_kind"`
	EntryID            uuid.UUID         `json:"entry_id"`
	Status             TransactionStatus `json:"status"`
	ProviderReference  *string           `json:"provider_reference,omitempty"`
	ProviderRequestRef *string           `json:"provider_request_ref,omitempty"`
	ProviderMetadata   Metadata          `json:"provider_metadata,omitempty"`
	FailureReason      *string           `json:"failure_reason,omitempty"`
	BalanceAfter       Optional[int64]   `json:"balance_after"`
	CorrelationID      string            `json:"correlation_id"`
	RequestedAt        time.Time         `json:"requested_at"`
}

// StatusMetadata extracts the optional update fields
func (r *StatusUpdateRequest) StatusMetadata() *StatusMetadata {
	return &StatusMetadata{
		ProviderReference:  r.ProviderReference,
		ProviderRequestRef: r.ProviderRequestRef,
		ProviderMetadata:   r.ProviderMetadata,
		FailureReason:      r.FailureReason,
		BalanceAfter:       r.BalanceAfter,
	}
}

// IsValid reports whether k names a known entry table
func (k EntryKind) IsValid() bool {
	return k == EntryKindTransaction || k == EntryKindFiatWalletTransaction
}

// StatusLockKey is the lock every status mutation of one entry serializes on
func (k EntryKind) StatusLockKey(id uuid.UUID) string {
	return fmt.Sprintf("%s:%s:update-status", k, id)
}

// Validate rejects requests no engine can act on
func (r *StatusUpdateRequest) Validate() error {
	if !r.EntryKind.IsValid() {
		return NewInvalidOperation("unknown entry kind %q", r.EntryKind)
	}
	if r.EntryID == uuid.Nil {
		return NewInvalidOperation("entry id is required")
	}
	if !r.Status.IsValid() {
		return NewInvalidOperation("unknown status %q", r.Status)
	}
	if err := r.ProviderMetadata.Validate(); err != nil {
		return NewInvalidOperation("%v", err)
	}
	return nil
}
