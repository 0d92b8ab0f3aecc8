package shared

import (
	"time"
)

// StatusMetadata holds the optional fields a caller may send with a status update
type StatusMetadata struct {
	ProviderReference  *string
	ProviderRequestRef *string
	ProviderMetadata   Metadata
	FailureReason      *string
	BalanceAfter       Optional[int64]
}

// HasCorrelationData reports whether the update carries data that may be applied to a terminal entry
func (m *StatusMetadata) HasCorrelationData() bool {
	if m == nil {
		return false
	}
	return m.ProviderReference != nil || m.ProviderMetadata != nil
}

// StatusChanges is the field-level update computed for one call.
// Nil pointers and unset optionals mean "leave the column alone".
type StatusChanges struct {
	Status             *TransactionStatus
	ProcessedAt        *time.Time
	CompletedAt        *time.Time
	FailedAt           *time.Time
	FailureReason      *string
	ProviderReference  *string
	ProviderRequestRef *string
	// Metadata is the full merged map to store, not a patch.
	Metadata     Metadata
	BalanceAfter Optional[int64]
}

// IsEmpty reports whether the update would not touch any column
func (c StatusChanges) IsEmpty() bool {
	return c.Status == nil &&
		c.ProcessedAt == nil &&
		c.CompletedAt == nil &&
		c.FailedAt == nil &&
		c.FailureReason == nil &&
		c.ProviderReference == nil &&
		c.ProviderRequestRef == nil &&
		c.Metadata == nil &&
		!c.BalanceAfter.IsSet()
}
