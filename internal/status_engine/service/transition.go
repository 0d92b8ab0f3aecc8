package service

import (
	"time"

	"github.com/fiat-wallet-ledger/internal/domain/shared"
)

// transitionPlan is the outcome of applying the lifecycle rules to one entry
type transitionPlan struct {
	changes       shared.StatusChanges
	statusChanged bool
}

// planTransition computes the column update for moving an entry from current to target.
//
// A terminal entry asked to move elsewhere keeps its status; only provider_reference and
// provider_metadata are applied, and only if present. Any other call stamps the timestamp
// belonging to target, even when current == target.
func planTransition(
	current shared.TransactionStatus,
	target shared.TransactionStatus,
	existing shared.Metadata,
	metadata *shared.StatusMetadata,
	now time.Time,
	withRequestRef bool,
) transitionPlan {
	if metadata == nil {
		metadata = &shared.StatusMetadata{}
	}

	if current.IsTerminal() && target != current {
		var changes shared.StatusChanges
		if metadata.HasCorrelationData() {
			changes.ProviderReference = metadata.ProviderReference
			if metadata.ProviderMetadata != nil {
				changes.Metadata = existing.Merge(metadata.ProviderMetadata)
			}
		}
		return transitionPlan{changes: changes}
	}

	status := target
	changes := shared.StatusChanges{Status: &status}

	switch target {
	case shared.TransactionStatusProcessing:
		changes.ProcessedAt = &now
	case shared.TransactionStatusCompleted:
		changes.CompletedAt = &now
	case shared.TransactionStatusFailed:
		changes.FailedAt = &now
		changes.FailureReason = metadata.FailureReason
	case shared.TransactionStatusReview:
		changes.FailureReason = metadata.FailureReason
	}

	changes.ProviderReference = metadata.ProviderReference
	if withRequestRef {
		changes.ProviderRequestRef = metadata.ProviderRequestRef
	}
	if metadata.ProviderMetadata != nil {
		changes.Metadata = existing.Merge(metadata.ProviderMetadata)
	}
	changes.BalanceAfter = metadata.BalanceAfter

	return transitionPlan{
		changes:       changes,
		statusChanged: current != target,
	}
}
