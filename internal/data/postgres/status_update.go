// Package postgres provides PostgreSQL implementations of the domain repositories.
package postgres

import (
	"fmt"
	"strings"
	"time"

	"github.com/fiat-wallet-ledger/internal/domain/shared"
)

// statusColumns maps the shared status fields onto one table's column names
type statusColumns struct {
	table              string
	referenceColumn    string
	metadataColumn     string
	supportsRequestRef bool
	returning          string
}

type setClause struct {
	parts []string
	args  []interface{}
}

func (s *setClause) add(column string, value interface{}) {
	s.args = append(s.args, value)
	s.parts = append(s.parts, fmt.Sprintf("%s = $%d", column, len(s.args)))
}

// buildStatusUpdate renders an UPDATE ... RETURNING statement touching only the
// columns present in changes, plus updated_at.
func buildStatusUpdate(cols statusColumns, id interface{}, changes shared.StatusChanges, now time.Time) (string, []interface{}, error) {
	set := &setClause{}

	if changes.Status != nil {
		set.add("status", *changes.Status)
	}
	if changes.ProcessedAt != nil {
		set.add("processed_at", *changes.ProcessedAt)
	}
	if changes.CompletedAt != nil {
		set.add("completed_at", *changes.CompletedAt)
	}
	if changes.FailedAt != nil {
		set.add("failed_at", *changes.FailedAt)
	}
	if changes.FailureReason != nil {
		set.add("failure_reason", *changes.FailureReason)
	}
	if changes.ProviderReference != nil {
		set.add(cols.referenceColumn, *changes.ProviderReference)
	}
	if changes.ProviderRequestRef != nil && cols.supportsRequestRef {
		set.add("provider_request_ref", *changes.ProviderRequestRef)
	}
	if changes.Metadata != nil {
		raw, err := changes.Metadata.Bytes()
		if err != nil {
			return "", nil, fmt.Errorf("failed to encode %s: %w", cols.metadataColumn, err)
		}
		set.add(cols.metadataColumn, raw)
	}
	if balanceAfter, ok := changes.BalanceAfter.Get(); ok {
		set.add("balance_after", balanceAfter)
	}
	set.add("updated_at", now)

	set.args = append(set.args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING %s",
		cols.table,
		strings.Join(set.parts, ", "),
		len(set.args),
		cols.returning,
	)
	return query, set.args, nil
}
