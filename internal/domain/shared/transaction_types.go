package shared

// TransactionType defines the monetary movement an entry records
type TransactionType string

const (
	TransactionTypeDeposit     TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal  TransactionType = "WITHDRAWAL"
	TransactionTypeTransferIn  TransactionType = "TRANSFER_IN"
	TransactionTypeTransferOut TransactionType = "TRANSFER_OUT"
	TransactionTypeExchange    TransactionType = "EXCHANGE"
	TransactionTypeReward      TransactionType = "REWARD"
	TransactionTypeRefund      TransactionType = "REFUND"
	TransactionTypeFee         TransactionType = "FEE"
)

// IsExchange reports whether the entry is one leg of a currency exchange
func (t TransactionType) IsExchange() bool {
	return t == TransactionTypeExchange
}

// TransactionStatus defines ledger entry lifecycle states
type TransactionStatus string

const (
	TransactionStatusPending    TransactionStatus = "PENDING"
	TransactionStatusProcessing TransactionStatus = "PROCESSING"
	TransactionStatusReview     TransactionStatus = "REVIEW"
	TransactionStatusCompleted  TransactionStatus = "COMPLETED"
	TransactionStatusFailed     TransactionStatus = "FAILED"
	TransactionStatusCancelled  TransactionStatus = "CANCELLED"
	// TransactionStatusReconcile is internal only and never shown in user listings.
	TransactionStatusReconcile TransactionStatus = "RECONCILE"
)

// IsValid reports whether s is one of the known statuses
func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusPending,
		TransactionStatusProcessing,
		TransactionStatusReview,
		TransactionStatusCompleted,
		TransactionStatusFailed,
		TransactionStatusCancelled,
		TransactionStatusReconcile:
		return true
	}
	return false
}

// IsTerminal reports whether no further status change is allowed
func (s TransactionStatus) IsTerminal() bool {
	return s == TransactionStatusCompleted || s == TransactionStatusFailed || s == TransactionStatusCancelled
}

// IsUserVisible reports whether entries in this status may appear in user-facing listings
func (s TransactionStatus) IsUserVisible() bool {
	return s.IsValid() && s != TransactionStatusReconcile
}

// TransactionCategory groups entries for reporting
type TransactionCategory string

const (
	TransactionCategoryFiat     TransactionCategory = "FIAT"
	TransactionCategoryExchange TransactionCategory = "EXCHANGE"
	TransactionCategoryReward   TransactionCategory = "REWARD"
)

// TransactionScope tells whether the counterparty sits inside the platform
type TransactionScope string

const (
	TransactionScopeInternal TransactionScope = "INTERNAL"
	TransactionScopeExternal TransactionScope = "EXTERNAL"
)

// EntryKind names the two status-tracked ledger entry tables
type EntryKind string

const (
	EntryKindTransaction           EntryKind = "transaction"
	EntryKindFiatWalletTransaction EntryKind = "fiat-wallet-transaction"
)

// OutboxStatus defines message publishing states
type OutboxStatus string

const (
	OutboxStatusPending         OutboxStatus = "PENDING"
	OutboxStatusProcessed       OutboxStatus = "PROCESSED"
	OutboxStatusFailedToPublish OutboxStatus = "FAILED_TO_PUBLISH"
)
