package handler

import (
	"time"

	"github.com/fiat-wallet-ledger/internal/domain/fiatwallet"
	"github.com/fiat-wallet-ledger/internal/domain/history"
	"github.com/fiat-wallet-ledger/internal/domain/shared"
	"github.com/fiat-wallet-ledger/internal/domain/transaction"
	"github.com/fiat-wallet-ledger/internal/status_engine/service"
)

// UpdateStatusRequest is an operator-issued status change
type UpdateStatusRequest struct {
	Status             string                 `json:"status" binding:"required"`
	ProviderReference  *string                `json:"provider_reference,omitempty"`
	ProviderRequestRef *string                `json:"provider_request_ref,omitempty"`
	ProviderMetadata   shared.Metadata        `json:"provider_metadata,omitempty"`
	FailureReason      *string                `json:"failure_reason,omitempty"`
	BalanceAfter       shared.Optional[int64] `json:"balance_after"`
	Notify             string                 `json:"notify,omitempty" binding:"omitempty,oneof=all in_app_only silent"`
}

func (r *UpdateStatusRequest) policy() service.NotificationPolicy {
	switch r.Notify {
	case "in_app_only":
		return service.NotifyInAppOnly
	case "silent":
		return service.NotifySilent
	}
	return service.NotifyAll
}

func (r *UpdateStatusRequest) metadata() *shared.StatusMetadata {
	return &shared.StatusMetadata{
		ProviderReference:  r.ProviderReference,
		ProviderRequestRef: r.ProviderRequestRef,
		ProviderMetadata:   r.ProviderMetadata,
		FailureReason:      r.FailureReason,
		BalanceAfter:       r.BalanceAfter,
	}
}

// ResolveReviewRequest settles a transaction parked in REVIEW
type ResolveReviewRequest struct {
	Status        string  `json:"status" binding:"required"`
	FailureReason *string `json:"failure_reason,omitempty"`
}

type TransactionResponse struct {
	ID                string  `json:"id"`
	UserID            string  `json:"user_id"`
	Asset             string  `json:"asset"`
	Amount            int64   `json:"amount"`
	BalanceAfter      int64   `json:"balance_after"`
	Status            string  `json:"status"`
	TransactionType   string  `json:"transaction_type"`
	Reference         string  `json:"reference"`
	ExternalReference *string `json:"external_reference,omitempty"`
	FailureReason     *string `json:"failure_reason,omitempty"`
	ParentID          *string `json:"parent_transaction_id,omitempty"`
	ProcessedAt       string  `json:"processed_at,omitempty"`
	CompletedAt       string  `json:"completed_at,omitempty"`
	FailedAt          string  `json:"failed_at,omitempty"`
	UpdatedAt         string  `json:"updated_at"`
}

type FiatWalletTransactionResponse struct {
	ID                 string          `json:"id"`
	TransactionID      string          `json:"transaction_id"`
	FiatWalletID       string          `json:"fiat_wallet_id"`
	Currency           string          `json:"currency"`
	Amount             int64           `json:"amount"`
	BalanceAfter       int64           `json:"balance_after"`
	Status             string          `json:"status"`
	ProviderReference  *string         `json:"provider_reference,omitempty"`
	ProviderRequestRef *string         `json:"provider_request_ref,omitempty"`
	ProviderMetadata   shared.Metadata `json:"provider_metadata,omitempty"`
	FailureReason      *string         `json:"failure_reason,omitempty"`
	ProcessedAt        string          `json:"processed_at,omitempty"`
	CompletedAt        string          `json:"completed_at,omitempty"`
	FailedAt           string          `json:"failed_at,omitempty"`
	UpdatedAt          string          `json:"updated_at"`
}

type StatusEventResponse struct {
	FromStatus    string `json:"from_status"`
	ToStatus      string `json:"to_status"`
	Amount        int64  `json:"amount"`
	Asset         string `json:"asset"`
	FailureReason string `json:"failure_reason,omitempty"`
	OccurredAt    string `json:"occurred_at"`
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func mapTransactionToResponse(t *transaction.Transaction) TransactionResponse {
	response := TransactionResponse{
		ID:                t.ID.String(),
		UserID:            t.UserID.String(),
		Asset:             t.Asset,
		Amount:            t.Amount,
		BalanceAfter:      t.BalanceAfter,
		Status:            string(t.Status),
		TransactionType:   string(t.TransactionType),
		Reference:         t.Reference,
		ExternalReference: t.ExternalReference,
		FailureReason:     t.FailureReason,
		ProcessedAt:       formatTime(t.ProcessedAt),
		CompletedAt:       formatTime(t.CompletedAt),
		FailedAt:          formatTime(t.FailedAt),
		UpdatedAt:         t.UpdatedAt.Format(time.RFC3339),
	}
	if t.ParentID != nil {
		parent := t.ParentID.String()
		response.ParentID = &parent
	}
	return response
}

func mapFiatWalletTransactionToResponse(t *fiatwallet.Transaction) FiatWalletTransactionResponse {
	return FiatWalletTransactionResponse{
		ID:                 t.ID.String(),
		TransactionID:      t.TransactionID.String(),
		FiatWalletID:       t.FiatWalletID.String(),
		Currency:           t.Currency,
		Amount:             t.Amount,
		BalanceAfter:       t.BalanceAfter,
		Status:             string(t.Status),
		ProviderReference:  t.ProviderReference,
		ProviderRequestRef: t.ProviderRequestRef,
		ProviderMetadata:   t.ProviderMetadata,
		FailureReason:      t.FailureReason,
		ProcessedAt:        formatTime(t.ProcessedAt),
		CompletedAt:        formatTime(t.CompletedAt),
		FailedAt:           formatTime(t.FailedAt),
		UpdatedAt:          t.UpdatedAt.Format(time.RFC3339),
	}
}

func mapStatusEventToResponse(e *history.StatusEvent) StatusEventResponse {
	return StatusEventResponse{
		FromStatus:    string(e.FromStatus),
		ToStatus:      string(e.ToStatus),
		Amount:        e.Amount,
		Asset:         e.Asset,
		FailureReason: e.FailureReason,
		OccurredAt:    e.OccurredAt.Format(time.RFC3339),
	}
}
