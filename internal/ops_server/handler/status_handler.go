package handler

import (
	"log/slog"
	"strings"

	"github.com/fiat-wallet-ledger/internal/domain/shared"
	"github.com/fiat-wallet-ledger/internal/logger"
	"github.com/fiat-wallet-ledger/internal/ops_server/middleware"
	"github.com/fiat-wallet-ledger/internal/status_engine/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StatusHandler lets operators drive the status engines directly
type StatusHandler struct {
	transactions     service.TransactionStatusService
	fiatTransactions service.FiatWalletTransactionStatusService
	review           service.ReviewResolutionService
	logger           *slog.Logger
}

func NewStatusHandler(
	logger *slog.Logger,
	transactions service.TransactionStatusService,
	fiatTransactions service.FiatWalletTransactionStatusService,
	review service.ReviewResolutionService,
) *StatusHandler {
	return &StatusHandler{
		transactions:     transactions,
		fiatTransactions: fiatTransactions,
		review:           review,
		logger:           logger,
	}
}

func (h *StatusHandler) requestLogger(c *gin.Context) *slog.Logger {
	return logger.WithCorrelation(h.logger, middleware.GetCorrelationID(c))
}

// parseTarget reads the :id param and the status, answering 400 itself on failure
func parseTarget(c *gin.Context, rawStatus string) (uuid.UUID, shared.TransactionStatus, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid entry ID")
		return uuid.Nil, "", false
	}
	status := shared.TransactionStatus(strings.ToUpper(strings.TrimSpace(rawStatus)))
	if !status.IsValid() {
		RespondBadRequest(c, "Invalid status: "+rawStatus)
		return uuid.Nil, "", false
	}
	return id, status, true
}

// UpdateTransactionStatus moves a Transaction through the locking engine
func (h *StatusHandler) UpdateTransactionStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	id, status, ok := parseTarget(c, req.Status)
	if !ok {
		return
	}

	entry, err := h.transactions.UpdateStatus(c.Request.Context(), id, status, req.metadata(), req.policy())
	if err != nil {
		h.requestLogger(c).Warn("Operator status update failed", "transaction_id", id.String(), "status", string(status), "error", err)
		RespondServiceError(c, err)
		return
	}

	h.requestLogger(c).Info("Operator status update applied", "transaction_id", id.String(), "status", string(entry.Status))
	RespondOK(c, mapTransactionToResponse(entry))
}

// UpdateFiatWalletTransactionStatus moves a wallet leg through the locking engine
func (h *StatusHandler) UpdateFiatWalletTransactionStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	id, status, ok := parseTarget(c, req.Status)
	if !ok {
		return
	}

	entry, err := h.fiatTransactions.UpdateStatus(c.Request.Context(), id, status, req.metadata())
	if err != nil {
		h.requestLogger(c).Warn("Operator wallet leg update failed", "fiat_wallet_transaction_id", id.String(), "status", string(status), "error", err)
		RespondServiceError(c, err)
		return
	}

	RespondOK(c, mapFiatWalletTransactionToResponse(entry))
}

// ResolveReview settles a transaction held in REVIEW, refunding any escrowed funds
func (h *StatusHandler) ResolveReview(c *gin.Context) {
	var req ResolveReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	id, status, ok := parseTarget(c, req.Status)
	if !ok {
		return
	}

	entry, err := h.review.UpdateInReviewTransactionStatus(c.Request.Context(), id, status, &shared.StatusMetadata{
		FailureReason: req.FailureReason,
	})
	if err != nil {
		h.requestLogger(c).Warn("Review resolution failed", "transaction_id", id.String(), "status", string(status), "error", err)
		RespondServiceError(c, err)
		return
	}

	h.requestLogger(c).Info("Review resolved", "transaction_id", id.String(), "status", string(entry.Status))
	RespondOK(c, mapTransactionToResponse(entry))
}
