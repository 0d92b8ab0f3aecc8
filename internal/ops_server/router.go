package ops_server

import (
	"log/slog"

	"github.com/fiat-wallet-ledger/internal/ops_server/handler"
	"github.com/fiat-wallet-ledger/internal/ops_server/middleware"
	"github.com/gin-gonic/gin"
)

// setupRouter wires the probes and the operator endpoints
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	healthHandler *handler.HealthHandler,
	statusHandler *handler.StatusHandler,
	historyHandler *handler.HistoryHandler,
) {
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))

	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)

	v1 := r.Group("/api/v1")
	{
		transactions := v1.Group("/transactions")
		{
			transactions.PATCH("/:id/status", statusHandler.UpdateTransactionStatus)
			transactions.POST("/:id/review", statusHandler.ResolveReview)
		}

		v1.PATCH("/fiat-wallet-transactions/:id/status", statusHandler.UpdateFiatWalletTransactionStatus)

		v1.GET("/history/:kind/:id", historyHandler.List)
	}
}
