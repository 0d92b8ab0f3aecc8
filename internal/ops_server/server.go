package ops_server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/fiat-wallet-ledger/internal/config"
	"github.com/fiat-wallet-ledger/internal/ops_server/handler"
	"github.com/fiat-wallet-ledger/internal/ops_server/service"
	"github.com/fiat-wallet-ledger/internal/status_engine/components"
	"github.com/gin-gonic/gin"
)

// Server exposes health probes and operator endpoints over HTTP
type Server struct {
	logger     *slog.Logger
	httpServer *http.Server
	httpRouter *gin.Engine
}

func NewServer(
	log *slog.Logger,
	cfg *config.Config,
	statusServices *components.StatusServices,
	readiness service.ReadinessService,
	history service.HistoryService,
) *Server {
	if cfg.Application.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	httpRouter := gin.New()

	setupRouter(log, httpRouter,
		handler.NewHealthHandler(readiness),
		handler.NewStatusHandler(log, statusServices.Transactions, statusServices.FiatTransactions, statusServices.Review),
		handler.NewHistoryHandler(log, history),
	)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      httpRouter,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		logger:     log,
		httpServer: httpServer,
		httpRouter: httpRouter,
	}
}

// Start blocks serving requests until Stop is called
func (s *Server) Start() error {
	s.logger.Info("Ops server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop drains in-flight requests until ctx expires
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping ops server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to stop HTTP server: %w", err)
	}
	return nil
}

// Handler exposes the router for in-process tests
func (s *Server) Handler() http.Handler {
	return s.httpRouter
}
