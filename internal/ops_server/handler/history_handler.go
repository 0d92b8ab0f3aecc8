package handler

import (
	"log/slog"
	"strconv"

	"github.com/fiat-wallet-ledger/internal/domain/shared"
	"github.com/fiat-wallet-ledger/internal/ops_server/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type HistoryHandler struct {
	history service.HistoryService
	logger  *slog.Logger
}

func NewHistoryHandler(logger *slog.Logger, history service.HistoryService) *HistoryHandler {
	return &HistoryHandler{
		history: history,
		logger:  logger,
	}
}

// List returns the status transitions of one entry, newest first
func (h *HistoryHandler) List(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid entry ID")
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil {
			RespondBadRequest(c, "Invalid limit")
			return
		}
	}

	events, err := h.history.ListHistory(c.Request.Context(), shared.EntryKind(c.Param("kind")), id, limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}

	response := make([]StatusEventResponse, 0, len(events))
	for _, e := range events {
		response = append(response, mapStatusEventToResponse(e))
	}
	RespondOK(c, response)
}
