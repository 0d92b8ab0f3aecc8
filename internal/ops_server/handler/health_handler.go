package handler

import (
	"net/http"
	"time"

	"github.com/fiat-wallet-ledger/internal/ops_server/service"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	readiness service.ReadinessService
}

func NewHealthHandler(readiness service.ReadinessService) *HealthHandler {
	return &HealthHandler{readiness: readiness}
}

// Health answers as long as the process is serving
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
}

// Ready answers 503 listing each failing dependency
func (h *HealthHandler) Ready(c *gin.Context) {
	results := h.readiness.Check(c.Request.Context())

	checks := make(map[string]string, len(results))
	ready := true
	for name, err := range results {
		if err != nil {
			ready = false
			checks[name] = err.Error()
			continue
		}
		checks[name] = "ok"
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "checks": checks})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "checks": checks})
}
