package middleware

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fiat-wallet-ledger/internal/logger"
	"github.com/gin-gonic/gin"
)

// probePaths are polled by orchestrators and logged at debug only
var probePaths = map[string]bool{
	"/health": true,
	"/ready":  true,
}

// Logger writes one line per request once the handler chain has finished
func Logger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		case probePaths[path]:
			level = slog.LevelDebug
		}

		if raw != "" {
			path = path + "?" + raw
		}

		attrs := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "errors", strings.TrimSpace(c.Errors.String()))
		}

		logger.WithCorrelation(log, GetCorrelationID(c)).Log(context.Background(), level, "HTTP request", attrs...)
	}
}
