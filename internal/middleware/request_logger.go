package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// OrderIDKey is the gin context key handlers set so the access log can
// correlate a request with its order.
const OrderIDKey = "order_id"

// RequestLoggerConfig configures the access log.
type RequestLoggerConfig struct {
	// SkipPaths are not logged on success, e.g. probes and metrics.
	SkipPaths []string
}

// DefaultRequestLoggerConfig skips the probe and scrape endpoints.
func DefaultRequestLoggerConfig() RequestLoggerConfig {
	return RequestLoggerConfig{SkipPaths: []string{"/healthz", "/readyz", "/metrics"}}
}

// RequestLogger writes one structured access log line per request. The level
// follows the status code.
func RequestLogger(cfg RequestLoggerConfig) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		if _, ok := skip[path]; ok && status < 400 {
			return
		}

		event := log.WithLevel(levelFor(status)).
			Str("request_id", GetRequestID(c)).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status_code", status).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Str("ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent())
		if orderID := c.GetString(OrderIDKey); orderID != "" {
			event = event.Str("order_id", orderID)
		}
		event.Msg("HTTP request")
	}
}

func levelFor(status int) zerolog.Level {
	switch {
	case status >= 500:
		return zerolog.ErrorLevel
	case status >= 400:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}
