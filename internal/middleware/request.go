package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yukikurage/resource-planning-api/internal/constants"
)

const (
	requestIDHeader   = "X-Request-ID"
	contextKeyLogger  = "logger"
	maxRequestIDBytes = 64
)

// RequestID reuses the caller's X-Request-ID or issues a new one and echoes it back.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > maxRequestIDBytes {
			id = uuid.NewString()
		}
		c.Set(constants.ContextKeyRequestID, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// RequestLogger stores a request scoped logger and logs every request once it
// completes, at a level chosen by the response status.
func RequestLogger(base zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		logger := base.With().Str("request_id", c.GetString(constants.ContextKeyRequestID)).Logger()
		c.Set(contextKeyLogger, logger)

		c.Next()

		status := c.Writer.Status()
		var event *zerolog.Event
		switch {
		case status >= 500:
			event = logger.Error()
		case status >= 400:
			event = logger.Warn()
		default:
			event = logger.Info()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP request")
	}
}

// Logger returns the request scoped logger, or a no-op logger outside RequestLogger.
func Logger(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(contextKeyLogger); ok {
		if logger, ok := v.(zerolog.Logger); ok {
			return &logger
		}
	}
	nop := zerolog.Nop()
	return &nop
}
