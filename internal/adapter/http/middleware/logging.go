package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskapp/pkg/logger"
	"taskapp/pkg/tracing"
)

func LoggingMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.String("request_id", GetCurrent(c).RequestID()),
			zap.String("service", log.ServiceName()),
		}

		if traceID := tracing.GetTraceID(c.Request.Context()); traceID != "" {
			fields = append(fields,
				zap.String("trace_id", traceID),
				zap.String("span_id", tracing.GetSpanID(c.Request.Context())))
		}

		if len(c.Errors) > 0 {
			log.ErrorWithTrace(c.Request.Context(), "HTTP Request", append(fields, zap.String("errors", c.Errors.String()))...)
			return
		}

		log.InfoWithTrace(c.Request.Context(), "HTTP Request", fields...)
	}
}
