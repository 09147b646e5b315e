package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/hummingbird-backend/internal/platform/ctxutil"
	"github.com/yungbote/hummingbird-backend/internal/platform/logger"
)

// Context keys handlers may set to enrich the access log line.
const (
	LogKeyIntent = "log.intent"
	LogKeyUserID = "log.user_id"
)

func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if log == nil {
			return
		}

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		fields := []interface{}{
			"method", strings.ToUpper(c.Request.Method),
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
			if td.TraceID != "" {
				fields = append(fields, "trace_id", td.TraceID)
			}
			if td.RequestID != "" {
				fields = append(fields, "request_id", td.RequestID)
			}
		}
		if v := c.GetString(LogKeyIntent); v != "" {
			fields = append(fields, "intent", v)
		}
		if v := c.GetString(LogKeyUserID); v != "" {
			fields = append(fields, "user_id", v)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400 || len(c.Errors) > 0:
			// In-band errors go out with 200 and are only visible through c.Errors.
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}
