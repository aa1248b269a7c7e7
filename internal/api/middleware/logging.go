package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// LogApi writes one structured line per request. Authenticated requests
// carry the caller's id and role; 5xx responses are logged at error level.
func LogApi() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", path,
			"route", c.FullPath(),
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if userID, ok := c.Get(ContextUserID); ok {
			role, _ := c.Get(ContextRole)
			attrs = append(attrs, "user_id", userID, "role", role)
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate).String(); errs != "" {
			attrs = append(attrs, "errors", errs)
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			slog.Error("API request", attrs...)
		case status >= 400:
			slog.Warn("API request", attrs...)
		default:
			slog.Info("API request", attrs...)
		}
	}
}
