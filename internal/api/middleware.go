package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/moderation/internal/logger"
)

// requestIDBufSize is the buffer size for a generated request ID (hex
// timestamp).
const requestIDBufSize = 16

// loggerMiddleware creates a gin middleware for structured HTTP request
// logging: method, path, status, duration, and client IP.
func loggerMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery
		method := c.Request.Method

		c.Next()

		fields := []logger.Field{
			logger.String("method", method),
			logger.String("path", path),
			logger.Int("status", c.Writer.Status()),
			logger.Duration("duration", time.Since(start)),
			logger.String("client_ip", c.ClientIP()),
		}

		if query != "" {
			fields = append(fields, logger.String("query", query))
		}

		if requestID, ok := c.Get("request_id"); ok {
			if id, isString := requestID.(string); isString {
				fields = append(fields, logger.String("request_id", id))
			}
		}

		if !strings.HasPrefix(path, "/health") {
			fields = append(fields, logger.String("user_agent", c.Request.UserAgent()))
		}

		// Fold handler errors into the single log entry to avoid
		// double-logging
		if len(c.Errors) > 0 {
			errorMessages := make([]string, len(c.Errors))
			for i, err := range c.Errors {
				errorMessages[i] = err.Err.Error()
			}
			fields = append(fields, logger.Strings("errors", errorMessages))
			log.Error("HTTP request with errors", fields...)
			return
		}

		log.Info("HTTP request", fields...)
	}
}

// recoveryMiddleware catches panics, logs them, and returns a 500 error.
func recoveryMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error("Panic recovered",
					logger.Any("error", err),
					logger.String("path", c.Request.URL.Path),
					logger.String("method", c.Request.Method),
					logger.String("client_ip", c.ClientIP()),
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "internal server error",
				})
			}
		}()

		c.Next()
	}
}

// requestIDMiddleware attaches a request ID, taken from the X-Request-ID
// header or generated.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = generateRequestID()
		}

		c.Set("request_id", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)

		c.Next()
	}
}

// generateRequestID creates a simple unique request ID from the current
// nanosecond timestamp, formatted as hex.
func generateRequestID() string {
	now := time.Now().UnixNano()
	const hexDigits = "0123456789abcdef"
	result := make([]byte, requestIDBufSize)
	for i := requestIDBufSize - 1; i >= 0; i-- {
		result[i] = hexDigits[now&0xf]
		now >>= 4
	}
	return string(result)
}
