package middleware

import (
	"time"

	"conflictdash/internal"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request ID in both directions
	RequestIDHeader = "X-Request-ID"
	// RequestIDKey is the gin context key holding the request ID
	RequestIDKey = "request_id"
)

// RequestID propagates an incoming X-Request-ID or generates a new one
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// GetRequestID returns the ID assigned by RequestID, or ""
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

// RequestLogger logs each completed request, at WARN for 4xx and ERROR for 5xx
func RequestLogger(logger *internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		logger.Debug("[HTTP] %s started %s %s", GetRequestID(c), c.Request.Method, c.Request.URL.RequestURI())

		c.Next()

		status := c.Writer.Status()
		duration := time.Since(start)
		format := "[HTTP] %s %s %s -> %d (%s)"
		args := []interface{}{GetRequestID(c), c.Request.Method, c.Request.URL.RequestURI(), status, duration}

		switch {
		case status >= 500:
			logger.Error(format, args...)
		case status >= 400:
			logger.Warn(format, args...)
		default:
			logger.Info(format, args...)
		}
		for _, err := range c.Errors {
			logger.Debug("[HTTP] %s error: %v", GetRequestID(c), err.Err)
		}
	}
}
