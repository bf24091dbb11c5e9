package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RequestIDKey is the gin context key holding the request ID
const RequestIDKey = "request_id"

// RequestIDHeader carries the request ID in and out
const RequestIDHeader = "X-Request-ID"

// RequestID reuses the caller's X-Request-ID or assigns a new UUID, and echoes it back
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func requestFields(c *gin.Context) logrus.Fields {
	return logrus.Fields{
		"request_id":  c.GetString(RequestIDKey),
		"method":      c.Request.Method,
		"path":        c.Request.URL.Path,
		"status_code": c.Writer.Status(),
	}
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

// StructuredLogger writes one entry per request once the chain has run.
// 5xx are logged as errors and 4xx as warnings.
func StructuredLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := requestFields(c)
		fields["latency_ms"] = millis(time.Since(start))
		fields["client_ip"] = c.ClientIP()
		fields["response_size"] = c.Writer.Size()
		if c.Request.URL.RawQuery != "" {
			fields["query"] = c.Request.URL.RawQuery
		}

		entry := logger.WithFields(fields)
		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error("Server error")
		case status >= 400:
			entry.Warn("Client error")
		default:
			entry.Info("Request completed")
		}
	}
}

// PerformanceMonitor warns about requests slower than threshold (one second when zero)
func PerformanceMonitor(logger *logrus.Logger, threshold time.Duration) gin.HandlerFunc {
	if threshold <= 0 {
		threshold = time.Second
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if latency := time.Since(start); latency > threshold {
			fields := requestFields(c)
			fields["latency_ms"] = millis(latency)
			fields["threshold_ms"] = millis(threshold)
			logger.WithFields(fields).Warn("Slow request detected")
		}
	}
}

// ErrorTracker logs every error handlers attached with c.Error. A string set
// with SetMeta is reported as the cause.
func ErrorTracker(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		for _, err := range c.Errors {
			fields := requestFields(c)
			fields["private"] = err.IsType(gin.ErrorTypePrivate)
			if err.Meta != nil {
				fields["cause"] = err.Meta
			}
			logger.WithFields(fields).WithError(err.Err).Error("Request error")
		}
	}
}
