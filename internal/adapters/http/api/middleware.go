package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/awaken-dev/awaken/pkg/logger"
	"github.com/awaken-dev/awaken/pkg/metrics"
)

const (
	// RequestIDHeader carries the per-request correlation id.
	RequestIDHeader = "X-Request-ID"

	requestIDKey      = "request_id"
	unmatchedEndpoint = "unmatched"
	maxRequestIDLen   = 128
)

// RequestIDMiddleware reuses an incoming X-Request-ID or generates a UUID,
// stores it on the context and echoes it in the response.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestID returns the id assigned by RequestIDMiddleware, if any.
func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// MetricsMiddleware records Prometheus request metrics labelled by route pattern.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.IncHTTPInFlight()
		defer metrics.DecHTTPInFlight()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = unmatchedEndpoint
		}
		status := c.Writer.Status()
		statusCode := strconv.Itoa(status)
		durationMs := float64(time.Since(start).Microseconds()) / 1000

		metrics.RecordHTTPRequest(endpoint, c.Request.Method, statusCode)
		metrics.RecordHTTPRequestDuration(endpoint, c.Request.Method, statusCode, durationMs)

		if status >= http.StatusBadRequest {
			errorType := getErrorType(status)
			metrics.RecordErrorByEndpoint(endpoint, c.Request.Method, errorType)
			metrics.RecordErrorByType(errorType, getErrorSeverity(status))
		}
	}
}

// AccessLogMiddleware logs one debug record per request.
func AccessLogMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if log == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		log.Debug(c.Request.Context(), "http request",
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status", c.Writer.Status()),
			logger.Int("bytes", c.Writer.Size()),
			logger.Duration("duration", time.Since(start)),
			logger.String("request_id", RequestID(c)),
		)
	}
}

// RecoveryMiddleware turns handler panics into a 500 JSON error.
func RecoveryMiddleware(log logger.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		if log != nil {
			log.Error(c.Request.Context(), "handler panic",
				logger.String("path", c.Request.URL.Path),
				logger.String("request_id", RequestID(c)),
				logger.String("panic", fmt.Sprint(recovered)),
			)
		}
		writeError(c, http.StatusInternalServerError, "internal", ErrInternal)
	})
}

func getErrorType(statusCode int) string {
	switch {
	case statusCode >= http.StatusInternalServerError:
		return "server_error"
	case statusCode == http.StatusTooManyRequests:
		return "rate_limit"
	case statusCode == http.StatusNotFound:
		return "not_found"
	case statusCode == http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case statusCode >= http.StatusBadRequest:
		return "client_error"
	default:
		return "unknown"
	}
}

func getErrorSeverity(statusCode int) string {
	switch {
	case statusCode >= http.StatusInternalServerError:
		return "high"
	case statusCode >= http.StatusBadRequest:
		return "medium"
	default:
		return "low"
	}
}
