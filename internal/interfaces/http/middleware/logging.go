package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/monitoring/logging"
)

// Logging writes one structured line per request.
func Logging(logger logging.Logger) gin.HandlerFunc {
	log := logger.Named("http")
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		fields := []logging.Field{
			logging.String("method", c.Request.Method),
			logging.String("path", c.Request.URL.Path),
			logging.Int("status", c.Writer.Status()),
			logging.Duration("duration", time.Since(started)),
			logging.Int("size", c.Writer.Size()),
			logging.String("client_ip", c.ClientIP()),
			logging.String("request_id", GetRequestID(c)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, logging.String("errors", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Error("Request failed", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			log.Warn("Request rejected", fields...)
		default:
			log.Info("Request served", fields...)
		}
	}
}

// Recovery turns panics into 500 responses and logs the stack through
// the structured logger instead of gin's default writer.
func Recovery(logger logging.Logger) gin.HandlerFunc {
	log := logger.Named("http")
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("Handler panic",
					logging.Any("panic", rec),
					logging.String("path", c.Request.URL.Path),
					logging.String("request_id", GetRequestID(c)))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "COMMON_INTERNAL",
						"message": "internal server error",
					},
				})
			}
		}()
		c.Next()
	}
}
