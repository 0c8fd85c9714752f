package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"foodgram/internal/pkg/response"
)

// RequestLogger writes one entry per request, plus every error handlers
// attached with c.Error.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.String("client_ip", c.ClientIP()),
			zap.Int64("user_id", c.GetInt64(ctxUserID)),
			zap.String("request_id", c.GetString(ctxRequestID)),
			zap.Duration("latency", time.Since(start)),
		}

		for _, err := range c.Errors {
			log.Error("request_error", append(fields, zap.Error(err.Err))...)
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Error("request", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

// Recovery turns panics into a 500 envelope and logs the stack.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				log.Error("panic",
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.String("request_id", c.GetString(ctxRequestID)),
					zap.Error(fmt.Errorf("%v", recovered)),
					zap.ByteString("stack", debug.Stack()),
				)
				response.AbortError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal Server Error")
			}
		}()

		c.Next()
	}
}
