package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"partyup-network/internal/model"
)

const (
	HeaderRequestID     = "X-Request-ID"
	ContextRequestIDKey = "request_id"
)

// RequestLogPublisher ships finished request records off the request path.
type RequestLogPublisher interface {
	Publish(ctx context.Context, entry model.RequestLog) error
}

// RequestID reuses an inbound X-Request-ID or mints a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(ContextRequestIDKey, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// RequestLog writes one access line per request and hands a RequestLog to
// publisher, which may be nil. Excluded endpoints are skipped entirely.
// Bodies are never captured.
func RequestLog(log *zap.Logger, publisher RequestLogPublisher, excluded []string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(excluded))
	for _, e := range excluded {
		skip[e] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if _, ok := skip[path]; ok {
			c.Next()
			return
		}

		start := time.Now().UTC()
		c.Next()
		end := time.Now().UTC()

		entry := model.RequestLog{
			RequestID:         c.GetString(ContextRequestIDKey),
			Method:            c.Request.Method,
			Endpoint:          path,
			StatusCode:        c.Writer.Status(),
			ClientIP:          c.ClientIP(),
			ExecutionMs:       end.Sub(start).Milliseconds(),
			Timestamp:         start,
			ResponseTimestamp: end,
		}

		log.Info("request",
			zap.String("request_id", entry.RequestID),
			zap.String("method", entry.Method),
			zap.String("path", entry.Endpoint),
			zap.Int("status", entry.StatusCode),
			zap.Int64("latency_ms", entry.ExecutionMs),
			zap.String("client_ip", entry.ClientIP))

		if publisher == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := publisher.Publish(ctx, entry); err != nil {
			log.Warn("publish request log failed", zap.String("request_id", entry.RequestID), zap.Error(err))
		}
	}
}

// Recovery turns a panic into a 500 and logs it with zap.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Error("panic recovered",
			zap.String("request_id", c.GetString(ContextRequestIDKey)),
			zap.Any("panic", recovered))
		c.AbortWithStatus(500)
	})
}
