package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xiebiao/horizon-library/pkg/logger"
	"github.com/xiebiao/horizon-library/pkg/tracing"
)

const (
	requestIDHeader = "X-Request-ID"
	slowThreshold   = 3 * time.Second
)

// Logger 请求日志中间件
// 1. 生成请求ID（客户端传了X-Request-ID则沿用），写入响应Header
// 2. 请求级logger带request_id注入Context，response.Error使用它记录错误
// 3. 请求结束后输出一条结构化访问日志，慢请求输出WARN
// 不记录请求体和Authorization头
func Logger(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(requestIDHeader, requestID)

		reqLogger := base.With(zap.String("request_id", requestID))
		logger.Inject(c, reqLogger)

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("client_ip", c.ClientIP()),
			zap.Duration("latency", latency),
			zap.Int("size", c.Writer.Size()),
		}
		if traceID := tracing.ExtractTraceID(c.Request.Context()); traceID != "" {
			fields = append(fields, zap.String("trace_id", traceID))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		if latency > slowThreshold {
			reqLogger.Warn("slow request", fields...)
			return
		}
		reqLogger.Info("request", fields...)
	}
}

// GetRequestID 获取当前请求ID
func GetRequestID(c *gin.Context) string {
	return c.GetString("request_id")
}
