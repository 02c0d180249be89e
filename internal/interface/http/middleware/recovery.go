package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/horizon-library/pkg/errors"
	"github.com/xiebiao/horizon-library/pkg/logger"
	"github.com/xiebiao/horizon-library/pkg/response"
)

// Recovery 捕获panic，记录日志并返回统一的500响应
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.FromGin(c).Error("panic recovered",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"),
				)
				if c.Writer.Written() {
					c.AbortWithStatus(http.StatusInternalServerError)
					return
				}
				response.Abort(c, apperrors.ErrInternal)
			}
		}()
		c.Next()
	}
}
