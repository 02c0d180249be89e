package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/horizon-library/pkg/metrics"
)

// Metrics HTTP指标中间件
// path使用路由模板（/api/v1/books/:id），避免每个ID产生一个时间序列
func Metrics() gin.HandlerFunc {
	metrics.InitMetrics()

	return func(c *gin.Context) {
		metrics.HTTPRequestsInProgress.Inc()
		start := time.Now()

		c.Next()

		metrics.HTTPRequestsInProgress.Dec()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		labels := map[string]string{"method": c.Request.Method, "path": path}

		metrics.ObserveHistogramVec(metrics.HTTPRequestDuration, labels, time.Since(start).Seconds())
		labels["status"] = strconv.Itoa(c.Writer.Status())
		metrics.IncCounterVec(metrics.HTTPRequestsTotal, labels)
	}
}
