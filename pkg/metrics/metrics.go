// Package metrics 提供基于Prometheus的指标收集
//
// 指标分三类：
// 1. HTTP请求：总数、耗时、处理中的请求数
// 2. 业务指标：图书增删改结果、封面文件清理失败、详情缓存命中
// 3. 基础设施：熔断器状态、事件发布结果
//
// 命名规范：
// - Counter以_total结尾
// - Histogram以单位结尾（_seconds）
// - 标签只用有限取值的维度（method、op、result），不要用book_id
//
// 使用示例：
//
//	metrics.InitMetrics()
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
//	metrics.RecordBookMutation("create", "success")
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	initOnce sync.Once

	// HTTPRequestsTotal HTTP请求总数
	// 标签：method、path（路由模板，如/api/v1/books/:id）、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// BookMutationsTotal 图书写操作总数
	// 标签：op（create/update/delete）、result（success/failure）
	BookMutationsTotal *prometheus.CounterVec

	// CoverCleanupFailuresTotal 旧封面文件删除失败次数
	// 图书记录已提交，文件残留只记录不回滚
	// 标签：op（update/delete/compensate）
	CoverCleanupFailuresTotal *prometheus.CounterVec

	// CacheRequestsTotal 图书详情缓存访问
	// 标签：result（hit/miss/error/bypass）
	CacheRequestsTotal *prometheus.CounterVec

	// CircuitBreakerState 熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 熔断器请求总数
	// 标签：name、result（success/failure/rejected）
	CircuitBreakerRequests *prometheus.CounterVec

	// EventsPublishedTotal 领域事件发布结果
	// 标签：routing_key、result（success/failure）
	EventsPublishedTotal *prometheus.CounterVec
)

// InitMetrics 初始化所有Prometheus指标（注册到默认Registry）
// 可重复调用，只注册一次
func InitMetrics() {
	initOnce.Do(func() {
		HTTPRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP请求总数",
			},
			[]string{"method", "path", "status"},
		)

		HTTPRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP请求耗时（秒）",
				// 上传封面的请求比普通查询慢，桶覆盖到10秒
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
			},
			[]string{"method", "path"},
		)

		HTTPRequestsInProgress = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_progress",
				Help: "正在处理的HTTP请求数",
			},
		)

		BookMutationsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "books_mutations_total",
				Help: "图书写操作总数",
			},
			[]string{"op", "result"},
		)

		CoverCleanupFailuresTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cover_cleanup_failures_total",
				Help: "封面文件清理失败次数",
			},
			[]string{"op"},
		)

		CacheRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_requests_total",
				Help: "图书详情缓存访问次数",
			},
			[]string{"result"},
		)

		CircuitBreakerState = promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "circuit_breaker_state",
				Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
			},
			[]string{"name"},
		)

		CircuitBreakerRequests = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "circuit_breaker_requests_total",
				Help: "熔断器请求总数",
			},
			[]string{"name", "result"},
		)

		EventsPublishedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "events_published_total",
				Help: "领域事件发布总数",
			},
			[]string{"routing_key", "result"},
		)
	})
}

// RecordBookMutation 记录一次图书写操作
func RecordBookMutation(op, result string) {
	InitMetrics()
	BookMutationsTotal.WithLabelValues(op, result).Inc()
}

// RecordCoverCleanupFailure 记录一次封面文件清理失败
func RecordCoverCleanupFailure(op string) {
	InitMetrics()
	CoverCleanupFailuresTotal.WithLabelValues(op).Inc()
}

// RecordCacheRequest 记录一次缓存访问
func RecordCacheRequest(result string) {
	InitMetrics()
	CacheRequestsTotal.WithLabelValues(result).Inc()
}

// RecordEventPublished 记录一次事件发布
func RecordEventPublished(routingKey, result string) {
	InitMetrics()
	EventsPublishedTotal.WithLabelValues(routingKey, result).Inc()
}

// RecordBreakerRequest 记录一次熔断器请求
func RecordBreakerRequest(name, result string) {
	InitMetrics()
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// SetBreakerState 更新熔断器状态
func SetBreakerState(name string, state float64) {
	InitMetrics()
	CircuitBreakerState.WithLabelValues(name).Set(state)
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// ObserveHistogramVec 记录HistogramVec观测值（带标签）
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}
