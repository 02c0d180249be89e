package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestInitMetrics 重复初始化不应panic（promauto重复注册会panic）
func TestInitMetrics(t *testing.T) {
	require.NotPanics(t, func() {
		InitMetrics()
		InitMetrics()
	})

	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, HTTPRequestDuration)
	assert.NotNil(t, HTTPRequestsInProgress)
	assert.NotNil(t, BookMutationsTotal)
	assert.NotNil(t, CoverCleanupFailuresTotal)
	assert.NotNil(t, CacheRequestsTotal)
	assert.NotNil(t, CircuitBreakerState)
	assert.NotNil(t, EventsPublishedTotal)
}

func TestRecordHelpers(t *testing.T) {
	t.Run("图书写操作", func(t *testing.T) {
		before := getCounterVecValue(t, initVec(func() *prometheus.CounterVec { return BookMutationsTotal }), "create", "success")
		RecordBookMutation("create", "success")
		RecordBookMutation("create", "success")
		RecordBookMutation("create", "failure")

		assert.Equal(t, before+2, getCounterVecValue(t, BookMutationsTotal, "create", "success"))
	})

	t.Run("封面清理失败", func(t *testing.T) {
		before := getCounterVecValue(t, initVec(func() *prometheus.CounterVec { return CoverCleanupFailuresTotal }), "update")
		RecordCoverCleanupFailure("update")
		assert.Equal(t, before+1, getCounterVecValue(t, CoverCleanupFailuresTotal, "update"))
	})

	t.Run("缓存访问", func(t *testing.T) {
		before := getCounterVecValue(t, initVec(func() *prometheus.CounterVec { return CacheRequestsTotal }), "hit")
		RecordCacheRequest("hit")
		RecordCacheRequest("miss")
		assert.Equal(t, before+1, getCounterVecValue(t, CacheRequestsTotal, "hit"))
	})

	t.Run("熔断器状态", func(t *testing.T) {
		SetBreakerState("redis", 1)
		assert.Equal(t, 1.0, getGaugeVecValue(t, CircuitBreakerState, "redis"))
		SetBreakerState("redis", 0)
		assert.Equal(t, 0.0, getGaugeVecValue(t, CircuitBreakerState, "redis"))
	})
}

func TestHistogramVec(t *testing.T) {
	InitMetrics()

	labels := map[string]string{"method": "GET", "path": "/api/v1/books/:id"}
	before := getHistogramVecCount(t, HTTPRequestDuration, labels)

	ObserveHistogramVec(HTTPRequestDuration, labels, 0.05)
	ObserveHistogramVec(HTTPRequestDuration, labels, 0.1)
	ObserveHistogramVec(HTTPRequestDuration, map[string]string{"method": "POST", "path": "/api/v1/librarian/books"}, 0.2)

	assert.Equal(t, before+2, getHistogramVecCount(t, HTTPRequestDuration, labels))
}

func initVec(get func() *prometheus.CounterVec) *prometheus.CounterVec {
	InitMetrics()
	return get()
}

// 辅助函数：获取CounterVec值
func getCounterVecValue(t *testing.T, counterVec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	var metric dto.Metric
	if err := counterVec.WithLabelValues(labels...).Write(&metric); err != nil {
		t.Fatalf("读取CounterVec值失败: %v", err)
	}
	return metric.Counter.GetValue()
}

// 辅助函数：获取GaugeVec值
func getGaugeVecValue(t *testing.T, gaugeVec *prometheus.GaugeVec, labels ...string) float64 {
	t.Helper()
	var metric dto.Metric
	if err := gaugeVec.WithLabelValues(labels...).Write(&metric); err != nil {
		t.Fatalf("读取GaugeVec值失败: %v", err)
	}
	return metric.Gauge.GetValue()
}

// 辅助函数：获取HistogramVec观测次数
func getHistogramVecCount(t *testing.T, histogramVec *prometheus.HistogramVec, labels map[string]string) uint64 {
	t.Helper()
	var metric dto.Metric
	histogram := histogramVec.With(labels)
	if err := histogram.(prometheus.Histogram).Write(&metric); err != nil {
		t.Fatalf("读取HistogramVec值失败: %v", err)
	}
	return metric.Histogram.GetSampleCount()
}
