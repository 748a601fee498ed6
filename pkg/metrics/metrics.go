// Package metrics 提供基于Prometheus的指标收集
//
// # 指标类型
//
// **1. Counter（计数器）**：只增不减的累计值
//   - 示例：HTTP请求总数、仓储操作总数、主键分配冲突数
//
// **2. Gauge（仪表盘）**：可增可减的瞬时值
//   - 示例：正在处理的HTTP请求数
//
// **3. Histogram（直方图）**：观测值的分布
//   - 示例：HTTP请求耗时、仓储操作耗时
//   - 特点：配合histogram_quantile查询P50、P90、P99
//
// # 使用示例
//
//	// 1. 启动时初始化
//	metrics.InitMetrics()
//
//	// 2. 在gin路由上暴露/metrics端点
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
//	// 3. 记录一次仓储操作
//	start := time.Now()
//	books, err := repo.Read(ctx, req)
//	metrics.ObserveOperation("sql", "read", err, time.Since(start))
//
// # 命名规范
//
// 1. Counter以`_total`结尾：`catalog_operations_total`
// 2. Histogram以单位结尾：`catalog_operation_duration_seconds`
// 3. 标签只用有限取值（backend、operation、result），不要用图书ID
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 结果标签取值
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	initOnce sync.Once

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数（Counter）
	// 标签：method（GET/POST）、path（路由模板，如/api/v1/books/:id）、status（200/500）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时（Histogram）
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数（Gauge）
	HTTPRequestsInProgress prometheus.Gauge

	// 图书目录业务指标

	// CatalogOperationsTotal 仓储操作总数（Counter）
	// 标签：backend（sql/orm/memory）、operation（create/read/...）、result（success/error）
	CatalogOperationsTotal *prometheus.CounterVec

	// CatalogOperationDuration 仓储操作耗时（Histogram）
	CatalogOperationDuration *prometheus.HistogramVec

	// IDAllocationsTotal 主键分配结果（Counter）
	// 标签：result（success/conflict/error/exhausted）
	IDAllocationsTotal *prometheus.CounterVec
)

// InitMetrics 初始化所有Prometheus指标
//
// 设计要点：
// 1. 使用promauto.New*自动注册到默认Registry
// 2. sync.Once保证重复调用不会重复注册（重复注册会panic）
// 3. Histogram的Buckets按场景定制：数据库操作比HTTP整体更快
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
				// 1ms、10ms、100ms、500ms、1s、5s、10s
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

		CatalogOperationsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_operations_total",
				Help: "图书仓储操作总数",
			},
			[]string{"backend", "operation", "result"},
		)

		CatalogOperationDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "catalog_operation_duration_seconds",
				Help: "图书仓储操作耗时（秒）",
				// 100µs、1ms、5ms、10ms、50ms、100ms、500ms、1s
				Buckets: []float64{0.0001, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"backend", "operation"},
		)

		IDAllocationsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_id_allocations_total",
				Help: "主键分配结果统计",
			},
			[]string{"result"},
		)
	})
}

// ObserveOperation 记录一次仓储操作的结果和耗时
func ObserveOperation(backend, operation string, err error, elapsed time.Duration) {
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	IncCounterVec(CatalogOperationsTotal, map[string]string{
		"backend":   backend,
		"operation": operation,
		"result":    result,
	})
	ObserveHistogramVec(CatalogOperationDuration, map[string]string{
		"backend":   backend,
		"operation": operation,
	}, elapsed.Seconds())
}

// ObserveIDAllocation 记录主键分配结果,可直接作为idseq.WithObserver的回调
func ObserveIDAllocation(result string) {
	IncCounterVec(IDAllocationsTotal, map[string]string{"result": result})
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	gauge.Dec()
}

// ObserveHistogramVec 记录HistogramVec观测值（带标签）
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}
