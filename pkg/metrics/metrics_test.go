package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// TestInitMetrics 测试指标初始化
func TestInitMetrics(t *testing.T) {
	InitMetrics()
	// 重复调用不应panic(重复注册)
	InitMetrics()

	if HTTPRequestsTotal == nil || HTTPRequestDuration == nil || HTTPRequestsInProgress == nil {
		t.Error("HTTP指标未初始化")
	}
	if CatalogOperationsTotal == nil || CatalogOperationDuration == nil || IDAllocationsTotal == nil {
		t.Error("业务指标未初始化")
	}

	t.Log("✅ 所有指标初始化成功")
}

// TestObserveOperation 测试仓储操作打点
func TestObserveOperation(t *testing.T) {
	InitMetrics()

	ObserveOperation("memory", "read", nil, 2*time.Millisecond)
	ObserveOperation("memory", "read", nil, 3*time.Millisecond)
	ObserveOperation("memory", "read", errors.New("boom"), time.Millisecond)

	ok := getCounterVecValue(t, CatalogOperationsTotal, map[string]string{
		"backend": "memory", "operation": "read", "result": ResultSuccess,
	})
	if ok != 2 {
		t.Errorf("成功次数错误: expected=2, got=%f", ok)
	}

	failed := getCounterVecValue(t, CatalogOperationsTotal, map[string]string{
		"backend": "memory", "operation": "read", "result": ResultError,
	})
	if failed != 1 {
		t.Errorf("失败次数错误: expected=1, got=%f", failed)
	}

	count := getHistogramVecCount(t, CatalogOperationDuration, map[string]string{
		"backend": "memory", "operation": "read",
	})
	if count != 3 {
		t.Errorf("耗时观测次数错误: expected=3, got=%d", count)
	}

	t.Log("✅ 仓储操作打点测试通过")
}

// TestObserveIDAllocation 测试主键分配打点
func TestObserveIDAllocation(t *testing.T) {
	InitMetrics()

	ObserveIDAllocation("conflict")
	ObserveIDAllocation("success")

	if v := getCounterVecValue(t, IDAllocationsTotal, map[string]string{"result": "conflict"}); v != 1 {
		t.Errorf("conflict计数错误: expected=1, got=%f", v)
	}
	if v := getCounterVecValue(t, IDAllocationsTotal, map[string]string{"result": "success"}); v != 1 {
		t.Errorf("success计数错误: expected=1, got=%f", v)
	}
}

// TestRealWorldScenario 真实场景：模拟HTTP请求处理
func TestRealWorldScenario(t *testing.T) {
	InitMetrics()

	before := getGaugeValue(t, HTTPRequestsInProgress)
	for i := 0; i < 10; i++ {
		IncGauge(HTTPRequestsInProgress)

		start := time.Now()
		time.Sleep(time.Millisecond)

		ObserveHistogramVec(HTTPRequestDuration, map[string]string{
			"method": "GET",
			"path":   "/api/v1/books",
		}, time.Since(start).Seconds())

		IncCounterVec(HTTPRequestsTotal, map[string]string{
			"method": "GET",
			"path":   "/api/v1/books",
			"status": "200",
		})

		DecGauge(HTTPRequestsInProgress)
	}

	if v := getGaugeValue(t, HTTPRequestsInProgress); v != before {
		t.Errorf("正在处理的请求数错误: expected=%f, got=%f", before, v)
	}
	total := getCounterVecValue(t, HTTPRequestsTotal, map[string]string{
		"method": "GET", "path": "/api/v1/books", "status": "200",
	})
	if total != 10 {
		t.Errorf("请求总数错误: expected=10, got=%f", total)
	}

	t.Log("✅ 真实场景测试通过")
}

// 辅助函数：获取CounterVec值
func getCounterVecValue(t *testing.T, counterVec *prometheus.CounterVec, labels map[string]string) float64 {
	var metric dto.Metric
	if err := counterVec.With(labels).Write(&metric); err != nil {
		t.Fatalf("读取CounterVec值失败: %v", err)
	}
	return metric.Counter.GetValue()
}

// 辅助函数：获取Gauge值
func getGaugeValue(t *testing.T, gauge prometheus.Gauge) float64 {
	var metric dto.Metric
	if err := gauge.Write(&metric); err != nil {
		t.Fatalf("读取Gauge值失败: %v", err)
	}
	return metric.Gauge.GetValue()
}

// 辅助函数：获取HistogramVec观测次数
func getHistogramVecCount(t *testing.T, histogramVec *prometheus.HistogramVec, labels map[string]string) uint64 {
	var metric dto.Metric
	histogram := histogramVec.With(labels)
	if err := histogram.(prometheus.Histogram).Write(&metric); err != nil {
		t.Fatalf("读取HistogramVec值失败: %v", err)
	}
	return metric.Histogram.GetSampleCount()
}
