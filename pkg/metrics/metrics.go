// Package metrics 提供 Prometheus helper，覆盖 HTTP 与交易生命周期相关指标
package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wyfcoding/tradelifecycle/pkg/logger"
)

// Metrics 指标集合
type Metrics struct {
	// HTTP 请求计数（按方法、路径、状态码）
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTP 请求耗时
	HTTPRequestDuration prometheus.Histogram

	// 交易操作计数（按动作、结果）
	TradeOperationsTotal *prometheus.CounterVec
	// 交易操作耗时
	TradeOperationDuration prometheus.Histogram
	// 已创建交易总数
	TradesCreatedTotal prometheus.Counter
	// 当前非终态交易数
	TradesActive prometheus.Gauge
}

// New 创建指标实例
func New(serviceName string) *Metrics {
	return &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trade",
			Subsystem: serviceName,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "trade",
			Subsystem: serviceName,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		TradeOperationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trade",
			Subsystem: serviceName,
			Name:      "operations_total",
			Help:      "Total trade lifecycle operations",
		}, []string{"action", "outcome"}),
		TradeOperationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "trade",
			Subsystem: serviceName,
			Name:      "operation_duration_seconds",
			Help:      "Trade lifecycle operation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		TradesCreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "trade",
			Subsystem: serviceName,
			Name:      "created_total",
			Help:      "Total trades created",
		}),
		TradesActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "trade",
			Subsystem: serviceName,
			Name:      "active",
			Help:      "Number of trades not yet in a terminal state",
		}),
	}
}

// Register 注册所有指标
func (m *Metrics) Register() error {
	collectors := []prometheus.Collector{
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.TradeOperationsTotal,
		m.TradeOperationDuration,
		m.TradesCreatedTotal,
		m.TradesActive,
	}
	for _, c := range collectors {
		if err := prometheus.Register(c); err != nil {
			return fmt.Errorf("failed to register collector: %w", err)
		}
	}
	return nil
}

// StartHTTPServer 启动 Prometheus 指标 HTTP 服务
func StartHTTPServer(port int, path string) error {
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.Handler())

	go func() {
		addr := fmt.Sprintf(":%d", port)
		if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
			logger.Error(context.Background(), "Metrics HTTP server error", "error", err)
		}
	}()

	return nil
}
