// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ZoneDCA/internal/model"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Backtest metrics
	RunsTotal     *prometheus.CounterVec
	RunDuration   *prometheus.HistogramVec
	TradesByKind  *prometheus.CounterVec
	LastRunROIPct *prometheus.GaugeVec

	// Optimizer metrics
	DegreesEvaluated *prometheus.CounterVec

	// Data source metrics
	FetchErrors *prometheus.CounterVec

	// Health metrics
	LastSuccessfulRun prometheus.Gauge
}

// NewMetrics creates a new Metrics instance registered with reg.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "zonedca"
	}
	f := promauto.With(reg)

	return &Metrics{
		RunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backtest",
			Name:      "runs_total",
			Help:      "Total number of backtest runs by source and status",
		}, []string{"source", "status"}),
		RunDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "backtest",
			Name:      "run_duration_seconds",
			Help:      "Duration of a backtest run including data collection",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"source"}),
		TradesByKind: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backtest",
			Name:      "trades_total",
			Help:      "Total number of simulated trades by kind",
		}, []string{"kind"}),
		LastRunROIPct: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "backtest",
			Name:      "last_roi_percent",
			Help:      "ROI of the most recent run per symbol",
		}, []string{"symbol"}),
		DegreesEvaluated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "optimizer",
			Name:      "degrees_evaluated_total",
			Help:      "Total number of polynomial degrees evaluated by outcome",
		}, []string{"outcome"}),
		FetchErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "collector",
			Name:      "fetch_errors_total",
			Help:      "Total number of market data fetch errors by source",
		}, []string{"source"}),
		LastSuccessfulRun: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of the last successful backtest run",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("", prometheus.DefaultRegisterer)

// RecordRun records a finished run. A nil error counts as success.
func RecordRun(source, symbol string, d time.Duration, roiPct float64, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	DefaultMetrics.RunsTotal.WithLabelValues(source, status).Inc()
	DefaultMetrics.RunDuration.WithLabelValues(source).Observe(d.Seconds())
	if err == nil {
		DefaultMetrics.LastRunROIPct.WithLabelValues(symbol).Set(roiPct)
		DefaultMetrics.LastSuccessfulRun.SetToCurrentTime()
	}
}

// RecordTrades counts the ledger entries of a run by kind.
func RecordTrades(trades []model.Trade) {
	for _, t := range trades {
		DefaultMetrics.TradesByKind.WithLabelValues(t.Kind.String()).Inc()
	}
}

// RecordDegrees records the outcome of a degree sweep.
func RecordDegrees(evaluated, skipped int) {
	DefaultMetrics.DegreesEvaluated.WithLabelValues("ok").Add(float64(evaluated))
	DefaultMetrics.DegreesEvaluated.WithLabelValues("skipped").Add(float64(skipped))
}

// RecordFetchError increments the fetch error counter.
func RecordFetchError(source string) {
	DefaultMetrics.FetchErrors.WithLabelValues(source).Inc()
}
