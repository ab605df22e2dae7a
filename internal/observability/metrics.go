// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Fetch metrics
	PairFetches   *prometheus.CounterVec
	MarketFetches *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec

	// Scan metrics
	ScansTotal         *prometheus.CounterVec
	ScanDuration       *prometheus.HistogramVec
	OpportunitiesFound prometheus.Histogram
	TickerMatchesFound prometheus.Histogram
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "cascreener"
	}

	return &Metrics{
		PairFetches: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "pair_requests_total",
			Help:      "Pair fetches by kind (mint, search) and outcome (ok, cached, error)",
		}, []string{"kind", "outcome"}),
		MarketFetches: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "market_requests_total",
			Help:      "Market list fetches by venue and outcome",
		}, []string{"venue", "outcome"}),
		FetchDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "duration_seconds",
			Help:      "Outbound fetch latency by source",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),

		ScansTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "runs_total",
			Help:      "Scan invocations by kind (arbitrage, ticker)",
		}, []string{"kind"}),
		ScanDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "duration_seconds",
			Help:      "End-to-end scan latency by kind",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		OpportunitiesFound: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "arbitrage_opportunities",
			Help:      "Opportunities surviving thresholds per arbitrage scan",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		}),
		TickerMatchesFound: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "ticker_matches",
			Help:      "Distinct mints found per ticker discovery",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50},
		}),
	}
}

// Handler returns the HTTP handler exposing the default registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.Handler()
}
