// Package metrics exposes synchronization measurements to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rxtech-lab/argo-charts/internal/syncengine"
	"github.com/rxtech-lab/argo-charts/internal/types"
)

const namespace = "chartsync"

// Metrics holds the Prometheus collectors. It implements syncengine.Observer.
type Metrics struct {
	SyncTotal     *prometheus.CounterVec   // labels: interval, outcome
	SyncDuration  *prometheus.HistogramVec // labels: interval
	FetchTotal    *prometheus.CounterVec   // labels: provider, interval, status
	FetchedRows   *prometheus.CounterVec   // labels: provider, interval
	PersistTotal  *prometheus.CounterVec   // labels: interval
	RefreshTotal  *prometheus.CounterVec   // labels: status
	LastRefreshTS prometheus.Gauge
}

var _ syncengine.Observer = (*Metrics)(nil)

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SyncTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_total",
			Help:      "Synchronizations by interval and outcome",
		}, []string{"interval", "outcome"}),
		SyncDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sync_duration_seconds",
			Help:      "Duration of one synchronization",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"interval"}),
		FetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_fetch_total",
			Help:      "Provider history requests by status",
		}, []string{"provider", "interval", "status"}),
		FetchedRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_fetched_rows_total",
			Help:      "Bars returned by providers",
		}, []string{"provider", "interval"}),
		PersistTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_persist_total",
			Help:      "Cache files rewritten",
		}, []string{"interval"}),
		RefreshTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_tickers_total",
			Help:      "Tickers processed by watchlist refreshes",
		}, []string{"status"}),
		LastRefreshTS: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_refresh_timestamp_seconds",
			Help:      "Unix time of the last completed watchlist refresh",
		}),
	}

	reg.MustRegister(
		m.SyncTotal,
		m.SyncDuration,
		m.FetchTotal,
		m.FetchedRows,
		m.PersistTotal,
		m.RefreshTotal,
		m.LastRefreshTS,
	)

	return m
}

// ObserveSync records a finished synchronization.
func (m *Metrics) ObserveSync(interval types.Interval, outcome string, duration time.Duration) {
	m.SyncTotal.WithLabelValues(interval.String(), outcome).Inc()
	m.SyncDuration.WithLabelValues(interval.String()).Observe(duration.Seconds())
}

// ObserveFetch records a provider request.
func (m *Metrics) ObserveFetch(provider string, interval types.Interval, rows int, err error) {
	status := "ok"

	switch {
	case err != nil:
		status = "error"
	case rows == 0:
		status = "empty"
	}

	m.FetchTotal.WithLabelValues(provider, interval.String(), status).Inc()
	m.FetchedRows.WithLabelValues(provider, interval.String()).Add(float64(rows))
}

// ObservePersist records a cache rewrite.
func (m *Metrics) ObservePersist(interval types.Interval) {
	m.PersistTotal.WithLabelValues(interval.String()).Inc()
}

// ObserveRefresh records the result of one watchlist refresh.
func (m *Metrics) ObserveRefresh(succeeded int, failed int, finished time.Time) {
	m.RefreshTotal.WithLabelValues("ok").Add(float64(succeeded))
	m.RefreshTotal.WithLabelValues("error").Add(float64(failed))
	m.LastRefreshTS.Set(float64(finished.Unix()))
}
