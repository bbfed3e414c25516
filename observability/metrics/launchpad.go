package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// LaunchpadMetrics tracks ledger activity for operators: admissions,
// resolutions, and settlement batch progress.
type LaunchpadMetrics struct {
	investments    *prometheus.CounterVec
	rejections     *prometheus.CounterVec
	closes         *prometheus.CounterVec
	batchesSettled *prometheus.CounterVec
	openProjects   prometheus.Gauge
}

var (
	launchpadOnce     sync.Once
	launchpadRegistry *LaunchpadMetrics
)

// Launchpad returns the lazily-initialised ledger metrics registry.
func Launchpad() *LaunchpadMetrics {
	launchpadOnce.Do(func() {
		launchpadRegistry = &LaunchpadMetrics{
			investments: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "launchpad_investments_total",
				Help: "Count of admitted investments by symbol.",
			}, []string{"symbol"}),
			rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "launchpad_rejections_total",
				Help: "Count of rejected ledger calls by operation.",
			}, []string{"op"}),
			closes: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "launchpad_closes_total",
				Help: "Count of project resolutions by outcome.",
			}, []string{"outcome"}),
			batchesSettled: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "launchpad_batches_settled_total",
				Help: "Count of executed settlement batches by kind.",
			}, []string{"kind"}),
			openProjects: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "launchpad_open_projects",
				Help: "Number of projects currently accepting investments.",
			}),
		}
		prometheus.MustRegister(
			launchpadRegistry.investments,
			launchpadRegistry.rejections,
			launchpadRegistry.closes,
			launchpadRegistry.batchesSettled,
			launchpadRegistry.openProjects,
		)
	})
	return launchpadRegistry
}

// RecordInvestment counts one admitted investment.
func (m *LaunchpadMetrics) RecordInvestment(symbol string) {
	if m == nil {
		return
	}
	m.investments.WithLabelValues(symbol).Inc()
}

// RecordRejection counts one rejected ledger call.
func (m *LaunchpadMetrics) RecordRejection(op string) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(op).Inc()
}

// RecordOpen tracks a project entering the open state.
func (m *LaunchpadMetrics) RecordOpen() {
	if m == nil {
		return
	}
	m.openProjects.Inc()
}

// RecordClose counts a resolution and tracks the open-project gauge.
func (m *LaunchpadMetrics) RecordClose(outcome string) {
	if m == nil {
		return
	}
	m.closes.WithLabelValues(outcome).Inc()
	m.openProjects.Dec()
}

// RecordBatch counts one executed settlement batch.
func (m *LaunchpadMetrics) RecordBatch(kind string) {
	if m == nil {
		return
	}
	m.batchesSettled.WithLabelValues(kind).Inc()
}
