// Package metrics exposes prometheus instrumentation for the registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	OperationsTotal  *prometheus.CounterVec
	FeesUSD          prometheus.Histogram
	KeeperRewards    prometheus.Counter
	KeeperSkips      prometheus.Counter
	RegisteredActive prometheus.Gauge
}

func New() *Metrics {
	return &Metrics{
		OperationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tns_registry_operations_total",
			Help: "Registry operations by type and outcome",
		}, []string{"operation", "outcome"}),
		FeesUSD: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tns_registry_fee_usd",
			Help:    "Fees collected per operation in USD",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		KeeperRewards: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tns_registry_keeper_rewards_paid_total",
			Help: "Keeper rewards paid out for cleanup operations",
		}),
		KeeperSkips: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tns_registry_keeper_rewards_skipped_total",
			Help: "Keeper rewards skipped because the reserve was underfunded",
		}),
		RegisteredActive: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "tns_registry_symbols_registered",
			Help: "Current number of registered symbols",
		}),
	}
}

// ObserveOperation records one operation attempt.
func (m *Metrics) ObserveOperation(operation string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.OperationsTotal.WithLabelValues(operation, outcome).Inc()
}

// ObserveFeeUSDMicro records a collected fee, converting micro-units to USD.
func (m *Metrics) ObserveFeeUSDMicro(usdMicro uint64) {
	if m == nil {
		return
	}
	m.FeesUSD.Observe(float64(usdMicro) / 1e6)
}

// AddRegistered moves the registered-symbols gauge by delta.
func (m *Metrics) AddRegistered(delta float64) {
	if m == nil {
		return
	}
	m.RegisteredActive.Add(delta)
}

// ObserveKeeperReward records whether a cleanup paid or skipped its reward.
func (m *Metrics) ObserveKeeperReward(paid bool) {
	if m == nil {
		return
	}
	if paid {
		m.KeeperRewards.Inc()
	} else {
		m.KeeperSkips.Inc()
	}
}
