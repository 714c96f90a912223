package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	Namespace    = "dappvotes"
	RPCSubsystem = "rpc"

	StatusOK       = "ok"
	StatusReverted = "reverted"
	StatusError    = "error"
)

type RPCMetrics struct {
	CallsTotal          *prometheus.CounterVec
	CallDurationSeconds *prometheus.HistogramVec
	BlockNumber         prometheus.Gauge
}

// NewRPCMetrics creates the call metrics and registers them with reg.
func NewRPCMetrics(reg prometheus.Registerer) *RPCMetrics {
	m := &RPCMetrics{
		CallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: RPCSubsystem,
			Name:      "calls_total",
			Help:      "Total number of contract calls.",
		}, []string{"method", "status"}),
		CallDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: RPCSubsystem,
			Name:      "call_duration_seconds",
			Help:      "Contract call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		BlockNumber: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "block_number",
			Help:      "Number of the last block.",
		}),
	}
	reg.MustRegister(m.CallsTotal, m.CallDurationSeconds, m.BlockNumber)
	return m
}

func (m *RPCMetrics) Observe(method, status string, elapsed time.Duration) {
	m.CallsTotal.WithLabelValues(method, status).Inc()
	m.CallDurationSeconds.WithLabelValues(method).Observe(elapsed.Seconds())
}
