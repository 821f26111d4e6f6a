package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	TicksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "arbscan_ticks_total",
		Help: "Block ticks processed by the scan loop",
	})

	PairsSkipped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "arbscan_pairs_skipped_total",
		Help: "Per-tick pair evaluations skipped (missing pool, thin liquidity, bad price)",
	})

	OpportunitiesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "arbscan_opportunities_total",
		Help: "Opportunities that cleared the net-profit threshold",
	})

	ExecutionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "arbscan_executions_total",
		Help: "Flash-loan transactions submitted",
	})

	ExecutionErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "arbscan_execution_errors_total",
		Help: "Execution attempts that failed before or during submission",
	})

	CooldownSkips = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "arbscan_cooldown_skips_total",
		Help: "Opportunities ignored while an execution was in flight or cooling down",
	})

	TickLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "arbscan_tick_latency_seconds",
		Help:    "Time to evaluate the full watch-list for one block",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(
		TicksTotal,
		PairsSkipped,
		OpportunitiesTotal,
		ExecutionsTotal,
		ExecutionErrors,
		CooldownSkips,
		TickLatency,
	)
}
