package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	Quotes = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "swap_helper_quotes_total",
		Help: "Number of swap parameter derivations served",
	})

	QuoteErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "swap_helper_quote_errors_total",
		Help: "Number of failed swap parameter derivations",
	})

	Swaps = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "swap_helper_swaps_total",
		Help: "Number of swap transactions confirmed",
	})

	SwapErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "swap_helper_swap_errors_total",
		Help: "Number of swap executions that failed before or after submission",
	})

	Approvals = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "swap_helper_approvals_total",
		Help: "Number of allowance approval transactions submitted",
	})

	QuoteLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "swap_helper_quote_latency_seconds",
		Help:    "Time to derive swap parameters",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(
		Quotes,
		QuoteErrors,
		Swaps,
		SwapErrors,
		Approvals,
		QuoteLatency,
	)
}
