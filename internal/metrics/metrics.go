package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Registry metrics
	TokenCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "swapengine_token_count",
		Help: "Number of tokens in the registry",
	})

	// Quote metrics
	QuotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swapengine_quotes_total",
			Help: "Total number of quoter contract calls",
		},
		[]string{"method", "status"},
	)

	QuoteDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "swapengine_quote_duration_seconds",
			Help:    "Quote request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"direction"},
	)

	QuoteGasEstimate = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "swapengine_quote_gas_estimate",
		Help:    "Gas estimates reported by the quoter contract",
		Buckets: []float64{50_000, 100_000, 150_000, 250_000, 400_000, 700_000, 1_000_000},
	})

	// Approval metrics
	Erc20Approvals = promauto.NewCounter(prometheus.CounterOpts{
		Name: "swapengine_erc20_approvals_total",
		Help: "Total number of ERC-20 approval transactions sent",
	})

	PermitSignatures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "swapengine_permit_signatures_total",
		Help: "Total number of Permit2 signatures produced",
	})

	// Swap metrics
	SwapsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swapengine_swaps_total",
			Help: "Total number of swap executions",
		},
		[]string{"direction", "status"},
	)

	SwapDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "swapengine_swap_duration_seconds",
			Help:    "End-to-end swap execution duration in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"direction"},
	)

	SwapGasUsed = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "swapengine_swap_gas_used",
		Help:    "Gas used by confirmed swap transactions",
		Buckets: []float64{50_000, 100_000, 150_000, 250_000, 400_000, 700_000, 1_000_000},
	})

	// Simulation metrics
	SimulationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swapengine_simulations_total",
			Help: "Total number of pre-submission dry runs",
		},
		[]string{"status"},
	)

	// HTTP metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swapengine_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "swapengine_http_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
