package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Statistics metrics
	StatisticsComputed  *prometheus.CounterVec
	StatisticsDuration  prometheus.Histogram
	InvariantViolations prometheus.Counter
	CacheRequests       *prometheus.CounterVec

	// Account metrics
	AccountsCreated prometheus.Counter
	EventsRecorded  *prometheus.CounterVec
	EventAmount     *prometheus.HistogramVec
	AppendRetries   prometheus.Counter

	// Messaging metrics
	EventsPublished *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge

	// Rate limiting metrics
	RateLimitHits prometheus.Counter

	// Authentication metrics
	AuthFailures *prometheus.CounterVec
}

// New creates all Prometheus metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Statistics metrics
		StatisticsComputed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creditline_statistics_computed_total",
				Help: "Total number of statistics computations by source",
			},
			[]string{"source"},
		),
		StatisticsDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "creditline_statistics_duration_seconds",
			Help:    "Duration of timeline replays",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		}),
		InvariantViolations: factory.NewCounter(prometheus.CounterOpts{
			Name: "creditline_invariant_violations_total",
			Help: "Total number of replays aborted by a ledger invariant violation",
		}),
		CacheRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creditline_statistics_cache_requests_total",
				Help: "Statistics cache lookups by result",
			},
			[]string{"result"},
		),

		// Account metrics
		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "creditline_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		EventsRecorded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creditline_events_recorded_total",
				Help: "Total number of events appended by kind",
			},
			[]string{"kind"},
		),
		EventAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "creditline_event_amount",
				Help:    "Appended event amounts",
				Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
			},
			[]string{"kind"},
		),
		AppendRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "creditline_append_retries_total",
			Help: "Total number of retried event appends",
		}),

		// Messaging metrics
		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creditline_events_published_total",
				Help: "Total number of published event messages by status",
			},
			[]string{"status"},
		),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creditline_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "creditline_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "creditline_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		}),

		// Rate limiting metrics
		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "creditline_rate_limit_hits_total",
			Help: "Total rate limit hits",
		}),

		// Authentication metrics
		AuthFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creditline_auth_failures_total",
				Help: "Total authentication failures",
			},
			[]string{"reason"},
		),
	}
}
