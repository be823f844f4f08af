package metrics

import "github.com/prometheus/client_golang/prometheus"

// Base vectors. The exported ones are curried from these with the service label.
var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"service", "method", "path", "status"},
	)

	httpRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)

	tokensIssuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journalist_tokens_issued_total",
			Help: "Total number of token requests by outcome.",
		},
		[]string{"service", "result"},
	)

	authAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journalist_auth_attempts_total",
			Help: "Total number of token authentications by outcome.",
		},
		[]string{"service", "result"},
	)

	repliesStoredTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journalist_replies_stored_total",
			Help: "Total number of reply submissions by outcome.",
		},
		[]string{"service", "result"},
	)

	checksumsComputedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journalist_checksums_computed_total",
			Help: "Total number of artifact checksums computed.",
		},
		[]string{"service", "kind"},
	)

	seenMarksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journalist_seen_marks_total",
			Help: "Total number of seen marks requested.",
		},
		[]string{"service", "kind"},
	)

	deletionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journalist_deletions_total",
			Help: "Total number of deletions by scope.",
		},
		[]string{"service", "scope"},
	)
)

var (
	HTTPRequestsTotal          *prometheus.CounterVec
	HTTPRequestDurationSeconds *prometheus.HistogramVec
	TokensIssuedTotal          *prometheus.CounterVec
	AuthAttemptsTotal          *prometheus.CounterVec
	RepliesStoredTotal         *prometheus.CounterVec
	ChecksumsComputedTotal     *prometheus.CounterVec
	SeenMarksTotal             *prometheus.CounterVec
	DeletionsTotal             *prometheus.CounterVec
)

func init() { curry("journalist-api") }

// MustRegister curries every vector with the service label and registers it
// on the default registry. Call it once at startup.
func MustRegister(serviceName string) {
	curry(serviceName)
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDurationSeconds,
		tokensIssuedTotal,
		authAttemptsTotal,
		repliesStoredTotal,
		checksumsComputedTotal,
		seenMarksTotal,
		deletionsTotal,
	)
}

func curry(serviceName string) {
	l := prometheus.Labels{"service": serviceName}
	HTTPRequestsTotal = httpRequestsTotal.MustCurryWith(l)
	HTTPRequestDurationSeconds = httpRequestDurationSeconds.MustCurryWith(l).(*prometheus.HistogramVec)
	TokensIssuedTotal = tokensIssuedTotal.MustCurryWith(l)
	AuthAttemptsTotal = authAttemptsTotal.MustCurryWith(l)
	RepliesStoredTotal = repliesStoredTotal.MustCurryWith(l)
	ChecksumsComputedTotal = checksumsComputedTotal.MustCurryWith(l)
	SeenMarksTotal = seenMarksTotal.MustCurryWith(l)
	DeletionsTotal = deletionsTotal.MustCurryWith(l)
}
