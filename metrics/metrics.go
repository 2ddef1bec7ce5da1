package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestCounter counts HTTP requests by status code, method, and path
	RequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "greenloop_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"status", "method", "path"},
	)

	// RequestDuration measures HTTP request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "greenloop_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status", "method", "path"},
	)

	// RequestInProgress counts HTTP requests currently being processed
	RequestInProgress = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "greenloop_http_requests_in_progress",
			Help: "Number of HTTP requests currently being processed",
		},
		[]string{"method", "path"},
	)

	// RateLimiterRejections counts rejected requests due to rate limiting
	RateLimiterRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "greenloop_rate_limiter_rejections_total",
			Help: "Total number of requests rejected by rate limiter",
		},
		[]string{"ip"},
	)

	// DatabaseOperationDuration measures database operation duration
	DatabaseOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "greenloop_db_operation_duration_seconds",
			Help:    "Database operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	// MemoryStats tracks memory usage stats
	MemoryStats = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "greenloop_memory_stats_bytes",
			Help: "Memory statistics in bytes",
		},
		[]string{"type"},
	)

	// GoroutineCount tracks the number of goroutines
	GoroutineCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "greenloop_goroutine_count",
			Help: "Number of goroutines",
		},
	)

	// CacheHits counts the number of cache hits
    CacheHits = promauto.NewCounter(
        prometheus.CounterOpts{
            Name: "greenloop_cache_hits_total",
            Help: "Total number of cache hits",
        },
    )

    // CacheMisses counts the number of cache misses
    CacheMisses = promauto.NewCounter(
        prometheus.CounterOpts{
            Name: "greenloop_cache_misses_total",
            Help: "Total number of cache misses",
        },
    )

    // JudgeCalls counts automated judge invocations by result ("ok", "error")
    JudgeCalls = promauto.NewCounterVec(
        prometheus.CounterOpts{
            Name: "greenloop_judge_calls_total",
            Help: "Total number of automated judge invocations",
        },
        []string{"result"},
    )

    // JudgeCallDuration measures judge call duration
    JudgeCallDuration = promauto.NewHistogram(
        prometheus.HistogramOpts{
            Name:    "greenloop_judge_call_duration_seconds",
            Help:    "Automated judge call duration in seconds",
            Buckets: prometheus.DefBuckets,
        },
    )

    // VerdictOutcomes counts applied verdicts by type ("automated", "manual") and resolution
    VerdictOutcomes = promauto.NewCounterVec(
        prometheus.CounterOpts{
            Name: "greenloop_verdict_outcomes_total",
            Help: "Total number of verdicts applied to attempts",
        },
        []string{"type", "resolution"},
    )

    // PointsAwarded counts points granted through completed attempts
    PointsAwarded = promauto.NewCounter(
        prometheus.CounterOpts{
            Name: "greenloop_points_awarded_total",
            Help: "Total points awarded for completed attempts",
        },
    )

    // ManualReviewEscalations counts attempts handed to the manual review queue
    // after the judge retry budget was exhausted
    ManualReviewEscalations = promauto.NewCounter(
        prometheus.CounterOpts{
            Name: "greenloop_manual_review_escalations_total",
            Help: "Total number of attempts escalated to manual review",
        },
    )
)

// RecordDBOperation records the duration of a database operation
func RecordDBOperation(operation string, table string, startTime time.Time) {
	duration := time.Since(startTime).Seconds()
	DatabaseOperationDuration.WithLabelValues(operation, table).Observe(duration)
}
