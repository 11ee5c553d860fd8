// Package observability holds Prometheus collectors and OpenTelemetry tracing setup.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DatabaseQueryLatency records repository query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vzsocial_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// SlowQueries counts queries slower than the database slow-query threshold.
	SlowQueries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vzsocial_database_slow_queries_total",
		Help: "Queries that exceeded the slow-query threshold",
	})

	// FeedBuildDuration records how long a home feed takes to assemble.
	FeedBuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "vzsocial_feed_build_duration_seconds",
		Help:    "Time spent building a home feed",
		Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	})

	// FeedSectionFailures counts failed feed sections by section name.
	FeedSectionFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vzsocial_feed_section_failures_total",
		Help: "Feed sections that failed to build",
	}, []string{"section"})

	// CommentTreeNodes records how many comments a tree fetch returned.
	CommentTreeNodes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "vzsocial_comment_tree_nodes",
		Help:    "Number of comment nodes per tree fetch",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	})

	// CommentTreeDepth records the deepest reply level reached per tree fetch.
	CommentTreeDepth = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "vzsocial_comment_tree_depth",
		Help:    "Deepest reply level per tree fetch",
		Buckets: prometheus.LinearBuckets(1, 2, 10),
	})

	// LikeToggles counts like toggles by resulting state.
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vzsocial_like_toggles_total",
		Help: "Like toggles by resulting state",
	}, []string{"state"})

	// MediaUploadBytes records uploaded object sizes by kind.
	MediaUploadBytes = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vzsocial_media_upload_bytes",
		Help:    "Uploaded media object size in bytes",
		Buckets: prometheus.ExponentialBuckets(16*1024, 4, 8),
	}, []string{"kind"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
