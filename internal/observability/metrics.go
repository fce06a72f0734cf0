package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RemoteRequests counts backend calls by operation and outcome.
	RemoteRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "elfkoelsch_remote_requests_total",
		Help: "Total number of remote backend calls by operation and outcome",
	}, []string{"operation", "outcome"})

	// RemoteRequestLatency records backend call latency by operation.
	RemoteRequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "elfkoelsch_remote_request_latency_seconds",
		Help:    "Remote backend call latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// SyncRefreshDuration records how long a full cache refresh takes.
	SyncRefreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "elfkoelsch_sync_refresh_duration_seconds",
		Help:    "Duration of a full cache refresh in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// DecodeSkips counts wire records dropped as malformed, by table.
	DecodeSkips = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "elfkoelsch_decode_skips_total",
		Help: "Total number of wire records skipped as malformed",
	}, []string{"table"})

	// CacheEntities is the gauge of cached entities per table.
	CacheEntities = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "elfkoelsch_cache_entities",
		Help: "Number of entities currently held in the local cache",
	}, []string{"table"})

	// RealtimeEvents counts realtime change-feed events by table and action.
	RealtimeEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "elfkoelsch_realtime_events_total",
		Help: "Total realtime change-feed events by table and action",
	}, []string{"table", "action"})
)

// ObserveRemote records one backend call.
func ObserveRemote(operation string, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	RemoteRequests.WithLabelValues(operation, outcome).Inc()
	RemoteRequestLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
