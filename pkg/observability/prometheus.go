package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "sociogram"

// PrometheusHooks implements every hook interface on top of Prometheus
// collectors. Create one per registry; registering twice on the same
// registry panics.
type PrometheusHooks struct {
	analyses        *prometheus.CounterVec
	analyzeDuration prometheus.Histogram
	lastNodes       prometheus.Gauge
	lastEdges       prometheus.Gauge

	renders        *prometheus.CounterVec
	renderDuration prometheus.Histogram

	cacheOps   *prometheus.CounterVec
	cacheBytes prometheus.Counter

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	submissions  prometheus.Counter
	peersChosen  prometheus.Histogram
}

// NewPrometheusHooks creates the collectors and registers them on reg.
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	h := &PrometheusHooks{
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Sociogram analyses run, by outcome.",
		}, []string{"status"}),
		analyzeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analyze_duration_seconds",
			Help:      "Time to build and analyze a sociogram.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		lastNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_nodes",
			Help:      "Node count of the most recent analysis.",
		}),
		lastEdges: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_edges",
			Help:      "Edge count of the most recent analysis.",
		}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Artifact renders, by format and outcome.",
		}, []string{"format", "status"}),
		renderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Time to render all requested formats.",
			Buckets:   prometheus.DefBuckets,
		}),
		cacheOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Cache lookups and writes, by key type and result.",
		}, []string{"key_type", "result"}),
		cacheBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		submissions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Preference submissions accepted.",
		}),
		peersChosen: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "submission_peers",
			Help:      "Number of peers named per submission.",
			Buckets:   prometheus.LinearBuckets(0, 1, 8),
		}),
	}

	reg.MustRegister(
		h.analyses, h.analyzeDuration, h.lastNodes, h.lastEdges,
		h.renders, h.renderDuration,
		h.cacheOps, h.cacheBytes,
		h.httpRequests, h.httpDuration, h.submissions, h.peersChosen,
	)
	return h
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (h *PrometheusHooks) OnAnalyzeStart(context.Context, int) {}

func (h *PrometheusHooks) OnAnalyzeComplete(_ context.Context, nodes, edges int, d time.Duration, err error) {
	h.analyses.WithLabelValues(status(err)).Inc()
	h.analyzeDuration.Observe(d.Seconds())
	if err == nil {
		h.lastNodes.Set(float64(nodes))
		h.lastEdges.Set(float64(edges))
	}
}

func (h *PrometheusHooks) OnRenderStart(context.Context, []string) {}

func (h *PrometheusHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	for _, f := range formats {
		h.renders.WithLabelValues(f, status(err)).Inc()
	}
	h.renderDuration.Observe(d.Seconds())
}

func (h *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (h *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (h *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cacheOps.WithLabelValues(keyType, "set").Inc()
	h.cacheBytes.Add(float64(size))
}

func (h *PrometheusHooks) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	h.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	h.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (h *PrometheusHooks) OnSubmission(_ context.Context, peers int) {
	h.submissions.Inc()
	h.peersChosen.Observe(float64(peers))
}

var (
	_ PipelineHooks = (*PrometheusHooks)(nil)
	_ CacheHooks    = (*PrometheusHooks)(nil)
	_ HTTPHooks     = (*PrometheusHooks)(nil)
)
