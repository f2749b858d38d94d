package metrics

import (
	"net/http"
	"strconv"
	"time"

	"ecolearn/internal/telemetry"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ecolearn"

// Collector turns gameplay events and HTTP traffic into Prometheus series.
// Each Collector owns its registry.
type Collector struct {
	registry *prometheus.Registry

	events           *prometheus.CounterVec
	pointsAwarded    *prometheus.CounterVec
	stageCompletions *prometheus.CounterVec
	decisions        *prometheus.CounterVec
	levelUps         prometheus.Counter

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Gameplay events by type.",
		}, []string{"type"}),
		pointsAwarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "points_awarded_total",
			Help:      "Points awarded to learners by source panel.",
		}, []string{"source"}),
		stageCompletions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_completions_total",
			Help:      "Water cycle stage completions.",
		}, []string{"stage"}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "climate_decisions_total",
			Help:      "Climate decisions by option.",
		}, []string{"option"}),
		levelUps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "level_ups_total",
			Help:      "Learner level increases.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status.",
		}, []string{"method", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}
	c.registry.MustRegister(
		c.events,
		c.pointsAwarded,
		c.stageCompletions,
		c.decisions,
		c.levelUps,
		c.httpRequests,
		c.httpLatency,
	)
	return c
}

// RegisterSessionGauge exposes the live session count reported by fn.
func (c *Collector) RegisterSessionGauge(fn func() int) {
	c.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions_active",
		Help:      "Sessions currently held in memory.",
	}, func() float64 { return float64(fn()) }))
}

func (c *Collector) RecordEvent(eventType telemetry.EventType, md telemetry.EventMetadata) error {
	c.events.WithLabelValues(string(eventType)).Inc()

	switch eventType {
	case telemetry.EventPointsAwarded:
		if pts := intValue(md[telemetry.KeyPoints]); pts > 0 {
			c.pointsAwarded.WithLabelValues(stringValue(md[telemetry.KeySource])).Add(float64(pts))
		}
	case telemetry.EventStageCompleted:
		c.stageCompletions.WithLabelValues(stringValue(md[telemetry.KeyStage])).Inc()
	case telemetry.EventDecisionMade:
		c.decisions.WithLabelValues(stringValue(md[telemetry.KeyOption])).Inc()
	case telemetry.EventLevelUp:
		c.levelUps.Inc()
	}
	return nil
}

// ObserveHTTP records one served request.
func (c *Collector) ObserveHTTP(method string, status int, d time.Duration) {
	c.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	c.httpLatency.WithLabelValues(method).Observe(d.Seconds())
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func intValue(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}

func stringValue(v interface{}) string {
	s, _ := v.(string)
	if s == "" {
		return "unknown"
	}
	return s
}
