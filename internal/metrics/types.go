package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the engine.
type Service struct {
	RunsStarted        prometheus.Counter
	TeamsProcessed     *prometheus.CounterVec
	EventsProcessed    *prometheus.CounterVec
	EventDuration      prometheus.Histogram
	RateLimited        prometheus.Counter
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}

// Team outcome labels.
const (
	TeamOK     = "ok"
	TeamFailed = "failed"
)
