package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		RunsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scout_analysis_runs_total",
			Help: "The total number of background analysis runs started.",
		}),
		TeamsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scout_teams_processed_total",
			Help: "The total number of roster teams synced, by outcome.",
		}, []string{"outcome"}),
		EventsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scout_events_processed_total",
			Help: "The total number of events analysed, by ratings status.",
		}, []string{"status"}),
		EventDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "scout_event_processing_duration_seconds",
			Help:    "The duration of individual event processing.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scout_provider_rate_limited_total",
			Help: "The total number of rate-limit responses from the event data provider.",
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scout_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scout_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "scout_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.RunsStarted,
		s.TeamsProcessed,
		s.EventsProcessed,
		s.EventDuration,
		s.RateLimited,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncRunsStarted() {
	s.RunsStarted.Inc()
}

func (s *Service) IncTeamsProcessed(outcome string) {
	s.TeamsProcessed.WithLabelValues(outcome).Inc()
}

func (s *Service) IncEventsProcessed(status string) {
	s.EventsProcessed.WithLabelValues(status).Inc()
}

func (s *Service) ObserveEventDuration(duration float64) {
	s.EventDuration.Observe(duration)
}

func (s *Service) IncRateLimited() {
	s.RateLimited.Inc()
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
