package metrics

// Metrics defines the interface for collecting engine metrics.
// This decouples the engine from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncRunsStarted()
	IncTeamsProcessed(outcome string)
	IncEventsProcessed(status string)
	ObserveEventDuration(duration float64)
	IncRateLimited()
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}
