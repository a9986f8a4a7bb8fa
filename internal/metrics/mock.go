package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu               sync.Mutex
	runsStarted      int
	teamsProcessed   map[string]int
	eventsProcessed  map[string]int
	eventDurations   []float64
	rateLimited      int
	slackNotifSent   int
	slackNotifFailed int
	startupTime      float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		teamsProcessed:  make(map[string]int),
		eventsProcessed: make(map[string]int),
		eventDurations:  make([]float64, 0),
	}
}

func (m *Mock) IncRunsStarted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runsStarted++
}

func (m *Mock) IncTeamsProcessed(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teamsProcessed[outcome]++
}

func (m *Mock) IncEventsProcessed(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventsProcessed[status]++
}

func (m *Mock) ObserveEventDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventDurations = append(m.eventDurations, duration)
}

func (m *Mock) IncRateLimited() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rateLimited++
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// RunsStarted returns the number of times IncRunsStarted was called.
func (m *Mock) RunsStarted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runsStarted
}

// TeamsProcessed returns the count recorded for the given outcome.
func (m *Mock) TeamsProcessed(outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.teamsProcessed[outcome]
}

// EventsProcessed returns the count recorded for the given ratings status.
func (m *Mock) EventsProcessed(status string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eventsProcessed[status]
}

// RateLimited returns the number of times IncRateLimited was called.
func (m *Mock) RateLimited() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rateLimited
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}
