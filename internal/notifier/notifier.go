package notifier

import "time"

// Notifier defines a high-level interface for sending notifications about engine runs.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	SendRunSummary(summary RunSummary, dryRun bool) error
}

// RunSummary describes one finished background analysis run.
type RunSummary struct {
	RunID       string
	SeasonID    int
	Force       bool
	TotalTeams  int
	Processed   int
	Failed      []string
	RateLimited int
	Stopped     bool
	Duration    time.Duration
}
