package worker

import (
	"context"
	"sync"
	"time"

	"github.com/mauv0809/team-scout/internal/metrics"
	"github.com/mauv0809/team-scout/internal/notifier"
	"github.com/mauv0809/team-scout/internal/scouting"
	"github.com/mauv0809/team-scout/internal/stream"
	"github.com/mauv0809/team-scout/internal/teamsync"
)

// Roster supplies the teams a run iterates over.
type Roster interface {
	GetTrackedTeams(ctx context.Context) ([]scouting.TrackedTeam, error)
}

// Config tunes the pacing of a run.
type Config struct {
	// Cooldown is waited after every team.
	Cooldown time.Duration
	// RateLimitBackoff is waited after a team was aborted by provider throttling.
	RateLimitBackoff time.Duration
	// NotifyDryRun logs run summaries instead of posting them.
	NotifyDryRun bool
}

// Status is a snapshot of the worker.
type Status struct {
	Running       bool                 `json:"running"`
	StopRequested bool                 `json:"stop_requested"`
	RunID         string               `json:"run_id,omitempty"`
	SeasonID      int                  `json:"season_id,omitempty"`
	Force         bool                 `json:"force"`
	StartedAt     time.Time            `json:"started_at,omitzero"`
	Progress      stream.Progress      `json:"progress"`
	LastRun       *notifier.RunSummary `json:"last_run,omitempty"`
}

// Worker runs at most one analysis pass over the roster at a time.
type Worker struct {
	roster   Roster
	syncer   teamsync.TeamSyncer
	emitter  stream.Emitter
	notifier notifier.Notifier
	metrics  metrics.Metrics
	cfg      Config

	mu     sync.Mutex
	status Status
	stopCh chan struct{}
	done   chan struct{}

	now   func() time.Time
	sleep func(stop <-chan struct{}, d time.Duration)
}
