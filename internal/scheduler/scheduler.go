package scheduler

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"
)

// Starter launches an analysis run. It reports false when one is already running.
type Starter interface {
	Start(seasonID int, force bool) bool
}

// Scheduler triggers incremental analysis runs on a cron schedule.
type Scheduler struct {
	cron     *cron.Cron
	starter  Starter
	spec     string
	seasonID int
}

// New creates a Scheduler. It does nothing until Start is called.
func New(spec string, seasonID int, starter Starter) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		starter:  starter,
		spec:     spec,
		seasonID: seasonID,
	}
}

// Start registers the job and starts the cron loop. An empty spec disables scheduling.
func (s *Scheduler) Start() error {
	if s.spec == "" {
		log.Info("Scheduled analysis disabled")
		return nil
	}
	if _, err := s.cron.AddFunc(s.spec, s.Trigger); err != nil {
		return fmt.Errorf("failed to schedule analysis %q: %w", s.spec, err)
	}
	s.cron.Start()
	log.Info("Scheduled analysis enabled", "schedule", s.spec, "season", s.seasonID)
	return nil
}

// Trigger starts an incremental run now. A run already in progress is left alone.
func (s *Scheduler) Trigger() {
	if !s.starter.Start(s.seasonID, false) {
		log.Info("Scheduled analysis skipped, a run is already active", "season", s.seasonID)
		return
	}
	log.Info("Scheduled analysis started", "season", s.seasonID)
}

// Stop stops the cron loop and waits for a running trigger to return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info("Scheduler stopped")
}
