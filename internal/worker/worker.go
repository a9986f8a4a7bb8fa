package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/team-scout/internal/metrics"
	"github.com/mauv0809/team-scout/internal/notifier"
	"github.com/mauv0809/team-scout/internal/robotevents"
	"github.com/mauv0809/team-scout/internal/stream"
	"github.com/mauv0809/team-scout/internal/teamsync"
)

// New creates an idle Worker.
func New(roster Roster, syncer teamsync.TeamSyncer, emitter stream.Emitter, notifier notifier.Notifier, metrics metrics.Metrics, cfg Config) *Worker {
	return &Worker{
		roster:   roster,
		syncer:   syncer,
		emitter:  emitter,
		notifier: notifier,
		metrics:  metrics,
		cfg:      cfg,
		now:      time.Now,
		sleep:    interruptibleSleep,
	}
}

// Start launches a run over the roster in the background. It returns false without
// doing anything when a run is already in progress.
func (w *Worker) Start(seasonID int, force bool) bool {
	w.mu.Lock()
	if w.status.Running {
		w.mu.Unlock()
		log.Info("Analysis already running, ignoring start", "run", w.status.RunID)
		return false
	}
	runID := uuid.NewString()
	w.status = Status{
		Running:   true,
		RunID:     runID,
		SeasonID:  seasonID,
		Force:     force,
		StartedAt: w.now(),
		LastRun:   w.status.LastRun,
	}
	stopCh := make(chan struct{})
	done := make(chan struct{})
	w.stopCh = stopCh
	w.done = done
	update := w.statusUpdateLocked()
	w.mu.Unlock()

	w.metrics.IncRunsStarted()
	w.emitter.Status(update)
	mode := "incremental"
	if force {
		mode = "forced"
	}
	w.emitter.Log(stream.LogInfo, fmt.Sprintf("Starting %s analysis for season %d (run %s)", mode, seasonID, runID))

	go w.run(runID, seasonID, force, stopCh, done)
	return true
}

// RequestStop asks the current run to stop before its next team. The team being
// synced always finishes. Pending cooldown or backoff waits are cut short.
func (w *Worker) RequestStop() {
	w.mu.Lock()
	if !w.status.Running || w.status.StopRequested {
		w.mu.Unlock()
		return
	}
	w.status.StopRequested = true
	close(w.stopCh)
	update := w.statusUpdateLocked()
	w.mu.Unlock()

	w.emitter.Log(stream.LogWarn, "Stop requested, finishing current team")
	w.emitter.Status(update)
}

// Status returns a snapshot of the worker state.
func (w *Worker) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// Wait blocks until the current run, if any, has finished.
func (w *Worker) Wait() {
	w.mu.Lock()
	done := w.done
	w.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (w *Worker) run(runID string, seasonID int, force bool, stopCh <-chan struct{}, done chan struct{}) {
	ctx := context.Background()
	summary := notifier.RunSummary{RunID: runID, SeasonID: seasonID, Force: force}
	startedAt := w.now()
	defer w.finish(&summary, startedAt, done)

	teams, err := w.roster.GetTrackedTeams(ctx)
	if err != nil {
		w.emitter.Log(stream.LogError, fmt.Sprintf("Failed to load tracked teams: %v", err))
		summary.Stopped = true
		return
	}
	summary.TotalTeams = len(teams)
	w.setProgress(stream.Progress{Total: len(teams)})
	w.emitter.Log(stream.LogInfo, fmt.Sprintf("Analysing %d tracked teams", len(teams)))

	for i, team := range teams {
		if w.stopRequested() {
			summary.Stopped = true
			break
		}

		w.setProgress(stream.Progress{Current: i, Total: len(teams), Team: team.TeamNumber})
		w.emitter.Log(stream.LogProcess, fmt.Sprintf("Syncing team %s (%d/%d)", team.TeamNumber, i+1, len(teams)))

		if err := w.syncer.SyncTeam(ctx, team.TeamNumber, seasonID, force); err != nil {
			summary.Failed = append(summary.Failed, team.TeamNumber)
			w.metrics.IncTeamsProcessed(metrics.TeamFailed)
			w.emitter.Log(stream.LogError, fmt.Sprintf("Team %s failed: %v", team.TeamNumber, err))
			if robotevents.IsRateLimited(err) {
				summary.RateLimited++
				w.metrics.IncRateLimited()
				w.emitter.Log(stream.LogWarn, fmt.Sprintf("Rate limited, backing off for %s", w.cfg.RateLimitBackoff))
				w.sleep(stopCh, w.cfg.RateLimitBackoff)
			}
		} else {
			summary.Processed++
			w.metrics.IncTeamsProcessed(metrics.TeamOK)
			w.emitter.Log(stream.LogSuccess, fmt.Sprintf("Team %s synced", team.TeamNumber))
		}

		w.setProgress(stream.Progress{Current: i + 1, Total: len(teams), Team: team.TeamNumber})
		w.sleep(stopCh, w.cfg.Cooldown)
	}
}

// finish is the single exit path of a run: it recovers panics, returns the worker
// to idle and reports the outcome.
func (w *Worker) finish(summary *notifier.RunSummary, startedAt time.Time, done chan struct{}) {
	if r := recover(); r != nil {
		log.Error("Analysis run panicked", "panic", r, "run", summary.RunID)
		w.emitter.Log(stream.LogError, fmt.Sprintf("Analysis aborted: %v", r))
		summary.Stopped = true
	}
	summary.Duration = w.now().Sub(startedAt)

	w.mu.Lock()
	last := *summary
	w.status = Status{
		Progress: w.status.Progress,
		LastRun:  &last,
	}
	update := w.statusUpdateLocked()
	w.mu.Unlock()

	if summary.Stopped {
		w.emitter.Log(stream.LogStop, fmt.Sprintf("Analysis stopped after %d of %d teams", summary.Processed+len(summary.Failed), summary.TotalTeams))
	} else {
		w.emitter.Log(stream.LogComplete, fmt.Sprintf("Analysis complete: %d teams synced, %d failed", summary.Processed, len(summary.Failed)))
	}
	w.emitter.Status(update)

	if err := w.notifier.SendRunSummary(last, w.cfg.NotifyDryRun); err != nil {
		log.Error("Failed to send run summary", "error", err, "run", summary.RunID)
	}
	close(done)
}

func (w *Worker) stopRequested() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status.StopRequested
}

func (w *Worker) setProgress(p stream.Progress) {
	w.mu.Lock()
	w.status.Progress = p
	w.mu.Unlock()
	w.emitter.Progress(p)
}

func (w *Worker) statusUpdateLocked() stream.StatusUpdate {
	return stream.StatusUpdate{
		Running:       w.status.Running,
		StopRequested: w.status.StopRequested,
		RunID:         w.status.RunID,
		SeasonID:      w.status.SeasonID,
	}
}

func interruptibleSleep(stop <-chan struct{}, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-stop:
	}
}
