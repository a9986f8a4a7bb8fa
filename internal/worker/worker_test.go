package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mauv0809/team-scout/internal/metrics"
	"github.com/mauv0809/team-scout/internal/notifier"
	"github.com/mauv0809/team-scout/internal/robotevents"
	"github.com/mauv0809/team-scout/internal/scouting"
	"github.com/mauv0809/team-scout/internal/stream"
	"github.com/mauv0809/team-scout/internal/teamsync"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store    *scouting.Mock
	syncer   *teamsync.Mock
	emitter  *stream.Recorder
	notifier *notifier.Mock
	metrics  *metrics.Mock
	worker   *Worker

	sleepMu sync.Mutex
	sleeps  []time.Duration
}

func newFixture(teams ...string) *fixture {
	f := &fixture{
		store:    scouting.NewMock(),
		syncer:   teamsync.NewMock(),
		emitter:  stream.NewRecorder(),
		notifier: notifier.NewMock(),
		metrics:  metrics.NewMock(),
	}
	for _, team := range teams {
		f.store.TrackedTeams = append(f.store.TrackedTeams, scouting.TrackedTeam{TeamNumber: team})
	}
	f.worker = New(f.store, f.syncer, f.emitter, f.notifier, f.metrics, Config{
		Cooldown:         3 * time.Second,
		RateLimitBackoff: 60 * time.Second,
	})
	f.worker.sleep = func(stop <-chan struct{}, d time.Duration) {
		f.sleepMu.Lock()
		defer f.sleepMu.Unlock()
		f.sleeps = append(f.sleeps, d)
	}
	return f
}

func (f *fixture) recordedSleeps() []time.Duration {
	f.sleepMu.Lock()
	defer f.sleepMu.Unlock()
	return append([]time.Duration(nil), f.sleeps...)
}

func TestWorker_RunsRosterInOrder(t *testing.T) {
	f := newFixture("3C", "2B", "1A")

	require.True(t, f.worker.Start(190, false))
	f.worker.Wait()

	assert.Equal(t, []string{"3C", "2B", "1A"}, f.syncer.Teams())
	for _, c := range f.syncer.SyncTeamCalls {
		assert.Equal(t, 190, c.SeasonID)
		assert.False(t, c.Force)
	}
	assert.Equal(t, []time.Duration{3 * time.Second, 3 * time.Second, 3 * time.Second}, f.recordedSleeps(), "cooldown after every team")

	status := f.worker.Status()
	assert.False(t, status.Running)
	assert.Equal(t, stream.Progress{Current: 3, Total: 3, Team: "1A"}, status.Progress)
	require.NotNil(t, status.LastRun)
	assert.Equal(t, 3, status.LastRun.Processed)
	assert.False(t, status.LastRun.Stopped)

	assert.Equal(t, 1, f.emitter.Count(stream.LogComplete))
	assert.Equal(t, 0, f.emitter.Count(stream.LogStop))
	assert.Equal(t, 1, f.metrics.RunsStarted())
	assert.Equal(t, 3, f.metrics.TeamsProcessed(metrics.TeamOK))
	require.Len(t, f.notifier.Summaries(), 1)
	assert.Equal(t, status.LastRun.RunID, f.notifier.Summaries()[0].RunID)

	statuses := f.emitter.Statuses()
	require.NotEmpty(t, statuses)
	assert.True(t, statuses[0].Running)
	assert.False(t, statuses[len(statuses)-1].Running)
}

func TestWorker_StartIsSingleton(t *testing.T) {
	f := newFixture("1A", "2B")
	release := make(chan struct{})
	entered := make(chan struct{}, 1)
	f.syncer.SyncTeamFunc = func(ctx context.Context, teamNumber string, seasonID int, force bool) error {
		select {
		case entered <- struct{}{}:
		default:
		}
		<-release
		return nil
	}

	require.True(t, f.worker.Start(190, false))
	<-entered
	assert.True(t, f.worker.Status().Running)
	assert.False(t, f.worker.Start(190, true), "a second start while running is rejected")

	close(release)
	f.worker.Wait()
	assert.False(t, f.worker.Status().Running)
	assert.Equal(t, 1, f.metrics.RunsStarted())

	assert.True(t, f.worker.Start(190, true), "idle worker accepts a new run")
	f.worker.Wait()
	assert.Equal(t, 2, f.metrics.RunsStarted())
	assert.Len(t, f.syncer.SyncTeamCalls, 4)
}

func TestWorker_StopIsCooperative(t *testing.T) {
	f := newFixture("1A", "2B", "3C")
	f.syncer.SyncTeamFunc = func(ctx context.Context, teamNumber string, seasonID int, force bool) error {
		if teamNumber == "1A" {
			f.worker.RequestStop()
			f.worker.RequestStop()
		}
		return nil
	}

	require.True(t, f.worker.Start(190, false))
	f.worker.Wait()

	assert.Equal(t, []string{"1A"}, f.syncer.Teams(), "the in-flight team finishes and no further team starts")
	status := f.worker.Status()
	assert.False(t, status.Running)
	assert.False(t, status.StopRequested)
	require.NotNil(t, status.LastRun)
	assert.True(t, status.LastRun.Stopped)
	assert.Equal(t, 1, status.LastRun.Processed)

	assert.Equal(t, 1, f.emitter.Count(stream.LogStop))
	assert.Equal(t, 0, f.emitter.Count(stream.LogComplete))
}

func TestWorker_RequestStopWhenIdleIsNoop(t *testing.T) {
	f := newFixture()
	f.worker.RequestStop()
	assert.False(t, f.worker.Status().StopRequested)
	assert.Empty(t, f.emitter.Logs())
}

func TestWorker_BacksOffWhenRateLimited(t *testing.T) {
	f := newFixture("1A", "2B")
	f.syncer.SyncTeamFunc = func(ctx context.Context, teamNumber string, seasonID int, force bool) error {
		if teamNumber == "1A" {
			return &robotevents.ProviderError{StatusCode: 429, URL: "/teams"}
		}
		return nil
	}

	require.True(t, f.worker.Start(190, false))
	f.worker.Wait()

	assert.Equal(t, []string{"1A", "2B"}, f.syncer.Teams(), "the run continues after backing off")
	assert.Equal(t, []time.Duration{60 * time.Second, 3 * time.Second, 3 * time.Second}, f.recordedSleeps())
	assert.Equal(t, 1, f.metrics.RateLimited())

	last := f.worker.Status().LastRun
	require.NotNil(t, last)
	assert.Equal(t, 1, last.RateLimited)
	assert.Equal(t, []string{"1A"}, last.Failed)
}

func TestWorker_CompletesWhenEveryTeamFails(t *testing.T) {
	f := newFixture("1A", "2B", "3C")
	f.syncer.SyncTeamFunc = func(ctx context.Context, teamNumber string, seasonID int, force bool) error {
		return errors.New("boom")
	}

	require.True(t, f.worker.Start(190, false))
	f.worker.Wait()

	assert.Len(t, f.syncer.SyncTeamCalls, 3)
	assert.Equal(t, 1, f.emitter.Count(stream.LogComplete))
	assert.Equal(t, 3, f.emitter.Count(stream.LogError))
	assert.Equal(t, 3, f.metrics.TeamsProcessed(metrics.TeamFailed))
	assert.False(t, f.worker.Status().Running)
	assert.Equal(t, []string{"1A", "2B", "3C"}, f.worker.Status().LastRun.Failed)
}

func TestWorker_RecoversFromPanics(t *testing.T) {
	f := newFixture("1A")
	f.syncer.SyncTeamFunc = func(ctx context.Context, teamNumber string, seasonID int, force bool) error {
		panic("unexpected nil")
	}

	require.True(t, f.worker.Start(190, false))
	f.worker.Wait()

	assert.False(t, f.worker.Status().Running)
	assert.Equal(t, 1, f.emitter.Count(stream.LogStop))

	f.syncer.SyncTeamFunc = nil
	assert.True(t, f.worker.Start(190, false))
	f.worker.Wait()
	assert.Equal(t, 1, f.emitter.Count(stream.LogComplete))
}

func TestWorker_RosterFailureEndsRun(t *testing.T) {
	f := newFixture()
	f.store.GetTrackedTeamsFunc = func(ctx context.Context) ([]scouting.TrackedTeam, error) {
		return nil, errors.New("database is locked")
	}

	require.True(t, f.worker.Start(190, false))
	f.worker.Wait()

	assert.Empty(t, f.syncer.SyncTeamCalls)
	assert.False(t, f.worker.Status().Running)
	assert.Equal(t, 1, f.emitter.Count(stream.LogStop))
}

func TestWorker_NotifierFailureIsLogged(t *testing.T) {
	f := newFixture("1A")
	f.notifier.SendRunSummaryFunc = func(summary notifier.RunSummary, dryRun bool) error {
		return errors.New("slack down")
	}

	require.True(t, f.worker.Start(190, false))
	f.worker.Wait()

	assert.False(t, f.worker.Status().Running)
	assert.Equal(t, 1, f.emitter.Count(stream.LogComplete))
}

func TestInterruptibleSleep(t *testing.T) {
	stop := make(chan struct{})
	close(stop)

	start := time.Now()
	interruptibleSleep(stop, time.Minute)
	assert.Less(t, time.Since(start), time.Second)

	interruptibleSleep(nil, 0)
}
