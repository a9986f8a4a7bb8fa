package teamsync

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mauv0809/team-scout/internal/processor"
	"github.com/mauv0809/team-scout/internal/robotevents"
	"github.com/mauv0809/team-scout/internal/scouting"
	"github.com/mauv0809/team-scout/internal/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	client  *robotevents.MockClient
	store   *scouting.Mock
	proc    *processor.Mock
	emitter *stream.Recorder
	syncer  *Syncer
}

func newFixture(events []robotevents.Event) *fixture {
	f := &fixture{
		client:  robotevents.NewMockClient(),
		store:   scouting.NewMock(),
		proc:    processor.NewMock(),
		emitter: stream.NewRecorder(),
	}
	f.client.GetTeamByNumberFunc = func(ctx context.Context, number string) (robotevents.Team, error) {
		return robotevents.Team{ID: 7, Number: number}, nil
	}
	f.client.GetTeamEventsFunc = func(ctx context.Context, teamID, seasonID int) ([]robotevents.Event, error) {
		return events, nil
	}
	f.syncer = New(f.client, f.store, f.proc, f.emitter)
	f.syncer.now = func() time.Time { return fixedNow }
	return f
}

func finishedEvents(n int) []robotevents.Event {
	events := make([]robotevents.Event, n)
	for i := range events {
		events[i] = robotevents.Event{
			ID:  i + 1,
			SKU: fmt.Sprintf("RE-%d", i+1),
			End: fixedNow.Add(-time.Duration(i+1) * 24 * time.Hour),
		}
	}
	return events
}

func markProcessed(store *scouting.Mock, keys ...string) {
	for _, k := range keys {
		store.Cache[k] = scouting.EventCacheRecord{Key: k, Processed: true}
	}
}

func TestSyncTeam(t *testing.T) {
	t.Run("only events missing from the cache are processed", func(t *testing.T) {
		f := newFixture(finishedEvents(5))
		markProcessed(f.store, "RE-2", "RE-4")

		require.NoError(t, f.syncer.SyncTeam(context.Background(), "1234A", 190, false))

		assert.Equal(t, []string{"RE-1", "RE-3", "RE-5"}, f.proc.ProcessedKeys())
	})

	t.Run("force reprocesses every finished event", func(t *testing.T) {
		f := newFixture(finishedEvents(5))
		markProcessed(f.store, "RE-2", "RE-4")

		require.NoError(t, f.syncer.SyncTeam(context.Background(), "1234A", 190, true))

		assert.Len(t, f.proc.ProcessEventCalls, 5)
	})

	t.Run("events that have not ended are ignored", func(t *testing.T) {
		events := finishedEvents(2)
		events = append(events,
			robotevents.Event{ID: 10, SKU: "RE-future", End: fixedNow.Add(time.Hour)},
			robotevents.Event{ID: 11, SKU: "RE-now", End: fixedNow},
			robotevents.Event{ID: 12, SKU: "RE-undated"},
		)
		f := newFixture(events)

		require.NoError(t, f.syncer.SyncTeam(context.Background(), "1234A", 190, true))

		assert.Equal(t, []string{"RE-1", "RE-2"}, f.proc.ProcessedKeys())
	})

	t.Run("unknown team is a no-op", func(t *testing.T) {
		f := newFixture(finishedEvents(3))
		f.client.GetTeamByNumberFunc = func(ctx context.Context, number string) (robotevents.Team, error) {
			return robotevents.Team{}, fmt.Errorf("lookup %s: %w", number, robotevents.ErrTeamNotFound)
		}

		require.NoError(t, f.syncer.SyncTeam(context.Background(), "0000Z", 190, false))

		assert.Empty(t, f.client.GetTeamEventsCalls)
		assert.Empty(t, f.proc.ProcessEventCalls)
		assert.Equal(t, 1, f.emitter.Count(stream.LogWarn))
	})

	t.Run("a failing event is skipped", func(t *testing.T) {
		f := newFixture(finishedEvents(3))
		f.proc.ProcessEventFunc = func(ctx context.Context, seasonID int, event robotevents.Event) (processor.Outcome, error) {
			if event.SKU == "RE-2" {
				return processor.Outcome{}, &robotevents.ProviderError{StatusCode: 500, URL: "/events/2"}
			}
			return processor.Outcome{Saved: true}, nil
		}

		require.NoError(t, f.syncer.SyncTeam(context.Background(), "1234A", 190, false))

		assert.Len(t, f.proc.ProcessEventCalls, 3)
		assert.Equal(t, 1, f.emitter.Count(stream.LogError))
	})

	t.Run("rate limiting aborts the team", func(t *testing.T) {
		f := newFixture(finishedEvents(3))
		f.proc.ProcessEventFunc = func(ctx context.Context, seasonID int, event robotevents.Event) (processor.Outcome, error) {
			if event.SKU == "RE-2" {
				return processor.Outcome{}, &robotevents.ProviderError{StatusCode: 429, URL: "/events/2"}
			}
			return processor.Outcome{Saved: true}, nil
		}

		err := f.syncer.SyncTeam(context.Background(), "1234A", 190, false)
		require.Error(t, err)
		assert.True(t, robotevents.IsRateLimited(err))
		assert.Len(t, f.proc.ProcessEventCalls, 2)
		assert.Empty(t, f.client.GetTeamSkillsCalls, "skills are not fetched after an abort")
	})

	t.Run("event listing errors are returned", func(t *testing.T) {
		f := newFixture(nil)
		f.client.GetTeamEventsFunc = func(ctx context.Context, teamID, seasonID int) ([]robotevents.Event, error) {
			return nil, errors.New("connection reset")
		}

		err := f.syncer.SyncTeam(context.Background(), "1234A", 190, false)
		assert.ErrorContains(t, err, "connection reset")
	})

	t.Run("best combined skills score is stored", func(t *testing.T) {
		f := newFixture(nil)
		f.client.GetTeamSkillsFunc = func(ctx context.Context, teamID, seasonID int) ([]robotevents.SkillRun, error) {
			return []robotevents.SkillRun{
				{Event: robotevents.EventRef{ID: 1}, Type: robotevents.SkillDriver, Score: 80},
				{Event: robotevents.EventRef{ID: 1}, Type: robotevents.SkillProgramming, Score: 40},
				{Event: robotevents.EventRef{ID: 2}, Type: robotevents.SkillDriver, Score: 100},
			}, nil
		}

		require.NoError(t, f.syncer.SyncTeam(context.Background(), "1234A", 190, false))

		require.Len(t, f.store.UpsertTeamSkillsCalls, 1)
		assert.Equal(t, scouting.TeamSkillsCall{TeamNumber: "1234A", SeasonID: 190, Score: 120}, f.store.UpsertTeamSkillsCalls[0])
	})

	t.Run("skills fetch failure does not fail the team", func(t *testing.T) {
		f := newFixture(nil)
		f.client.GetTeamSkillsFunc = func(ctx context.Context, teamID, seasonID int) ([]robotevents.SkillRun, error) {
			return nil, &robotevents.ProviderError{StatusCode: 503, URL: "/teams/7/skills"}
		}

		require.NoError(t, f.syncer.SyncTeam(context.Background(), "1234A", 190, false))
		assert.Empty(t, f.store.UpsertTeamSkillsCalls)
	})
}

func TestBestSkillsScore(t *testing.T) {
	_, ok := BestSkillsScore(nil)
	assert.False(t, ok)

	score, ok := BestSkillsScore([]robotevents.SkillRun{
		{Event: robotevents.EventRef{ID: 3}, Type: robotevents.SkillProgramming, Score: 55},
	})
	assert.True(t, ok)
	assert.Equal(t, 55, score)
}
