package teamsync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/team-scout/internal/processor"
	"github.com/mauv0809/team-scout/internal/robotevents"
	"github.com/mauv0809/team-scout/internal/stream"
)

var _ TeamSyncer = (*Syncer)(nil)

// New creates a new Syncer.
func New(client robotevents.RobotEventsClient, store Store, proc processor.EventProcessor, emitter stream.Emitter) *Syncer {
	return &Syncer{
		client:    client,
		store:     store,
		processor: proc,
		emitter:   emitter,
		now:       time.Now,
	}
}

// SyncTeam processes every finished event of the team's season that is not cached
// yet, or all finished events when force is set, then refreshes the team's skills
// score. An unknown team is a logged no-op. A failing event is logged and skipped
// unless the provider is rate limiting, in which case the error is returned so the
// caller can back off.
func (s *Syncer) SyncTeam(ctx context.Context, teamNumber string, seasonID int, force bool) error {
	team, err := s.client.GetTeamByNumber(ctx, teamNumber)
	if errors.Is(err, robotevents.ErrTeamNotFound) {
		s.emitter.Log(stream.LogWarn, fmt.Sprintf("Team %s not found, skipping", teamNumber))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to resolve team %s: %w", teamNumber, err)
	}

	events, err := s.client.GetTeamEvents(ctx, team.ID, seasonID)
	if err != nil {
		return fmt.Errorf("failed to fetch events for team %s: %w", teamNumber, err)
	}

	now := s.now()
	finished := make([]robotevents.Event, 0, len(events))
	keys := make([]string, 0, len(events))
	for _, e := range events {
		if e.HasEnded(now) {
			finished = append(finished, e)
			keys = append(keys, e.Key())
		}
	}

	processed, err := s.store.GetProcessedEventKeys(ctx, keys)
	if err != nil {
		return fmt.Errorf("failed to check event cache for team %s: %w", teamNumber, err)
	}

	pending := finished
	if !force {
		pending = make([]robotevents.Event, 0, len(finished))
		for _, e := range finished {
			if !processed[e.Key()] {
				pending = append(pending, e)
			}
		}
	}
	s.emitter.Log(stream.LogInfo, fmt.Sprintf("Team %s: %d finished events, %d to process", teamNumber, len(finished), len(pending)))

	for _, e := range pending {
		if _, err := s.processor.ProcessEvent(ctx, seasonID, e); err != nil {
			if robotevents.IsRateLimited(err) {
				return fmt.Errorf("team %s aborted at event %s: %w", teamNumber, e.Key(), err)
			}
			s.emitter.Log(stream.LogError, fmt.Sprintf("Failed to process event %s: %v", e.Key(), err))
		}
	}

	return s.syncSkills(ctx, team, seasonID)
}

// syncSkills stores the team's best combined driver+programming score at a single event.
func (s *Syncer) syncSkills(ctx context.Context, team robotevents.Team, seasonID int) error {
	runs, err := s.client.GetTeamSkills(ctx, team.ID, seasonID)
	if err != nil {
		if robotevents.IsRateLimited(err) {
			return fmt.Errorf("failed to fetch skills for team %s: %w", team.Number, err)
		}
		s.emitter.Log(stream.LogWarn, fmt.Sprintf("Failed to fetch skills for team %s: %v", team.Number, err))
		return nil
	}

	best, ok := BestSkillsScore(runs)
	if !ok {
		log.Debug("No skills runs for team", "team", team.Number, "season", seasonID)
		return nil
	}
	if err := s.store.UpsertTeamSkills(ctx, team.Number, seasonID, best); err != nil {
		s.emitter.Log(stream.LogError, fmt.Sprintf("Failed to save skills for team %s: %v", team.Number, err))
		return nil
	}
	s.emitter.Log(stream.LogDebug, fmt.Sprintf("Team %s skills score %d", team.Number, best))
	return nil
}

// BestSkillsScore returns the highest driver+programming sum recorded at one event.
func BestSkillsScore(runs []robotevents.SkillRun) (int, bool) {
	type pair struct{ driver, programming int }
	byEvent := make(map[int]pair)
	for _, r := range runs {
		p := byEvent[r.Event.ID]
		switch r.Type {
		case robotevents.SkillDriver:
			p.driver = max(p.driver, r.Score)
		case robotevents.SkillProgramming:
			p.programming = max(p.programming, r.Score)
		default:
			continue
		}
		byEvent[r.Event.ID] = p
	}
	if len(byEvent) == 0 {
		return 0, false
	}
	best := 0
	for _, p := range byEvent {
		best = max(best, p.driver+p.programming)
	}
	return best, true
}
