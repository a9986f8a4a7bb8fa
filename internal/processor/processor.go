package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/team-scout/internal/metrics"
	"github.com/mauv0809/team-scout/internal/pubsub"
	"github.com/mauv0809/team-scout/internal/ratings"
	"github.com/mauv0809/team-scout/internal/robotevents"
	"github.com/mauv0809/team-scout/internal/scouting"
	"github.com/mauv0809/team-scout/internal/stream"
)

const (
	red  = "red"
	blue = "blue"
)

var _ EventProcessor = (*Processor)(nil)

// New creates a new Processor.
func New(client EventSource, store Store, emitter stream.Emitter, metrics metrics.Metrics, pubsub pubsub.PubSubClient) *Processor {
	return &Processor{
		client:  client,
		store:   store,
		emitter: emitter,
		metrics: metrics,
		pubsub:  pubsub,
		now:     time.Now,
	}
}

// ProcessEvent fetches every division's matches for the event, solves ratings over
// the scored ones and saves one stats row per participating team in a single
// transaction. Provider errors are returned as-is so callers can detect rate limits.
// An event without scored matches is left untouched so a later run picks it up.
func (p *Processor) ProcessEvent(ctx context.Context, seasonID int, event robotevents.Event) (Outcome, error) {
	startTime := p.now()
	key := event.Key()
	outcome := Outcome{EventKey: key}
	p.emitter.Log(stream.LogProcess, fmt.Sprintf("Processing event %s (%s)", key, event.Name))

	divisions := event.Divisions
	if len(divisions) == 0 {
		detail, err := p.client.GetEvent(ctx, event.ID)
		if err != nil {
			return outcome, fmt.Errorf("failed to fetch event %s: %w", key, err)
		}
		divisions = detail.Divisions
	}

	var matches []robotevents.Match
	for _, div := range divisions {
		divMatches, err := p.client.GetDivisionMatches(ctx, event.ID, div.ID)
		if err != nil {
			return outcome, fmt.Errorf("failed to fetch matches for event %s division %d: %w", key, div.ID, err)
		}
		matches = append(matches, divMatches...)
	}

	teams := participants(matches)
	scored, solverTeams := scoredMatches(matches)
	outcome.ScoredMatches = len(scored)
	if len(scored) == 0 {
		p.emitter.Log(stream.LogInfo, fmt.Sprintf("Event %s has no scored matches yet, skipping", key))
		return outcome, nil
	}

	result := ratings.Solve(scored, solverTeams)
	status := scouting.RatingsSolved
	if !result.Solved() {
		status = scouting.RatingsIndeterminate
		p.emitter.Log(stream.LogWarn, fmt.Sprintf("Ratings for event %s are indeterminate: %s", key, result.Reason))
	}
	records := tally(scored)

	stats := make([]scouting.TeamEventStats, 0, len(teams))
	for _, team := range teams {
		rec := records[team]
		st := scouting.TeamEventStats{
			TeamKey: team,
			WinRate: ratings.Round2(rec.winRate()),
			Wins:    rec.wins,
			Losses:  rec.losses,
			Ties:    rec.ties,
		}
		if result.Solved() {
			r := result.Ratings[team]
			st.OPR, st.DPR, st.CCWM = r.OPR, r.DPR, r.CCWM
		}
		stats = append(stats, st)
	}

	err := p.store.SaveEventAnalysis(ctx, scouting.EventAnalysis{
		EventKey:      key,
		SeasonID:      seasonID,
		RatingsStatus: status,
		Stats:         stats,
	})
	if err != nil {
		return outcome, fmt.Errorf("failed to save event %s: %w", key, err)
	}

	outcome.Saved = true
	outcome.Status = status
	outcome.Teams = len(stats)
	p.metrics.IncEventsProcessed(string(status))
	p.metrics.ObserveEventDuration(p.now().Sub(startTime).Seconds())
	p.emitter.Log(stream.LogSuccess, fmt.Sprintf("Saved stats for %d teams at event %s", len(stats), key))

	msg := pubsub.EventAnalyzedMessage{EventKey: key, SeasonID: seasonID, Teams: teams, Status: string(status)}
	if err := p.pubsub.SendMessage(ctx, pubsub.EventAnalyzed, msg); err != nil {
		log.Error("Failed to publish event analyzed message", "error", err, "event", key)
	}
	return outcome, nil
}

// participants returns the distinct teams over all matches in first-appearance order.
func participants(matches []robotevents.Match) []string {
	var teams []string
	seen := make(map[string]bool)
	for _, m := range matches {
		for _, a := range m.Alliances {
			for _, name := range a.TeamNames() {
				if !seen[name] {
					seen[name] = true
					teams = append(teams, name)
				}
			}
		}
	}
	return teams
}

// scoredMatches converts scored matches with both alliances present into solver
// input and returns the teams that played in them, in first-appearance order.
func scoredMatches(matches []robotevents.Match) ([]ratings.Match, []string) {
	var (
		out   []ratings.Match
		teams []string
	)
	seen := make(map[string]bool)
	for _, m := range matches {
		if !m.Scored {
			continue
		}
		r, okRed := m.Alliance(red)
		b, okBlue := m.Alliance(blue)
		if !okRed || !okBlue {
			log.Warn("Skipping scored match without both alliances", "match", m.Name)
			continue
		}
		sm := ratings.Match{
			Red:  ratings.Alliance{Score: r.Score, Teams: r.TeamNames()},
			Blue: ratings.Alliance{Score: b.Score, Teams: b.TeamNames()},
		}
		for _, name := range append(append([]string{}, sm.Red.Teams...), sm.Blue.Teams...) {
			if !seen[name] {
				seen[name] = true
				teams = append(teams, name)
			}
		}
		out = append(out, sm)
	}
	return out, teams
}

// tally counts wins, losses and ties per team. Higher score wins, equal scores tie.
func tally(matches []ratings.Match) map[string]record {
	records := make(map[string]record)
	credit := func(teams []string, own, opp int) {
		counted := make(map[string]bool, len(teams))
		for _, team := range teams {
			if counted[team] {
				continue
			}
			counted[team] = true
			rec := records[team]
			switch {
			case own > opp:
				rec.wins++
			case own < opp:
				rec.losses++
			default:
				rec.ties++
			}
			records[team] = rec
		}
	}
	for _, m := range matches {
		credit(m.Red.Teams, m.Red.Score, m.Blue.Score)
		credit(m.Blue.Teams, m.Blue.Score, m.Red.Score)
	}
	return records
}
