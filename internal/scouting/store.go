package scouting

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// New creates a new ScoutingStore.
func New(db *sql.DB) ScoutingStore {
	return &store{
		db:  db,
		now: time.Now,
	}
}

// GetProcessedEventKeys returns the subset of keys whose cache record is marked processed.
func (s *store) GetProcessedEventKeys(ctx context.Context, keys []string) (map[string]bool, error) {
	processed := make(map[string]bool)
	if len(keys) == 0 {
		return processed, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	query := fmt.Sprintf("SELECT key FROM event_cache WHERE processed = 1 AND key IN (%s)", placeholders)
	rows, err := s.db.QueryContext(ctx, query, ToAnySlice(keys)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query event cache: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan event cache row: %w", err)
		}
		processed[key] = true
	}
	return processed, rows.Err()
}

// GetEventCacheRecord returns the cache record for key, or nil when the event was never processed.
func (s *store) GetEventCacheRecord(ctx context.Context, key string) (*EventCacheRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		rec         EventCacheRecord
		processed   int
		lastUpdated int64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT key, season_id, processed, ratings_status, last_updated FROM event_cache WHERE key = ?", key,
	).Scan(&rec.Key, &rec.SeasonID, &processed, &rec.RatingsStatus, &lastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query event cache record: %w", err)
	}
	rec.Processed = processed == 1
	rec.LastUpdated = time.Unix(lastUpdated, 0)
	return &rec, nil
}

// SaveEventAnalysis upserts the cache record and every team row for one event in a
// single transaction. Either all rows become visible or none do.
func (s *store) SaveEventAnalysis(ctx context.Context, analysis EventAnalysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().Unix()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &PersistenceError{Op: "begin", Err: err}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO event_cache (key, season_id, processed, ratings_status, last_updated)
		VALUES (?, ?, 1, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			season_id = excluded.season_id,
			processed = 1,
			ratings_status = excluded.ratings_status,
			last_updated = excluded.last_updated;
	`, analysis.EventKey, analysis.SeasonID, analysis.RatingsStatus, now)
	if err != nil {
		tx.Rollback()
		return &PersistenceError{Op: "upsert event cache", Err: err}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO team_event_stats (team_key, event_key, season_id, opr, dpr, ccwm, win_rate, wins, losses, ties, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(team_key, event_key) DO UPDATE SET
			season_id = excluded.season_id,
			opr = excluded.opr,
			dpr = excluded.dpr,
			ccwm = excluded.ccwm,
			win_rate = excluded.win_rate,
			wins = excluded.wins,
			losses = excluded.losses,
			ties = excluded.ties,
			updated_at = excluded.updated_at;
	`)
	if err != nil {
		tx.Rollback()
		return &PersistenceError{Op: "prepare team stats", Err: err}
	}
	defer stmt.Close()

	for _, st := range analysis.Stats {
		_, err := stmt.ExecContext(ctx, st.TeamKey, analysis.EventKey, analysis.SeasonID,
			st.OPR, st.DPR, st.CCWM, st.WinRate, st.Wins, st.Losses, st.Ties, now)
		if err != nil {
			tx.Rollback()
			return &PersistenceError{Op: "upsert team stats " + st.TeamKey, Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &PersistenceError{Op: "commit", Err: err}
	}
	log.Debug("Saved event analysis", "event", analysis.EventKey, "teams", len(analysis.Stats), "ratings", analysis.RatingsStatus)
	return nil
}

// GetTeamEventStats returns a team's per-event rows for a season, newest first.
func (s *store) GetTeamEventStats(ctx context.Context, teamKey string, seasonID int) ([]TeamEventStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT team_key, event_key, season_id, opr, dpr, ccwm, win_rate, wins, losses, ties
		FROM team_event_stats
		WHERE team_key = ? AND season_id = ?
		ORDER BY updated_at DESC, event_key
	`, teamKey, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to query team event stats: %w", err)
	}
	defer rows.Close()

	var stats []TeamEventStats
	for rows.Next() {
		var st TeamEventStats
		if err := rows.Scan(&st.TeamKey, &st.EventKey, &st.SeasonID, &st.OPR, &st.DPR, &st.CCWM,
			&st.WinRate, &st.Wins, &st.Losses, &st.Ties); err != nil {
			return nil, fmt.Errorf("failed to scan team event stats: %w", err)
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

// GetTrackedTeams returns the roster, most recently tracked first.
func (s *store) GetTrackedTeams(ctx context.Context) ([]TrackedTeam, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT team_number, created_at FROM tracked_teams ORDER BY created_at DESC, team_number")
	if err != nil {
		return nil, fmt.Errorf("failed to query tracked teams: %w", err)
	}
	defer rows.Close()

	var teams []TrackedTeam
	for rows.Next() {
		var (
			team      TrackedTeam
			createdAt int64
		)
		if err := rows.Scan(&team.TeamNumber, &createdAt); err != nil {
			log.Error("Failed to scan tracked team row", "error", err)
			continue
		}
		team.CreatedAt = time.Unix(createdAt, 0)
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

// AddTrackedTeam adds a team to the roster. Adding an existing team keeps its original timestamp.
func (s *store) AddTrackedTeam(ctx context.Context, teamNumber string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO tracked_teams (team_number, created_at) VALUES (?, ?) ON CONFLICT(team_number) DO NOTHING",
		teamNumber, s.now().Unix())
	if err != nil {
		return &PersistenceError{Op: "add tracked team", Err: err}
	}
	return nil
}

// UpsertTeamSkills records a skills score, keeping the best one seen for the season.
func (s *store) UpsertTeamSkills(ctx context.Context, teamNumber string, seasonID, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO team_skills (team_number, season_id, score, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(team_number, season_id) DO UPDATE SET
			score = max(team_skills.score, excluded.score),
			updated_at = excluded.updated_at;
	`, teamNumber, seasonID, score, s.now().Unix())
	if err != nil {
		return &PersistenceError{Op: "upsert team skills", Err: err}
	}
	return nil
}

// GetSeasonAggregates averages OPR and win rate over each team's cached events for the
// season, in the order the teams were requested. OPR is averaged over solved events
// only; indeterminate events still count towards the win rate.
func (s *store) GetSeasonAggregates(ctx context.Context, seasonID int, teamNumbers []string) ([]SeasonAggregate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]SeasonAggregate, 0, len(teamNumbers))
	for _, number := range teamNumbers {
		agg := SeasonAggregate{TeamNumber: number}
		var avgOpr, avgWinRate sql.NullFloat64
		err := s.db.QueryRowContext(ctx, `
			SELECT
				COUNT(*),
				AVG(CASE WHEN ec.ratings_status = ? THEN s.opr END),
				AVG(s.win_rate)
			FROM team_event_stats s
			JOIN event_cache ec ON ec.key = s.event_key
			WHERE s.team_key = ? AND s.season_id = ?
		`, RatingsSolved, number, seasonID).Scan(&agg.Events, &avgOpr, &avgWinRate)
		if err != nil {
			return nil, fmt.Errorf("failed to aggregate stats for %s: %w", number, err)
		}
		agg.AvgOPR = avgOpr.Float64
		agg.AvgWinRate = avgWinRate.Float64

		err = s.db.QueryRowContext(ctx,
			"SELECT score FROM team_skills WHERE team_number = ? AND season_id = ?", number, seasonID,
		).Scan(&agg.Skills)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("failed to query skills for %s: %w", number, err)
		}
		out = append(out, agg)
	}
	return out, nil
}

func ToAnySlice[T any](s []T) []any {
	a := make([]any, len(s))
	for i, v := range s {
		a[i] = v
	}
	return a
}
