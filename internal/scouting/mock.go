package scouting

import (
	"context"
	"fmt"
	"sync"
)

// Mock is an in-memory implementation of ScoutingStore for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	Cache        map[string]EventCacheRecord
	Stats        map[string]map[string]TeamEventStats // event -> team -> row
	TrackedTeams []TrackedTeam
	Skills       map[string]int // "team/season" -> best score

	GetProcessedEventKeysFunc func(ctx context.Context, keys []string) (map[string]bool, error)
	SaveEventAnalysisFunc     func(ctx context.Context, analysis EventAnalysis) error
	GetTrackedTeamsFunc       func(ctx context.Context) ([]TrackedTeam, error)
	UpsertTeamSkillsFunc      func(ctx context.Context, teamNumber string, seasonID, score int) error

	SaveEventAnalysisCalls []EventAnalysis
	UpsertTeamSkillsCalls  []TeamSkillsCall
}

// TeamSkillsCall holds the arguments of an UpsertTeamSkills call.
type TeamSkillsCall struct {
	TeamNumber string
	SeasonID   int
	Score      int
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		Cache:  make(map[string]EventCacheRecord),
		Stats:  make(map[string]map[string]TeamEventStats),
		Skills: make(map[string]int),
	}
}

func (m *Mock) GetProcessedEventKeys(ctx context.Context, keys []string) (map[string]bool, error) {
	if m.GetProcessedEventKeysFunc != nil {
		return m.GetProcessedEventKeysFunc(ctx, keys)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]bool)
	for _, k := range keys {
		if rec, ok := m.Cache[k]; ok && rec.Processed {
			out[k] = true
		}
	}
	return out, nil
}

func (m *Mock) GetEventCacheRecord(ctx context.Context, key string) (*EventCacheRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.Cache[key]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *Mock) SaveEventAnalysis(ctx context.Context, analysis EventAnalysis) error {
	m.mu.Lock()
	m.SaveEventAnalysisCalls = append(m.SaveEventAnalysisCalls, analysis)
	fn := m.SaveEventAnalysisFunc
	m.mu.Unlock()
	if fn != nil {
		if err := fn(ctx, analysis); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Cache[analysis.EventKey] = EventCacheRecord{
		Key:           analysis.EventKey,
		SeasonID:      analysis.SeasonID,
		Processed:     true,
		RatingsStatus: analysis.RatingsStatus,
	}
	rows := make(map[string]TeamEventStats, len(analysis.Stats))
	for _, st := range analysis.Stats {
		st.EventKey = analysis.EventKey
		st.SeasonID = analysis.SeasonID
		rows[st.TeamKey] = st
	}
	m.Stats[analysis.EventKey] = rows
	return nil
}

func (m *Mock) GetTeamEventStats(ctx context.Context, teamKey string, seasonID int) ([]TeamEventStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []TeamEventStats
	for _, rows := range m.Stats {
		if st, ok := rows[teamKey]; ok && st.SeasonID == seasonID {
			out = append(out, st)
		}
	}
	return out, nil
}

func (m *Mock) GetTrackedTeams(ctx context.Context) ([]TrackedTeam, error) {
	if m.GetTrackedTeamsFunc != nil {
		return m.GetTrackedTeamsFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]TrackedTeam(nil), m.TrackedTeams...), nil
}

func (m *Mock) AddTrackedTeam(ctx context.Context, teamNumber string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TrackedTeams = append([]TrackedTeam{{TeamNumber: teamNumber}}, m.TrackedTeams...)
	return nil
}

func (m *Mock) UpsertTeamSkills(ctx context.Context, teamNumber string, seasonID, score int) error {
	m.mu.Lock()
	m.UpsertTeamSkillsCalls = append(m.UpsertTeamSkillsCalls, TeamSkillsCall{TeamNumber: teamNumber, SeasonID: seasonID, Score: score})
	fn := m.UpsertTeamSkillsFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, teamNumber, seasonID, score)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := skillsKey(teamNumber, seasonID)
	m.Skills[key] = max(m.Skills[key], score)
	return nil
}

func skillsKey(teamNumber string, seasonID int) string {
	return fmt.Sprintf("%s/%d", teamNumber, seasonID)
}

func (m *Mock) GetSeasonAggregates(ctx context.Context, seasonID int, teamNumbers []string) ([]SeasonAggregate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SeasonAggregate, 0, len(teamNumbers))
	for _, number := range teamNumbers {
		agg := SeasonAggregate{TeamNumber: number, Skills: m.Skills[skillsKey(number, seasonID)]}
		var oprSum, winSum float64
		var solved int
		for key, rows := range m.Stats {
			st, ok := rows[number]
			if !ok || st.SeasonID != seasonID {
				continue
			}
			agg.Events++
			winSum += st.WinRate
			if m.Cache[key].RatingsStatus == RatingsSolved {
				oprSum += st.OPR
				solved++
			}
		}
		if agg.Events > 0 {
			agg.AvgWinRate = winSum / float64(agg.Events)
		}
		if solved > 0 {
			agg.AvgOPR = oprSum / float64(solved)
		}
		out = append(out, agg)
	}
	return out, nil
}

// SaveCount returns the number of SaveEventAnalysis calls.
func (m *Mock) SaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SaveEventAnalysisCalls)
}
