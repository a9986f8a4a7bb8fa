package scouting

import "context"

// ScoutingStore defines the interface for interacting with the analysis tables.
type ScoutingStore interface {
	GetProcessedEventKeys(ctx context.Context, keys []string) (map[string]bool, error)
	GetEventCacheRecord(ctx context.Context, key string) (*EventCacheRecord, error)
	SaveEventAnalysis(ctx context.Context, analysis EventAnalysis) error
	GetTeamEventStats(ctx context.Context, teamKey string, seasonID int) ([]TeamEventStats, error)
	GetTrackedTeams(ctx context.Context) ([]TrackedTeam, error)
	AddTrackedTeam(ctx context.Context, teamNumber string) error
	UpsertTeamSkills(ctx context.Context, teamNumber string, seasonID, score int) error
	GetSeasonAggregates(ctx context.Context, seasonID int, teamNumbers []string) ([]SeasonAggregate, error)
}
