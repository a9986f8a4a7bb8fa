package teamsync

import (
	"context"
)

// Store defines the database operations required by the orchestrator.
type Store interface {
	GetProcessedEventKeys(ctx context.Context, keys []string) (map[string]bool, error)
	UpsertTeamSkills(ctx context.Context, teamNumber string, seasonID, score int) error
}

// TeamSyncer brings one team's season up to date. Implemented by *Syncer.
type TeamSyncer interface {
	SyncTeam(ctx context.Context, teamNumber string, seasonID int, force bool) error
}
