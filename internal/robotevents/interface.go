package robotevents

import "context"

// RobotEventsClient defines the provider calls used by the analysis engine.
// This allows for mock implementations to be used in tests.
type RobotEventsClient interface {
	GetTeamByNumber(ctx context.Context, number string) (Team, error)
	GetTeamEvents(ctx context.Context, teamID, seasonID int) ([]Event, error)
	GetEvent(ctx context.Context, eventID int) (Event, error)
	GetDivisionMatches(ctx context.Context, eventID, divisionID int) ([]Match, error)
	GetTeamSkills(ctx context.Context, teamID, seasonID int) ([]SkillRun, error)
}
