package processor

import (
	"context"

	"github.com/mauv0809/team-scout/internal/robotevents"
	"github.com/mauv0809/team-scout/internal/scouting"
)

// Store defines the database operations required by the processor.
type Store interface {
	SaveEventAnalysis(ctx context.Context, analysis scouting.EventAnalysis) error
}

// EventSource defines the provider calls required by the processor.
type EventSource interface {
	GetEvent(ctx context.Context, eventID int) (robotevents.Event, error)
	GetDivisionMatches(ctx context.Context, eventID, divisionID int) ([]robotevents.Match, error)
}

// EventProcessor analyses a single event. Implemented by *Processor.
type EventProcessor interface {
	ProcessEvent(ctx context.Context, seasonID int, event robotevents.Event) (Outcome, error)
}
