package teamsync

import (
	"time"

	"github.com/mauv0809/team-scout/internal/processor"
	"github.com/mauv0809/team-scout/internal/robotevents"
	"github.com/mauv0809/team-scout/internal/stream"
)

// Syncer resolves a team, finds its finished events and hands the ones not yet
// cached to the event processor.
type Syncer struct {
	client    robotevents.RobotEventsClient
	store     Store
	processor processor.EventProcessor
	emitter   stream.Emitter
	now       func() time.Time
}
