package processor

import (
	"time"

	"github.com/mauv0809/team-scout/internal/metrics"
	"github.com/mauv0809/team-scout/internal/pubsub"
	"github.com/mauv0809/team-scout/internal/scouting"
	"github.com/mauv0809/team-scout/internal/stream"
)

// Processor turns an event's raw matches into per-team stats.
type Processor struct {
	client  EventSource
	store   Store
	emitter stream.Emitter
	metrics metrics.Metrics
	pubsub  pubsub.PubSubClient
	now     func() time.Time
}

// Outcome describes what ProcessEvent did. Saved is false when the event had no
// scored matches and nothing was written.
type Outcome struct {
	EventKey      string
	Saved         bool
	Status        scouting.RatingsStatus
	Teams         int
	ScoredMatches int
}

type record struct {
	wins, losses, ties int
}

func (r record) played() int {
	return r.wins + r.losses + r.ties
}

func (r record) winRate() float64 {
	if r.played() == 0 {
		return 0
	}
	return float64(r.wins) / float64(r.played())
}
