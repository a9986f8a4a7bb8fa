package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventAnalyzed EventType = "event-analyzed"
)

// EventAnalyzedMessage is published after an event's stats were saved.
type EventAnalyzedMessage struct {
	EventKey string   `msgpack:"event_key"`
	SeasonID int      `msgpack:"season_id"`
	Teams    []string `msgpack:"teams"`
	Status   string   `msgpack:"status"`
}
