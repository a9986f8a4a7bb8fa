package stream

import (
	"sync"
	"time"
)

// LogType classifies a log entry for display.
type LogType string

const (
	LogInfo     LogType = "info"
	LogWarn     LogType = "warn"
	LogError    LogType = "error"
	LogSuccess  LogType = "success"
	LogProcess  LogType = "process"
	LogDebug    LogType = "debug"
	LogComplete LogType = "complete"
	LogStop     LogType = "stop"
)

// Kind identifies which payload a Message carries.
type Kind string

const (
	KindLog      Kind = "log"
	KindProgress Kind = "progress"
	KindStatus   Kind = "status"
)

// Progress reports how far a run has come through the roster.
type Progress struct {
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Team    string `json:"team,omitempty"`
}

// StatusUpdate is the worker state as seen by subscribers.
type StatusUpdate struct {
	Running       bool   `json:"running"`
	StopRequested bool   `json:"stop_requested"`
	RunID         string `json:"run_id,omitempty"`
	SeasonID      int    `json:"season_id,omitempty"`
}

// Message is one entry of the stream. Seq increases by one per published message.
type Message struct {
	Seq      uint64        `json:"seq"`
	Kind     Kind          `json:"kind"`
	Time     time.Time     `json:"time"`
	Type     LogType       `json:"type,omitempty"`
	Text     string        `json:"text,omitempty"`
	Progress *Progress     `json:"progress,omitempty"`
	Status   *StatusUpdate `json:"status,omitempty"`
}

type subscriber struct {
	ch chan Message
}

// Broadcaster fans messages out to every current subscriber in publish order.
// Late subscribers only see messages published after they subscribed.
type Broadcaster struct {
	mu     sync.Mutex
	subs   map[*subscriber]struct{}
	seq    uint64
	now    func() time.Time
	closed bool
}
