package scouting

import (
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// store handles all database operations for the analysis engine.
type store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// RatingsStatus records whether an event's ratings could be solved.
type RatingsStatus string

const (
	RatingsSolved        RatingsStatus = "solved"
	RatingsIndeterminate RatingsStatus = "indeterminate"
)

// EventCacheRecord marks an event as processed. Processed implies stats rows exist
// for every team of the event.
type EventCacheRecord struct {
	Key           string        `json:"key"`
	SeasonID      int           `json:"season_id"`
	Processed     bool          `json:"processed"`
	RatingsStatus RatingsStatus `json:"ratings_status"`
	LastUpdated   time.Time     `json:"last_updated"`
}

// TeamEventStats is one team's result at one event.
type TeamEventStats struct {
	TeamKey  string  `json:"team_key"`
	EventKey string  `json:"event_key"`
	SeasonID int     `json:"season_id"`
	OPR      float64 `json:"opr"`
	DPR      float64 `json:"dpr"`
	CCWM     float64 `json:"ccwm"`
	WinRate  float64 `json:"win_rate"`
	Wins     int     `json:"wins"`
	Losses   int     `json:"losses"`
	Ties     int     `json:"ties"`
}

// EventAnalysis is everything written for one event in a single transaction.
type EventAnalysis struct {
	EventKey      string
	SeasonID      int
	RatingsStatus RatingsStatus
	Stats         []TeamEventStats
}

// TrackedTeam is a roster entry managed outside the engine.
type TrackedTeam struct {
	TeamNumber string    `json:"team_number"`
	CreatedAt  time.Time `json:"created_at"`
}

// SeasonAggregate summarises a team's cached events for a season.
type SeasonAggregate struct {
	TeamNumber string  `json:"team_number"`
	Events     int     `json:"events"`
	AvgOPR     float64 `json:"avg_opr"`
	AvgWinRate float64 `json:"avg_win_rate"`
	Skills     int     `json:"skills"`
}

// PersistenceError wraps a failed write. Nothing from the failed transaction is visible.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
