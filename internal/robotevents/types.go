package robotevents

import (
	"strconv"
	"time"
)

// Meta is the pagination block returned with every list endpoint.
type Meta struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}

type page[T any] struct {
	Meta Meta `json:"meta"`
	Data []T  `json:"data"`
}

// Team is a registered team as known to the provider.
type Team struct {
	ID       int    `json:"id"`
	Number   string `json:"number"`
	TeamName string `json:"team_name"`
}

// Division is a sub-bracket of an event; matches are listed per division.
type Division struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Event is one competition occurrence. SKU is the stable key used for caching.
type Event struct {
	ID        int        `json:"id"`
	SKU       string     `json:"sku"`
	Name      string     `json:"name"`
	Start     time.Time  `json:"start"`
	End       time.Time  `json:"end"`
	Divisions []Division `json:"divisions"`
}

// Key returns the cache key of the event: its SKU, or the numeric id when the SKU is missing.
func (e Event) Key() string {
	if e.SKU != "" {
		return e.SKU
	}
	return strconv.Itoa(e.ID)
}

// HasEnded reports whether the event finished strictly before now.
func (e Event) HasEnded(now time.Time) bool {
	return !e.End.IsZero() && e.End.Before(now)
}

// TeamRef identifies a team inside an alliance by its designator.
type TeamRef struct {
	Name string `json:"name"`
}

// Alliance is one side of a match.
type Alliance struct {
	Color       string    `json:"color"`
	Score       int       `json:"score"`
	TeamObjects []TeamRef `json:"team_objects"`
}

// TeamNames returns the designators of the alliance members in order.
func (a Alliance) TeamNames() []string {
	names := make([]string, 0, len(a.TeamObjects))
	for _, t := range a.TeamObjects {
		if t.Name != "" {
			names = append(names, t.Name)
		}
	}
	return names
}

// Match is an immutable match record. Only scored matches count towards ratings.
type Match struct {
	ID        int        `json:"id"`
	Name      string     `json:"name"`
	Scored    bool       `json:"scored"`
	Alliances []Alliance `json:"alliances"`
}

// Alliance returns the alliance with the given color.
func (m Match) Alliance(color string) (Alliance, bool) {
	for _, a := range m.Alliances {
		if a.Color == color {
			return a, true
		}
	}
	return Alliance{}, false
}

// SkillType is the kind of skills run.
type SkillType string

const (
	SkillDriver      SkillType = "driver"
	SkillProgramming SkillType = "programming"
)

// SkillRun is a team's best skills attempt of one type at one event.
type SkillRun struct {
	ID    int       `json:"id"`
	Event EventRef  `json:"event"`
	Type  SkillType `json:"type"`
	Score int       `json:"score"`
	Rank  int       `json:"rank"`
}

// EventRef is the compact event reference embedded in other resources.
type EventRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}
