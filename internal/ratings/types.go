package ratings

// Status tags the outcome of a solve.
type Status string

const (
	StatusSolved        Status = "solved"
	StatusIndeterminate Status = "indeterminate"
)

// Alliance is one side of a match as seen by the solver.
type Alliance struct {
	Score int
	Teams []string
}

// Match is a scored match between two alliances.
type Match struct {
	Red  Alliance
	Blue Alliance
}

// TeamRating holds the solved ratings for a single team.
type TeamRating struct {
	OPR  float64 `json:"opr"`
	DPR  float64 `json:"dpr"`
	CCWM float64 `json:"ccwm"`
}

// Result is either Solved with a rating per team, or Indeterminate with no ratings.
// Callers must not read Ratings unless Status is StatusSolved.
type Result struct {
	Status  Status
	Ratings map[string]TeamRating
	// Reason explains an indeterminate result.
	Reason string
}

// Solved reports whether ratings are available.
func (r Result) Solved() bool {
	return r.Status == StatusSolved
}
