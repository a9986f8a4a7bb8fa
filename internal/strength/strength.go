package strength

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/mauv0809/team-scout/internal/ratings"
	"github.com/mauv0809/team-scout/internal/scouting"
)

// Tier is a coarse label for a composite strength score.
type Tier string

const (
	TierElite      Tier = "Elite"
	TierHigh       Tier = "High"
	TierMidHigh    Tier = "Mid-High"
	TierMid        Tier = "Mid"
	TierDeveloping Tier = "Developing"
)

// Normalisation ceilings. Values at or above them earn the full share of their weight.
const (
	oprCeiling    = 30.0
	skillsCeiling = 400.0

	oprWeight     = 50.0
	skillsWeight  = 30.0
	winRateWeight = 20.0
)

// Composite is a team's season summary with its derived strength.
type Composite struct {
	TeamNumber string  `json:"team_number"`
	OPR        float64 `json:"opr"`
	WinRate    float64 `json:"win_rate"`
	Skills     int     `json:"skills"`
	Events     int     `json:"events"`
	Strength   int     `json:"strength"`
	Tier       Tier    `json:"tier"`
}

// Calculate combines average OPR, best skills score and win rate into a 0-100 score.
func Calculate(avgOpr float64, skills int, winRate float64) (int, Tier) {
	normOpr := clamp01(avgOpr/oprCeiling) * oprWeight
	normSkills := clamp01(float64(skills)/skillsCeiling) * skillsWeight
	normWinRate := clamp01(winRate) * winRateWeight
	strength := int(math.Round(normOpr + normSkills + normWinRate))
	return strength, TierFor(strength)
}

// TierFor maps a strength score to its tier.
func TierFor(strength int) Tier {
	switch {
	case strength >= 90:
		return TierElite
	case strength >= 75:
		return TierHigh
	case strength >= 60:
		return TierMidHigh
	case strength >= 40:
		return TierMid
	default:
		return TierDeveloping
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(v, 1))
}

// Aggregator supplies the cached per-season figures the score is built from.
type Aggregator interface {
	GetSeasonAggregates(ctx context.Context, seasonID int, teamNumbers []string) ([]scouting.SeasonAggregate, error)
}

// Service answers composite score queries from the cache. It never triggers analysis.
type Service struct {
	store Aggregator
}

// NewService creates a new Service.
func NewService(store Aggregator) *Service {
	return &Service{store: store}
}

// GetCompositeScore returns one Composite per distinct, non-empty team number in
// request order. Teams without cached data score from zeros.
func (s *Service) GetCompositeScore(ctx context.Context, seasonID int, teamNumbers []string) ([]Composite, error) {
	numbers := normalize(teamNumbers)
	if len(numbers) == 0 {
		return []Composite{}, nil
	}

	aggs, err := s.store.GetSeasonAggregates(ctx, seasonID, numbers)
	if err != nil {
		return nil, fmt.Errorf("failed to load season aggregates: %w", err)
	}

	out := make([]Composite, 0, len(aggs))
	for _, agg := range aggs {
		strength, tier := Calculate(agg.AvgOPR, agg.Skills, agg.AvgWinRate)
		out = append(out, Composite{
			TeamNumber: agg.TeamNumber,
			OPR:        ratings.Round2(agg.AvgOPR),
			WinRate:    ratings.Round2(agg.AvgWinRate),
			Skills:     agg.Skills,
			Events:     agg.Events,
			Strength:   strength,
			Tier:       tier,
		})
	}
	return out, nil
}

func normalize(teamNumbers []string) []string {
	seen := make(map[string]bool, len(teamNumbers))
	out := make([]string, 0, len(teamNumbers))
	for _, n := range teamNumbers {
		n = strings.ToUpper(strings.TrimSpace(n))
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
