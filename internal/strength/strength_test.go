package strength

import (
	"context"
	"errors"
	"testing"

	"github.com/mauv0809/team-scout/internal/scouting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name     string
		avgOpr   float64
		skills   int
		winRate  float64
		strength int
		tier     Tier
	}{
		{"ceiling", 30, 400, 1.0, 100, TierElite},
		{"floor", 0, 0, 0, 0, TierDeveloping},
		{"above ceilings is capped", 60, 900, 1.0, 100, TierElite},
		{"negative opr contributes nothing", -4, 0, 0.5, 10, TierDeveloping},
		{"mid", 15, 200, 0.5, 50, TierMid},
		{"rounds to nearest", 0.6, 0, 0, 1, TierDeveloping},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			strength, tier := Calculate(tc.avgOpr, tc.skills, tc.winRate)
			assert.Equal(t, tc.strength, strength)
			assert.Equal(t, tc.tier, tier)
		})
	}
}

func TestTierFor(t *testing.T) {
	assert.Equal(t, TierElite, TierFor(90))
	assert.Equal(t, TierHigh, TierFor(89))
	assert.Equal(t, TierHigh, TierFor(75))
	assert.Equal(t, TierMidHigh, TierFor(74))
	assert.Equal(t, TierMidHigh, TierFor(60))
	assert.Equal(t, TierMid, TierFor(59))
	assert.Equal(t, TierMid, TierFor(40))
	assert.Equal(t, TierDeveloping, TierFor(39))
}

func TestGetCompositeScore(t *testing.T) {
	store := scouting.NewMock()
	store.Cache["E1"] = scouting.EventCacheRecord{Key: "E1", Processed: true, RatingsStatus: scouting.RatingsSolved}
	store.Stats["E1"] = map[string]scouting.TeamEventStats{
		"1A": {TeamKey: "1A", EventKey: "E1", SeasonID: 190, OPR: 30, WinRate: 1},
	}
	require.NoError(t, store.UpsertTeamSkills(context.Background(), "1A", 190, 400))

	svc := NewService(store)
	out, err := svc.GetCompositeScore(context.Background(), 190, []string{" 1a", "9Z", "1A", ""})
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "1A", out[0].TeamNumber)
	assert.Equal(t, 30.0, out[0].OPR)
	assert.Equal(t, 1, out[0].Events)
	assert.Equal(t, 400, out[0].Skills)
	assert.Equal(t, 100, out[0].Strength)
	assert.Equal(t, TierElite, out[0].Tier)

	assert.Equal(t, Composite{TeamNumber: "9Z", Tier: TierDeveloping}, out[1])
}

func TestGetCompositeScore_Empty(t *testing.T) {
	out, err := NewService(scouting.NewMock()).GetCompositeScore(context.Background(), 190, nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestGetCompositeScore_StoreError(t *testing.T) {
	svc := NewService(aggregatorFunc(func(ctx context.Context, seasonID int, teamNumbers []string) ([]scouting.SeasonAggregate, error) {
		return nil, errors.New("no such table")
	}))
	_, err := svc.GetCompositeScore(context.Background(), 190, []string{"1A"})
	assert.ErrorContains(t, err, "no such table")
}

type aggregatorFunc func(ctx context.Context, seasonID int, teamNumbers []string) ([]scouting.SeasonAggregate, error)

func (f aggregatorFunc) GetSeasonAggregates(ctx context.Context, seasonID int, teamNumbers []string) ([]scouting.SeasonAggregate, error) {
	return f(ctx, seasonID, teamNumbers)
}
