package robotevents

import (
	"context"
	"sync"
)

// MockClient is a mock implementation of the RobotEventsClient interface for testing.
// It is safe for concurrent use.
type MockClient struct {
	mu sync.Mutex

	GetTeamByNumberFunc    func(ctx context.Context, number string) (Team, error)
	GetTeamEventsFunc      func(ctx context.Context, teamID, seasonID int) ([]Event, error)
	GetEventFunc           func(ctx context.Context, eventID int) (Event, error)
	GetDivisionMatchesFunc func(ctx context.Context, eventID, divisionID int) ([]Match, error)
	GetTeamSkillsFunc      func(ctx context.Context, teamID, seasonID int) ([]SkillRun, error)

	GetTeamByNumberCalls    []string
	GetTeamEventsCalls      []TeamSeasonCall
	GetEventCalls           []int
	GetDivisionMatchesCalls []DivisionCall
	GetTeamSkillsCalls      []TeamSeasonCall
}

// TeamSeasonCall holds the arguments of a team+season lookup.
type TeamSeasonCall struct {
	TeamID   int
	SeasonID int
}

// DivisionCall holds the arguments of a GetDivisionMatches call.
type DivisionCall struct {
	EventID    int
	DivisionID int
}

// NewMockClient creates a new mock instance.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Reset clears all call records.
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetTeamByNumberCalls = nil
	m.GetTeamEventsCalls = nil
	m.GetEventCalls = nil
	m.GetDivisionMatchesCalls = nil
	m.GetTeamSkillsCalls = nil
}

func (m *MockClient) GetTeamByNumber(ctx context.Context, number string) (Team, error) {
	m.mu.Lock()
	m.GetTeamByNumberCalls = append(m.GetTeamByNumberCalls, number)
	fn := m.GetTeamByNumberFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, number)
	}
	return Team{}, ErrTeamNotFound
}

func (m *MockClient) GetTeamEvents(ctx context.Context, teamID, seasonID int) ([]Event, error) {
	m.mu.Lock()
	m.GetTeamEventsCalls = append(m.GetTeamEventsCalls, TeamSeasonCall{TeamID: teamID, SeasonID: seasonID})
	fn := m.GetTeamEventsFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, teamID, seasonID)
	}
	return []Event{}, nil
}

func (m *MockClient) GetEvent(ctx context.Context, eventID int) (Event, error) {
	m.mu.Lock()
	m.GetEventCalls = append(m.GetEventCalls, eventID)
	fn := m.GetEventFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, eventID)
	}
	return Event{ID: eventID}, nil
}

func (m *MockClient) GetDivisionMatches(ctx context.Context, eventID, divisionID int) ([]Match, error) {
	m.mu.Lock()
	m.GetDivisionMatchesCalls = append(m.GetDivisionMatchesCalls, DivisionCall{EventID: eventID, DivisionID: divisionID})
	fn := m.GetDivisionMatchesFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, eventID, divisionID)
	}
	return []Match{}, nil
}

func (m *MockClient) GetTeamSkills(ctx context.Context, teamID, seasonID int) ([]SkillRun, error) {
	m.mu.Lock()
	m.GetTeamSkillsCalls = append(m.GetTeamSkillsCalls, TeamSeasonCall{TeamID: teamID, SeasonID: seasonID})
	fn := m.GetTeamSkillsFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, teamID, seasonID)
	}
	return []SkillRun{}, nil
}
