package teamsync

import (
	"context"
	"sync"
)

// Mock is a mock implementation of TeamSyncer for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	SyncTeamFunc  func(ctx context.Context, teamNumber string, seasonID int, force bool) error
	SyncTeamCalls []SyncTeamCall
}

// SyncTeamCall holds the arguments of a SyncTeam call.
type SyncTeamCall struct {
	TeamNumber string
	SeasonID   int
	Force      bool
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) SyncTeam(ctx context.Context, teamNumber string, seasonID int, force bool) error {
	m.mu.Lock()
	m.SyncTeamCalls = append(m.SyncTeamCalls, SyncTeamCall{TeamNumber: teamNumber, SeasonID: seasonID, Force: force})
	fn := m.SyncTeamFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, teamNumber, seasonID, force)
	}
	return nil
}

// Teams returns the team numbers passed to SyncTeam, in call order.
func (m *Mock) Teams() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.SyncTeamCalls))
	for _, c := range m.SyncTeamCalls {
		out = append(out, c.TeamNumber)
	}
	return out
}
