package processor

import (
	"context"
	"sync"

	"github.com/mauv0809/team-scout/internal/robotevents"
)

// Mock is a mock implementation of EventProcessor for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	ProcessEventFunc  func(ctx context.Context, seasonID int, event robotevents.Event) (Outcome, error)
	ProcessEventCalls []robotevents.Event
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) ProcessEvent(ctx context.Context, seasonID int, event robotevents.Event) (Outcome, error) {
	m.mu.Lock()
	m.ProcessEventCalls = append(m.ProcessEventCalls, event)
	fn := m.ProcessEventFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, seasonID, event)
	}
	return Outcome{EventKey: event.Key(), Saved: true}, nil
}

// ProcessedKeys returns the keys of every event passed to ProcessEvent, in call order.
func (m *Mock) ProcessedKeys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.ProcessEventCalls))
	for _, e := range m.ProcessEventCalls {
		keys = append(keys, e.Key())
	}
	return keys
}
