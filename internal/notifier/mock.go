package notifier

import "sync"

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	SendRunSummaryFunc  func(summary RunSummary, dryRun bool) error
	SendRunSummaryCalls []RunSummary
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) SendRunSummary(summary RunSummary, dryRun bool) error {
	m.mu.Lock()
	m.SendRunSummaryCalls = append(m.SendRunSummaryCalls, summary)
	fn := m.SendRunSummaryFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(summary, dryRun)
	}
	return nil
}

// Summaries returns a copy of the recorded run summaries.
func (m *Mock) Summaries() []RunSummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RunSummary(nil), m.SendRunSummaryCalls...)
}
