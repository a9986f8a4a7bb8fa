package scheduler

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStarter struct {
	mu      sync.Mutex
	calls   []int
	running bool
}

func (f *fakeStarter) Start(seasonID int, force bool) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, seasonID)
	if f.running {
		return false
	}
	f.running = true
	return true
}

func TestTrigger_StartsIncrementalRun(t *testing.T) {
	starter := &fakeStarter{}
	s := New("@every 1h", 190, starter)

	s.Trigger()
	s.Trigger()

	assert.Equal(t, []int{190, 190}, starter.calls, "a tick while running is a no-op start")
}

func TestStart_EmptySpecDisablesScheduling(t *testing.T) {
	s := New("", 190, &fakeStarter{})
	require.NoError(t, s.Start())
	assert.Empty(t, s.cron.Entries())
	s.Stop()
}

func TestStart_InvalidSpec(t *testing.T) {
	s := New("every tuesday-ish", 190, &fakeStarter{})
	assert.Error(t, s.Start())
}

func TestStart_RegistersJob(t *testing.T) {
	s := New("0 3 * * *", 190, &fakeStarter{})
	require.NoError(t, s.Start())
	defer s.Stop()
	assert.Len(t, s.cron.Entries(), 1)
}
