package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(ch <-chan Message) []Message {
	var out []Message
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, msg)
		default:
			return out
		}
	}
}

func TestBroadcaster_DeliversInOrder(t *testing.T) {
	b := NewBroadcaster()
	ch, cancel := b.Subscribe(10)
	defer cancel()

	b.Log(LogInfo, "first")
	b.Progress(Progress{Current: 1, Total: 2, Team: "1A"})
	b.Log(LogSuccess, "second")
	b.Status(StatusUpdate{Running: true, RunID: "run-1"})

	msgs := drain(ch)
	require.Len(t, msgs, 4)
	for i, msg := range msgs {
		assert.Equal(t, uint64(i+1), msg.Seq)
	}
	assert.Equal(t, KindLog, msgs[0].Kind)
	assert.Equal(t, "first", msgs[0].Text)
	assert.Equal(t, KindProgress, msgs[1].Kind)
	assert.Equal(t, 1, msgs[1].Progress.Current)
	assert.Equal(t, LogSuccess, msgs[2].Type)
	assert.Equal(t, KindStatus, msgs[3].Kind)
	assert.True(t, msgs[3].Status.Running)
}

func TestBroadcaster_NoReplayForLateSubscribers(t *testing.T) {
	b := NewBroadcaster()
	early, cancelEarly := b.Subscribe(10)
	defer cancelEarly()

	b.Log(LogInfo, "before")
	late, cancelLate := b.Subscribe(10)
	defer cancelLate()
	b.Log(LogInfo, "after")

	assert.Len(t, drain(early), 2)
	lateMsgs := drain(late)
	require.Len(t, lateMsgs, 1)
	assert.Equal(t, "after", lateMsgs[0].Text)
}

func TestBroadcaster_DropsSlowSubscriber(t *testing.T) {
	b := NewBroadcaster()
	slow, _ := b.Subscribe(1)
	fast, cancel := b.Subscribe(10)
	defer cancel()

	b.Log(LogInfo, "one")
	b.Log(LogInfo, "two")

	assert.Equal(t, 1, b.Subscribers())
	msgs := drain(slow)
	require.Len(t, msgs, 1, "the buffered message is still readable before close")
	_, ok := <-slow
	assert.False(t, ok, "slow subscriber channel is closed")
	assert.Len(t, drain(fast), 2)
}

func TestBroadcaster_CancelIsIdempotent(t *testing.T) {
	b := NewBroadcaster()
	ch, cancel := b.Subscribe(0)
	cancel()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, b.Subscribers())
	b.Log(LogInfo, "nobody listening")
}

func TestBroadcaster_Close(t *testing.T) {
	b := NewBroadcaster()
	ch, _ := b.Subscribe(1)
	b.Close()

	_, ok := <-ch
	assert.False(t, ok)

	after, _ := b.Subscribe(1)
	_, ok = <-after
	assert.False(t, ok, "subscribing after close yields a closed channel")
}
