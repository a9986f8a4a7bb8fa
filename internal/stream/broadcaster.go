package stream

import (
	"time"

	"github.com/charmbracelet/log"
)

// DefaultBuffer is the per-subscriber channel size used when Subscribe is given zero.
const DefaultBuffer = 256

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subs: make(map[*subscriber]struct{}),
		now:  time.Now,
	}
}

// Subscribe registers a new subscriber. The returned cancel func unregisters it and
// closes the channel; it is safe to call more than once. A subscriber that falls
// more than buffer messages behind is dropped and its channel closed.
func (b *Broadcaster) Subscribe(buffer int) (<-chan Message, func()) {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	sub := &subscriber{ch: make(chan Message, buffer)}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(sub.ch)
		return sub.ch, func() {}
	}
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	return sub.ch, func() { b.remove(sub) }
}

func (b *Broadcaster) remove(sub *subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[sub]; ok {
		delete(b.subs, sub)
		close(sub.ch)
	}
}

// Subscribers returns the number of active subscribers.
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close disconnects every subscriber. Publishing after Close is a no-op.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subs {
		delete(b.subs, sub)
		close(sub.ch)
	}
	b.closed = true
}

func (b *Broadcaster) publish(msg Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}

	b.seq++
	msg.Seq = b.seq
	msg.Time = b.now()

	for sub := range b.subs {
		select {
		case sub.ch <- msg:
		default:
			log.Warn("Dropping slow log stream subscriber", "seq", msg.Seq)
			delete(b.subs, sub)
			close(sub.ch)
		}
	}
}

// Log publishes a log entry and mirrors it to the process logger.
func (b *Broadcaster) Log(logType LogType, text string) {
	switch logType {
	case LogError:
		log.Error(text, "stream", logType)
	case LogWarn:
		log.Warn(text, "stream", logType)
	case LogDebug:
		log.Debug(text, "stream", logType)
	default:
		log.Info(text, "stream", logType)
	}
	b.publish(Message{Kind: KindLog, Type: logType, Text: text})
}

// Progress publishes a progress update.
func (b *Broadcaster) Progress(p Progress) {
	b.publish(Message{Kind: KindProgress, Progress: &p})
}

// Status publishes a worker state update.
func (b *Broadcaster) Status(s StatusUpdate) {
	b.publish(Message{Kind: KindStatus, Status: &s})
}
