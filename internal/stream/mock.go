package stream

import "sync"

// Recorder is an Emitter that keeps every entry in memory for tests.
// It is safe for concurrent use.
type Recorder struct {
	mu       sync.Mutex
	logs     []Message
	progress []Progress
	statuses []StatusUpdate
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Log(logType LogType, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, Message{Kind: KindLog, Type: logType, Text: text})
}

func (r *Recorder) Progress(p Progress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = append(r.progress, p)
}

func (r *Recorder) Status(s StatusUpdate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, s)
}

// Logs returns a copy of the recorded log entries.
func (r *Recorder) Logs() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.logs...)
}

// ProgressUpdates returns a copy of the recorded progress updates.
func (r *Recorder) ProgressUpdates() []Progress {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Progress(nil), r.progress...)
}

// Statuses returns a copy of the recorded status updates.
func (r *Recorder) Statuses() []StatusUpdate {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]StatusUpdate(nil), r.statuses...)
}

// Count returns how many log entries of the given type were recorded.
func (r *Recorder) Count(logType LogType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, m := range r.logs {
		if m.Type == logType {
			n++
		}
	}
	return n
}
