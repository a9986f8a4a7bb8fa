package stream

// Emitter is the write side of the log stream.
type Emitter interface {
	Log(logType LogType, text string)
	Progress(p Progress)
	Status(s StatusUpdate)
}

var _ Emitter = (*Broadcaster)(nil)
var _ Emitter = (*Recorder)(nil)
