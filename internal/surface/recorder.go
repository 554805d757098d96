package surface

import (
	"sync"
	"time"
)

// DispatchedCommand is one command captured by the Recorder.
type DispatchedCommand struct {
	Target  Handle
	Command Command
	Args    []any
	Time    time.Time
}

// Recorder is a CommandSink that records every dispatched command and serves
// measurements from a node registry. It stands in for the native surface in
// the simulator, trace replay, and tests.
type Recorder struct {
	mu       sync.Mutex
	commands []DispatchedCommand

	registry *Registry
	caps     Capabilities

	// clock is injectable so replayed traces get deterministic timestamps.
	clock func() time.Time
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithCapabilities sets the capabilities the recorder reports.
func WithCapabilities(caps Capabilities) RecorderOption {
	return func(r *Recorder) {
		r.caps = caps
	}
}

// WithClock sets the clock used to timestamp recorded commands.
func WithClock(clock func() time.Time) RecorderOption {
	return func(r *Recorder) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// NewRecorder creates a recording sink backed by the given node registry.
func NewRecorder(registry *Registry, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		registry: registry,
		caps:     Capabilities{Zoom: true},
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DispatchCommand records the command.
func (r *Recorder) DispatchCommand(target Handle, command Command, args []any) {
	r.mu.Lock()
	r.commands = append(r.commands, DispatchedCommand{
		Target:  target,
		Command: command,
		Args:    args,
		Time:    r.clock(),
	})
	r.mu.Unlock()
}

// MeasureLayout measures target relative to relativeTo using the registry.
// The callback is invoked before MeasureLayout returns; the contract only
// promises it runs at most once, not on which goroutine.
func (r *Recorder) MeasureLayout(target, relativeTo Handle, onError func(error), onSuccess func(Layout)) {
	layout, err := r.registry.Relative(target, relativeTo)
	if err != nil {
		if onError != nil {
			onError(err)
		}
		return
	}
	if onSuccess != nil {
		onSuccess(layout)
	}
}

// Capabilities reports the configured capabilities.
func (r *Recorder) Capabilities() Capabilities {
	return r.caps
}

// Commands returns a copy of all recorded commands.
func (r *Recorder) Commands() []DispatchedCommand {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]DispatchedCommand, len(r.commands))
	copy(out, r.commands)
	return out
}

// LastCommand returns the most recently recorded command.
func (r *Recorder) LastCommand() (DispatchedCommand, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.commands) == 0 {
		return DispatchedCommand{}, false
	}
	return r.commands[len(r.commands)-1], true
}

// Reset discards all recorded commands.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.commands = nil
	r.mu.Unlock()
}
