// Package interaction tracks scroll interactions for rate bookkeeping. Both
// calls are fire-and-forget: redundant EndScroll calls are tolerated (a drag
// that ends without momentum and a later momentum-end may both report), while
// a missing end is a bookkeeping bug the counters expose.
package interaction

import (
	"sync"
	"sync/atomic"
	"time"
)

// Tracker counts scroll interaction begin/end pairs.
type Tracker struct {
	begins        atomic.Uint64
	ends          atomic.Uint64
	redundantEnds atomic.Uint64
	totalNs       atomic.Int64

	mu      sync.Mutex
	active  bool
	started time.Time

	// clock is injectable for deterministic tests.
	clock func() time.Time
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock sets the clock used to time interactions.
func WithClock(clock func() time.Time) Option {
	return func(t *Tracker) {
		if clock != nil {
			t.clock = clock
		}
	}
}

// NewTracker creates an interaction tracker.
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{clock: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// BeginScroll marks the start of a scroll interaction. Beginning while
// already active restarts the interaction timer.
func (t *Tracker) BeginScroll() {
	t.begins.Add(1)

	t.mu.Lock()
	t.active = true
	t.started = t.clock()
	t.mu.Unlock()
}

// EndScroll marks the end of a scroll interaction. Calling it with no active
// interaction is tolerated and counted separately.
func (t *Tracker) EndScroll() {
	t.mu.Lock()
	if !t.active {
		t.mu.Unlock()
		t.redundantEnds.Add(1)
		return
	}
	t.active = false
	elapsed := t.clock().Sub(t.started)
	t.mu.Unlock()

	t.ends.Add(1)
	t.totalNs.Add(elapsed.Nanoseconds())
}

// Active reports whether a scroll interaction is in progress.
func (t *Tracker) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Snapshot is a point-in-time view of interaction counters.
type Snapshot struct {
	Begins        uint64
	Ends          uint64
	RedundantEnds uint64
	Active        bool
	TotalDuration time.Duration
}

// Snapshot returns the current counters.
func (t *Tracker) Snapshot() Snapshot {
	return Snapshot{
		Begins:        t.begins.Load(),
		Ends:          t.ends.Load(),
		RedundantEnds: t.redundantEnds.Load(),
		Active:        t.Active(),
		TotalDuration: time.Duration(t.totalNs.Load()),
	}
}

// Reset clears all counters.
func (t *Tracker) Reset() {
	t.begins.Store(0)
	t.ends.Store(0)
	t.redundantEnds.Store(0)
	t.totalNs.Store(0)

	t.mu.Lock()
	t.active = false
	t.mu.Unlock()
}
