package interaction

import (
	"testing"
	"time"
)

// manualClock advances only when told to.
type manualClock struct {
	now time.Time
}

func (c *manualClock) Now() time.Time {
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func TestBeginEndPairs(t *testing.T) {
	clock := &manualClock{now: time.Unix(0, 0)}
	tr := NewTracker(WithClock(clock.Now))

	tr.BeginScroll()
	if !tr.Active() {
		t.Fatal("not active after BeginScroll")
	}

	clock.Advance(250 * time.Millisecond)
	tr.EndScroll()

	snap := tr.Snapshot()
	if snap.Begins != 1 || snap.Ends != 1 || snap.Active {
		t.Errorf("snapshot = %+v, want one begin/end pair, inactive", snap)
	}
	if snap.TotalDuration != 250*time.Millisecond {
		t.Errorf("TotalDuration = %v, want 250ms", snap.TotalDuration)
	}
}

func TestRedundantEndTolerated(t *testing.T) {
	tr := NewTracker()

	tr.BeginScroll()
	tr.EndScroll()
	tr.EndScroll() // drag-end already reported; momentum-end repeats it

	snap := tr.Snapshot()
	if snap.Ends != 1 {
		t.Errorf("Ends = %d, want 1", snap.Ends)
	}
	if snap.RedundantEnds != 1 {
		t.Errorf("RedundantEnds = %d, want 1", snap.RedundantEnds)
	}
}

func TestEndWithoutBegin(t *testing.T) {
	tr := NewTracker()
	tr.EndScroll()

	snap := tr.Snapshot()
	if snap.Ends != 0 || snap.RedundantEnds != 1 {
		t.Errorf("snapshot = %+v, want zero ends and one redundant end", snap)
	}
}

func TestReset(t *testing.T) {
	tr := NewTracker()
	tr.BeginScroll()
	tr.EndScroll()
	tr.Reset()

	snap := tr.Snapshot()
	if snap.Begins != 0 || snap.Ends != 0 || snap.RedundantEnds != 0 || snap.Active {
		t.Errorf("snapshot after Reset = %+v, want zeroed", snap)
	}
}
