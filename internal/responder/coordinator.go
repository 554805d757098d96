package responder

import (
	"sync"
	"time"

	"github.com/dshills/scrollkit/internal/event"
	"github.com/dshills/scrollkit/internal/event/events"
	"github.com/dshills/scrollkit/internal/geometry"
	"github.com/dshills/scrollkit/internal/logging"
	"github.com/dshills/scrollkit/internal/surface"
)

// DefaultMomentumSettleWindow is how long after a momentum-end notification
// the surface is still considered to be animating. The window bridges the
// gap between the native momentum-end and the touch-start that immediately
// follows when a user grabs a still-decelerating surface. The value is tuned
// against touch-dispatch latency and is a config tunable; recalibrate per
// platform rather than re-deriving it.
const DefaultMomentumSettleWindow = 16 * time.Millisecond

// Coordinator is the scroll-responder coordination state machine. Construct
// one per scrollable surface with New; drive it from the host's event
// dispatch. All handlers run to completion on the caller's goroutine.
type Coordinator struct {
	mu sync.Mutex

	props        PropsFunc
	deps         Deps
	logger       *logging.Logger
	now          func() time.Time
	settleWindow time.Duration

	// Responder state. The two per-grant booleans are meaningful only
	// between a grant and the next grant/release cycle; reset-on-grant
	// keeps stale values from leaking across cycles.
	isTouching                           bool
	lastMomentumScrollBegin              time.Time
	lastMomentumScrollEnd                time.Time
	observedScrollSinceBecomingResponder bool
	becameResponderWhileAnimating        bool

	// Keyboard context. keyboardWillOpenTo holds the destination frame
	// last reported by will-show; hide transitions clear it. The two
	// one-shot scroll parameters are captured by ScrollTargetIntoView and
	// consumed when the scroll command is issued.
	keyboardWillOpenTo          *events.KeyboardEvent
	additionalScrollOffset      float64
	preventNegativeScrollOffset bool

	// Keyboard subscriptions, acquired by Attach, released by Detach.
	subs []event.Subscription
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithClock sets the clock the animating predicate reads.
func WithClock(clock func() time.Time) Option {
	return func(c *Coordinator) {
		if clock != nil {
			c.now = clock
		}
	}
}

// WithLogger sets the coordinator's logger.
func WithLogger(logger *logging.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMomentumSettleWindow overrides the momentum settle window.
func WithMomentumSettleWindow(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.settleWindow = d
		}
	}
}

// New creates a coordinator. props may be nil (defaults apply); nil
// collaborators in deps are replaced with no-op implementations.
func New(props PropsFunc, deps Deps, opts ...Option) *Coordinator {
	if props == nil {
		props = func() Props { return Props{} }
	}
	if deps.Focus == nil {
		deps.Focus = nopFocus{}
	}
	if deps.Interactions == nil {
		deps.Interactions = nopInteractions{}
	}
	if deps.Surface == nil {
		deps.Surface = nopSink{}
	}
	if deps.ScrollHandle == nil {
		deps.ScrollHandle = func() (surface.Handle, bool) { return "", false }
	}
	if deps.ContentHandle == nil {
		deps.ContentHandle = func() (surface.Handle, bool) { return "", false }
	}
	if deps.ScreenSize == nil {
		deps.ScreenSize = func() geometry.Size { return geometry.Size{} }
	}

	c := &Coordinator{
		props:        props,
		deps:         deps,
		logger:       logging.NullLogger,
		now:          time.Now,
		settleWindow: DefaultMomentumSettleWindow,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// IsAnimating reports whether the surface is currently moving under its own
// momentum. Derived, never cached: true when the last momentum-end is within
// the settle window, or when a momentum-begin has no matching end yet.
// Momentum notifications can interleave with touch events in
// platform-dependent order, so this predicate is the single source of truth
// for responder-acquisition decisions.
func (c *Coordinator) IsAnimating() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isAnimatingLocked()
}

func (c *Coordinator) isAnimatingLocked() bool {
	if c.now().Sub(c.lastMomentumScrollEnd) < c.settleWindow {
		return true
	}
	return c.lastMomentumScrollEnd.Before(c.lastMomentumScrollBegin)
}

// IsTouching reports whether at least one touch point is on the surface.
func (c *Coordinator) IsTouching() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isTouching
}

// ShouldSetResponder is the bubble-phase responder query. Low priority:
// descendants get the first chance to claim the gesture.
func (c *Coordinator) ShouldSetResponder() bool {
	props := c.props()
	if props.PanResponderDisabled {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isTouching
}

// ShouldSetResponderCapture is the capture-phase responder query, consulted
// ahead of descendants. It claims the gesture when the surface is animating
// (so a tap stops the motion instead of reaching a child), or when the
// never-persist tap policy calls for dismissing the keyboard: a text input
// is focused and the touch target is neither that input nor any text input.
func (c *Coordinator) ShouldSetResponderCapture(e events.TouchEvent) bool {
	props := c.props()
	if props.PanResponderDisabled {
		return false
	}

	c.mu.Lock()
	animating := c.isAnimatingLocked()
	c.mu.Unlock()

	if animating {
		return true
	}

	if props.KeyboardPersistTaps == PersistTapsNever {
		focused, ok := c.deps.Focus.FocusedField()
		if ok && e.Target != focused && !c.deps.Focus.IsTextInput(e.Target) {
			return true
		}
	}

	return false
}

// HandleResponderReject is called when the surface asked to become responder
// and was refused. Once a touch has begun on the surface there is no way to
// retroactively refuse it, so this is a no-op: the surface waits out the
// gesture.
func (c *Coordinator) HandleResponderReject() {
	c.logger.Debug("responder request rejected")
}

// HandleTerminationRequest is called when an ancestor wants to take over as
// responder. A motionless acquisition yields gracefully (a back-swipe, for
// example); an acquisition that already produced visible scrolling holds on.
func (c *Coordinator) HandleTerminationRequest() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.observedScrollSinceBecomingResponder
}

// HandleTouchStart records that a touch is down and forwards to the host.
func (c *Coordinator) HandleTouchStart(e events.TouchEvent) {
	c.mu.Lock()
	c.isTouching = true
	c.mu.Unlock()

	if cb := c.props().Callbacks.OnTouchStart; cb != nil {
		cb(e)
	}
}

// HandleTouchMove forwards to the host; no state change.
func (c *Coordinator) HandleTouchMove(e events.TouchEvent) {
	if cb := c.props().Callbacks.OnTouchMove; cb != nil {
		cb(e)
	}
}

// HandleTouchEnd records remaining touch points and forwards to the host.
func (c *Coordinator) HandleTouchEnd(e events.TouchEvent) {
	c.mu.Lock()
	c.isTouching = e.Touches != 0
	c.mu.Unlock()

	if cb := c.props().Callbacks.OnTouchEnd; cb != nil {
		cb(e)
	}
}

// HandleTouchCancel unconditionally clears the touching flag and forwards.
func (c *Coordinator) HandleTouchCancel(e events.TouchEvent) {
	c.mu.Lock()
	c.isTouching = false
	c.mu.Unlock()

	if cb := c.props().Callbacks.OnTouchCancel; cb != nil {
		cb(e)
	}
}

// HandleResponderGrant is called when the surface becomes responder. The
// scroll-observed flag resets first; the mid-animation latch is evaluated
// after the host callback so host-side side effects that move the timestamps
// are accounted for.
func (c *Coordinator) HandleResponderGrant(e events.TouchEvent) {
	c.mu.Lock()
	c.observedScrollSinceBecomingResponder = false
	c.mu.Unlock()

	if cb := c.props().Callbacks.OnResponderGrant; cb != nil {
		cb(e)
	}

	c.mu.Lock()
	c.becameResponderWhileAnimating = c.isAnimatingLocked()
	c.mu.Unlock()
}

// HandleResponderRelease is called when the surface gives up the responder
// role. After forwarding, it decides whether the gesture was a tap away from
// the focused text input, and if so blurs the input and notifies the host.
// The five-way conjunction distinguishes "tapped elsewhere to dismiss the
// keyboard" from "was scrolling", "grabbed a decelerating surface", and
// "tapped the focused field itself".
func (c *Coordinator) HandleResponderRelease(e events.TouchEvent) {
	props := c.props()

	if cb := props.Callbacks.OnResponderRelease; cb != nil {
		cb(e)
	}

	if props.KeyboardPersistTaps == PersistTapsAlways {
		return
	}

	focused, ok := c.deps.Focus.FocusedField()
	if !ok || e.Target == focused {
		return
	}

	c.mu.Lock()
	scrolled := c.observedScrollSinceBecomingResponder
	midAnimation := c.becameResponderWhileAnimating
	c.mu.Unlock()

	if scrolled || midAnimation {
		return
	}

	c.deps.Focus.Blur(focused)
	if cb := props.Callbacks.OnKeyboardDismissed; cb != nil {
		cb(e)
	}
}

// HandleScroll records that scrolling occurred since the grant and forwards.
func (c *Coordinator) HandleScroll(e events.ScrollEvent) {
	c.mu.Lock()
	c.observedScrollSinceBecomingResponder = true
	c.mu.Unlock()

	if cb := c.props().Callbacks.OnScroll; cb != nil {
		cb(e)
	}
}

// HandleScrollBeginDrag notifies the interaction tracker and forwards.
func (c *Coordinator) HandleScrollBeginDrag(e events.ScrollEvent) {
	c.deps.Interactions.BeginScroll()

	if cb := c.props().Callbacks.OnScrollBeginDrag; cb != nil {
		cb(e)
	}
}

// HandleScrollEndDrag forwards to the host. When the drag ends with no
// resulting momentum (not animating, velocity absent or exactly zero on both
// axes) it also ends the interaction; otherwise the end notification is
// deferred to momentum-end.
func (c *Coordinator) HandleScrollEndDrag(e events.ScrollEvent) {
	c.mu.Lock()
	animating := c.isAnimatingLocked()
	c.mu.Unlock()

	if !animating && velocityAtRest(e.Velocity) {
		c.deps.Interactions.EndScroll()
	}

	if cb := c.props().Callbacks.OnScrollEndDrag; cb != nil {
		cb(e)
	}
}

// velocityAtRest reports whether the platform velocity is absent or exactly
// zero on both axes.
func velocityAtRest(v *geometry.Point) bool {
	return v == nil || v.IsZero()
}

// HandleMomentumScrollBegin records the momentum-begin timestamp and
// forwards.
func (c *Coordinator) HandleMomentumScrollBegin(e events.ScrollEvent) {
	c.mu.Lock()
	c.lastMomentumScrollBegin = c.now()
	c.mu.Unlock()

	if cb := c.props().Callbacks.OnMomentumScrollBegin; cb != nil {
		cb(e)
	}
}

// HandleMomentumScrollEnd ends the interaction (redundant with a no-momentum
// drag-end; ending twice is tolerated, never ending is not), records the
// momentum-end timestamp, and forwards.
func (c *Coordinator) HandleMomentumScrollEnd(e events.ScrollEvent) {
	c.deps.Interactions.EndScroll()

	c.mu.Lock()
	c.lastMomentumScrollEnd = c.now()
	c.mu.Unlock()

	if cb := c.props().Callbacks.OnMomentumScrollEnd; cb != nil {
		cb(e)
	}
}

// StateSnapshot is a point-in-time view of the coordinator, for status
// displays and debugging.
type StateSnapshot struct {
	IsTouching                    bool
	Animating                     bool
	ObservedScrollSinceGrant      bool
	BecameResponderWhileAnimating bool
	KeyboardVisible               bool
}

// Snapshot returns the current state.
func (c *Coordinator) Snapshot() StateSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return StateSnapshot{
		IsTouching:                    c.isTouching,
		Animating:                     c.isAnimatingLocked(),
		ObservedScrollSinceGrant:      c.observedScrollSinceBecomingResponder,
		BecameResponderWhileAnimating: c.becameResponderWhileAnimating,
		KeyboardVisible:               c.keyboardWillOpenTo != nil,
	}
}
