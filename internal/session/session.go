// Package session wires a responder coordinator to in-memory collaborators:
// a node registry, a recording command sink, focus and interaction trackers,
// and a keyboard broadcaster. Trace replay, scenario scripts, and the
// interactive simulator all drive the same Session rather than assembling
// the pieces themselves.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/dshills/scrollkit/internal/event/events"
	"github.com/dshills/scrollkit/internal/focus"
	"github.com/dshills/scrollkit/internal/geometry"
	"github.com/dshills/scrollkit/internal/interaction"
	"github.com/dshills/scrollkit/internal/keyboard"
	"github.com/dshills/scrollkit/internal/logging"
	"github.com/dshills/scrollkit/internal/responder"
	"github.com/dshills/scrollkit/internal/surface"
)

// Clock is a hand-advanced virtual clock. All session timing flows through
// it so replays are deterministic.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock creates a clock at a fixed, arbitrary epoch.
func NewClock() *Clock {
	return &Clock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Now returns the current virtual time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Elapsed returns how far the clock has advanced since the epoch.
func (c *Clock) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now.Sub(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
}

// Entry is one notable occurrence logged during a session.
type Entry struct {
	At     time.Duration
	Kind   string
	Detail string
}

// Options configure a Session.
type Options struct {
	// Screen is the simulated screen size. Zero means 400x800.
	Screen geometry.Size

	// KeyboardHeight is the simulated keyboard height. Zero means 300.
	KeyboardHeight float64

	// PersistTaps is the tap-dismiss policy.
	PersistTaps responder.PersistTapsPolicy

	// PanResponderDisabled disables responder acquisition.
	PanResponderDisabled bool

	// SettleWindow overrides the momentum settle window when positive.
	SettleWindow time.Duration

	// ContentHeight is the simulated content height. Zero means double the
	// screen height.
	ContentHeight float64

	// Logger receives coordinator diagnostics. Nil discards them.
	Logger *logging.Logger
}

// Session is one fully wired coordinator with named nodes.
type Session struct {
	Clock        *Clock
	Registry     *surface.Registry
	Recorder     *surface.Recorder
	Focus        *focus.Tracker
	Interactions *interaction.Tracker
	Broadcaster  *keyboard.Broadcaster
	Coordinator  *responder.Coordinator

	screen         geometry.Size
	keyboardHeight float64
	scrollView     surface.Handle
	contentView    surface.Handle

	mu    sync.Mutex
	log   []Entry
	props responder.Props
}

// New creates a wired session. Two nodes are pre-registered: "scrollView"
// covering the screen and "contentView" holding the scrollable content.
func New(opts Options) *Session {
	if opts.Screen == (geometry.Size{}) {
		opts.Screen = geometry.Size{Width: 400, Height: 800}
	}
	if opts.KeyboardHeight == 0 {
		opts.KeyboardHeight = 300
	}
	if opts.ContentHeight == 0 {
		opts.ContentHeight = 2 * opts.Screen.Height
	}

	clock := NewClock()
	registry := surface.NewRegistry()
	recorder := surface.NewRecorder(registry, surface.WithClock(clock.Now))

	s := &Session{
		Clock:          clock,
		Registry:       registry,
		Recorder:       recorder,
		Focus:          focus.NewTracker(),
		Interactions:   interaction.NewTracker(interaction.WithClock(clock.Now)),
		Broadcaster:    keyboard.NewBroadcaster(),
		screen:         opts.Screen,
		keyboardHeight: opts.KeyboardHeight,
	}

	s.scrollView = registry.Register("scrollView", surface.Layout{
		Width: opts.Screen.Width, Height: opts.Screen.Height,
	})
	s.contentView = registry.Register("contentView", surface.Layout{
		Width: opts.Screen.Width, Height: opts.ContentHeight,
	})

	s.props = responder.Props{
		KeyboardPersistTaps:  opts.PersistTaps,
		PanResponderDisabled: opts.PanResponderDisabled,
		Callbacks: responder.Callbacks{
			OnKeyboardDismissed: func(e events.TouchEvent) {
				s.record("keyboardDismissed", string(e.Target))
			},
			OnScrollToTargetFailed: func(err error) {
				s.record("scrollToTargetFailed", err.Error())
			},
		},
	}

	coordOpts := []responder.Option{responder.WithClock(clock.Now)}
	if opts.SettleWindow > 0 {
		coordOpts = append(coordOpts, responder.WithMomentumSettleWindow(opts.SettleWindow))
	}
	if opts.Logger != nil {
		coordOpts = append(coordOpts, responder.WithLogger(opts.Logger))
	}

	s.Coordinator = responder.New(
		func() responder.Props {
			s.mu.Lock()
			defer s.mu.Unlock()
			return s.props
		},
		responder.Deps{
			Focus:         s.Focus,
			Interactions:  s.Interactions,
			Surface:       recorder,
			Keyboard:      s.Broadcaster,
			ScrollHandle:  func() (surface.Handle, bool) { return s.scrollView, true },
			ContentHandle: func() (surface.Handle, bool) { return s.contentView, true },
			ScreenSize:    func() geometry.Size { return s.screen },
		},
		coordOpts...,
	)

	return s
}

// SetPersistTaps changes the tap-dismiss policy for subsequent decisions.
// Config live reload uses this.
func (s *Session) SetPersistTaps(policy responder.PersistTapsPolicy) {
	s.mu.Lock()
	s.props.KeyboardPersistTaps = policy
	s.mu.Unlock()
}

// SetPanResponderDisabled toggles responder acquisition.
func (s *Session) SetPanResponderDisabled(disabled bool) {
	s.mu.Lock()
	s.props.PanResponderDisabled = disabled
	s.mu.Unlock()
}

// Attach subscribes the coordinator to keyboard notifications.
func (s *Session) Attach() error {
	return s.Coordinator.Attach()
}

// Close detaches the coordinator.
func (s *Session) Close() {
	s.Coordinator.Detach()
}

// ScrollView returns the pre-registered scroll view handle.
func (s *Session) ScrollView() surface.Handle { return s.scrollView }

// ContentView returns the pre-registered content view handle.
func (s *Session) ContentView() surface.Handle { return s.contentView }

// RegisterNode adds a named node. Text inputs are registered with the focus
// tracker as focusable.
func (s *Session) RegisterNode(name string, layout surface.Layout, isTextInput bool) surface.Handle {
	h := s.Registry.Register(name, layout)
	s.Focus.Register(h, isTextInput)
	return h
}

// Handle resolves a node name. The two built-in nodes resolve too.
func (s *Session) Handle(name string) (surface.Handle, error) {
	h, ok := s.Registry.Lookup(name)
	if !ok {
		return "", fmt.Errorf("unknown node %q", name)
	}
	return h, nil
}

// Advance moves the virtual clock forward.
func (s *Session) Advance(d time.Duration) {
	s.Clock.Advance(d)
}

func (s *Session) touch(target surface.Handle, remaining int) events.TouchEvent {
	return events.TouchEvent{
		Target:    target,
		Touches:   remaining,
		Timestamp: s.Clock.Now(),
	}
}

// TouchStart dispatches a touch-start on the named node.
func (s *Session) TouchStart(name string) error {
	h, err := s.Handle(name)
	if err != nil {
		return err
	}
	s.Coordinator.HandleTouchStart(s.touch(h, 1))
	return nil
}

// TouchMove dispatches a touch-move on the named node.
func (s *Session) TouchMove(name string) error {
	h, err := s.Handle(name)
	if err != nil {
		return err
	}
	s.Coordinator.HandleTouchMove(s.touch(h, 1))
	return nil
}

// TouchEnd dispatches a touch-end with the given remaining touch count.
func (s *Session) TouchEnd(name string, remaining int) error {
	h, err := s.Handle(name)
	if err != nil {
		return err
	}
	s.Coordinator.HandleTouchEnd(s.touch(h, remaining))
	return nil
}

// TouchCancel dispatches a touch-cancel.
func (s *Session) TouchCancel(name string) error {
	h, err := s.Handle(name)
	if err != nil {
		return err
	}
	s.Coordinator.HandleTouchCancel(s.touch(h, 0))
	return nil
}

// CaptureQuery runs the capture-phase responder query for a touch on the
// named node.
func (s *Session) CaptureQuery(name string) (bool, error) {
	h, err := s.Handle(name)
	if err != nil {
		return false, err
	}
	granted := s.Coordinator.ShouldSetResponderCapture(s.touch(h, 1))
	s.record("captureQuery", fmt.Sprintf("%s=%v", name, granted))
	return granted, nil
}

// BubbleQuery runs the bubble-phase responder query.
func (s *Session) BubbleQuery() bool {
	granted := s.Coordinator.ShouldSetResponder()
	s.record("bubbleQuery", fmt.Sprintf("%v", granted))
	return granted
}

// Grant makes the surface responder for a touch on the named node.
func (s *Session) Grant(name string) error {
	h, err := s.Handle(name)
	if err != nil {
		return err
	}
	s.Coordinator.HandleResponderGrant(s.touch(h, 1))
	return nil
}

// Release gives up the responder role for a touch on the named node.
func (s *Session) Release(name string) error {
	h, err := s.Handle(name)
	if err != nil {
		return err
	}
	s.Coordinator.HandleResponderRelease(s.touch(h, 0))
	return nil
}

// TerminationRequest asks the coordinator to yield to an ancestor.
func (s *Session) TerminationRequest() bool {
	return s.Coordinator.HandleTerminationRequest()
}

func (s *Session) scrollEvent(velocity *geometry.Point) events.ScrollEvent {
	return events.ScrollEvent{
		Velocity:  velocity,
		Timestamp: s.Clock.Now(),
	}
}

// Scroll dispatches a scroll notification.
func (s *Session) Scroll() {
	s.Coordinator.HandleScroll(s.scrollEvent(nil))
}

// DragBegin dispatches a drag-begin notification.
func (s *Session) DragBegin() {
	s.Coordinator.HandleScrollBeginDrag(s.scrollEvent(nil))
}

// DragEnd dispatches a drag-end notification with an optional velocity.
func (s *Session) DragEnd(velocity *geometry.Point) {
	s.Coordinator.HandleScrollEndDrag(s.scrollEvent(velocity))
}

// MomentumBegin dispatches a momentum-begin notification.
func (s *Session) MomentumBegin() {
	s.Coordinator.HandleMomentumScrollBegin(s.scrollEvent(nil))
}

// MomentumEnd dispatches a momentum-end notification.
func (s *Session) MomentumEnd() {
	s.Coordinator.HandleMomentumScrollEnd(s.scrollEvent(nil))
}

// KeyboardFrame is the simulated keyboard's on-screen frame.
func (s *Session) KeyboardFrame() geometry.Frame {
	return geometry.Frame{
		ScreenX: 0,
		ScreenY: s.screen.Height - s.keyboardHeight,
		Width:   s.screen.Width,
		Height:  s.keyboardHeight,
	}
}

// ShowKeyboard broadcasts a will-show/did-show pair for the simulated
// keyboard.
func (s *Session) ShowKeyboard() error {
	ev := events.KeyboardEvent{
		EndCoordinates: s.KeyboardFrame(),
		Duration:       250 * time.Millisecond,
		Timestamp:      s.Clock.Now(),
	}
	if err := s.Broadcaster.Publish(keyboard.WillShow, ev); err != nil {
		return err
	}
	s.record("keyboardShow", "")
	return s.Broadcaster.Publish(keyboard.DidShow, ev)
}

// HideKeyboard broadcasts a will-hide/did-hide pair.
func (s *Session) HideKeyboard() error {
	ev := events.KeyboardEvent{
		Duration:  250 * time.Millisecond,
		Timestamp: s.Clock.Now(),
	}
	if err := s.Broadcaster.Publish(keyboard.WillHide, ev); err != nil {
		return err
	}
	s.record("keyboardHide", "")
	return s.Broadcaster.Publish(keyboard.DidHide, ev)
}

// FocusNode focuses the named text input and shows the keyboard.
func (s *Session) FocusNode(name string) error {
	h, err := s.Handle(name)
	if err != nil {
		return err
	}
	if err := s.Focus.Focus(h); err != nil {
		return err
	}
	return s.ShowKeyboard()
}

// BlurNode blurs the named node.
func (s *Session) BlurNode(name string) error {
	h, err := s.Handle(name)
	if err != nil {
		return err
	}
	s.Focus.Blur(h)
	return nil
}

// ScrollIntoView scrolls the named node clear of the keyboard.
func (s *Session) ScrollIntoView(name string, opts responder.ScrollIntoViewOptions) error {
	h, err := s.Handle(name)
	if err != nil {
		return err
	}
	s.Coordinator.ScrollTargetIntoView(h, opts)
	return nil
}

// Snapshot returns the coordinator state.
func (s *Session) Snapshot() responder.StateSnapshot {
	return s.Coordinator.Snapshot()
}

// Commands returns all commands dispatched so far.
func (s *Session) Commands() []surface.DispatchedCommand {
	return s.Recorder.Commands()
}

// Log returns the recorded notable occurrences.
func (s *Session) Log() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, len(s.log))
	copy(out, s.log)
	return out
}

func (s *Session) record(kind, detail string) {
	s.mu.Lock()
	s.log = append(s.log, Entry{At: s.Clock.Elapsed(), Kind: kind, Detail: detail})
	s.mu.Unlock()
}
