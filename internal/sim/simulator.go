// Package sim is an interactive terminal playground for the responder
// coordinator. The terminal stands in for a touch screen: mouse presses are
// touches, drags are scrolls, and the wheel flings the surface into
// momentum. A status pane shows the live coordinator state so the
// handshake decisions can be watched as they happen.
package sim

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/scrollkit/internal/geometry"
	"github.com/dshills/scrollkit/internal/responder"
	"github.com/dshills/scrollkit/internal/session"
	"github.com/dshills/scrollkit/internal/surface"
)

// momentumSpin is how long a wheel fling keeps the surface animating on the
// session's virtual clock.
const momentumSpin = 300 * time.Millisecond

// Simulator drives a session from terminal input.
type Simulator struct {
	screen tcell.Screen
	sess   *session.Session

	// Pointer state.
	dragging   bool
	dragStartY int
	lastY      int

	// Virtual-clock pacing.
	lastTick time.Time

	// Pending momentum-end deadline on the virtual clock, zero when none.
	momentumUntil time.Duration

	quit bool
}

// New creates a simulator on a real terminal screen.
func New(sess *session.Session) (*Simulator, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewWithScreen(sess, screen), nil
}

// NewWithScreen creates a simulator on the given screen. Tests pass a
// tcell simulation screen.
func NewWithScreen(sess *session.Session, screen tcell.Screen) *Simulator {
	return &Simulator{
		screen: screen,
		sess:   sess,
	}
}

// Run initializes the terminal and processes events until quit.
func (s *Simulator) Run() error {
	if err := s.screen.Init(); err != nil {
		return err
	}
	defer s.screen.Fini()

	s.screen.EnableMouse()
	s.setupNodes()
	s.lastTick = time.Now()

	for !s.quit {
		s.render()

		ev := s.screen.PollEvent()
		if ev == nil {
			return nil
		}
		s.advanceClock()
		s.handleEvent(ev)
	}

	return nil
}

// setupNodes registers the demo scene: a text field near the bottom and a
// plain view filling the upper screen.
func (s *Simulator) setupNodes() {
	s.sess.RegisterNode("field", surface.Layout{Left: 20, Top: 520, Width: 360, Height: 40}, true)
	s.sess.RegisterNode("plainView", surface.Layout{Left: 0, Top: 0, Width: 400, Height: 480}, false)
}

// advanceClock moves the session's virtual clock by the real time elapsed
// since the last event, then settles any due momentum.
func (s *Simulator) advanceClock() {
	now := time.Now()
	s.sess.Advance(now.Sub(s.lastTick))
	s.lastTick = now

	if s.momentumUntil > 0 && s.sess.Clock.Elapsed() >= s.momentumUntil {
		s.momentumUntil = 0
		s.sess.MomentumEnd()
	}
}

func (s *Simulator) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		s.handleKey(ev)
	case *tcell.EventMouse:
		s.handleMouse(ev)
	case *tcell.EventResize:
		s.screen.Sync()
	}
}

func (s *Simulator) handleKey(ev *tcell.EventKey) {
	if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
		s.quit = true
		return
	}

	switch ev.Rune() {
	case 'q':
		s.quit = true
	case 'f':
		_ = s.sess.FocusNode("field")
	case 'k':
		if s.sess.Snapshot().KeyboardVisible {
			_ = s.sess.HideKeyboard()
		} else {
			_ = s.sess.ShowKeyboard()
		}
	case 'v':
		_ = s.sess.ScrollIntoView("field", responder.ScrollIntoViewOptions{})
	case 'e':
		s.sess.Coordinator.ScrollToEnd()
	case 'i':
		s.sess.Coordinator.FlashScrollIndicators()
	case 't':
		_ = s.sess.TerminationRequest()
	}
}

// handleMouse maps terminal mouse input onto the touch and scroll
// lifecycle. Press is touch-start plus the responder handshake; moving with
// the button held scrolls; release runs release and, if warranted, keyboard
// dismissal.
func (s *Simulator) handleMouse(ev *tcell.EventMouse) {
	_, y := ev.Position()

	switch {
	case ev.Buttons()&tcell.Button1 != 0 && !s.dragging:
		s.dragging = true
		s.dragStartY = y
		s.lastY = y

		target := s.targetAt(ev)
		_ = s.sess.TouchStart(target)
		captured, _ := s.sess.CaptureQuery(target)
		if captured || s.sess.BubbleQuery() {
			_ = s.sess.Grant(target)
		}
		s.sess.DragBegin()

	case ev.Buttons()&tcell.Button1 != 0 && s.dragging:
		if y != s.lastY {
			target := s.targetAt(ev)
			_ = s.sess.TouchMove(target)
			s.sess.Scroll()
			s.lastY = y
		}

	case ev.Buttons() == tcell.ButtonNone && s.dragging:
		s.dragging = false
		target := s.targetAt(ev)

		if moved := y - s.dragStartY; moved != 0 {
			// A moving release flings the surface.
			velocity := &geometry.Point{Y: float64(moved)}
			s.sess.DragEnd(velocity)
			s.sess.MomentumBegin()
			s.momentumUntil = s.sess.Clock.Elapsed() + momentumSpin
		} else {
			s.sess.DragEnd(nil)
		}

		_ = s.sess.TouchEnd(target, 0)
		_ = s.sess.Release(target)

	case ev.Buttons()&tcell.WheelUp != 0 || ev.Buttons()&tcell.WheelDown != 0:
		// Wheel input is an instant fling.
		s.sess.DragBegin()
		s.sess.Scroll()
		s.sess.DragEnd(&geometry.Point{Y: 2})
		s.sess.MomentumBegin()
		s.momentumUntil = s.sess.Clock.Elapsed() + momentumSpin
	}
}

// targetAt maps a terminal row to a demo node: the lower third of the
// screen is the text field, the rest the plain view.
func (s *Simulator) targetAt(ev *tcell.EventMouse) string {
	_, y := ev.Position()
	_, rows := s.screen.Size()
	if rows > 0 && y > rows*2/3 {
		return "field"
	}
	return "plainView"
}

// render draws the status pane.
func (s *Simulator) render() {
	s.screen.Clear()

	snap := s.sess.Snapshot()
	interactions := s.sess.Interactions.Snapshot()

	lines := []string{
		"scrollkit simulator   q quit  f focus field  k toggle keyboard  v scroll into view",
		"",
		fmt.Sprintf("touching:   %v", snap.IsTouching),
		fmt.Sprintf("animating:  %v", snap.Animating),
		fmt.Sprintf("scrolled:   %v (since grant)", snap.ObservedScrollSinceGrant),
		fmt.Sprintf("mid-anim:   %v (grant latch)", snap.BecameResponderWhileAnimating),
		fmt.Sprintf("keyboard:   %v", snap.KeyboardVisible),
		fmt.Sprintf("scrolls:    %d begun, %d ended", interactions.Begins, interactions.Ends),
		"",
	}

	if focused, ok := s.sess.Focus.FocusedField(); ok {
		lines = append(lines, fmt.Sprintf("focused:    %s", focused))
	} else {
		lines = append(lines, "focused:    none")
	}

	cmds := s.sess.Commands()
	if n := len(cmds); n > 0 {
		last := cmds[n-1]
		lines = append(lines, fmt.Sprintf("last cmd:   %s %v (%d total)", last.Command, last.Args, n))
	}

	for _, entry := range tail(s.sess.Log(), 5) {
		lines = append(lines, fmt.Sprintf("  %6dms %s %s", entry.At.Milliseconds(), entry.Kind, entry.Detail))
	}

	style := tcell.StyleDefault
	for row, line := range lines {
		for col, r := range line {
			s.screen.SetContent(col, row, r, nil, style)
		}
	}

	s.screen.Show()
}

func tail(entries []session.Entry, n int) []session.Entry {
	if len(entries) <= n {
		return entries
	}
	return entries[len(entries)-n:]
}
