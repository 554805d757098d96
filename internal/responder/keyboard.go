package responder

import (
	"fmt"

	"github.com/dshills/scrollkit/internal/event"
	"github.com/dshills/scrollkit/internal/event/events"
	"github.com/dshills/scrollkit/internal/keyboard"
	"github.com/dshills/scrollkit/internal/surface"
)

// Attach subscribes the coordinator to the four keyboard notifications at
// first priority, so its handlers run before any host-level listener that
// depends on updated keyboard geometry. Call Detach to release the
// subscriptions; attaching twice without detaching is an error.
func (c *Coordinator) Attach() error {
	if c.deps.Keyboard == nil {
		return ErrNoBroadcaster
	}

	c.mu.Lock()
	if c.subs != nil {
		c.mu.Unlock()
		return ErrAlreadyAttached
	}
	c.mu.Unlock()

	wiring := []struct {
		name keyboard.Name
		fn   keyboard.Handler
	}{
		{keyboard.WillShow, c.handleKeyboardWillShow},
		{keyboard.DidShow, c.handleKeyboardDidShow},
		{keyboard.WillHide, c.handleKeyboardWillHide},
		{keyboard.DidHide, c.handleKeyboardDidHide},
	}

	subs := make([]event.Subscription, 0, len(wiring))
	for _, w := range wiring {
		sub, err := c.deps.Keyboard.Subscribe(w.name, w.fn, event.WithPriority(event.PriorityFirst))
		if err != nil {
			for _, s := range subs {
				s.Cancel()
			}
			return fmt.Errorf("subscribing %s: %w", w.name, err)
		}
		subs = append(subs, sub)
	}

	c.mu.Lock()
	c.subs = subs
	c.mu.Unlock()

	return nil
}

// Detach releases the keyboard subscriptions. Each is released exactly once;
// calling Detach again, or without a prior Attach, is safe.
func (c *Coordinator) Detach() {
	c.mu.Lock()
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()

	for _, sub := range subs {
		if sub != nil {
			sub.Cancel()
		}
	}
}

// handleKeyboardWillShow stores the destination keyboard frame and forwards.
func (c *Coordinator) handleKeyboardWillShow(e events.KeyboardEvent) {
	c.mu.Lock()
	c.keyboardWillOpenTo = &e
	c.mu.Unlock()

	if cb := c.props().Callbacks.OnKeyboardWillShow; cb != nil {
		cb(e)
	}
}

// handleKeyboardDidShow overwrites the stored frame when the notification
// carries one. Some platforms omit the did-show payload and rely on the
// prior will-show value.
func (c *Coordinator) handleKeyboardDidShow(e events.KeyboardEvent) {
	if e.HasFrame() {
		c.mu.Lock()
		c.keyboardWillOpenTo = &e
		c.mu.Unlock()
	}

	if cb := c.props().Callbacks.OnKeyboardDidShow; cb != nil {
		cb(e)
	}
}

// handleKeyboardWillHide clears the stored frame and forwards.
func (c *Coordinator) handleKeyboardWillHide(e events.KeyboardEvent) {
	c.mu.Lock()
	c.keyboardWillOpenTo = nil
	c.mu.Unlock()

	if cb := c.props().Callbacks.OnKeyboardWillHide; cb != nil {
		cb(e)
	}
}

// handleKeyboardDidHide clears the stored frame and forwards.
func (c *Coordinator) handleKeyboardDidHide(e events.KeyboardEvent) {
	c.mu.Lock()
	c.keyboardWillOpenTo = nil
	c.mu.Unlock()

	if cb := c.props().Callbacks.OnKeyboardDidHide; cb != nil {
		cb(e)
	}
}

// ScrollIntoViewOptions are the optional parameters of
// ScrollTargetIntoView.
type ScrollIntoViewOptions struct {
	// AdditionalOffset is added to the computed scroll offset.
	AdditionalOffset float64

	// PreventNegativeOffset clamps the computed offset to a minimum of
	// zero, disallowing pulling content downward to meet the keyboard. The
	// default permits negative offsets so the target's bottom edge can be
	// pulled up to meet the keyboard's top edge.
	PreventNegativeOffset bool
}

// ScrollTargetIntoView scrolls the target node so it stays visible above the
// keyboard. The measurement is fire-and-forget: this call returns
// immediately and the scroll command is issued from the completion callback.
// A keyboard hide arriving before the measurement completes clears the
// stored frame, and the computation falls back to full-screen-height
// semantics. On measurement failure the operation aborts: the error is
// reported and no command is issued.
func (c *Coordinator) ScrollTargetIntoView(target surface.Handle, opts ScrollIntoViewOptions) {
	c.mu.Lock()
	c.additionalScrollOffset = opts.AdditionalOffset
	c.preventNegativeScrollOffset = opts.PreventNegativeOffset
	c.mu.Unlock()

	content, ok := c.deps.ContentHandle()
	if !ok {
		c.scrollIntoViewError(ErrNoContentHandle)
		return
	}

	c.deps.Surface.MeasureLayout(target, content, c.scrollIntoViewError, c.scrollIntoViewMeasured)
}

// scrollIntoViewMeasured finishes a scroll-target-into-view operation. The
// keyboard frame is re-read here, not captured at the start, so intervening
// keyboard transitions are honored.
func (c *Coordinator) scrollIntoViewMeasured(l surface.Layout) {
	c.mu.Lock()
	keyboardScreenY := c.deps.ScreenSize().Height
	if c.keyboardWillOpenTo != nil {
		keyboardScreenY = c.keyboardWillOpenTo.EndCoordinates.ScreenY
	}

	offsetY := l.Top - keyboardScreenY + l.Height + c.additionalScrollOffset
	if c.preventNegativeScrollOffset && offsetY < 0 {
		offsetY = 0
	}

	// Consume the one-shot parameters.
	c.additionalScrollOffset = 0
	c.preventNegativeScrollOffset = false
	c.mu.Unlock()

	animated := true
	c.ScrollTo(ScrollToOptions{X: 0, Y: offsetY, Animated: &animated})
}

// scrollIntoViewError reports a failed scroll-target-into-view measurement.
func (c *Coordinator) scrollIntoViewError(err error) {
	c.logger.Warn("scroll target into view failed: %v", err)
	if cb := c.props().Callbacks.OnScrollToTargetFailed; cb != nil {
		cb(err)
	}
}
