// Package focus tracks which text-input node currently holds focus. The
// responder coordinator consults it to decide whether a tap elsewhere should
// dismiss the keyboard, and blurs through it when dismissal is warranted.
package focus

import (
	"errors"
	"sync"

	"github.com/dshills/scrollkit/internal/surface"
)

// Sentinel errors.
var (
	// ErrUnknownField is returned when focusing a handle that was never
	// registered.
	ErrUnknownField = errors.New("unknown field handle")

	// ErrNotTextInput is returned when focusing a node that is not a text
	// input.
	ErrNotTextInput = errors.New("node is not a text input")
)

// BlurListener is notified after a field loses focus.
type BlurListener func(surface.Handle)

// Tracker is a registry of focusable nodes and the single focused field.
type Tracker struct {
	mu        sync.RWMutex
	textInput map[surface.Handle]bool
	focused   surface.Handle
	hasFocus  bool
	listeners []BlurListener
}

// NewTracker creates an empty focus tracker.
func NewTracker() *Tracker {
	return &Tracker{
		textInput: make(map[surface.Handle]bool),
	}
}

// Register adds a node, marking whether it is a text input.
func (t *Tracker) Register(h surface.Handle, isTextInput bool) {
	t.mu.Lock()
	t.textInput[h] = isTextInput
	t.mu.Unlock()
}

// Unregister removes a node, blurring it first if focused.
func (t *Tracker) Unregister(h surface.Handle) {
	t.Blur(h)

	t.mu.Lock()
	delete(t.textInput, h)
	t.mu.Unlock()
}

// IsTextInput reports whether the node is a registered text input.
func (t *Tracker) IsTextInput(h surface.Handle) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.textInput[h]
}

// Focus gives a registered text input the focus.
func (t *Tracker) Focus(h surface.Handle) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	isInput, known := t.textInput[h]
	if !known {
		return ErrUnknownField
	}
	if !isInput {
		return ErrNotTextInput
	}

	t.focused = h
	t.hasFocus = true
	return nil
}

// FocusedField returns the currently focused field, if any.
func (t *Tracker) FocusedField() (surface.Handle, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if !t.hasFocus {
		return "", false
	}
	return t.focused, true
}

// Blur removes focus from the given field. Blurring a field that is not
// focused is a no-op. Listeners run after the state change, outside the lock.
func (t *Tracker) Blur(h surface.Handle) {
	t.mu.Lock()
	if !t.hasFocus || t.focused != h {
		t.mu.Unlock()
		return
	}
	t.focused = ""
	t.hasFocus = false
	listeners := make([]BlurListener, len(t.listeners))
	copy(listeners, t.listeners)
	t.mu.Unlock()

	for _, fn := range listeners {
		fn(h)
	}
}

// OnBlur registers a listener notified whenever a field loses focus.
func (t *Tracker) OnBlur(fn BlurListener) {
	if fn == nil {
		return
	}
	t.mu.Lock()
	t.listeners = append(t.listeners, fn)
	t.mu.Unlock()
}
