package responder

import (
	"github.com/dshills/scrollkit/internal/event/events"
	"github.com/dshills/scrollkit/internal/geometry"
	"github.com/dshills/scrollkit/internal/keyboard"
	"github.com/dshills/scrollkit/internal/surface"
)

// PersistTapsPolicy governs whether a tap elsewhere is allowed to leave an
// on-screen software keyboard open.
type PersistTapsPolicy int

const (
	// PersistTapsNever dismisses the keyboard on any tap that does not land
	// on the focused text input. The first tap dismisses; a second tap then
	// reaches the child view.
	PersistTapsNever PersistTapsPolicy = iota

	// PersistTapsAlways leaves the keyboard open regardless of where taps
	// land.
	PersistTapsAlways

	// PersistTapsHandled leaves the keyboard open only when the tap was
	// handled by a child (for example another text input).
	PersistTapsHandled
)

// String returns the policy name.
func (p PersistTapsPolicy) String() string {
	switch p {
	case PersistTapsNever:
		return "never"
	case PersistTapsAlways:
		return "always"
	case PersistTapsHandled:
		return "handled"
	default:
		return "unknown"
	}
}

// ParsePersistTaps parses a persist-taps value. Accepted forms are the
// strings "never", "always", and "handled", plus the legacy boolean form
// (true means always, false means never). The second return value reports
// whether the deprecated boolean form was used, so callers can warn.
func ParsePersistTaps(v any) (PersistTapsPolicy, bool, error) {
	switch val := v.(type) {
	case PersistTapsPolicy:
		return val, false, nil
	case string:
		switch val {
		case "never", "":
			return PersistTapsNever, false, nil
		case "always":
			return PersistTapsAlways, false, nil
		case "handled":
			return PersistTapsHandled, false, nil
		default:
			return PersistTapsNever, false, ErrInvalidPersistTaps
		}
	case bool:
		if val {
			return PersistTapsAlways, true, nil
		}
		return PersistTapsNever, true, nil
	default:
		return PersistTapsNever, false, ErrInvalidPersistTaps
	}
}

// Callbacks are the host's optional pass-through hooks. Every handler
// forwards its event to the matching callback when set; none are required.
type Callbacks struct {
	OnTouchStart  func(events.TouchEvent)
	OnTouchMove   func(events.TouchEvent)
	OnTouchEnd    func(events.TouchEvent)
	OnTouchCancel func(events.TouchEvent)

	OnResponderGrant   func(events.TouchEvent)
	OnResponderRelease func(events.TouchEvent)

	OnScroll              func(events.ScrollEvent)
	OnScrollBeginDrag     func(events.ScrollEvent)
	OnScrollEndDrag       func(events.ScrollEvent)
	OnMomentumScrollBegin func(events.ScrollEvent)
	OnMomentumScrollEnd   func(events.ScrollEvent)

	OnKeyboardWillShow func(events.KeyboardEvent)
	OnKeyboardDidShow  func(events.KeyboardEvent)
	OnKeyboardWillHide func(events.KeyboardEvent)
	OnKeyboardDidHide  func(events.KeyboardEvent)

	// OnKeyboardDismissed fires when a release dismissed the keyboard
	// because the user tapped away from the focused input.
	OnKeyboardDismissed func(events.TouchEvent)

	// OnScrollToTargetFailed fires when a scroll-target-into-view
	// measurement fails. The operation is aborted; no command is issued.
	OnScrollToTargetFailed func(error)
}

// Props are the host-supplied, read-only configuration the coordinator
// consults on every decision. The coordinator never mutates them.
type Props struct {
	// KeyboardPersistTaps is the tap-dismiss policy.
	KeyboardPersistTaps PersistTapsPolicy

	// PanResponderDisabled disables all responder acquisition.
	PanResponderDisabled bool

	// Callbacks are the host's pass-through hooks.
	Callbacks Callbacks
}

// PropsFunc returns the current props. It is called on every decision so
// hosts can swap props between events.
type PropsFunc func() Props

// FocusTracker is the text-input focus collaborator.
type FocusTracker interface {
	FocusedField() (surface.Handle, bool)
	IsTextInput(h surface.Handle) bool
	Blur(h surface.Handle)
}

// InteractionTracker receives scroll interaction begin/end notifications.
// Both calls are fire-and-forget and must tolerate redundant ends.
type InteractionTracker interface {
	BeginScroll()
	EndScroll()
}

// Deps are the collaborators the coordinator is constructed with.
type Deps struct {
	// Focus tracks the focused text input. Optional; a no-op tracker is
	// substituted when nil.
	Focus FocusTracker

	// Interactions is the interaction-rate tracker. Optional; a no-op
	// tracker is substituted when nil.
	Interactions InteractionTracker

	// Surface dispatches commands to the native scroll surface. Optional;
	// a no-op sink without zoom support is substituted when nil.
	Surface surface.CommandSink

	// Keyboard is the broadcaster the coordinator attaches to. Required
	// only for Attach.
	Keyboard *keyboard.Broadcaster

	// ScrollHandle returns the native scroll view node, when available.
	ScrollHandle func() (surface.Handle, bool)

	// ContentHandle returns the inner content node measurements are made
	// against, when available.
	ContentHandle func() (surface.Handle, bool)

	// ScreenSize reports the full screen size. Its height is the assumed
	// keyboard top edge when no keyboard frame is known.
	ScreenSize func() geometry.Size
}

// nopFocus is substituted for a nil FocusTracker.
type nopFocus struct{}

func (nopFocus) FocusedField() (surface.Handle, bool) { return "", false }
func (nopFocus) IsTextInput(surface.Handle) bool      { return false }
func (nopFocus) Blur(surface.Handle)                  {}

// nopInteractions is substituted for a nil InteractionTracker.
type nopInteractions struct{}

func (nopInteractions) BeginScroll() {}
func (nopInteractions) EndScroll()   {}

// nopSink is substituted for a nil CommandSink. It reports no capabilities
// and drops all commands.
type nopSink struct{}

func (nopSink) DispatchCommand(surface.Handle, surface.Command, []any) {}

func (nopSink) MeasureLayout(_, _ surface.Handle, onError func(error), _ func(surface.Layout)) {
	if onError != nil {
		onError(surface.ErrUnknownHandle)
	}
}

func (nopSink) Capabilities() surface.Capabilities { return surface.Capabilities{} }
