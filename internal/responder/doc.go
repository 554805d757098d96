// Package responder implements the coordination state machine that decides
// which of several competing input signals currently controls a scrollable
// surface.
//
// Touch dispatch, scroll-physics notifications, software-keyboard
// transitions, and the responder grant/release handshake all arrive
// asynchronously from independent subsystems, in platform-dependent order.
// The Coordinator derives a consistent interpretation from a handful of
// timestamps and booleans: whether the surface is animating under momentum,
// whether the user has scrolled since becoming responder, and whether a tap
// should dismiss the keyboard or pass through to a child view.
//
// Every handler runs to completion on the caller's goroutine. The one
// asynchronous operation, layout measurement for scroll-to-keyboard, reports
// through a completion callback and tolerates intervening events (a keyboard
// hide clearing the stored frame makes the computation fall back to
// full-screen-height semantics).
package responder
