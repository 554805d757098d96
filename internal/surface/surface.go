// Package surface defines the boundary to the native scrollable surface:
// opaque node handles, the command sink the coordinator dispatches scroll
// commands through, and asynchronous layout measurement.
package surface

import (
	"errors"

	"github.com/google/uuid"
)

// Handle is an opaque reference to a native view node.
type Handle string

// NewHandle allocates a fresh unique handle.
func NewHandle() Handle {
	return Handle(uuid.NewString())
}

// IsZero returns true for the empty handle.
func (h Handle) IsZero() bool {
	return h == ""
}

// Command names the operations a scroll surface understands.
type Command string

// Commands dispatched by the coordinator.
const (
	CommandScrollTo              Command = "scrollTo"
	CommandScrollToEnd           Command = "scrollToEnd"
	CommandZoomToRect            Command = "zoomToRect"
	CommandFlashScrollIndicators Command = "flashScrollIndicators"
)

// Capabilities describes what the underlying surface supports.
type Capabilities struct {
	// Zoom is true when the surface can animate content scale changes.
	Zoom bool
}

// Layout is a measured position and size relative to some ancestor node.
type Layout struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// CommandSink dispatches commands to native view nodes and measures layout.
//
// MeasureLayout is fire-and-forget: it returns immediately and invokes
// exactly one of onError or onSuccess later (possibly on another goroutine).
type CommandSink interface {
	DispatchCommand(target Handle, command Command, args []any)
	MeasureLayout(target, relativeTo Handle, onError func(error), onSuccess func(Layout))
	Capabilities() Capabilities
}

// Sentinel errors for node lookups and measurement.
var (
	// ErrUnknownHandle is returned when a handle has no registered node.
	ErrUnknownHandle = errors.New("unknown node handle")

	// ErrNoLayout is returned when a node has no recorded layout.
	ErrNoLayout = errors.New("node has no layout")
)
