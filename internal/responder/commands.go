package responder

import (
	"github.com/dshills/scrollkit/internal/geometry"
	"github.com/dshills/scrollkit/internal/surface"
)

// ScrollToOptions are the parameters of ScrollTo.
type ScrollToOptions struct {
	// X and Y are the destination content offset.
	X float64
	Y float64

	// Animated selects animated scrolling. Nil defaults to true.
	Animated *bool
}

// ZoomRect is the zoom destination for ZoomToRect.
type ZoomRect struct {
	geometry.Rect

	// Animated selects animated zooming. Nil defaults to true.
	Animated *bool
}

// ScrollTo scrolls the surface to a content offset. The supported call forms
// are ScrollTo(ScrollToOptions{...}) and the deprecated positional form
// ScrollTo(y, x, animated) kept for migration; the positional form logs a
// deprecation warning. With no scroll handle the command is dropped with a
// warning.
func (c *Coordinator) ScrollTo(args ...any) {
	var opts ScrollToOptions

	switch {
	case len(args) == 1 && isOptions(args[0]):
		opts = args[0].(ScrollToOptions)
	case len(args) == 0:
		// Scroll to origin.
	default:
		c.logger.Warn("ScrollTo(y, x, animated) is deprecated; use ScrollTo(ScrollToOptions{X: x, Y: y})")
		if len(args) > 0 {
			opts.Y, _ = toFloat(args[0])
		}
		if len(args) > 1 {
			opts.X, _ = toFloat(args[1])
		}
		if len(args) > 2 {
			if b, ok := args[2].(bool); ok {
				opts.Animated = &b
			}
		}
	}

	target, ok := c.deps.ScrollHandle()
	if !ok {
		c.logger.Warn("ScrollTo dropped: no scroll view handle")
		return
	}

	c.deps.Surface.DispatchCommand(target, surface.CommandScrollTo, []any{
		opts.X, opts.Y, animatedOrDefault(opts.Animated),
	})
}

// ScrollToEnd scrolls to the end of the content. Animation defaults to true.
func (c *Coordinator) ScrollToEnd(animated ...bool) {
	anim := true
	if len(animated) > 0 {
		anim = animated[0]
	}

	target, ok := c.deps.ScrollHandle()
	if !ok {
		c.logger.Warn("ScrollToEnd dropped: no scroll view handle")
		return
	}

	c.deps.Surface.DispatchCommand(target, surface.CommandScrollToEnd, []any{anim})
}

// ZoomToRect zooms the surface to display a content rect. The surface must
// support zooming and the scroll handle must be known; both are programmer
// errors and panic. A positional animated argument is deprecated in favor of
// the Animated field and logs a warning.
func (c *Coordinator) ZoomToRect(rect ZoomRect, animated ...bool) {
	if !c.deps.Surface.Capabilities().Zoom {
		panic("responder: ZoomToRect called on a surface without zoom support")
	}

	target, ok := c.deps.ScrollHandle()
	if !ok {
		panic("responder: ZoomToRect called with no scroll view handle")
	}

	anim := animatedOrDefault(rect.Animated)
	if len(animated) > 0 {
		c.logger.Warn("ZoomToRect(rect, animated) positional flag is deprecated; set ZoomRect.Animated")
		anim = animated[0]
	}

	c.deps.Surface.DispatchCommand(target, surface.CommandZoomToRect, []any{rect.Rect, anim})
}

// FlashScrollIndicators briefly displays the scroll indicators.
func (c *Coordinator) FlashScrollIndicators() {
	target, ok := c.deps.ScrollHandle()
	if !ok {
		c.logger.Warn("FlashScrollIndicators dropped: no scroll view handle")
		return
	}

	c.deps.Surface.DispatchCommand(target, surface.CommandFlashScrollIndicators, nil)
}

func isOptions(v any) bool {
	_, ok := v.(ScrollToOptions)
	return ok
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

func animatedOrDefault(b *bool) bool {
	if b == nil {
		return true
	}
	return *b
}
