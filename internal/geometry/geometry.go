// Package geometry provides the small set of screen-space types shared by
// the responder coordinator and its collaborators.
package geometry

import "fmt"

// Point is a position in surface coordinates.
type Point struct {
	X float64
	Y float64
}

// String returns a compact representation for logs.
func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// IsZero returns true if both components are exactly zero.
func (p Point) IsZero() bool {
	return p.X == 0 && p.Y == 0
}

// Size is a width/height pair.
type Size struct {
	Width  float64
	Height float64
}

// Rect is an axis-aligned rectangle in surface coordinates.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// String returns a compact representation for logs.
func (r Rect) String() string {
	return fmt.Sprintf("(%g, %g, %gx%g)", r.X, r.Y, r.Width, r.Height)
}

// IsEmpty returns true if the rect has no area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.Height
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.Width
}

// Contains reports whether the point lies inside the rect.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Frame describes where an on-screen keyboard (or any overlay) sits in
// screen coordinates. ScreenY is the y coordinate of the top edge, which is
// the value scroll-to-keyboard computations care about.
type Frame struct {
	ScreenX float64
	ScreenY float64
	Width   float64
	Height  float64
}

// String returns a compact representation for logs.
func (f Frame) String() string {
	return fmt.Sprintf("(%g, %g, %gx%g)", f.ScreenX, f.ScreenY, f.Width, f.Height)
}
