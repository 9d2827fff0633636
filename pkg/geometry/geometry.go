// Package geometry converts a resolved target into concrete placement
// coordinates on a slide canvas.
//
// All lengths are inches. The default canvas is the classic 4:3 slide,
// 10 × 7.5 inches. The mapper is purely geometric: it never looks at slot
// occupancy.
package geometry

import (
	"context"
	"fmt"

	"github.com/matzehuels/slideslot/pkg/slot"
)

// EMUPerInch is the number of English Metric Units in one inch, the length
// unit used inside OOXML packages.
const EMUPerInch = 914400

// Point is a position in inches.
type Point struct {
	X, Y float64
}

// Size is a width and height in inches.
type Size struct {
	Width, Height float64
}

// Rect is the final placement of one image. A zero Width and Height means
// the image is inserted at its natural size.
type Rect struct {
	Left, Top     float64
	Width, Height float64
}

// Sized reports whether the rect carries an explicit size.
func (r Rect) Sized() bool { return r.Width > 0 && r.Height > 0 }

// Canvas is the slide area.
type Canvas struct {
	Width, Height float64
}

// DefaultCanvas is the 10 × 7.5 inch slide.
var DefaultCanvas = Canvas{Width: 10, Height: 7.5}

// CustomFallback is used for custom placements that omit left or top.
var CustomFallback = Point{X: 1, Y: 1}

// anchors are the fixed top-left corners of the quadrant placements.
var anchors = map[slot.Slot]Point{
	slot.BottomLeft:  {X: 0.5, Y: 5.0},
	slot.BottomRight: {X: 6.0, Y: 5.0},
	slot.TopRight:    {X: 6.0, Y: 0.5},
}

// topLeftAnchor is the anchor of the top-left freeform mode.
var topLeftAnchor = Point{X: 0.5, Y: 0.5}

// Midpoint returns the horizontal and vertical midpoints of the canvas.
func (c Canvas) Midpoint() Point {
	return Point{X: c.Width / 2, Y: c.Height / 2}
}

// Anchor returns the fixed corner for an eligible slot.
func Anchor(s slot.Slot) (Point, bool) {
	p, ok := anchors[s]
	return p, ok
}

// Measurer reports the natural size of an image. It is the first half of the
// measure-then-place protocol with the drawing collaborator.
type Measurer interface {
	Measure(ctx context.Context, image string) (Size, error)
}

// MeasureFunc adapts a function to the Measurer interface.
type MeasureFunc func(ctx context.Context, image string) (Size, error)

// Measure calls f.
func (f MeasureFunc) Measure(ctx context.Context, image string) (Size, error) {
	return f(ctx, image)
}

// Locate computes the rect for target. Explicit width and height are used only
// when both are present. Center placements without an explicit size ask m for
// the natural size of image; every other target leaves the size to the drawer.
func (c Canvas) Locate(ctx context.Context, target slot.Target, g slot.Geometry, image string, m Measurer) (Rect, error) {
	var r Rect
	if w, h, ok := g.Size(); ok {
		r.Width, r.Height = w, h
	}

	switch t := target.(type) {
	case slot.Slot:
		p, ok := Anchor(t)
		if !ok {
			return Rect{}, fmt.Errorf("no anchor for slot %v", t)
		}
		r.Left, r.Top = p.X, p.Y
		return r, nil

	case slot.Freeform:
		switch t.Mode {
		case slot.TopLeft:
			r.Left, r.Top = topLeftAnchor.X, topLeftAnchor.Y
			return r, nil

		case slot.Center:
			if !r.Sized() {
				if m == nil {
					return Rect{}, fmt.Errorf("center placement of %s needs a size or a measurer", image)
				}
				size, err := m.Measure(ctx, image)
				if err != nil {
					return Rect{}, fmt.Errorf("measure %s: %w", image, err)
				}
				r.Width, r.Height = size.Width, size.Height
			}
			r.Left = (c.Width - r.Width) / 2
			r.Top = (c.Height - r.Height) / 2
			return r, nil

		case slot.Custom:
			r.Left, r.Top = CustomFallback.X, CustomFallback.Y
			if g.Left != nil {
				r.Left = *g.Left
			}
			if g.Top != nil {
				r.Top = *g.Top
			}
			return r, nil
		}
	}

	return Rect{}, fmt.Errorf("cannot locate target %v", slot.TargetName(target))
}
