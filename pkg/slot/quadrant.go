package slot

import "fmt"

// Quadrant is the classification of a picture's top-left corner against the
// slide midpoints.
type Quadrant uint8

// Quadrants.
const (
	QuadrantTopLeft Quadrant = iota + 1
	QuadrantTopRight
	QuadrantBottomLeft
	QuadrantBottomRight
)

// Classify places (left, top) in a quadrant of a canvas with the given
// midpoints. Comparisons are left-inclusive: a corner exactly on a midpoint
// belongs to the right or bottom half.
func Classify(left, top, midX, midY float64) Quadrant {
	switch {
	case left < midX && top < midY:
		return QuadrantTopLeft
	case top < midY:
		return QuadrantTopRight
	case left < midX:
		return QuadrantBottomLeft
	default:
		return QuadrantBottomRight
	}
}

// Slot returns the eligible slot matching q. Top-left has none.
func (q Quadrant) Slot() (Slot, bool) {
	switch q {
	case QuadrantTopRight:
		return TopRight, true
	case QuadrantBottomLeft:
		return BottomLeft, true
	case QuadrantBottomRight:
		return BottomRight, true
	}
	return 0, false
}

// String returns the wire name of the quadrant.
func (q Quadrant) String() string {
	switch q {
	case QuadrantTopLeft:
		return "top-left"
	case QuadrantTopRight:
		return "top-right"
	case QuadrantBottomLeft:
		return "bottom-left"
	case QuadrantBottomRight:
		return "bottom-right"
	}
	return fmt.Sprintf("quadrant(%d)", uint8(q))
}
