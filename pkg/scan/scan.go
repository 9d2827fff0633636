// Package scan seeds an occupancy table from pictures already present in a
// deck.
//
// Each picture is classified by its top-left corner against the canvas
// midpoints. Pictures in an eligible quadrant occupy that slot. Pictures in
// the top-left quadrant are recorded on the table for reporting only and
// never influence allocation.
package scan

import (
	"github.com/matzehuels/slideslot/pkg/geometry"
	"github.com/matzehuels/slideslot/pkg/occupancy"
	"github.com/matzehuels/slideslot/pkg/pptx"
	"github.com/matzehuels/slideslot/pkg/slot"
)

// Observation is the classification of one existing picture.
type Observation struct {
	Picture  pptx.Picture
	Quadrant slot.Quadrant
}

// Slot returns the eligible slot the picture occupies, if any.
func (o Observation) Slot() (slot.Slot, bool) {
	return o.Quadrant.Slot()
}

// Classify returns the quadrant of each picture on canvas c.
func Classify(c geometry.Canvas, pics []pptx.Picture) []Observation {
	mid := c.Midpoint()
	out := make([]Observation, len(pics))
	for i, p := range pics {
		out[i] = Observation{
			Picture:  p,
			Quadrant: slot.Classify(p.Left, p.Top, mid.X, mid.Y),
		}
	}
	return out
}

// Seed classifies pics and records the result on t.
func Seed(t *occupancy.Table, c geometry.Canvas, pics []pptx.Picture) []Observation {
	obs := Classify(c, pics)
	for _, o := range obs {
		if s, ok := o.Slot(); ok {
			t.Occupy(o.Picture.Slide, s)
		} else {
			t.Note(o.Picture.Slide, o.Quadrant)
		}
	}
	return obs
}
