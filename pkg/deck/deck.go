// Package deck defines the slide container and drawing collaborator used by
// the placement pipeline, and an in-memory implementation of both.
//
// Drawing follows a two-phase protocol: a caller that needs an image's
// natural size asks [Drawer.Measure] first, computes the final rect, and
// then issues exactly one [Drawer.Place].
package deck

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/matzehuels/slideslot/pkg/errors"
	"github.com/matzehuels/slideslot/pkg/geometry"
	"github.com/matzehuels/slideslot/pkg/images"
	"github.com/matzehuels/slideslot/pkg/observability"
)

// Deck is an append-only list of slides numbered from 1.
type Deck interface {
	SlideCount() int
	AppendSlide() (int, error)
}

// Drawer inserts images into slides.
type Drawer interface {
	geometry.Measurer
	// Place inserts image on slide at r. A zero-size rect inserts the image
	// at its natural size.
	Place(ctx context.Context, slide int, image string, r geometry.Rect) (Placement, error)
}

// Placement is one image inserted into a slide.
type Placement struct {
	Slide int
	Image string
	Rect  geometry.Rect
}

// Memory is a Deck and Drawer that keeps every placement in memory.
type Memory struct {
	slides     int
	dpi        float64
	placements []Placement
}

var (
	_ Deck   = (*Memory)(nil)
	_ Drawer = (*Memory)(nil)
)

// NewMemory creates a deck with the given number of blank slides. dpi
// converts image pixels to inches; zero uses images.DefaultDPI.
func NewMemory(slides int, dpi float64) *Memory {
	if slides < 0 {
		slides = 0
	}
	if dpi <= 0 {
		dpi = images.DefaultDPI
	}
	return &Memory{slides: slides, dpi: dpi}
}

// SlideCount returns the number of slides.
func (m *Memory) SlideCount() int { return m.slides }

// AppendSlide adds a blank slide and returns its number.
func (m *Memory) AppendSlide() (int, error) {
	m.slides++
	return m.slides, nil
}

// Measure returns the natural size of image.
func (m *Memory) Measure(ctx context.Context, image string) (geometry.Size, error) {
	start := time.Now()
	size, err := images.NaturalSize(image, m.dpi)
	observability.Deck().OnMeasure(ctx, image, time.Since(start), err)
	return size, err
}

// Place records the placement. Natural size is resolved from the image file,
// so an unreadable image fails here and leaves the deck unchanged.
func (m *Memory) Place(ctx context.Context, slide int, image string, r geometry.Rect) (Placement, error) {
	if err := ctx.Err(); err != nil {
		return Placement{}, err
	}
	if slide < 1 || slide > m.slides {
		return Placement{}, errors.New(errors.ErrCodeInvalidReference, "slide %d out of range (deck has %d slides)", slide, m.slides)
	}

	if !r.Sized() {
		size, err := m.Measure(ctx, image)
		if err != nil {
			return Placement{}, errors.Wrap(errors.ErrCodePlacementFailed, err, "insert %s", image)
		}
		r.Width, r.Height = size.Width, size.Height
	} else if _, err := os.Stat(image); err != nil {
		return Placement{}, errors.Wrap(errors.ErrCodePlacementFailed, err, "insert %s", image)
	}

	p := Placement{Slide: slide, Image: image, Rect: r}
	m.placements = append(m.placements, p)
	return p, nil
}

// Placements returns every placement in insertion order.
func (m *Memory) Placements() []Placement {
	return m.placements
}

// OnSlide returns the placements on one slide ordered by position, top to
// bottom then left to right.
func (m *Memory) OnSlide(slide int) []Placement {
	var out []Placement
	for _, p := range m.placements {
		if p.Slide == slide {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rect.Top != out[j].Rect.Top {
			return out[i].Rect.Top < out[j].Rect.Top
		}
		return out[i].Rect.Left < out[j].Rect.Left
	})
	return out
}

func (p Placement) String() string {
	return fmt.Sprintf("slide %d at (%.2f, %.2f) %.2fx%.2f: %s",
		p.Slide, p.Rect.Left, p.Rect.Top, p.Rect.Width, p.Rect.Height, p.Image)
}
