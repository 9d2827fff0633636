// Package alloc assigns every placement request a concrete slide and slot.
//
// The [Resolver] walks an ordered request list once. Each eligible-slot
// assignment is committed to the shared [occupancy.Table] before the next
// request is resolved, so the outcome depends on input order: permuting the
// requests changes the result.
//
// # Rules
//
// For each request, in order:
//
//  1. Slide and slot automatic: the first existing slide with a free slot,
//     else a newly appended slide and its first preference slot.
//  2. Slide given, slot automatic: the next free slot on that slide when it
//     exists and has room, else rule 1.
//  3. Slide given, eligible slot given: the slide must exist. The requested
//     slot when free, else the next free slot on the same slide, else rule 1.
//  4. Slide automatic, eligible slot given: the slot is a hint only and the
//     request resolves by rule 1.
//  5. Freeform modes (top-left, center, custom): no occupancy check or mark.
//     The slide defaults to 1 and must exist.
//
// Requests naming an image outside the catalogue fail with
// [errors.ErrCodeInvalidReference] and leave the table and deck untouched.
// Spillover can always append a slide, so an eligible request never runs out
// of room.
package alloc

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/slideslot/pkg/errors"
	"github.com/matzehuels/slideslot/pkg/mapping"
	"github.com/matzehuels/slideslot/pkg/occupancy"
	"github.com/matzehuels/slideslot/pkg/slot"
)

// Deck is the slide container the resolver grows on spillover.
type Deck interface {
	// SlideCount returns the number of slides. Slides are numbered 1..n.
	SlideCount() int
	// AppendSlide adds a blank slide at the end and returns its number.
	AppendSlide() (int, error)
}

// Assignment is the resolved placement of one request.
type Assignment struct {
	// Index is the 0-based position of the request in the input.
	Index   int
	Request mapping.Request
	// Slide is the 1-based slide the image goes on.
	Slide int
	// Target is a concrete slot.Slot or slot.Freeform, never nil.
	Target slot.Target
	// Fallback is set when the requested slide or slot could not be used.
	Fallback bool
	// Spilled is set when Slide was appended for this request.
	Spilled bool
}

// Tracked reports whether the assignment occupies an eligible slot.
func (a Assignment) Tracked() bool {
	_, ok := a.Target.(slot.Slot)
	return ok
}

func (a Assignment) String() string {
	return fmt.Sprintf("image %d -> slide %d %s", a.Request.Image, a.Slide, a.Target)
}

// Failure is a request that could not be placed.
type Failure struct {
	Index   int
	Request mapping.Request
	// Resolved is set when the request was resolved but its placement
	// failed. Slide and Target are then those of the attempted assignment.
	Resolved bool
	Slide    int
	Target   slot.Target
	Err      error
}

func (f Failure) Error() string {
	return fmt.Sprintf("request %d (%s): %v", f.Index+1, f.Request, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// Outcome collects the result of one run.
type Outcome struct {
	Assignments []Assignment
	Failures    []Failure
	// Appended counts slides added by spillover.
	Appended int
}

// PlaceFunc performs the placement of a resolved assignment. An error leaves
// the occupancy table unchanged for that request.
type PlaceFunc func(ctx context.Context, a Assignment) error

// Resolver resolves requests against one deck and occupancy table.
// It is single-use per run and not safe for concurrent use.
type Resolver struct {
	deck   Deck
	table  *occupancy.Table
	images int
	logger *log.Logger
}

// New creates a resolver. images is the size of the image catalogue; request
// image numbers must fall in 1..images. A nil logger discards output.
func New(deck Deck, table *occupancy.Table, images int, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Resolver{deck: deck, table: table, images: images, logger: logger}
}

// Table returns the occupancy table the resolver commits to.
func (r *Resolver) Table() *occupancy.Table { return r.table }

// Resolve picks the slide and target for req without marking occupancy.
// It may append a slide to the deck when every candidate is full.
func (r *Resolver) Resolve(req mapping.Request) (Assignment, error) {
	a := Assignment{Request: req}

	if req.Image < 1 || req.Image > r.images {
		return a, errors.New(errors.ErrCodeInvalidReference,
			"image %d out of range (have %d images)", req.Image, r.images)
	}

	n := r.deck.SlideCount()
	switch t := req.Target.(type) {
	case slot.Freeform:
		a.Slide = 1
		if req.Slide != nil {
			a.Slide = *req.Slide
		}
		if a.Slide < 1 || a.Slide > n {
			return a, errors.New(errors.ErrCodeInvalidReference,
				"slide %d out of range (deck has %d slides)", a.Slide, n)
		}
		a.Target = t
		return a, nil

	case slot.Slot:
		if req.Slide != nil {
			s := *req.Slide
			if s < 1 || s > n {
				return a, errors.New(errors.ErrCodeInvalidReference,
					"slide %d out of range (deck has %d slides)", s, n)
			}
			if !r.table.IsOccupied(s, t) {
				a.Slide, a.Target = s, t
				return a, nil
			}
			a.Fallback = true
			if next, ok := r.table.NextAvailable(s); ok {
				r.logger.Debug("slot taken, using next free slot", "slide", s, "requested", t, "position", next)
				a.Slide, a.Target = s, next
				return a, nil
			}
			r.logger.Debug("slide full, searching deck", "slide", s)
			return r.firstFree(a)
		}
		got, err := r.firstFree(a)
		if err == nil && got.Target != t {
			r.logger.Debug("slot ignored on automatic slide", "requested", t, "slide", got.Slide, "position", got.Target)
			got.Fallback = true
		}
		return got, err

	case nil:
		if req.Slide != nil {
			s := *req.Slide
			if s >= 1 && s <= n {
				if next, ok := r.table.NextAvailable(s); ok {
					a.Slide, a.Target = s, next
					return a, nil
				}
			}
			r.logger.Debug("requested slide unavailable, searching deck", "slide", s, "slides", n)
			a.Fallback = true
		}
		return r.firstFree(a)
	}

	return a, errors.New(errors.ErrCodeInternal, "unknown target type %T", req.Target)
}

// firstFree scans existing slides in order and spills into a new slide when
// all are full.
func (r *Resolver) firstFree(a Assignment) (Assignment, error) {
	n := r.deck.SlideCount()
	for s := 1; s <= n; s++ {
		if next, ok := r.table.NextAvailable(s); ok {
			a.Slide, a.Target = s, next
			return a, nil
		}
	}

	s, err := r.deck.AppendSlide()
	if err != nil {
		return a, errors.Wrap(errors.ErrCodePlacementFailed, err, "append slide")
	}
	if s != n+1 {
		return a, errors.New(errors.ErrCodeInternal, "deck appended slide %d, want %d", s, n+1)
	}
	r.logger.Debug("appended slide", "slide", s)
	a.Slide, a.Target, a.Spilled = s, slot.Preference[0], true
	return a, nil
}

// Commit marks the assignment's slot as occupied. Freeform assignments are
// not tracked.
func (r *Resolver) Commit(a Assignment) {
	if s, ok := a.Target.(slot.Slot); ok {
		r.table.Occupy(a.Slide, s)
	}
}

// Run resolves reqs in order. For each resolved request, place is called
// (when non-nil) and the assignment is committed only if it succeeds.
// Per-request errors are collected in the outcome; Run itself fails only
// when ctx is cancelled.
func (r *Resolver) Run(ctx context.Context, reqs []mapping.Request, place PlaceFunc) (*Outcome, error) {
	out := &Outcome{}
	for i, req := range reqs {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		a, err := r.Resolve(req)
		a.Index = i
		if a.Spilled {
			out.Appended++
		}
		if err != nil {
			r.logger.Warn("skipping request", "index", i+1, "image", req.Image, "error", err)
			out.Failures = append(out.Failures, Failure{Index: i, Request: req, Err: err})
			continue
		}

		if place != nil {
			if err := place(ctx, a); err != nil {
				if errors.GetCode(err) == "" {
					err = errors.Wrap(errors.ErrCodePlacementFailed, err, "place image %d", req.Image)
				}
				r.logger.Warn("placement failed", "index", i+1, "image", req.Image, "slide", a.Slide, "error", err)
				out.Failures = append(out.Failures, Failure{
					Index: i, Request: req,
					Resolved: true, Slide: a.Slide, Target: a.Target,
					Err: err,
				})
				continue
			}
		}

		r.Commit(a)
		r.logger.Debug("placed", "image", req.Image, "slide", a.Slide, "position", a.Target, "fallback", a.Fallback)
		out.Assignments = append(out.Assignments, a)
	}
	return out, nil
}

// Plan resolves and commits reqs without placing anything.
func (r *Resolver) Plan(ctx context.Context, reqs []mapping.Request) (*Outcome, error) {
	return r.Run(ctx, reqs, nil)
}
