package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/matzehuels/slideslot/pkg/alloc"
	"github.com/matzehuels/slideslot/pkg/deck"
	"github.com/matzehuels/slideslot/pkg/geometry"
	"github.com/matzehuels/slideslot/pkg/images"
	"github.com/matzehuels/slideslot/pkg/mapping"
	"github.com/matzehuels/slideslot/pkg/observability"
	"github.com/matzehuels/slideslot/pkg/occupancy"
	"github.com/matzehuels/slideslot/pkg/slot"
)

// placer returns the placement callback of a placement run: locate the rect
// on the canvas, measuring first when needed, then place once.
func (r *Runner) placer(d *deck.Memory, cat images.Catalog, canvas geometry.Canvas, res *Result) alloc.PlaceFunc {
	return func(ctx context.Context, a alloc.Assignment) (err error) {
		defer func() {
			observability.Pipeline().OnPlacement(ctx, a.Request.Image, a.Slide, a.Target.String(), err)
		}()
		if a.Spilled {
			observability.Deck().OnSlideAppended(ctx, a.Slide)
		}

		path, err := cat.Path(a.Request.Image)
		if err != nil {
			return err
		}
		rect, err := canvas.Locate(ctx, a.Target, a.Request.Geometry, path, d)
		if err != nil {
			return fmt.Errorf("locate: %w", err)
		}
		p, err := d.Place(ctx, a.Slide, path, rect)
		if err != nil {
			return err
		}
		res.Placements = append(res.Placements, Placement{Assignment: a, Image: p.Image, Rect: p.Rect})
		return nil
	}
}

// planner returns the callback of a planning run. Nothing is drawn; rects
// carry the requested size only.
func (r *Runner) planner(canvas geometry.Canvas, imgs []string, res *Result) alloc.PlaceFunc {
	return func(ctx context.Context, a alloc.Assignment) (err error) {
		defer func() {
			observability.Pipeline().OnPlacement(ctx, a.Request.Image, a.Slide, a.Target.String(), err)
		}()

		image := imgs[a.Request.Image-1]
		rect, err := canvas.Locate(ctx, a.Target, a.Request.Geometry, image, nil)
		if err != nil {
			return fmt.Errorf("locate: %w", err)
		}
		res.Placements = append(res.Placements, Placement{Assignment: a, Image: image, Rect: rect})
		return nil
	}
}

// collect copies the resolver outcome and the final occupancy onto res.
func (r *Runner) collect(ctx context.Context, res *Result, out *alloc.Outcome, slides int, table *occupancy.Table) {
	// placement failures were already reported by the callback
	for _, f := range out.Failures {
		if !f.Resolved {
			observability.Pipeline().OnPlacement(ctx, f.Request.Image, 0, slot.TargetName(f.Request.Target), f.Err)
		}
	}
	res.Failures = out.Failures
	res.Report = table.Report()
	res.Slides = slides
	res.Stats.Placed = len(res.Placements)
	res.Stats.Failed = len(out.Failures)
	res.Stats.Appended = out.Appended
}

// write emits the placements as a mapping file. The format follows the
// output extension and defaults to JSON.
func (r *Runner) write(path string, res *Result) error {
	format, err := mapping.DetectFormat(path)
	if err != nil {
		format = mapping.FormatJSON
	}

	reqs := make([]mapping.Request, len(res.Placements))
	for i, p := range res.Placements {
		reqs[i] = p.Request()
	}
	if err := mapping.WriteFile(path, format, reqs); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	res.Output = path
	return nil
}
