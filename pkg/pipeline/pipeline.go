// Package pipeline provides the placement pipeline for slideslot.
//
// This package implements the complete ingest → scan → resolve → place →
// write pipeline used by the CLI. By centralizing this logic, every entry
// point resolves requests the same way.
//
// # Architecture
//
// A placement run consists of these stages:
//
//  1. Ingest: Read the mapping file into an ordered request list
//  2. Scan: Open the target deck and seed slot occupancy from its pictures
//  3. Resolve and place: Assign each request a slide and slot, compute its
//     rect, and hand it to the drawing collaborator
//  4. Write: Emit the placement artifact once, atomically
//
// A planning run replaces ingest with extraction from a Word document and
// skips the drawing step.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(logger)
//	opts := pipeline.Options{
//	    Mapping:   "mapping.csv",
//	    ImagesDir: "images",
//	    Output:    "placements.json",
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Stats.Placed, "placed")
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/slideslot/pkg/alloc"
	"github.com/matzehuels/slideslot/pkg/errors"
	"github.com/matzehuels/slideslot/pkg/geometry"
	"github.com/matzehuels/slideslot/pkg/images"
	"github.com/matzehuels/slideslot/pkg/mapping"
	"github.com/matzehuels/slideslot/pkg/occupancy"
	"github.com/matzehuels/slideslot/pkg/scan"
	"github.com/matzehuels/slideslot/pkg/slot"
)

// =============================================================================
// Default Values - Single Source of Truth for the CLI
// =============================================================================

const (
	// DefaultImagesDir is the image catalogue directory.
	DefaultImagesDir = "."

	// DefaultOutput is the placement artifact written by Execute.
	DefaultOutput = "placements.json"

	// DefaultPlanOutput is the mapping written by Plan.
	DefaultPlanOutput = "mapping.json"

	// DefaultExtractDir receives images extracted by Plan.
	DefaultExtractDir = "extracted_images"

	// DefaultPlanWidth and DefaultPlanHeight size every planned image, in
	// inches.
	DefaultPlanWidth  = 3.0
	DefaultPlanHeight = 2.0

	// DefaultDPI converts pixel sizes to inches.
	DefaultDPI = images.DefaultDPI
)

// DefaultCanvas is the slide canvas used when none is configured.
var DefaultCanvas = geometry.DefaultCanvas

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a placement run.
type Options struct {
	// Mapping is the mapping file to read.
	Mapping string `json:"mapping"`
	// Format overrides extension-based format detection.
	Format mapping.Format `json:"format,omitempty"`
	// ImagesDir holds the image catalogue.
	ImagesDir string `json:"images_dir,omitempty"`
	// Deck is an existing presentation to seed occupancy from. Empty means
	// a new one-slide deck.
	Deck string `json:"deck,omitempty"`
	// Output is the placement artifact path.
	Output string `json:"output,omitempty"`

	Canvas geometry.Canvas `json:"canvas"`

	// Width and Height size requests that carry no explicit size. Zero
	// keeps the natural size.
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	DPI    float64 `json:"dpi,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// PlanOptions contains all configuration for a planning run.
type PlanOptions struct {
	// Document is the Word document to extract from.
	Document string `json:"document"`
	// ExtractDir receives the extracted images.
	ExtractDir string `json:"extract_dir,omitempty"`
	// ImagesDir, when set, switches to reference mode: the image lists in
	// the document text ("images: 1-3") are resolved against this
	// catalogue and embedded images are not extracted.
	ImagesDir string `json:"images_dir,omitempty"`
	// Deck is an existing presentation whose slides and pictures constrain
	// the plan. Empty means the deck has as many slides as the document
	// references.
	Deck string `json:"deck,omitempty"`
	// Output is the mapping file to write.
	Output string `json:"output,omitempty"`

	Canvas geometry.Canvas `json:"canvas"`
	Width  float64         `json:"width,omitempty"`
	Height float64         `json:"height,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in logs and hooks.
	RunID string

	// Format is the mapping format read, or FormatJSON for plans.
	Format mapping.Format

	// Placements are the successful placements in input order.
	Placements []Placement

	// Failures are requests that were skipped during resolution or
	// placement.
	Failures []alloc.Failure

	// Skipped are line-oriented records that could not be parsed.
	Skipped []error

	// Observations are the classified pictures of the input deck.
	Observations []scan.Observation

	// Report is the per-slide occupancy at the end of the run.
	Report []occupancy.SlideReport

	// Slides is the final slide count.
	Slides int

	// Images is the catalogue the requests were resolved against.
	Images []string

	// Warnings carries non-fatal extraction problems.
	Warnings []string

	// Output is the artifact path, empty when nothing was written.
	Output string

	// Stats contains timing and count information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Requests   int
	Placed     int
	Failed     int
	Skipped    int
	Appended   int
	IngestTime time.Duration
	ScanTime   time.Duration
	PlaceTime  time.Duration
	TotalTime  time.Duration
}

// Placement is one placed request.
type Placement struct {
	alloc.Assignment

	// Image is the path of the placed image.
	Image string

	// Rect is the final position and size in inches. A zero size means the
	// natural size was not known (plans only).
	Rect geometry.Rect
}

// Request renders the placement as a concrete mapping record: a fixed slide,
// a fixed position, and the final size.
func (p Placement) Request() mapping.Request {
	req := mapping.Request{
		Image:  p.Assignment.Request.Image,
		Slide:  mapping.SlideRef(p.Slide),
		Target: p.Target,
	}
	if f, ok := p.Target.(slot.Freeform); ok && f.Mode == slot.Custom {
		req.Geometry.Left = slot.Float(p.Rect.Left)
		req.Geometry.Top = slot.Float(p.Rect.Top)
	}
	if p.Rect.Sized() {
		req.Geometry.Width = slot.Float(p.Rect.Width)
		req.Geometry.Height = slot.Float(p.Rect.Height)
	}
	return req
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Mapping == "" {
		return errors.New(errors.ErrCodeInvalidInput, "mapping file is required")
	}
	if o.Format != "" {
		f, err := mapping.ParseFormat(string(o.Format))
		if err != nil {
			return err
		}
		o.Format = f
	}
	if o.ImagesDir == "" {
		o.ImagesDir = DefaultImagesDir
	}
	if o.Output == "" {
		o.Output = DefaultOutput
	}
	if o.DPI == 0 {
		o.DPI = DefaultDPI
	}
	if o.DPI < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "dpi must be positive, got %v", o.DPI)
	}
	if err := validateSize(o.Width, o.Height); err != nil {
		return err
	}
	if err := setCanvasDefaults(&o.Canvas); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults.
func (o *PlanOptions) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Document == "" {
		return errors.New(errors.ErrCodeInvalidInput, "document is required")
	}
	if o.ExtractDir == "" && o.ImagesDir == "" {
		o.ExtractDir = DefaultExtractDir
	}
	if o.Output == "" {
		o.Output = DefaultPlanOutput
	}
	if o.Width == 0 && o.Height == 0 {
		o.Width, o.Height = DefaultPlanWidth, DefaultPlanHeight
	}
	if err := validateSize(o.Width, o.Height); err != nil {
		return err
	}
	if err := setCanvasDefaults(&o.Canvas); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// validateSize requires width and height to be both set or both zero.
func validateSize(w, h float64) error {
	if w < 0 || h < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "width and height must not be negative")
	}
	if (w == 0) != (h == 0) {
		return errors.New(errors.ErrCodeInvalidInput, "width and height must be given together")
	}
	return nil
}

func setCanvasDefaults(c *geometry.Canvas) error {
	if c.Width == 0 && c.Height == 0 {
		*c = DefaultCanvas
		return nil
	}
	if c.Width <= 0 || c.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "canvas must be positive, got %vx%v", c.Width, c.Height)
	}
	return nil
}
