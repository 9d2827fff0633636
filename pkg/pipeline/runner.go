package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/slideslot/pkg/alloc"
	"github.com/matzehuels/slideslot/pkg/docx"
	"github.com/matzehuels/slideslot/pkg/images"
	"github.com/matzehuels/slideslot/pkg/mapping"
	"github.com/matzehuels/slideslot/pkg/observability"
)

// Runner encapsulates pipeline execution.
//
// The Runner is stateless except for the logger - every run builds its own
// deck, occupancy table, and resolver and discards them afterwards. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. A nil logger uses the default logger.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs the complete ingest → scan → place → write pipeline.
//
// Per-request problems are collected in the result. Execute fails only for
// problems that affect the whole run: an unreadable mapping, catalogue, or
// deck, a cancelled context, or a failed artifact write. A cancelled run
// writes nothing.
func (r *Runner) Execute(ctx context.Context, opts Options) (res *Result, err error) {
	r.applyLogger(&opts.Logger)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	start := time.Now()
	res = &Result{RunID: uuid.NewString()}
	logger := opts.Logger.With("run", shortID(res.RunID))
	defer func() {
		res.Stats.TotalTime = time.Since(start)
		observability.Pipeline().OnRunComplete(ctx, res.RunID, res.Stats.Placed, res.Stats.Failed, res.Stats.TotalTime, err)
	}()

	// Stage 1: Ingest
	batch, err := r.ingest(ctx, opts.Mapping, opts.Format, res)
	if err != nil {
		return res, fmt.Errorf("ingest: %w", err)
	}
	logger.Info("read mapping",
		"format", batch.Format,
		"records", len(batch.Requests),
		"skipped", len(batch.Skipped),
		"duration", res.Stats.IngestTime)
	for _, e := range batch.Skipped {
		logger.Warn("skipped record", "error", e)
	}

	cat, err := images.Load(opts.ImagesDir)
	if err != nil {
		return res, fmt.Errorf("catalogue: %w", err)
	}
	res.Images = cat
	logger.Debug("loaded image catalogue", "dir", opts.ImagesDir, "images", cat.Len())

	// Stage 2: Scan
	d, table, err := r.openDeck(ctx, opts.Deck, opts.Canvas, opts.DPI, 1, res)
	if err != nil {
		return res, fmt.Errorf("scan: %w", err)
	}

	// Stage 3: Resolve and place
	reqs := withDefaultSize(batch.Requests, opts.Width, opts.Height)
	resolver := alloc.New(d, table, cat.Len(), logger)
	placeStart := time.Now()
	out, err := resolver.Run(ctx, reqs, r.placer(d, cat, opts.Canvas, res))
	res.Stats.PlaceTime = time.Since(placeStart)
	if err != nil {
		return res, err
	}
	r.collect(ctx, res, out, d.SlideCount(), table)
	logger.Info("placed images",
		"placed", res.Stats.Placed,
		"failed", res.Stats.Failed,
		"slides", res.Slides,
		"duration", res.Stats.PlaceTime)

	// Stage 4: Write
	if err := r.write(opts.Output, res); err != nil {
		return res, err
	}
	logger.Info("wrote placements", "path", res.Output)
	return res, nil
}

// Plan extracts a mapping from a Word document and resolves it without
// placing anything. The resolved mapping is written to opts.Output with a
// fixed slide and position per image. With opts.ImagesDir set, the
// document's text references are planned against that catalogue instead of
// its embedded images.
func (r *Runner) Plan(ctx context.Context, opts PlanOptions) (res *Result, err error) {
	r.applyLogger(&opts.Logger)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	start := time.Now()
	res = &Result{RunID: uuid.NewString(), Format: mapping.FormatJSON}
	logger := opts.Logger.With("run", shortID(res.RunID))
	defer func() {
		res.Stats.TotalTime = time.Since(start)
		observability.Pipeline().OnRunComplete(ctx, res.RunID, res.Stats.Placed, res.Stats.Failed, res.Stats.TotalTime, err)
	}()

	// Stage 1: Extract
	observability.Pipeline().OnIngestStart(ctx, opts.Document)
	ingestStart := time.Now()
	doc, imgs, reqs, err := r.readDocument(opts)
	res.Stats.IngestTime = time.Since(ingestStart)
	observability.Pipeline().OnIngestComplete(ctx, "docx", len(reqs), 0, res.Stats.IngestTime, err)
	if err != nil {
		return res, fmt.Errorf("extract: %w", err)
	}
	res.Images = imgs
	res.Warnings = doc.Warnings
	res.Stats.Requests = len(reqs)
	if opts.ImagesDir != "" {
		logger.Info("read image references",
			"lists", len(doc.References),
			"requests", len(reqs),
			"images", len(imgs),
			"dir", opts.ImagesDir,
			"duration", res.Stats.IngestTime)
	} else {
		logger.Info("extracted images",
			"sections", len(doc.Sections),
			"images", len(imgs),
			"dir", opts.ExtractDir,
			"duration", res.Stats.IngestTime)
	}
	for _, w := range doc.Warnings {
		logger.Warn("skipped image", "reason", w)
	}

	// Stage 2: Scan
	slides := max(doc.MaxSlide(), 1)
	d, table, err := r.openDeck(ctx, opts.Deck, opts.Canvas, 0, slides, res)
	if err != nil {
		return res, fmt.Errorf("scan: %w", err)
	}

	// Stage 3: Resolve
	resolver := alloc.New(d, table, len(imgs), logger)
	placeStart := time.Now()
	out, err := resolver.Run(ctx, reqs, r.planner(opts.Canvas, imgs, res))
	res.Stats.PlaceTime = time.Since(placeStart)
	if err != nil {
		return res, err
	}
	r.collect(ctx, res, out, d.SlideCount(), table)
	logger.Info("planned placements",
		"placed", res.Stats.Placed,
		"failed", res.Stats.Failed,
		"slides", res.Slides)

	// Stage 4: Write
	if err := r.write(opts.Output, res); err != nil {
		return res, err
	}
	logger.Info("wrote mapping", "path", res.Output)
	return res, nil
}

// readDocument returns the document, the image catalogue its requests index
// and the requests themselves.
func (r *Runner) readDocument(opts PlanOptions) (*docx.Document, []string, []mapping.Request, error) {
	if opts.ImagesDir == "" {
		doc, err := docx.Extract(opts.Document, opts.ExtractDir)
		if err != nil {
			return nil, nil, nil, err
		}
		return doc, doc.Images, doc.Requests(opts.Width, opts.Height), nil
	}

	cat, err := images.Load(opts.ImagesDir)
	if err != nil {
		return nil, nil, nil, err
	}
	doc, err := docx.Parse(opts.Document)
	if err != nil {
		return nil, nil, nil, err
	}
	return doc, cat, doc.ReferenceRequests(opts.Width, opts.Height), nil
}

// applyLogger falls back to the runner's logger when the options carry none.
func (r *Runner) applyLogger(l **log.Logger) {
	if *l == nil {
		*l = r.Logger
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// withDefaultSize attaches w × h to requests that carry neither width nor
// height. Zero leaves the requests unchanged.
func withDefaultSize(reqs []mapping.Request, w, h float64) []mapping.Request {
	if w <= 0 || h <= 0 {
		return reqs
	}
	out := make([]mapping.Request, len(reqs))
	for i, req := range reqs {
		if req.Geometry.Width == nil && req.Geometry.Height == nil {
			req.Geometry.Width = &w
			req.Geometry.Height = &h
		}
		out[i] = req
	}
	return out
}
