package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/slideslot/pkg/deck"
	"github.com/matzehuels/slideslot/pkg/geometry"
	"github.com/matzehuels/slideslot/pkg/mapping"
	"github.com/matzehuels/slideslot/pkg/observability"
	"github.com/matzehuels/slideslot/pkg/occupancy"
	"github.com/matzehuels/slideslot/pkg/pptx"
	"github.com/matzehuels/slideslot/pkg/scan"
)

// ingest reads the mapping file and records ingest stats on res.
func (r *Runner) ingest(ctx context.Context, path string, format mapping.Format, res *Result) (*mapping.Batch, error) {
	observability.Pipeline().OnIngestStart(ctx, path)
	start := time.Now()

	batch, err := mapping.ReadFile(path, format)
	res.Stats.IngestTime = time.Since(start)
	if err != nil {
		observability.Pipeline().OnIngestComplete(ctx, string(format), 0, 0, res.Stats.IngestTime, err)
		return nil, err
	}
	observability.Pipeline().OnIngestComplete(ctx, string(batch.Format), len(batch.Requests), len(batch.Skipped), res.Stats.IngestTime, nil)

	res.Format = batch.Format
	res.Skipped = batch.Skipped
	res.Stats.Requests = len(batch.Requests)
	res.Stats.Skipped = len(batch.Skipped)
	return batch, nil
}

// openDeck builds the in-memory deck and its occupancy table. With an
// existing presentation the deck mirrors its slide count and the table is
// seeded from its pictures; otherwise the deck starts with blank slides.
func (r *Runner) openDeck(ctx context.Context, path string, canvas geometry.Canvas, dpi float64, blank int, res *Result) (*deck.Memory, *occupancy.Table, error) {
	table := occupancy.New()
	if path == "" {
		return deck.NewMemory(blank, dpi), table, nil
	}

	start := time.Now()
	src, err := pptx.Open(path)
	res.Stats.ScanTime = time.Since(start)
	if err != nil {
		observability.Pipeline().OnScanComplete(ctx, 0, 0, res.Stats.ScanTime, err)
		return nil, nil, err
	}
	res.Observations = scan.Seed(table, canvas, src.Pictures)
	observability.Pipeline().OnScanComplete(ctx, src.Slides, len(src.Pictures), res.Stats.ScanTime, nil)

	return deck.NewMemory(src.Slides, dpi), table, nil
}
