// Package pkg provides the core libraries for slideslot image placement.
//
// # Overview
//
// Slideslot assigns images to slides and to one of three fixed positions per
// slide (top-right, bottom-left, bottom-right) without letting two images
// share a position. Requests come from a mapping file and may pin a slide, a
// position, both, or neither. Pictures already on a deck block the positions
// they sit in. Freeform positions (top-left, center, custom) are placed as
// given and never reserve anything.
//
// # Architecture
//
// The typical data flow through slideslot:
//
//	Mapping file (JSON/YAML/TOML/CSV/XLSX/text)   Existing .pptx
//	         ↓                                          ↓
//	    [mapping] package (requests)              [pptx] + [scan] (seed occupancy)
//	         ↓                                          ↓
//	                 [alloc] package (slide + slot per request)
//	                          ↓
//	                 [geometry] package (inches on the canvas)
//	                          ↓
//	                 [deck] package (drawing collaborator)
//	                          ↓
//	                 placement artifact (a mapping file)
//
// # Quick Start
//
// Resolve a batch against a blank one-slide deck:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/slideslot/pkg/alloc"
//	    "github.com/matzehuels/slideslot/pkg/deck"
//	    "github.com/matzehuels/slideslot/pkg/mapping"
//	    "github.com/matzehuels/slideslot/pkg/occupancy"
//	)
//
//	// 1. Read requests
//	batch, _ := mapping.ReadFile("mapping.txt", "")
//
//	// 2. Resolve against a deck and an occupancy table
//	d := deck.NewMemory(1, 72)
//	r := alloc.New(d, occupancy.New(), 5, nil)
//	out, _ := r.Plan(context.Background(), batch.Requests)
//
//	// 3. Inspect the assignments
//	for _, a := range out.Assignments {
//	    fmt.Println(a)
//	}
//
// # Main Packages
//
// ## Core Domain Logic
//
// [slot] - The three eligible slots, their preference order, and the
// freeform modes that bypass collision tracking.
//
// [occupancy] - Per-slide record of occupied slots. Lookups on unknown slides
// report every slot as free.
//
// [alloc] - Ordered, stateful resolution of requests to concrete slides and
// slots, appending slides when every existing one is full.
//
// [geometry] - Canvas, anchors, and the conversion of an assignment into a
// rectangle in inches.
//
// ## Input and Output
//
// [mapping] - Reading and writing mapping files in the sequential, delimited,
// and line-oriented forms.
//
// [pptx] - Slide count and picture positions of an existing presentation.
//
// [scan] - Classification of existing pictures into quadrants.
//
// [docx] - Extraction of images and slide headings from a Word document.
//
// [images] - The ordered image catalogue and natural image sizes.
//
// [deck] - In-memory deck that measures and records placements.
//
// ## Orchestration
//
// [pipeline] - Complete ingest → scan → place → write run used by the CLI.
//
// [observability] - Hooks for metrics and tracing around pipeline stages.
//
// [errors] - Coded errors shared by every package.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/alloc/...              # Specific package
//	go test -run Example                 # Examples only
//
// [slot]: https://pkg.go.dev/github.com/matzehuels/slideslot/pkg/slot
// [occupancy]: https://pkg.go.dev/github.com/matzehuels/slideslot/pkg/occupancy
// [alloc]: https://pkg.go.dev/github.com/matzehuels/slideslot/pkg/alloc
// [geometry]: https://pkg.go.dev/github.com/matzehuels/slideslot/pkg/geometry
// [mapping]: https://pkg.go.dev/github.com/matzehuels/slideslot/pkg/mapping
// [pptx]: https://pkg.go.dev/github.com/matzehuels/slideslot/pkg/pptx
// [scan]: https://pkg.go.dev/github.com/matzehuels/slideslot/pkg/scan
// [docx]: https://pkg.go.dev/github.com/matzehuels/slideslot/pkg/docx
// [images]: https://pkg.go.dev/github.com/matzehuels/slideslot/pkg/images
// [deck]: https://pkg.go.dev/github.com/matzehuels/slideslot/pkg/deck
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/slideslot/pkg/pipeline
// [observability]: https://pkg.go.dev/github.com/matzehuels/slideslot/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/slideslot/pkg/errors
package pkg
