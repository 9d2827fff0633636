package pipeline

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/slideslot/pkg/alloc"
	"github.com/matzehuels/slideslot/pkg/errors"
	"github.com/matzehuels/slideslot/pkg/geometry"
	"github.com/matzehuels/slideslot/pkg/mapping"
	"github.com/matzehuels/slideslot/pkg/slot"
)

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	opts := Options{Mapping: "mapping.csv"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}

	if opts.ImagesDir != DefaultImagesDir {
		t.Errorf("ImagesDir = %q, want %q", opts.ImagesDir, DefaultImagesDir)
	}
	if opts.Output != DefaultOutput {
		t.Errorf("Output = %q, want %q", opts.Output, DefaultOutput)
	}
	if opts.DPI != DefaultDPI {
		t.Errorf("DPI = %v, want %v", opts.DPI, DefaultDPI)
	}
	if opts.Canvas != DefaultCanvas {
		t.Errorf("Canvas = %+v, want %+v", opts.Canvas, DefaultCanvas)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	// Idempotent
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call: %v", err)
	}
}

func TestOptionsValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"missing mapping", Options{}, errors.ErrCodeInvalidInput},
		{"bad format", Options{Mapping: "m", Format: "docx"}, errors.ErrCodeUnsupportedFormat},
		{"width only", Options{Mapping: "m", Width: 3}, errors.ErrCodeInvalidInput},
		{"negative size", Options{Mapping: "m", Width: -3, Height: 2}, errors.ErrCodeInvalidInput},
		{"negative dpi", Options{Mapping: "m", DPI: -1}, errors.ErrCodeInvalidInput},
		{"half canvas", Options{Mapping: "m", Canvas: geometry.Canvas{Width: 10}}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %v", err, tt.code)
			}
		})
	}
}

func TestOptionsFormatNormalized(t *testing.T) {
	opts := Options{Mapping: "m", Format: "TXT"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Format != mapping.FormatText {
		t.Errorf("Format = %q, want %q", opts.Format, mapping.FormatText)
	}
}

func TestPlanOptionsDefaults(t *testing.T) {
	opts := PlanOptions{Document: "doc.docx"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Width != DefaultPlanWidth || opts.Height != DefaultPlanHeight {
		t.Errorf("size = %vx%v, want %vx%v", opts.Width, opts.Height, DefaultPlanWidth, DefaultPlanHeight)
	}
	if opts.ExtractDir != DefaultExtractDir || opts.Output != DefaultPlanOutput {
		t.Errorf("ExtractDir = %q, Output = %q", opts.ExtractDir, opts.Output)
	}

	refs := PlanOptions{Document: "doc.docx", ImagesDir: "images"}
	if err := refs.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if refs.ExtractDir != "" {
		t.Errorf("ExtractDir = %q, want none with ImagesDir", refs.ExtractDir)
	}

	if err := (&PlanOptions{}).ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("missing document error = %v", err)
	}
}

func TestWithDefaultSize(t *testing.T) {
	reqs := []mapping.Request{
		{Image: 1},
		{Image: 2, Geometry: slot.Geometry{Width: slot.Float(1)}},
		{Image: 3, Geometry: slot.Geometry{Width: slot.Float(4), Height: slot.Float(4)}},
	}

	got := withDefaultSize(reqs, 3, 2)
	if w, h, ok := got[0].Geometry.Size(); !ok || w != 3 || h != 2 {
		t.Errorf("request 1 size = %v, %v, %v; want 3x2", w, h, ok)
	}
	if got[1].Geometry.Height != nil {
		t.Error("request 2 has a partial size and should be left alone")
	}
	if w, _, _ := got[2].Geometry.Size(); w != 4 {
		t.Errorf("request 3 width = %v, want 4", w)
	}
	if reqs[0].Geometry.Width != nil {
		t.Error("withDefaultSize must not modify its input")
	}

	if same := withDefaultSize(reqs, 0, 0); &same[0] != &reqs[0] {
		t.Error("zero size should return the input unchanged")
	}
}

func TestPlacementRequest(t *testing.T) {
	p := Placement{
		Assignment: alloc.Assignment{
			Request: mapping.Request{Image: 4},
			Slide:   2,
			Target:  slot.Freeform{Mode: slot.Custom},
		},
		Rect: geometry.Rect{Left: 1.5, Top: 2, Width: 3, Height: 2},
	}
	req := p.Request()
	if req.String() != "4:2:custom:1.5:2:3:2" {
		t.Errorf("Request() = %s", req)
	}

	p.Target = slot.TopRight
	if req := p.Request(); req.String() != "4:2:top-right:::3:2" {
		t.Errorf("Request() = %s", req)
	}
}

// =============================================================================
// End-to-end fixtures
// =============================================================================

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewGray(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
}

// imageDir writes n 144×72 pixel images named img_01.png ...
func imageDir(t *testing.T, n int) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "images")
	if err := os.Mkdir(dir, 0755); err != nil {
		t.Fatal(err)
	}
	for i := 1; i <= n; i++ {
		writePNG(t, filepath.Join(dir, fmt.Sprintf("img_%02d.png", i)), 144, 72)
	}
	return dir
}

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}

// writeDeck writes a two-slide presentation with a picture in the
// bottom-left of slide 1 and one in the top-left of slide 2.
func writeDeck(t *testing.T, path string) {
	t.Helper()
	slide := func(x, y int) string {
		return fmt.Sprintf(`<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" `+
			`xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:cSld><p:spTree>`+
			`<p:pic><p:nvPicPr><p:cNvPr id="2" name="Existing"/></p:nvPicPr>`+
			`<p:spPr><a:xfrm><a:off x="%d" y="%d"/></a:xfrm></p:spPr></p:pic>`+
			`</p:spTree></p:cSld></p:sld>`, x, y)
	}
	writeZip(t, path, map[string]string{
		"ppt/slides/slide1.xml": slide(457200, 4572000),
		"ppt/slides/slide2.xml": slide(457200, 457200),
	})
}

func TestExecute(t *testing.T) {
	imgs := imageDir(t, 4)
	dir := t.TempDir()
	mappingPath := filepath.Join(dir, "mapping.txt")
	content := "# sample\n" +
		"1\n" +
		"abc:1:bottom-left\n" +
		"2:1:bottom-left:::3:2\n" +
		"3:auto:center\n" +
		"9\n" +
		"4:auto:top-right\n"
	if err := os.WriteFile(mappingPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(dir, "out", "placements.json")
	if err := os.Mkdir(filepath.Dir(output), 0755); err != nil {
		t.Fatal(err)
	}

	res, err := NewRunner(nil).Execute(context.Background(), Options{
		Mapping:   mappingPath,
		ImagesDir: imgs,
		Output:    output,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if res.RunID == "" {
		t.Error("RunID should be set")
	}
	if res.Format != mapping.FormatText {
		t.Errorf("Format = %q, want text", res.Format)
	}
	if res.Stats.Requests != 5 || res.Stats.Skipped != 1 {
		t.Errorf("Requests = %d, Skipped = %d; want 5, 1", res.Stats.Requests, res.Stats.Skipped)
	}
	if res.Stats.Placed != 4 || res.Stats.Failed != 1 {
		t.Errorf("Placed = %d, Failed = %d; want 4, 1", res.Stats.Placed, res.Stats.Failed)
	}
	if !errors.Is(res.Failures[0].Err, errors.ErrCodeInvalidReference) {
		t.Errorf("failure = %v, want invalid reference", res.Failures[0].Err)
	}

	type want struct {
		slide       int
		target      slot.Target
		left, top   float64
		width, height float64
	}
	wants := []want{
		{1, slot.BottomLeft, 0.5, 5, 2, 1},
		{1, slot.BottomRight, 6, 5, 3, 2},
		{1, slot.Freeform{Mode: slot.Center}, 4, 3.25, 2, 1},
		{1, slot.TopRight, 6, 0.5, 2, 1},
	}
	for i, w := range wants {
		p := res.Placements[i]
		got := want{p.Slide, p.Target, p.Rect.Left, p.Rect.Top, p.Rect.Width, p.Rect.Height}
		if got != w {
			t.Errorf("placement %d = %+v, want %+v", i, got, w)
		}
	}

	if res.Slides != 1 {
		t.Errorf("Slides = %d, want 1", res.Slides)
	}
	if len(res.Report) != 1 || res.Report[0].Available != 0 {
		t.Errorf("Report = %+v, want slide 1 full", res.Report)
	}

	// The artifact is itself a valid mapping.
	batch, err := mapping.ReadFile(output, "")
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if len(batch.Requests) != 4 {
		t.Fatalf("artifact has %d records, want 4", len(batch.Requests))
	}
	if got := batch.Requests[1].String(); got != "2:1:bottom-right:::3:2" {
		t.Errorf("artifact record 2 = %s", got)
	}
}

func TestExecuteWithDeck(t *testing.T) {
	imgs := imageDir(t, 2)
	dir := t.TempDir()
	deckPath := filepath.Join(dir, "deck.pptx")
	writeDeck(t, deckPath)

	mappingPath := filepath.Join(dir, "mapping.csv")
	csv := "image_number,slide_number,position\n5,1,bottom-left\n1,1,bottom-left\n2,2,auto\n"
	if err := os.WriteFile(mappingPath, []byte(csv), 0644); err != nil {
		t.Fatal(err)
	}

	res, err := NewRunner(nil).Execute(context.Background(), Options{
		Mapping:   mappingPath,
		ImagesDir: imgs,
		Deck:      deckPath,
		Output:    filepath.Join(dir, "placements.json"),
		Width:     3,
		Height:    2,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(res.Observations) != 2 {
		t.Fatalf("Observations = %v, want 2", res.Observations)
	}
	if res.Stats.Failed != 1 {
		t.Errorf("Failed = %d, want 1 (image 5 does not exist)", res.Stats.Failed)
	}
	if len(res.Placements) != 2 {
		t.Fatalf("Placements = %v, want 2", res.Placements)
	}

	// The existing bottom-left picture pushes image 1 along; the top-left
	// picture on slide 2 blocks nothing.
	if p := res.Placements[0]; p.Slide != 1 || p.Target != slot.BottomRight || !p.Fallback {
		t.Errorf("placement 1 = slide %d %v (fallback %v), want slide 1 bottom-right", p.Slide, p.Target, p.Fallback)
	}
	if p := res.Placements[1]; p.Slide != 2 || p.Target != slot.BottomLeft {
		t.Errorf("placement 2 = slide %d %v, want slide 2 bottom-left", p.Slide, p.Target)
	}
	if p := res.Placements[1]; p.Rect.Width != 3 || p.Rect.Height != 2 {
		t.Errorf("default size not applied: %+v", p.Rect)
	}
}

func TestExecuteCancelledWritesNothing(t *testing.T) {
	imgs := imageDir(t, 1)
	dir := t.TempDir()
	mappingPath := filepath.Join(dir, "mapping.json")
	if err := os.WriteFile(mappingPath, []byte(`[{"image_number": 1}]`), 0644); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(dir, "placements.json")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRunner(nil).Execute(ctx, Options{Mapping: mappingPath, ImagesDir: imgs, Output: output})
	if err != context.Canceled {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Errorf("artifact should not exist after cancellation, stat err = %v", err)
	}
}

func TestExecuteStructuralError(t *testing.T) {
	dir := t.TempDir()
	mappingPath := filepath.Join(dir, "mapping.json")
	if err := os.WriteFile(mappingPath, []byte(`[{"slide_number": 1}]`), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := NewRunner(nil).Execute(context.Background(), Options{Mapping: mappingPath, ImagesDir: dir})
	if !errors.Is(err, errors.ErrCodeInvalidMapping) {
		t.Errorf("err = %v, want %v", err, errors.ErrCodeInvalidMapping)
	}
}

func TestPlan(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "notes.docx")

	para := func(text string) string { return `<w:p><w:r><w:t>` + text + `</w:t></w:r></w:p>` }
	pic := `<w:p><w:r><w:drawing><a:blip r:embed="rId1"/></w:drawing></w:r></w:p>`
	body := para("Slide 1") + pic + pic + pic + pic + para("Slide 2") + pic

	writeZip(t, doc, map[string]string{
		"word/document.xml": `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" ` +
			`xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
			`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><w:body>` + body + `</w:body></w:document>`,
		"word/_rels/document.xml.rels": `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="rId1" Target="media/image1.png"/></Relationships>`,
		"word/media/image1.png": "png",
	})

	output := filepath.Join(dir, "mapping.json")
	res, err := NewRunner(nil).Plan(context.Background(), PlanOptions{
		Document:   doc,
		ExtractDir: filepath.Join(dir, "extracted"),
		Output:     output,
	})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	if len(res.Images) != 5 {
		t.Fatalf("Images = %v, want 5", res.Images)
	}

	// Slide 1 overflows into slide 2, whose own image takes the next slot.
	wants := []struct {
		slide  int
		target slot.Slot
	}{
		{1, slot.BottomLeft},
		{1, slot.BottomRight},
		{1, slot.TopRight},
		{2, slot.BottomLeft},
		{2, slot.BottomRight},
	}
	for i, w := range wants {
		p := res.Placements[i]
		if p.Slide != w.slide || p.Target != w.target {
			t.Errorf("placement %d = slide %d %v, want slide %d %v", i, p.Slide, p.Target, w.slide, w.target)
		}
	}
	if res.Slides != 2 {
		t.Errorf("Slides = %d, want 2", res.Slides)
	}

	batch, err := mapping.ReadFile(output, "")
	if err != nil {
		t.Fatalf("read plan: %v", err)
	}
	if got := batch.Requests[3].String(); got != "4:2:bottom-left:::3:2" {
		t.Errorf("planned record 4 = %s", got)
	}
}

func TestPlanImageReferences(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "notes.docx")
	imgs := imageDir(t, 4)

	para := func(text string) string { return `<w:p><w:r><w:t>` + text + `</w:t></w:r></w:p>` }
	pic := `<w:p><w:r><w:drawing><a:blip r:embed="rId1"/></w:drawing></w:r></w:p>`
	body := para("Slide 1") + para("Images: 1-3") + pic + para("Slide 2") + para("photo: 4, 9")

	writeZip(t, doc, map[string]string{
		"word/document.xml": `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" ` +
			`xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
			`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><w:body>` + body + `</w:body></w:document>`,
		"word/_rels/document.xml.rels": `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="rId1" Target="media/image1.png"/></Relationships>`,
		"word/media/image1.png": "png",
	})

	output := filepath.Join(dir, "mapping.csv")
	res, err := NewRunner(nil).Plan(context.Background(), PlanOptions{
		Document:  doc,
		ImagesDir: imgs,
		Output:    output,
	})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	if len(res.Images) != 4 || filepath.Dir(res.Images[0]) != imgs {
		t.Errorf("Images = %v, want the 4 catalogue images", res.Images)
	}
	wants := []struct {
		image  int
		slide  int
		target slot.Slot
	}{
		{1, 1, slot.BottomLeft},
		{2, 1, slot.BottomRight},
		{3, 1, slot.TopRight},
		{4, 2, slot.BottomLeft},
	}
	if len(res.Placements) != len(wants) {
		t.Fatalf("Placements = %v, want %d", res.Placements, len(wants))
	}
	for i, w := range wants {
		p := res.Placements[i]
		if p.Assignment.Request.Image != w.image || p.Slide != w.slide || p.Target != w.target {
			t.Errorf("placement %d = image %d slide %d %v, want image %d slide %d %v",
				i, p.Assignment.Request.Image, p.Slide, p.Target, w.image, w.slide, w.target)
		}
	}

	// image 9 is not in the catalogue
	if len(res.Failures) != 1 || !errors.Is(res.Failures[0].Err, errors.ErrCodeInvalidReference) {
		t.Errorf("Failures = %v, want one invalid reference", res.Failures)
	}

	batch, err := mapping.ReadFile(output, "")
	if err != nil {
		t.Fatalf("read plan: %v", err)
	}
	if len(batch.Requests) != 4 {
		t.Errorf("plan has %d records, want 4", len(batch.Requests))
	}
}
