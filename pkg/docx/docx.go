// Package docx derives a placement mapping from a Word document.
//
// A document lists slide headings ("Slide: 1", "slide #2", "Page 3", ...)
// followed by the images meant for that slide. Extract walks the document
// body in order, writes every embedded image below a heading into an output
// directory as image_NNN.ext, and groups the images by slide. Table rows are
// scoped on their own: a heading in one cell applies to images in the
// following cells of the same row only.
//
// Images may also be referenced by number instead of embedded. The first
// line such as "images: 1-3, 5" or "photo: 2" after a heading lists images
// of an existing catalogue for that slide; see [ImageNumbers]. Parse reads
// only those references and writes nothing.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/matzehuels/slideslot/pkg/errors"
	"github.com/matzehuels/slideslot/pkg/images"
	"github.com/matzehuels/slideslot/pkg/mapping"
	"github.com/matzehuels/slideslot/pkg/slot"
)

// headingPatterns recognise slide headings, tried in order.
var headingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)slide\s*:?\s*(\d+)`),
	regexp.MustCompile(`(?i)slide\s*#\s*(\d+)`),
	regexp.MustCompile(`(?i)slide\s*number\s*:?\s*(\d+)`),
	regexp.MustCompile(`(?i)page\s*:?\s*(\d+)`),
	regexp.MustCompile(`(?i)pg\s*:?\s*(\d+)`),
}

// SlideNumber finds a slide heading in text.
func SlideNumber(text string) (int, bool) {
	for _, re := range headingPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 {
			continue
		}
		return n, true
	}
	return 0, false
}

// referencePatterns recognise image reference lists, tried in order.
var referencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)images?\s*:?\s*(\d+(?:\s*[-,]\s*\d+)*)`),
	regexp.MustCompile(`(?i)img\s*:?\s*(\d+(?:\s*[-,]\s*\d+)*)`),
	regexp.MustCompile(`(?i)pictures?\s*:?\s*(\d+(?:\s*[-,]\s*\d+)*)`),
	regexp.MustCompile(`(?i)photos?\s*:?\s*(\d+(?:\s*[-,]\s*\d+)*)`),
}

var rangeDash = regexp.MustCompile(`\s*-\s*`)

// maxRangeSpan bounds a single "a-b" range.
const maxRangeSpan = 1000

// ImageNumbers finds an image reference list in text and returns the listed
// image numbers, ascending and without duplicates. Ranges such as "1-3"
// are expanded in either direction.
func ImageNumbers(text string) ([]int, bool) {
	for _, re := range referencePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if nums := parseNumberList(m[1]); len(nums) > 0 {
			return nums, true
		}
	}
	return nil, false
}

// parseNumberList parses "1-3, 5 7" into [1 2 3 5 7]. Zero and malformed
// parts are ignored.
func parseNumberList(s string) []int {
	seen := make(map[int]bool)
	s = rangeDash.ReplaceAllString(strings.TrimSpace(s), "-")
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || unicode.IsSpace(r) }) {
		lo, hi, isRange := strings.Cut(part, "-")
		a, err := strconv.Atoi(lo)
		if err != nil {
			continue
		}
		b := a
		if isRange {
			if b, err = strconv.Atoi(hi); err != nil {
				continue
			}
		}
		if a > b {
			a, b = b, a
		}
		if b-a > maxRangeSpan {
			continue
		}
		for n := max(a, 1); n <= b; n++ {
			seen[n] = true
		}
	}

	out := make([]int, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// Image is one extracted image.
type Image struct {
	// Number is the 1-based extraction order, which is also the index of
	// the image in Document.Images.
	Number int
	Path   string
}

// Section groups the images found under one slide heading.
type Section struct {
	Slide  int
	Images []Image
}

// Reference lists catalogue images for one slide by number.
type Reference struct {
	Slide  int
	Images []int
}

// Document is the result of an extraction.
type Document struct {
	Sections []Section
	// References are the image lists found in the text, in document order.
	References []Reference
	// Images lists every extracted file in extraction order.
	Images []string
	// Warnings describes embedded images that could not be extracted.
	Warnings []string
}

// Requests flattens the sections into placement requests with an automatic
// slot. Positive width and height are attached to every request.
func (d *Document) Requests(width, height float64) []mapping.Request {
	var out []mapping.Request
	for _, sec := range d.Sections {
		for _, img := range sec.Images {
			out = append(out, request(img.Number, sec.Slide, width, height))
		}
	}
	return out
}

// ReferenceRequests flattens the text references like Requests. Image
// numbers index an existing catalogue rather than the extracted images.
func (d *Document) ReferenceRequests(width, height float64) []mapping.Request {
	var out []mapping.Request
	for _, ref := range d.References {
		for _, n := range ref.Images {
			out = append(out, request(n, ref.Slide, width, height))
		}
	}
	return out
}

func request(image, slide int, width, height float64) mapping.Request {
	req := mapping.Request{Image: image, Slide: mapping.SlideRef(slide)}
	if width > 0 && height > 0 {
		req.Geometry = slot.Geometry{Width: slot.Float(width), Height: slot.Float(height)}
	}
	return req
}

// MaxSlide returns the highest slide number referenced, or 0.
func (d *Document) MaxSlide() int {
	n := 0
	for _, sec := range d.Sections {
		n = max(n, sec.Slide)
	}
	for _, ref := range d.References {
		n = max(n, ref.Slide)
	}
	return n
}

// Extract reads the document at path and writes its images into outDir,
// which is created if needed.
func Extract(path, outDir string) (*Document, error) {
	if outDir == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "output directory is required")
	}
	return read(path, outDir)
}

// Parse reads the headings and image references of the document at path.
// Embedded images are not extracted.
func Parse(path string) (*Document, error) {
	return read(path, "")
}

func read(path, outDir string) (*Document, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "document %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "open DOCX %s", path)
	}
	defer zr.Close()

	fileIndex := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		fileIndex[f.Name] = f
	}

	docFile := fileIndex["word/document.xml"]
	if docFile == nil {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "word/document.xml not found in %s", path)
	}
	data, err := readFile(docFile)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "read document.xml")
	}
	rels, err := readRels(fileIndex["word/_rels/document.xml.rels"])
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "read document relationships")
	}

	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", outDir, err)
		}
	}

	x := &extractor{
		files:  fileIndex,
		rels:   rels,
		outDir: outDir,
		doc:    &Document{},
	}
	if err := x.walk(data); err != nil {
		return nil, err
	}
	return x.doc, nil
}

// relationship is one entry of a .rels part.
type relationship struct {
	ID         string `xml:"Id,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

type relationships struct {
	XMLName xml.Name       `xml:"Relationships"`
	Rels    []relationship `xml:"Relationship"`
}

func readRels(f *zip.File) (map[string]relationship, error) {
	out := make(map[string]relationship)
	if f == nil {
		return out, nil
	}
	data, err := readFile(f)
	if err != nil {
		return nil, err
	}
	var rels relationships
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil, err
	}
	for _, r := range rels.Rels {
		out[r.ID] = r
	}
	return out, nil
}

func readFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// block accumulates the text and image references of a paragraph or a
// table cell.
type block struct {
	text   strings.Builder
	embeds []string
}

func (b *block) reset() {
	b.text.Reset()
	b.embeds = b.embeds[:0]
}

type extractor struct {
	files  map[string]*zip.File
	rels   map[string]relationship
	outDir string
	doc    *Document

	// current body heading, 0 before the first one
	current int
	// heading of the current top-level table row
	rowSlide  int
	rowImages []Image
	// headings still waiting for a reference list, in the body and in the
	// current table row
	refSlide    int
	rowRefSlide int
}

func (x *extractor) walk(data []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var (
		para     block
		cell     block
		tblDepth int
		inText   bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidDocument, err, "parse document.xml")
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "tbl":
				tblDepth++
			case "tr":
				if tblDepth == 1 {
					x.rowSlide, x.rowImages, x.rowRefSlide = 0, nil, 0
				}
			case "tc":
				if tblDepth == 1 {
					cell.reset()
				}
			case "p":
				para.reset()
			case "t":
				inText = true
			case "tab":
				para.text.WriteByte(' ')
			case "blip":
				for _, a := range el.Attr {
					if a.Name.Local == "embed" && a.Value != "" {
						para.embeds = append(para.embeds, a.Value)
					}
				}
			}

		case xml.CharData:
			if inText {
				para.text.Write(el)
			}

		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inText = false
			case "p":
				text := para.text.String()
				if tblDepth > 0 {
					cell.text.WriteString(text)
					cell.text.WriteByte('\n')
					cell.embeds = append(cell.embeds, para.embeds...)
					x.reference(text, &x.rowRefSlide)
					continue
				}
				if n, ok := SlideNumber(text); ok {
					x.current = n
				}
				x.reference(text, &x.refSlide)
				if x.current > 0 {
					x.add(x.current, x.extract(para.embeds))
				}
			case "tc":
				if tblDepth != 1 {
					continue
				}
				if n, ok := SlideNumber(cell.text.String()); ok {
					x.rowSlide = n
				}
				if x.rowSlide > 0 {
					x.rowImages = append(x.rowImages, x.extract(cell.embeds)...)
				}
			case "tr":
				if tblDepth == 1 && x.rowSlide > 0 {
					x.add(x.rowSlide, x.rowImages)
				}
			case "tbl":
				tblDepth--
			}
		}
	}
	return nil
}

// reference handles one line of text for the image reference lists. A
// heading arms *pending; the next reference list is recorded for that slide
// and disarms it.
func (x *extractor) reference(text string, pending *int) {
	if n, ok := SlideNumber(text); ok {
		*pending = n
		return
	}
	if *pending == 0 {
		return
	}
	if nums, ok := ImageNumbers(text); ok {
		x.doc.References = append(x.doc.References, Reference{Slide: *pending, Images: nums})
		*pending = 0
	}
}

// add appends images for slide in document order. Consecutive images for
// the same slide share a section; a repeated heading later in the document
// starts a new one.
func (x *extractor) add(slide int, imgs []Image) {
	if len(imgs) == 0 {
		return
	}
	n := len(x.doc.Sections)
	if n == 0 || x.doc.Sections[n-1].Slide != slide {
		x.doc.Sections = append(x.doc.Sections, Section{Slide: slide})
		n++
	}
	x.doc.Sections[n-1].Images = append(x.doc.Sections[n-1].Images, imgs...)
}

// extract writes the images behind the given relationship IDs.
func (x *extractor) extract(embeds []string) []Image {
	if x.outDir == "" {
		return nil
	}
	var out []Image
	for _, id := range embeds {
		img, err := x.extractOne(id)
		if err != nil {
			x.doc.Warnings = append(x.doc.Warnings, fmt.Sprintf("image %s: %v", id, err))
			continue
		}
		out = append(out, img)
	}
	return out
}

func (x *extractor) extractOne(id string) (Image, error) {
	rel, ok := x.rels[id]
	if !ok {
		return Image{}, fmt.Errorf("no relationship")
	}
	if strings.EqualFold(rel.TargetMode, "External") {
		return Image{}, fmt.Errorf("linked image %s is not embedded", rel.Target)
	}

	member := strings.TrimPrefix(rel.Target, "/")
	if member == rel.Target {
		member = path.Join("word", rel.Target)
	}
	if err := errors.ValidateArchivePath(member); err != nil {
		return Image{}, err
	}

	ext := strings.ToLower(path.Ext(member))
	if ext == ".jpeg" {
		ext = ".jpg"
	}
	if !images.IsImage(ext) {
		return Image{}, fmt.Errorf("unsupported image type %q", ext)
	}

	f := x.files[member]
	if f == nil {
		return Image{}, fmt.Errorf("%s not found in package", member)
	}
	data, err := readFile(f)
	if err != nil {
		return Image{}, err
	}

	num := len(x.doc.Images) + 1
	name := fmt.Sprintf("image_%03d%s", num, ext)
	if err := errors.ValidateOutputName(name); err != nil {
		return Image{}, err
	}
	dst := filepath.Join(x.outDir, name)
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return Image{}, err
	}

	x.doc.Images = append(x.doc.Images, dst)
	return Image{Number: num, Path: dst}, nil
}
