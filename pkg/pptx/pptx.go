// Package pptx reads the parts of a PowerPoint package needed to seed slot
// occupancy: the slide count and the position of every picture.
//
// Slides are numbered in presentation order, taken from the p:sldIdLst of
// ppt/presentation.xml and resolved through its relationships. Packages
// without a slide list fall back to the slideN.xml file names. Positions are
// read from the first a:off element of each p:pic shape and converted from
// EMU to inches.
package pptx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/matzehuels/slideslot/pkg/errors"
	"github.com/matzehuels/slideslot/pkg/geometry"
)

// Picture is an existing image shape on a slide.
type Picture struct {
	// Slide is the 1-based slide number.
	Slide int
	// Name is the shape name from p:cNvPr, if any.
	Name string
	// Left and Top are the shape's top-left corner in inches.
	Left, Top float64
}

// Deck is the summary of a presentation package.
type Deck struct {
	Slides   int
	Pictures []Picture
}

// Open reads the presentation at path.
func Open(path string) (*Deck, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "deck %s not found", path)
		}
		return nil, fmt.Errorf("open deck: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat deck: %w", err)
	}
	return Read(f, info.Size())
}

// Read parses a presentation package from r.
func Read(r io.ReaderAt, size int64) (*Deck, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDeck, err, "open PPTX archive")
	}

	slides, err := slideOrder(zr)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDeck, err, "read slide list")
	}

	deck := &Deck{Slides: len(slides)}
	for i, f := range slides {
		data, err := readFile(f)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDeck, err, "read slide %d (%s)", i+1, f.Name)
		}
		pics, err := pictures(data, i+1)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDeck, err, "parse slide %d (%s)", i+1, f.Name)
		}
		deck.Pictures = append(deck.Pictures, pics...)
	}
	return deck, nil
}

// PicturesOn returns the pictures on one slide.
func (d *Deck) PicturesOn(slide int) []Picture {
	var out []Picture
	for _, p := range d.Pictures {
		if p.Slide == slide {
			out = append(out, p)
		}
	}
	return out
}

// =============================================================================
// Slide Order
// =============================================================================

const (
	presentationPart = "ppt/presentation.xml"
	presentationRels = "ppt/_rels/presentation.xml.rels"
)

type presentationXML struct {
	SlideList *struct {
		Slides []struct {
			RelID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
		} `xml:"sldId"`
	} `xml:"sldIdLst"`
}

type relationshipsXML struct {
	Rels []struct {
		ID     string `xml:"Id,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

// slideOrder returns the slide parts in presentation order. Slides missing
// from the list are not part of the deck.
func slideOrder(zr *zip.Reader) ([]*zip.File, error) {
	parts := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		parts[f.Name] = f
	}

	pres, ok := parts[presentationPart]
	if !ok {
		return numberedSlides(zr), nil
	}
	var doc presentationXML
	if err := unmarshalPart(pres, &doc); err != nil {
		return nil, err
	}
	if doc.SlideList == nil {
		return numberedSlides(zr), nil
	}

	relsFile, ok := parts[presentationRels]
	if !ok {
		return nil, fmt.Errorf("%s lists slides but %s is missing", presentationPart, presentationRels)
	}
	var rels relationshipsXML
	if err := unmarshalPart(relsFile, &rels); err != nil {
		return nil, err
	}
	targets := make(map[string]string, len(rels.Rels))
	for _, r := range rels.Rels {
		targets[r.ID] = partName(r.Target)
	}

	out := make([]*zip.File, 0, len(doc.SlideList.Slides))
	for _, sld := range doc.SlideList.Slides {
		name, ok := targets[sld.RelID]
		if !ok {
			return nil, fmt.Errorf("slide relationship %q not found", sld.RelID)
		}
		f, ok := parts[name]
		if !ok {
			return nil, fmt.Errorf("slide part %s not found", name)
		}
		out = append(out, f)
	}
	return out, nil
}

// numberedSlides orders ppt/slides/slideN.xml by N.
func numberedSlides(zr *zip.Reader) []*zip.File {
	byNum := make(map[int]*zip.File)
	for _, f := range zr.File {
		if num := slideNumber(f.Name); num > 0 {
			byNum[num] = f
		}
	}
	nums := make([]int, 0, len(byNum))
	for n := range byNum {
		nums = append(nums, n)
	}
	sort.Ints(nums)

	out := make([]*zip.File, len(nums))
	for i, n := range nums {
		out[i] = byNum[n]
	}
	return out
}

// partName resolves a relationship target of presentation.xml to a zip
// entry name.
func partName(target string) string {
	if rest, ok := strings.CutPrefix(target, "/"); ok {
		return path.Clean(rest)
	}
	return path.Join("ppt", target)
}

func unmarshalPart(f *zip.File, v any) error {
	data, err := readFile(f)
	if err != nil {
		return fmt.Errorf("read %s: %w", f.Name, err)
	}
	if err := xml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", f.Name, err)
	}
	return nil
}

func readFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// slideNumber extracts N from "ppt/slides/slideN.xml", or returns 0.
func slideNumber(name string) int {
	rest, ok := strings.CutPrefix(name, "ppt/slides/slide")
	if !ok {
		return 0
	}
	rest, ok = strings.CutSuffix(rest, ".xml")
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 {
		return 0
	}
	return n
}

// pictures walks a slide's XML and records the offset of every p:pic.
func pictures(data []byte, slide int) ([]Picture, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var (
		out   []Picture
		cur   *Picture
		depth int
		found bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			if cur != nil {
				depth++
			}
			switch el.Name.Local {
			case "pic":
				if cur == nil {
					cur, depth, found = &Picture{Slide: slide}, 0, false
				}
			case "cNvPr":
				if cur != nil && cur.Name == "" {
					cur.Name = attr(el, "name")
				}
			case "off":
				if cur != nil && !found {
					x, errX := strconv.ParseInt(attr(el, "x"), 10, 64)
					y, errY := strconv.ParseInt(attr(el, "y"), 10, 64)
					if errX != nil || errY != nil {
						return nil, fmt.Errorf("picture %q: bad offset", cur.Name)
					}
					cur.Left = float64(x) / geometry.EMUPerInch
					cur.Top = float64(y) / geometry.EMUPerInch
					found = true
				}
			}

		case xml.EndElement:
			if cur == nil {
				continue
			}
			if depth == 0 && el.Name.Local == "pic" {
				// Pictures without an explicit offset inherit their layout
				// placeholder position, which is unknown here.
				if found {
					out = append(out, *cur)
				}
				cur = nil
				continue
			}
			depth--
		}
	}
	return out, nil
}

func attr(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
