package mapping

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/slideslot/pkg/errors"
	"github.com/matzehuels/slideslot/pkg/slot"
)

// record is the sequential wire shape of a request. SlideNumber holds either
// an int or the string "auto".
type record struct {
	ImageNumber int      `json:"image_number" yaml:"image_number" toml:"image_number"`
	SlideNumber any      `json:"slide_number" yaml:"slide_number" toml:"slide_number"`
	Position    string   `json:"position" yaml:"position" toml:"position"`
	Left        *float64 `json:"left,omitempty" yaml:"left,omitempty" toml:"left,omitempty"`
	Top         *float64 `json:"top,omitempty" yaml:"top,omitempty" toml:"top,omitempty"`
	Width       *float64 `json:"width,omitempty" yaml:"width,omitempty" toml:"width,omitempty"`
	Height      *float64 `json:"height,omitempty" yaml:"height,omitempty" toml:"height,omitempty"`
}

func toRecord(r Request) record {
	rec := record{
		ImageNumber: r.Image,
		SlideNumber: slot.Auto,
		Position:    slot.TargetName(r.Target),
		Left:        r.Geometry.Left,
		Top:         r.Geometry.Top,
		Width:       r.Geometry.Width,
		Height:      r.Geometry.Height,
	}
	if r.Slide != nil {
		rec.SlideNumber = *r.Slide
	}
	return rec
}

// cells renders a record in fieldOrder.
func (rec record) cells() []string {
	return []string{
		strconv.Itoa(rec.ImageNumber),
		fmt.Sprint(rec.SlideNumber),
		rec.Position,
		formatFloat(rec.Left),
		formatFloat(rec.Top),
		formatFloat(rec.Width),
		formatFloat(rec.Height),
	}
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// textLine renders a record in the line-oriented form with trailing empty
// fields trimmed.
func textLine(rec record) string {
	return strings.TrimRight(strings.Join(rec.cells(), ":"), ":")
}

// Write encodes requests in the given format. The output reads back through
// [Read] as the same request list.
func Write(w io.Writer, format Format, reqs []Request) error {
	records := make([]record, len(reqs))
	for i, r := range reqs {
		records[i] = toRecord(r)
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)

	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return err
		}
		return enc.Close()

	case FormatTOML:
		return toml.NewEncoder(w).Encode(struct {
			Placement []record `toml:"placement"`
		}{records})

	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write(fieldOrder); err != nil {
			return err
		}
		for _, rec := range records {
			if err := cw.Write(rec.cells()); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()

	case FormatXLSX:
		return writeXLSX(w, records)

	case FormatText:
		if _, err := fmt.Fprintf(w, "# %s\n", strings.Join(fieldOrder, ":")); err != nil {
			return err
		}
		for _, rec := range records {
			if _, err := fmt.Fprintln(w, textLine(rec)); err != nil {
				return err
			}
		}
		return nil
	}

	return errors.New(errors.ErrCodeUnsupportedFormat, "unsupported mapping format %q", format)
}

func writeXLSX(w io.Writer, records []record) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := make([]any, len(fieldOrder))
	for i, name := range fieldOrder {
		header[i] = name
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		cells := rec.cells()
		row := make([]any, len(cells))
		for j, c := range cells {
			row[j] = c
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(w)
	return err
}

// WriteFile writes requests to path atomically: the data goes to a temporary
// file in the same directory which is renamed over path once complete, so a
// failed write never leaves a partial file behind.
func WriteFile(path string, format Format, reqs []Request) error {
	if format == "" {
		detected, err := DetectFormat(path)
		if err != nil {
			return err
		}
		format = detected
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	if err := Write(tmp, format, reqs); err != nil {
		tmp.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}
