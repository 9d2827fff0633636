package mapping

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/slideslot/pkg/errors"
	"github.com/matzehuels/slideslot/pkg/slot"
)

// Request is one normalized placement instruction.
type Request struct {
	// Image is the 1-based index into the ordered image catalogue.
	Image int
	// Slide is the requested slide number, nil for automatic assignment.
	Slide *int
	// Target is the requested slot or freeform mode, nil for automatic
	// assignment.
	Target slot.Target
	// Geometry holds optional explicit coordinates and size.
	Geometry slot.Geometry
}

// SlideRef returns a pointer to n, for building requests with a fixed slide.
func SlideRef(n int) *int { return &n }

// String renders the request in the line-oriented wire form.
func (r Request) String() string {
	return textLine(toRecord(r))
}

// Batch is the result of reading one mapping file.
type Batch struct {
	Format   Format
	Requests []Request
	// Skipped holds one *errors.RecordError per line-oriented record that
	// could not be parsed.
	Skipped []error
}

// Format identifies a mapping file encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatText Format = "text"
)

// Formats lists every supported format in display order.
var Formats = []Format{FormatJSON, FormatYAML, FormatTOML, FormatCSV, FormatXLSX, FormatText}

var extFormats = map[string]Format{
	".json": FormatJSON,
	".yaml": FormatYAML,
	".yml":  FormatYAML,
	".toml": FormatTOML,
	".csv":  FormatCSV,
	".xlsx": FormatXLSX,
	".txt":  FormatText,
	".map":  FormatText,
}

// Form names the wire form a format belongs to.
func (f Format) Form() string {
	switch f {
	case FormatJSON, FormatYAML, FormatTOML:
		return "sequential"
	case FormatCSV, FormatXLSX:
		return "delimited"
	case FormatText:
		return "line-oriented"
	}
	return "unknown"
}

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	if f == "txt" {
		return FormatText, nil
	}
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", errors.New(errors.ErrCodeUnsupportedFormat, "unsupported mapping format %q (must be one of: json, yaml, toml, csv, xlsx, text)", name)
}

// DetectFormat infers the format from a file extension.
func DetectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := extFormats[ext]; ok {
		return f, nil
	}
	return "", errors.New(errors.ErrCodeUnsupportedFormat, "unsupported mapping file format: %q", ext)
}

// Read decodes a mapping in the given format from r.
func Read(r io.Reader, format Format) (*Batch, error) {
	var (
		batch *Batch
		err   error
	)
	switch format {
	case FormatJSON:
		batch, err = readJSON(r)
	case FormatYAML:
		batch, err = readYAML(r)
	case FormatTOML:
		batch, err = readTOML(r)
	case FormatCSV:
		batch, err = readCSV(r)
	case FormatXLSX:
		batch, err = readXLSX(r)
	case FormatText:
		batch, err = readText(r)
	default:
		return nil, errors.New(errors.ErrCodeUnsupportedFormat, "unsupported mapping format %q", format)
	}
	if err != nil {
		if errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidMapping, err, "read %s mapping", format)
	}
	batch.Format = format
	return batch, nil
}

// ReadFile opens path and decodes it. An empty format is detected from the
// file extension.
func ReadFile(path string, format Format) (*Batch, error) {
	if format == "" {
		detected, err := DetectFormat(path)
		if err != nil {
			return nil, err
		}
		format = detected
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "mapping file %s not found", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, format)
}
