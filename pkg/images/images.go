// Package images lists the image files available for placement and reads
// their natural size.
//
// Images are addressed by 1-based index into the catalogue, which is the
// lexically sorted list of image files in a directory.
package images

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/slideslot/pkg/errors"
	"github.com/matzehuels/slideslot/pkg/geometry"
)

// DefaultDPI converts pixels to inches when the caller has no better value.
const DefaultDPI = 72.0

// Extensions are the recognised image file extensions.
var Extensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
	".webp": true,
}

// IsImage reports whether name has a recognised image extension.
func IsImage(name string) bool {
	return Extensions[strings.ToLower(filepath.Ext(name))]
}

// Catalog is an ordered list of image paths.
type Catalog []string

// Load lists the images in dir, sorted by file name. Subdirectories are not
// searched.
func Load(dir string) (Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "image directory %s not found", dir)
		}
		return nil, fmt.Errorf("read image directory: %w", err)
	}

	var out Catalog
	for _, e := range entries {
		if e.IsDir() || !IsImage(e.Name()) {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}

// Len returns the number of images.
func (c Catalog) Len() int { return len(c) }

// Path returns the path of the n-th image, 1-based.
func (c Catalog) Path(n int) (string, error) {
	if n < 1 || n > len(c) {
		return "", errors.New(errors.ErrCodeInvalidReference, "image %d out of range (have %d images)", n, len(c))
	}
	return c[n-1], nil
}

// NaturalSize decodes only the header of the image at path and returns its
// size in inches at the given DPI. A non-positive dpi uses DefaultDPI.
func NaturalSize(path string, dpi float64) (geometry.Size, error) {
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return geometry.Size{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "image %s not found", path)
		}
		return geometry.Size{}, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return geometry.Size{}, errors.Wrap(errors.ErrCodeUnsupportedFormat, err, "decode image header %s", filepath.Base(path))
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return geometry.Size{}, errors.New(errors.ErrCodeUnsupportedFormat, "%s image %s has no size", format, filepath.Base(path))
	}
	return geometry.Size{
		Width:  float64(cfg.Width) / dpi,
		Height: float64(cfg.Height) / dpi,
	}, nil
}
