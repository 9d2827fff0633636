package mapping

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/slideslot/pkg/slot"
)

// Field names shared by every wire form.
const (
	fieldImage    = "image_number"
	fieldSlide    = "slide_number"
	fieldPosition = "position"
	fieldLeft     = "left"
	fieldTop      = "top"
	fieldWidth    = "width"
	fieldHeight   = "height"
)

// fieldOrder is the column order of the delimited and line-oriented forms.
var fieldOrder = []string{fieldImage, fieldSlide, fieldPosition, fieldLeft, fieldTop, fieldWidth, fieldHeight}

// fields is one record as text, before normalization.
type fields map[string]string

// request normalizes the raw fields of one record.
func (f fields) request() (Request, error) {
	var req Request

	image := strings.TrimSpace(f[fieldImage])
	if image == "" {
		return req, fmt.Errorf("missing %s", fieldImage)
	}
	n, err := parseCount(image)
	if err != nil {
		return req, fmt.Errorf("invalid %s %q", fieldImage, image)
	}
	req.Image = n

	if s := strings.TrimSpace(f[fieldSlide]); s != "" && !strings.EqualFold(s, slot.Auto) {
		n, err := parseCount(s)
		if err != nil {
			return req, fmt.Errorf("invalid %s %q", fieldSlide, s)
		}
		req.Slide = &n
	}

	req.Target, err = slot.ParseTarget(f[fieldPosition])
	if err != nil {
		return req, err
	}

	geometry := []struct {
		name string
		dst  **float64
		size bool
	}{
		{fieldLeft, &req.Geometry.Left, false},
		{fieldTop, &req.Geometry.Top, false},
		{fieldWidth, &req.Geometry.Width, true},
		{fieldHeight, &req.Geometry.Height, true},
	}
	for _, g := range geometry {
		s := strings.TrimSpace(f[g.name])
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return req, fmt.Errorf("invalid %s %q", g.name, s)
		}
		if g.size && v < 0 {
			return req, fmt.Errorf("%s must not be negative, got %v", g.name, v)
		}
		// A zero size is absent: the image keeps its natural size.
		if g.size && v == 0 {
			continue
		}
		*g.dst = &v
	}

	return req, nil
}

// parseCount parses a positive integer. Integral decimals such as "3.0" are
// accepted because spreadsheet and YAML tooling often emit them.
func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		v, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || v != math.Trunc(v) || v > math.MaxInt32 {
			return 0, err
		}
		n = int(v)
	}
	if n < 1 {
		return 0, fmt.Errorf("must be positive, got %d", n)
	}
	return n, nil
}

// fieldsFromMap converts a decoded sequential record. Keys are matched
// case-insensitively; unknown keys are ignored.
func fieldsFromMap(m map[string]any) (fields, error) {
	f := make(fields, len(fieldOrder))
	for key, value := range m {
		name := strings.ToLower(strings.TrimSpace(key))
		s, err := stringify(value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		f[name] = s
	}
	return f, nil
}

// stringify renders a decoded scalar as text.
func stringify(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case json.Number:
		return x.String(), nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	}
	return "", fmt.Errorf("unsupported value type %T", v)
}
