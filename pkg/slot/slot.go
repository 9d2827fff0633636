package slot

import (
	"fmt"
	"strings"
)

// Slot is one of the three collision-tracked positions on a slide.
type Slot uint8

// Eligible slots. The zero value is not a valid Slot.
const (
	BottomLeft Slot = iota + 1
	BottomRight
	TopRight
)

// Preference lists the eligible slots in allocation order.
var Preference = [...]Slot{BottomLeft, BottomRight, TopRight}

// Count is the number of eligible slots per slide.
const Count = len(Preference)

var slotNames = map[Slot]string{
	BottomLeft:  "bottom-left",
	BottomRight: "bottom-right",
	TopRight:    "top-right",
}

// String returns the wire name of the slot (e.g. "bottom-left").
func (s Slot) String() string {
	if name, ok := slotNames[s]; ok {
		return name
	}
	return fmt.Sprintf("slot(%d)", uint8(s))
}

// Valid reports whether s is one of the eligible slots.
func (s Slot) Valid() bool {
	_, ok := slotNames[s]
	return ok
}

func (Slot) target() {}

// Mode is a placement strategy that bypasses occupancy tracking.
type Mode uint8

// Freeform modes.
const (
	TopLeft Mode = iota + 1
	Center
	Custom
)

var modeNames = map[Mode]string{
	TopLeft: "top-left",
	Center:  "center",
	Custom:  "custom",
}

// String returns the wire name of the mode.
func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// Freeform is a Target placed by explicit or computed geometry instead of a
// tracked slot.
type Freeform struct {
	Mode Mode
}

// String returns the wire name of the freeform mode.
func (f Freeform) String() string { return f.Mode.String() }

func (Freeform) target() {}

// Target is either a [Slot] or a [Freeform]. A nil Target means automatic
// assignment.
type Target interface {
	fmt.Stringer
	target()
}

// Auto is the wire token for "let the resolver decide".
const Auto = "auto"

// ParseTarget converts a position token into a Target. Blank input and "auto"
// yield a nil Target. Tokens are matched case-insensitively after trimming.
func ParseTarget(token string) (Target, error) {
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" || token == Auto {
		return nil, nil
	}
	for s, name := range slotNames {
		if name == token {
			return s, nil
		}
	}
	for m, name := range modeNames {
		if name == token {
			return Freeform{Mode: m}, nil
		}
	}
	return nil, fmt.Errorf("unknown position %q (must be one of: %s)", token, strings.Join(Names(), ", "))
}

// Names returns every accepted position token in a stable order.
func Names() []string {
	return []string{
		"top-left", "top-right", "bottom-left", "bottom-right",
		"center", "custom", Auto,
	}
}

// TargetName returns the wire token for t, "auto" when t is nil.
func TargetName(t Target) string {
	if t == nil {
		return Auto
	}
	return t.String()
}

// Geometry carries optional explicit placement values in inches.
type Geometry struct {
	Left   *float64
	Top    *float64
	Width  *float64
	Height *float64
}

// Size returns the explicit width and height when both are present.
func (g Geometry) Size() (w, h float64, ok bool) {
	if g.Width == nil || g.Height == nil {
		return 0, 0, false
	}
	return *g.Width, *g.Height, true
}

// IsZero reports whether no geometry field is set.
func (g Geometry) IsZero() bool {
	return g.Left == nil && g.Top == nil && g.Width == nil && g.Height == nil
}

// Float returns a pointer to v, for building Geometry literals.
func Float(v float64) *float64 { return &v }
