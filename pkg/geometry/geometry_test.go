package geometry

import (
	"context"
	"errors"
	"testing"

	"github.com/matzehuels/slideslot/pkg/slot"
)

type fixedMeasurer struct {
	size  Size
	calls int
	err   error
}

func (m *fixedMeasurer) Measure(ctx context.Context, image string) (Size, error) {
	m.calls++
	return m.size, m.err
}

func TestLocateSlots(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		target slot.Target
		want   Point
	}{
		{slot.BottomLeft, Point{0.5, 5.0}},
		{slot.BottomRight, Point{6.0, 5.0}},
		{slot.TopRight, Point{6.0, 0.5}},
		{slot.Freeform{Mode: slot.TopLeft}, Point{0.5, 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.target.String(), func(t *testing.T) {
			m := &fixedMeasurer{}
			// Left and top are ignored for anchored placements.
			g := slot.Geometry{Left: slot.Float(9), Top: slot.Float(9)}
			r, err := DefaultCanvas.Locate(ctx, tt.target, g, "a.png", m)
			if err != nil {
				t.Fatalf("Locate: %v", err)
			}
			if r.Left != tt.want.X || r.Top != tt.want.Y {
				t.Errorf("Locate = (%v, %v), want (%v, %v)", r.Left, r.Top, tt.want.X, tt.want.Y)
			}
			if r.Sized() {
				t.Errorf("rect should use natural size, got %vx%v", r.Width, r.Height)
			}
			if m.calls != 0 {
				t.Errorf("anchored placement measured %d times", m.calls)
			}
		})
	}
}

func TestLocateSizeNeedsBothDimensions(t *testing.T) {
	ctx := context.Background()

	r, _ := DefaultCanvas.Locate(ctx, slot.BottomLeft, slot.Geometry{Width: slot.Float(3), Height: slot.Float(2)}, "a.png", nil)
	if r.Width != 3 || r.Height != 2 {
		t.Errorf("size = %vx%v, want 3x2", r.Width, r.Height)
	}

	r, _ = DefaultCanvas.Locate(ctx, slot.BottomLeft, slot.Geometry{Width: slot.Float(3)}, "a.png", nil)
	if r.Sized() {
		t.Errorf("width alone should fall back to natural size, got %vx%v", r.Width, r.Height)
	}
}

func TestLocateCenterExplicitSize(t *testing.T) {
	m := &fixedMeasurer{}
	g := slot.Geometry{Width: slot.Float(4), Height: slot.Float(3)}

	r, err := DefaultCanvas.Locate(context.Background(), slot.Freeform{Mode: slot.Center}, g, "a.png", m)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	want := Rect{Left: 3, Top: 2.25, Width: 4, Height: 3}
	if r != want {
		t.Errorf("Locate = %+v, want %+v", r, want)
	}
	if m.calls != 0 {
		t.Errorf("explicit size should not measure, got %d calls", m.calls)
	}
}

func TestLocateCenterNaturalSize(t *testing.T) {
	m := &fixedMeasurer{size: Size{Width: 2, Height: 1.5}}

	r, err := DefaultCanvas.Locate(context.Background(), slot.Freeform{Mode: slot.Center}, slot.Geometry{}, "a.png", m)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	want := Rect{Left: 4, Top: 3, Width: 2, Height: 1.5}
	if r != want {
		t.Errorf("Locate = %+v, want %+v", r, want)
	}
	if m.calls != 1 {
		t.Errorf("Measure calls = %d, want 1", m.calls)
	}
}

func TestLocateCenterMeasureError(t *testing.T) {
	m := &fixedMeasurer{err: errors.New("corrupt header")}

	if _, err := DefaultCanvas.Locate(context.Background(), slot.Freeform{Mode: slot.Center}, slot.Geometry{}, "a.png", m); err == nil {
		t.Error("expected measure error to propagate")
	}
	if _, err := DefaultCanvas.Locate(context.Background(), slot.Freeform{Mode: slot.Center}, slot.Geometry{}, "a.png", nil); err == nil {
		t.Error("expected error without measurer")
	}
}

func TestLocateCustom(t *testing.T) {
	ctx := context.Background()
	custom := slot.Freeform{Mode: slot.Custom}

	r, _ := DefaultCanvas.Locate(ctx, custom, slot.Geometry{Left: slot.Float(2.5), Top: slot.Float(4)}, "a.png", nil)
	if r.Left != 2.5 || r.Top != 4 {
		t.Errorf("custom = (%v, %v), want (2.5, 4)", r.Left, r.Top)
	}

	r, _ = DefaultCanvas.Locate(ctx, custom, slot.Geometry{Top: slot.Float(4)}, "a.png", nil)
	if r.Left != CustomFallback.X || r.Top != 4 {
		t.Errorf("custom with missing left = (%v, %v), want (%v, 4)", r.Left, r.Top, CustomFallback.X)
	}
}

func TestLocateAutoIsError(t *testing.T) {
	if _, err := DefaultCanvas.Locate(context.Background(), nil, slot.Geometry{}, "a.png", nil); err == nil {
		t.Error("Locate(nil target) should fail")
	}
}

func TestMidpoint(t *testing.T) {
	if got := DefaultCanvas.Midpoint(); got != (Point{5, 3.75}) {
		t.Errorf("Midpoint = %v, want {5 3.75}", got)
	}
}
