package deck

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/slideslot/pkg/errors"
	"github.com/matzehuels/slideslot/pkg/geometry"
	"github.com/matzehuels/slideslot/pkg/slot"
)

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewGray(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestMemoryAppendSlide(t *testing.T) {
	m := NewMemory(1, 0)
	for want := 2; want <= 4; want++ {
		got, err := m.AppendSlide()
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("AppendSlide() = %d, want %d", got, want)
		}
	}
	if m.SlideCount() != 4 {
		t.Errorf("SlideCount() = %d, want 4", m.SlideCount())
	}
}

func TestMemoryPlace(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	img := writePNG(t, dir, "a.png", 216, 144)

	m := NewMemory(2, 72)

	t.Run("natural size", func(t *testing.T) {
		p, err := m.Place(ctx, 1, img, geometry.Rect{Left: 0.5, Top: 5})
		if err != nil {
			t.Fatalf("Place: %v", err)
		}
		if p.Rect.Width != 3 || p.Rect.Height != 2 {
			t.Errorf("size = %vx%v, want 3x2", p.Rect.Width, p.Rect.Height)
		}
	})

	t.Run("explicit size", func(t *testing.T) {
		p, err := m.Place(ctx, 2, img, geometry.Rect{Left: 6, Top: 0.5, Width: 1, Height: 1})
		if err != nil {
			t.Fatalf("Place: %v", err)
		}
		if p.Rect.Width != 1 {
			t.Errorf("Width = %v, want 1", p.Rect.Width)
		}
	})

	t.Run("missing slide", func(t *testing.T) {
		_, err := m.Place(ctx, 3, img, geometry.Rect{})
		if !errors.Is(err, errors.ErrCodeInvalidReference) {
			t.Errorf("error = %v, want %v", err, errors.ErrCodeInvalidReference)
		}
	})

	t.Run("missing image", func(t *testing.T) {
		for _, r := range []geometry.Rect{{}, {Width: 1, Height: 1}} {
			_, err := m.Place(ctx, 1, filepath.Join(dir, "missing.png"), r)
			if !errors.Is(err, errors.ErrCodePlacementFailed) {
				t.Errorf("error = %v, want %v", err, errors.ErrCodePlacementFailed)
			}
		}
	})

	if got := len(m.Placements()); got != 2 {
		t.Errorf("len(Placements()) = %d, want 2", got)
	}
}

func TestMemoryOnSlide(t *testing.T) {
	ctx := context.Background()
	img := writePNG(t, t.TempDir(), "a.png", 72, 72)
	m := NewMemory(1, 0)

	for _, r := range []geometry.Rect{
		{Left: 6, Top: 5},
		{Left: 0.5, Top: 5},
		{Left: 6, Top: 0.5},
	} {
		if _, err := m.Place(ctx, 1, img, r); err != nil {
			t.Fatal(err)
		}
	}

	got := m.OnSlide(1)
	want := []geometry.Point{{X: 6, Y: 0.5}, {X: 0.5, Y: 5}, {X: 6, Y: 5}}
	for i, p := range got {
		if p.Rect.Left != want[i].X || p.Rect.Top != want[i].Y {
			t.Errorf("OnSlide(1)[%d] at (%v, %v), want %v", i, p.Rect.Left, p.Rect.Top, want[i])
		}
	}
}

func TestMemoryMeasureCenters(t *testing.T) {
	ctx := context.Background()
	img := writePNG(t, t.TempDir(), "wide.png", 288, 144)
	m := NewMemory(1, 72)

	r, err := geometry.DefaultCanvas.Locate(ctx, slot.Freeform{Mode: slot.Center}, slot.Geometry{}, img, m)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if r.Left != 3 || r.Top != 2.75 {
		t.Errorf("centered at (%v, %v), want (3, 2.75)", r.Left, r.Top)
	}
}
