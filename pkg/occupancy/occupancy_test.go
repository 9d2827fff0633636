package occupancy

import (
	"testing"

	"github.com/matzehuels/slideslot/pkg/slot"
)

func TestNextAvailablePreferenceOrder(t *testing.T) {
	tbl := New()

	want := []slot.Slot{slot.BottomLeft, slot.BottomRight, slot.TopRight}
	for i, w := range want {
		got, ok := tbl.NextAvailable(1)
		if !ok {
			t.Fatalf("step %d: NextAvailable returned none", i)
		}
		if got != w {
			t.Errorf("step %d: NextAvailable = %v, want %v", i, got, w)
		}
		tbl.Occupy(1, got)
	}

	if _, ok := tbl.NextAvailable(1); ok {
		t.Error("NextAvailable on a full slide should return none")
	}
	if !tbl.IsFull(1) {
		t.Error("IsFull(1) = false, want true")
	}
}

func TestNextAvailableIsPure(t *testing.T) {
	tbl := New()
	tbl.Occupy(2, slot.BottomLeft)

	a, okA := tbl.NextAvailable(2)
	b, okB := tbl.NextAvailable(2)
	if a != b || okA != okB {
		t.Errorf("NextAvailable not stable: (%v, %v) then (%v, %v)", a, okA, b, okB)
	}
	if tbl.AvailableCount(2) != 2 {
		t.Errorf("AvailableCount(2) = %d, want 2", tbl.AvailableCount(2))
	}
}

func TestNextAvailableSkipsGaps(t *testing.T) {
	tbl := New()
	tbl.Occupy(1, slot.BottomLeft)
	tbl.Occupy(1, slot.TopRight)

	got, ok := tbl.NextAvailable(1)
	if !ok || got != slot.BottomRight {
		t.Errorf("NextAvailable = %v, %v; want bottom-right, true", got, ok)
	}
}

func TestOccupyIdempotent(t *testing.T) {
	tbl := New()
	tbl.Occupy(1, slot.TopRight)
	before := tbl.AvailableCount(1)
	tbl.Occupy(1, slot.TopRight)

	if after := tbl.AvailableCount(1); after != before {
		t.Errorf("AvailableCount changed from %d to %d after re-occupying", before, after)
	}
	if !tbl.IsOccupied(1, slot.TopRight) {
		t.Error("IsOccupied(1, top-right) = false, want true")
	}
}

func TestUnseenSlide(t *testing.T) {
	tbl := New()

	if tbl.AvailableCount(42) != slot.Count {
		t.Errorf("AvailableCount(42) = %d, want %d", tbl.AvailableCount(42), slot.Count)
	}
	if tbl.IsOccupied(42, slot.BottomLeft) {
		t.Error("unseen slide should have no occupied slots")
	}
	if tbl.IsFull(42) {
		t.Error("unseen slide should not be full")
	}
	if len(tbl.Slides()) != 0 {
		t.Errorf("querying must not add slides, got %v", tbl.Slides())
	}
}

func TestOccupyIgnoresInvalidSlot(t *testing.T) {
	tbl := New()
	tbl.Occupy(1, slot.Slot(0))

	if tbl.AvailableCount(1) != slot.Count {
		t.Errorf("invalid slot should not be recorded, AvailableCount = %d", tbl.AvailableCount(1))
	}
	if len(tbl.Slides()) != 0 {
		t.Errorf("Slides() = %v, want empty", tbl.Slides())
	}
}

func TestNoteDoesNotBlock(t *testing.T) {
	tbl := New()
	tbl.Note(1, slot.QuadrantTopLeft)
	tbl.Note(1, slot.QuadrantBottomLeft) // eligible quadrants are not notes

	if got := tbl.Noted(1); len(got) != 1 || got[0] != slot.QuadrantTopLeft {
		t.Errorf("Noted(1) = %v, want [top-left]", got)
	}
	if tbl.AvailableCount(1) != slot.Count {
		t.Errorf("notes must not reduce availability, got %d", tbl.AvailableCount(1))
	}
	if s, _ := tbl.NextAvailable(1); s != slot.BottomLeft {
		t.Errorf("NextAvailable(1) = %v, want bottom-left", s)
	}
}

func TestReport(t *testing.T) {
	tbl := New()
	tbl.Occupy(3, slot.TopRight)
	tbl.Occupy(1, slot.BottomRight)
	tbl.Occupy(1, slot.BottomLeft)
	tbl.Note(2, slot.QuadrantTopLeft)

	report := tbl.Report()
	if len(report) != 3 {
		t.Fatalf("len(Report()) = %d, want 3", len(report))
	}
	if report[0].Slide != 1 || report[1].Slide != 2 || report[2].Slide != 3 {
		t.Errorf("report not sorted by slide: %+v", report)
	}
	if got := report[0].Occupied; len(got) != 2 || got[0] != slot.BottomLeft || got[1] != slot.BottomRight {
		t.Errorf("slide 1 occupied = %v, want [bottom-left bottom-right]", got)
	}
	if report[0].Available != 1 {
		t.Errorf("slide 1 available = %d, want 1", report[0].Available)
	}
	if report[1].Available != 3 || len(report[1].Noted) != 1 {
		t.Errorf("slide 2 = %+v, want 3 available and one note", report[1])
	}
}
