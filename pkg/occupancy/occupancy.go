// Package occupancy tracks which eligible slots are taken on each slide.
//
// A [Table] is a plain in-memory map from slide number to the set of occupied
// eligible slots. Every operation is total: querying a slide that was never
// marked is not an error, it simply has all three slots free.
//
// The table is single-writer and scoped to one run. It is not safe for
// concurrent use.
package occupancy

import (
	"sort"

	"github.com/matzehuels/slideslot/pkg/slot"
)

// Table is the per-slide occupancy record.
//
// A slide appears in the table only once a slot has been marked on it.
// Classifications of pre-existing pictures that do not map to an eligible
// slot are kept separately via [Table.Note] and never influence allocation.
type Table struct {
	taken map[int]map[slot.Slot]bool
	noted map[int][]slot.Quadrant
}

// New creates an empty table.
func New() *Table {
	return &Table{
		taken: make(map[int]map[slot.Slot]bool),
		noted: make(map[int][]slot.Quadrant),
	}
}

// NextAvailable returns the first free slot on slide in preference order.
// It reports false when all eligible slots are occupied. It never mutates the
// table.
func (t *Table) NextAvailable(slide int) (slot.Slot, bool) {
	for _, s := range slot.Preference {
		if !t.IsOccupied(slide, s) {
			return s, true
		}
	}
	return 0, false
}

// IsOccupied reports whether s is taken on slide.
func (t *Table) IsOccupied(slide int, s slot.Slot) bool {
	return t.taken[slide][s]
}

// Occupy marks s as taken on slide. Marking an occupied slot is a no-op.
// Invalid slots are ignored so the table only ever holds eligible slots.
func (t *Table) Occupy(slide int, s slot.Slot) {
	if !s.Valid() {
		return
	}
	set, ok := t.taken[slide]
	if !ok {
		set = make(map[slot.Slot]bool, slot.Count)
		t.taken[slide] = set
	}
	set[s] = true
}

// IsFull reports whether no eligible slot is free on slide.
func (t *Table) IsFull(slide int) bool {
	_, ok := t.NextAvailable(slide)
	return !ok
}

// AvailableCount returns the number of free eligible slots on slide.
func (t *Table) AvailableCount(slide int) int {
	return slot.Count - len(t.taken[slide])
}

// Occupied returns the taken slots on slide in preference order.
func (t *Table) Occupied(slide int) []slot.Slot {
	var out []slot.Slot
	for _, s := range slot.Preference {
		if t.IsOccupied(slide, s) {
			out = append(out, s)
		}
	}
	return out
}

// Note records a classification that has no eligible slot (top-left). It is
// reported but never blocks allocation.
func (t *Table) Note(slide int, q slot.Quadrant) {
	if _, ok := q.Slot(); ok {
		return
	}
	t.noted[slide] = append(t.noted[slide], q)
}

// Noted returns the informational classifications recorded for slide.
func (t *Table) Noted(slide int) []slot.Quadrant {
	return t.noted[slide]
}

// Slides returns every slide with at least one occupied slot or note, in
// ascending order.
func (t *Table) Slides() []int {
	seen := make(map[int]bool, len(t.taken)+len(t.noted))
	for n := range t.taken {
		seen[n] = true
	}
	for n := range t.noted {
		seen[n] = true
	}
	out := make([]int, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// SlideReport summarizes one slide for the end-of-run report.
type SlideReport struct {
	Slide     int
	Occupied  []slot.Slot
	Noted     []slot.Quadrant
	Available int
}

// Report returns a per-slide summary for every slide in the table.
func (t *Table) Report() []SlideReport {
	slides := t.Slides()
	out := make([]SlideReport, 0, len(slides))
	for _, n := range slides {
		out = append(out, SlideReport{
			Slide:     n,
			Occupied:  t.Occupied(n),
			Noted:     t.Noted(n),
			Available: t.AvailableCount(n),
		})
	}
	return out
}
