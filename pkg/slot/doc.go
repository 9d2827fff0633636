// Package slot defines the placement vocabulary shared by every slideslot
// component.
//
// A slide offers three collision-tracked slots, tried in a fixed preference
// order:
//
//	bottom-left, bottom-right, top-right
//
// Everything that needs "the next free slot" walks [Preference], never an
// unordered set, so allocation is reproducible for identical input.
//
// # Targets
//
// A placement request names a [Target], which is one of two cases:
//
//   - [Slot]: an eligible slot. Participates in occupancy tracking.
//   - [Freeform]: a mode outside the tracked set (top-left, center, custom).
//     Freeform placements never collide with anything.
//
// A nil Target means "auto": the resolver picks a slot. The textual token
// "auto" is translated to nil by [ParseTarget] and nowhere else.
//
// # Quadrants
//
// [Quadrant] is the four-way classification used when inspecting pictures that
// already exist in a deck. Three quadrants map onto eligible slots through
// [Quadrant.Slot]; top-left does not.
package slot
