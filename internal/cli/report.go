package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/slideslot/pkg/alloc"
	"github.com/matzehuels/slideslot/pkg/errors"
	"github.com/matzehuels/slideslot/pkg/occupancy"
	"github.com/matzehuels/slideslot/pkg/scan"
	"github.com/matzehuels/slideslot/pkg/slot"
)

// =============================================================================
// Occupancy Report
// =============================================================================

// renderOccupancy renders one row per slide with a cell per slot. Slides
// without any occupant are included so the table covers the whole deck.
func renderOccupancy(report []occupancy.SlideReport, slides int) string {
	bySlide := make(map[int]occupancy.SlideReport, len(report))
	for _, r := range report {
		bySlide[r.Slide] = r
	}

	headers := []string{"Slide"}
	for _, s := range slot.Preference {
		headers = append(headers, s.String())
	}
	headers = append(headers, "Free", "Noted")

	rows := make([][]string, 0, slides)
	for n := 1; n <= slides; n++ {
		r, ok := bySlide[n]
		if !ok {
			r = occupancy.SlideReport{Slide: n, Available: slot.Count}
		}
		row := []string{fmt.Sprintf("%d", n)}
		for _, s := range slot.Preference {
			if contains(r.Occupied, s) {
				row = append(row, iconTaken)
			} else {
				row = append(row, iconFree)
			}
		}
		row = append(row, fmt.Sprintf("%d", r.Available), quadrantList(r.Noted))
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHead
			}
			if row < 0 || row >= len(rows) {
				return lipgloss.NewStyle()
			}
			cell := rows[row][col]
			switch {
			case col == 0:
				return StyleNumber
			case cell == iconTaken:
				return styleTaken
			case cell == iconFree:
				return styleFree
			case col == len(headers)-1 && cell != "":
				return styleNoted
			}
			return StyleDim
		})
	return t.Render()
}

func contains(slots []slot.Slot, s slot.Slot) bool {
	for _, o := range slots {
		if o == s {
			return true
		}
	}
	return false
}

func quadrantList(qs []slot.Quadrant) string {
	names := make([]string, len(qs))
	for i, q := range qs {
		names[i] = q.String()
	}
	return strings.Join(names, ", ")
}

// =============================================================================
// Existing Pictures
// =============================================================================

// renderObservations renders the classified pictures of a deck.
func renderObservations(obs []scan.Observation) string {
	rows := make([][]string, len(obs))
	for i, o := range obs {
		state := "occupies"
		if _, ok := o.Slot(); !ok {
			state = "noted"
		}
		rows[i] = []string{
			fmt.Sprintf("%d", o.Picture.Slide),
			o.Picture.Name,
			fmt.Sprintf("%.2f, %.2f", o.Picture.Left, o.Picture.Top),
			o.Quadrant.String(),
			state,
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Slide", "Picture", "Left, Top (in)", "Quadrant", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHead
			}
			if row < 0 || row >= len(rows) {
				return lipgloss.NewStyle()
			}
			if col == 4 && rows[row][4] == "noted" {
				return styleNoted
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}

// =============================================================================
// Failures
// =============================================================================

// printFailures prints one line per failed request.
func printFailures(failures []alloc.Failure) {
	for _, f := range failures {
		printError("image %d: %s", f.Request.Image, errors.UserMessage(f.Err))
		printDetail("record %s", f.Request.String())
	}
}
