package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/slideslot/pkg/geometry"
	"github.com/matzehuels/slideslot/pkg/occupancy"
	"github.com/matzehuels/slideslot/pkg/pptx"
	"github.com/matzehuels/slideslot/pkg/scan"
)

// scanCommand creates the scan command for inspecting an existing deck.
func (c *CLI) scanCommand() *cobra.Command {
	var (
		interactive bool
		canvas      geometry.Canvas
	)

	cmd := &cobra.Command{
		Use:   "scan [deck.pptx]",
		Short: "Show which slots the pictures of a deck occupy",
		Long: `Show which slots the pictures of a deck occupy.

Every picture is classified by its top-left corner against the slide
midpoints. Pictures in the top-right, bottom-left or bottom-right quadrant
block that slot for 'place --deck'. Pictures in the top-left quadrant are
listed as noted and never block anything.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if canvas == (geometry.Canvas{}) {
				canvas = canvasOf(c.cfg().Canvas)
			}
			if canvas == (geometry.Canvas{}) {
				canvas = geometry.DefaultCanvas
			}
			if canvas.Width <= 0 || canvas.Height <= 0 {
				return fmt.Errorf("slide size must be positive, got %vx%v", canvas.Width, canvas.Height)
			}
			return c.runScan(cmd.Context(), args[0], canvas, interactive)
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "I", false, "browse slides interactively")
	cmd.Flags().Float64Var(&canvas.Width, "slide-width", 0, "slide width in inches (default 10)")
	cmd.Flags().Float64Var(&canvas.Height, "slide-height", 0, "slide height in inches (default 7.5)")

	return cmd
}

// scanResult is a classified deck.
type scanResult struct {
	deck         *pptx.Deck
	observations []scan.Observation
	table        *occupancy.Table
}

// scanDeck reads path and seeds a fresh occupancy table from its pictures.
func scanDeck(path string, canvas geometry.Canvas) (*scanResult, error) {
	d, err := pptx.Open(path)
	if err != nil {
		return nil, err
	}
	table := occupancy.New()
	obs := scan.Seed(table, canvas, d.Pictures)
	return &scanResult{deck: d, observations: obs, table: table}, nil
}

// runScan classifies a deck and prints or browses the result.
func (c *CLI) runScan(ctx context.Context, path string, canvas geometry.Canvas, interactive bool) error {
	prog := newProgress(c.Logger)
	res, err := scanDeck(path, canvas)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	prog.done(fmt.Sprintf("Scanned %s", plural(res.deck.Slides, "slide")))
	c.Logger.Debug("classified pictures", "pictures", len(res.observations), "canvas", fmt.Sprintf("%vx%v", canvas.Width, canvas.Height))

	if interactive {
		model := NewSlideBrowserModel(res.deck.Slides, res.observations, res.table)
		_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
		return err
	}

	if len(res.observations) == 0 {
		printInfo("No pictures on %s", plural(res.deck.Slides, "slide"))
	} else {
		fmt.Println(renderObservations(res.observations))
	}
	printNewline()
	fmt.Println(renderOccupancy(res.table.Report(), res.deck.Slides))
	return nil
}
