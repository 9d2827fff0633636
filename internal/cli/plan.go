package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/slideslot/pkg/pipeline"
)

// planCommand creates the plan command for building a mapping from a Word
// document.
func (c *CLI) planCommand() *cobra.Command {
	opts := pipeline.PlanOptions{}

	cmd := &cobra.Command{
		Use:   "plan [document.docx]",
		Short: "Build a placement mapping from a Word document",
		Long: `Build a placement mapping from a Word document.

Headings such as "Slide 3", "Slide #3", "Slide number: 3", "Page 3" or
"pg: 3" start a section; every image below a heading belongs to that slide. Images are
extracted to --extract-dir as image_001.png, image_002.jpg, ... in document
order, and each is assigned the next free position on its slide.

With --images the document is read for image lists instead: the first line
such as "images: 1-3, 5", "img: 2", "picture: 4" or "photo: 6" after a
heading assigns those images of the --images directory to that slide, and
nothing is extracted.

The resulting mapping pins every image to a slide and position and can be
passed straight to 'place':

  slideslot plan notes.docx -o mapping.json
  slideslot place mapping.json --images extracted_images`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Document = args[0]
			setPlanConfigDefaults(&opts, c.cfg())
			return c.runPlan(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.ExtractDir, "extract-dir", "", "directory for extracted images (default "+pipeline.DefaultExtractDir+")")
	cmd.Flags().StringVarP(&opts.ImagesDir, "images", "i", "", "plan the document's image lists against this directory instead of extracting")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "mapping file to write (default "+pipeline.DefaultPlanOutput+")")
	cmd.Flags().StringVarP(&opts.Deck, "deck", "d", "", "existing .pptx whose pictures block slots")
	cmd.Flags().Float64Var(&opts.Width, "width", 0, "width in inches of every image (default 3)")
	cmd.Flags().Float64Var(&opts.Height, "height", 0, "height in inches of every image (default 2)")

	return cmd
}

// runPlan executes a planning run and prints the outcome.
func (c *CLI) runPlan(ctx context.Context, opts pipeline.PlanOptions) error {
	opts.Logger = c.Logger
	runner := c.newRunner()

	verb := "Extracting"
	if opts.ImagesDir != "" {
		verb = "Reading"
	}
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("%s %s...", verb, opts.Document))
	spinner.Start()
	result, err := runner.Plan(ctx, opts)
	if err != nil {
		spinner.StopWithError("Planning failed")
		return fmt.Errorf("plan: %w", err)
	}
	spinner.Stop()

	printPlacements(result)

	dir := opts.ImagesDir
	if dir == "" {
		dir = opts.ExtractDir
	}
	if dir == "" {
		dir = pipeline.DefaultExtractDir
	}
	printNewline()
	printNextStep("Place the images", fmt.Sprintf("%s place %s --images %s", appName, result.Output, dir))
	return nil
}
