package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/slideslot/pkg/mapping"
	"github.com/matzehuels/slideslot/pkg/pipeline"
)

// placeCommand creates the place command for resolving a mapping file.
func (c *CLI) placeCommand() *cobra.Command {
	var (
		format string
		report bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "place [mapping]",
		Short: "Place images onto slides from a mapping file",
		Long: `Place images onto slides from a mapping file.

The mapping lists one request per image: the image number, an optional slide
and an optional position. Slide or position may be "auto". Positions are
top-right, bottom-left, bottom-right (collision-tracked) or top-left, center,
custom (placed as given).

Supported mapping forms:
  .json .yaml .toml   sequential records with image_number, slide_number, ...
  .csv .xlsx          a header row naming the same fields
  .txt .map           image:slide:position[:left:top:width:height] per line

Images are numbered by sorted file name in --images. When --deck names an
existing .pptx, its pictures are scanned first and block the slots they sit
in. The resolved placements are written to --output in the same mapping
format, so the artifact can be fed back in.`,
		Example: `  slideslot place mapping.csv --images figures
  slideslot place mapping.txt --deck talk.pptx -o placed.json
  slideslot place mapping.json --width 3 --height 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Mapping = args[0]
			if format != "" {
				f, err := mapping.ParseFormat(format)
				if err != nil {
					return err
				}
				opts.Format = f
			}
			setConfigDefaults(&opts, c.cfg())
			return c.runPlace(cmd.Context(), opts, report)
		},
	}

	cmd.Flags().StringVarP(&opts.ImagesDir, "images", "i", "", "image directory (default current directory)")
	cmd.Flags().StringVarP(&opts.Deck, "deck", "d", "", "existing .pptx whose pictures block slots")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "placement artifact (default "+pipeline.DefaultOutput+")")
	cmd.Flags().StringVar(&format, "format", "", "mapping format: json, yaml, toml, csv, xlsx, text (default from extension)")
	cmd.Flags().Float64Var(&opts.Width, "width", 0, "width in inches for requests without a size")
	cmd.Flags().Float64Var(&opts.Height, "height", 0, "height in inches for requests without a size")
	cmd.Flags().Float64Var(&opts.DPI, "dpi", 0, "pixels per inch for natural image sizes (default 72)")
	cmd.Flags().Float64Var(&opts.Canvas.Width, "slide-width", 0, "slide width in inches (default 10)")
	cmd.Flags().Float64Var(&opts.Canvas.Height, "slide-height", 0, "slide height in inches (default 7.5)")
	cmd.Flags().BoolVar(&report, "report", true, "print the per-slide occupancy report")

	return cmd
}

// runPlace executes a placement run and prints the outcome.
func (c *CLI) runPlace(ctx context.Context, opts pipeline.Options, report bool) error {
	opts.Logger = c.Logger
	runner := c.newRunner()

	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return fmt.Errorf("place: %w", err)
	}
	prog.done(fmt.Sprintf("Placed %s", plural(result.Stats.Placed, "image")))

	printPlacements(result)
	if report {
		printNewline()
		fmt.Println(renderOccupancy(result.Report, result.Slides))
	}
	return nil
}

// printPlacements prints the success and failure tally of a run.
func printPlacements(result *pipeline.Result) {
	for _, err := range result.Skipped {
		printWarning("%v", err)
	}
	for _, w := range result.Warnings {
		printWarning("%s", w)
	}
	printFailures(result.Failures)

	if result.Stats.Failed == 0 {
		printSuccess("%s placed", plural(result.Stats.Placed, "image"))
	} else {
		printError("%d of %d requests failed", result.Stats.Failed, result.Stats.Requests)
	}
	printStats(result.Stats.Placed, result.Stats.Failed, result.Stats.Skipped, result.Slides)
	if result.Stats.Appended > 0 {
		printDetail("%s appended", plural(result.Stats.Appended, "slide"))
	}
	if result.Output != "" {
		printFile(result.Output)
	}
}
