package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/slideslot/pkg/mapping"
	"github.com/matzehuels/slideslot/pkg/slot"
)

// sampleBase is the file name stem of generated samples.
const sampleBase = "sample_mapping"

var sampleExt = map[mapping.Format]string{
	mapping.FormatJSON: ".json",
	mapping.FormatYAML: ".yaml",
	mapping.FormatTOML: ".toml",
	mapping.FormatCSV:  ".csv",
	mapping.FormatXLSX: ".xlsx",
	mapping.FormatText: ".txt",
}

// samplesCommand creates the samples command for writing example mappings.
func (c *CLI) samplesCommand() *cobra.Command {
	var formatsStr string

	cmd := &cobra.Command{
		Use:   "samples [dir]",
		Short: "Write sample mapping files",
		Long: `Write sample mapping files that mix automatic and explicit assignment.

Each file holds the same five requests, so the samples double as a reference
for how the forms line up.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			formats, err := parseFormats(formatsStr)
			if err != nil {
				return err
			}
			return c.runSamples(dir, formats)
		},
	}

	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "format(s) to write: json, csv, text (default), yaml, toml, xlsx (comma-separated)")

	return cmd
}

// parseFormats parses a comma-separated format list.
func parseFormats(s string) ([]mapping.Format, error) {
	if s == "" {
		return []mapping.Format{mapping.FormatJSON, mapping.FormatCSV, mapping.FormatText}, nil
	}
	var out []mapping.Format
	for _, name := range strings.Split(s, ",") {
		f, err := mapping.ParseFormat(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// sampleRequests returns five requests covering auto assignment, a pinned
// slot, and a slot-only preference.
func sampleRequests() []mapping.Request {
	size := slot.Geometry{Width: slot.Float(3), Height: slot.Float(2)}
	return []mapping.Request{
		{Image: 1, Geometry: size},
		{Image: 2, Geometry: size},
		{Image: 3, Slide: mapping.SlideRef(1), Target: slot.BottomLeft, Geometry: size},
		{Image: 4, Geometry: size},
		{Image: 5, Target: slot.TopRight, Geometry: size},
	}
}

// runSamples writes one sample file per format into dir.
func (c *CLI) runSamples(dir string, formats []mapping.Format) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	reqs := sampleRequests()
	var written []string
	for _, f := range formats {
		path := filepath.Join(dir, sampleBase+sampleExt[f])
		if err := mapping.WriteFile(path, f, reqs); err != nil {
			return fmt.Errorf("write %s sample: %w", f, err)
		}
		c.Logger.Debug("wrote sample", "format", f, "path", path)
		written = append(written, path)
	}

	printSuccess("Wrote %s", plural(len(written), "sample mapping"))
	for _, p := range written {
		printFile(p)
	}
	printNewline()
	printKeyValue("Positions", strings.Join(slot.Names(), ", "))
	printKeyValue("Automatic", "use \"auto\" for slide or position")
	printNewline()
	printNextStep("Try one", fmt.Sprintf("%s place %s --images <dir>", appName, written[0]))
	return nil
}
