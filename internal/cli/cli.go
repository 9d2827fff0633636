// Package cli implements the slideslot command-line interface.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/slideslot/internal/config"
	"github.com/matzehuels/slideslot/pkg/buildinfo"
	"github.com/matzehuels/slideslot/pkg/geometry"
	"github.com/matzehuels/slideslot/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = config.AppName
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath overrides the default configuration file location.
	ConfigPath string

	config *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Slideslot places images into slide quadrants",
		Long: `Slideslot assigns images to slides and slide positions from a mapping file,
avoiding collisions with pictures already on the deck.

Each slide offers three slots: top-right, bottom-left and bottom-right.
Requests may pin a slide, a slot, both, or neither. Freeform positions
(center, custom, top-left) are placed as asked and never reserve a slot.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/slideslot/config.toml)")

	// Register all subcommands
	root.AddCommand(c.placeCommand())
	root.AddCommand(c.planCommand())
	root.AddCommand(c.scanCommand())
	root.AddCommand(c.samplesCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Logger)
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig reads the configuration file once.
func (c *CLI) loadConfig() error {
	if c.config != nil {
		return nil
	}
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return err
	}
	c.config = cfg
	c.Logger.Debug("loaded config", "path", c.ConfigPath, "images", cfg.Images, "dpi", cfg.DPI)
	return nil
}

// cfg returns the loaded configuration, or an empty one before loading.
func (c *CLI) cfg() *config.Config {
	if c.config == nil {
		return &config.Config{}
	}
	return c.config
}

// =============================================================================
// Options Helpers
// =============================================================================

// setConfigDefaults fills options the flags left unset from the config
// file. Unset options fall through to pipeline defaults.
func setConfigDefaults(opts *pipeline.Options, cfg *config.Config) {
	if opts.ImagesDir == "" {
		opts.ImagesDir = cfg.Images
	}
	if opts.DPI == 0 {
		opts.DPI = cfg.DPI
	}
	if opts.Width == 0 && opts.Height == 0 {
		opts.Width, opts.Height = cfg.Size.Width, cfg.Size.Height
	}
	if opts.Canvas == (geometry.Canvas{}) {
		opts.Canvas = canvasOf(cfg.Canvas)
	}
}

// setPlanConfigDefaults is setConfigDefaults for planning runs.
func setPlanConfigDefaults(opts *pipeline.PlanOptions, cfg *config.Config) {
	if opts.Width == 0 && opts.Height == 0 {
		opts.Width, opts.Height = cfg.PlanSize.Width, cfg.PlanSize.Height
	}
	if opts.Canvas == (geometry.Canvas{}) {
		opts.Canvas = canvasOf(cfg.Canvas)
	}
}

func canvasOf(s config.Size) geometry.Canvas {
	return geometry.Canvas{Width: s.Width, Height: s.Height}
}
