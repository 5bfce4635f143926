package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/epit3d/spycer/pkg/buildinfo"
	"github.com/epit3d/spycer/pkg/cache"
	"github.com/epit3d/spycer/pkg/render"
	"github.com/epit3d/spycer/pkg/scene"
	"github.com/epit3d/spycer/pkg/settings"
	"github.com/epit3d/spycer/pkg/slicer"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "spycer"

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

	settingsPath string
	settings     *settings.Settings
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
		Use:          appName,
		Short:        "Spycer views and slices models for multi-axis printers",
		Long:         `Spycer loads STL models and multi-axis G-code, plays layers back across printer head rotations, edits slicing figures and drives the external slicing engine.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadSettings()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.settingsPath, "settings", "", "settings file (default ./settings.yaml or user config dir)")

	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.sliceCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.modesCommand())
	root.AddCommand(c.figuresCommand())
	root.AddCommand(c.settingsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadSettings() error {
	path := c.settingsPath
	if path == "" {
		path = settings.DefaultPath()
	}
	s, err := settings.Load(path)
	if err != nil {
		return err
	}
	c.settings = s
	c.Logger.Debug("settings loaded", "path", path)
	return nil
}

// =============================================================================
// Factories
// =============================================================================

// openCache opens the configured cache backend, or a null cache when
// noCache is set.
func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cfg, err := c.settings.Cache()
	if err != nil {
		return nil, err
	}
	if cfg.Backend == cache.BackendFile && cfg.Dir == "" {
		cfg.Dir, err = cacheDir()
		if err != nil {
			return nil, err
		}
	}
	return cache.Open(ctx, cfg)
}

// newRunner creates a slicing runner for CLI use. Keys carry the
// configured cache.prefix.
func (c *CLI) newRunner(ctx context.Context, noCache bool, workDir string) (*slicer.Runner, error) {
	cfg, err := c.settings.Cache()
	if err != nil {
		return nil, err
	}
	cc, err := c.openCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return slicer.NewRunner(cc, cfg.Keyer(), c.Logger, workDir), nil
}

// newScene creates a controller drawing into a recorder, styled from the
// settings.
func (c *CLI) newScene() (*scene.Controller, *render.Recorder, error) {
	style, err := c.settings.Style()
	if err != nil {
		return nil, nil, err
	}
	rec := render.NewRecorder()
	return scene.New(rec, scene.WithStyle(style), scene.WithLogger(c.Logger)), rec, nil
}
