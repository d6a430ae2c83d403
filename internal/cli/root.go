// Package cli implements the image-editor command line.
//
// Without a subcommand the desktop editor starts. The render command runs the
// same pipeline headless, and presets lists the preset filter recipes.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"image-editor/internal/algorithms"
	"image-editor/internal/config"
	"image-editor/internal/core"
	imgio "image-editor/internal/io"
	"image-editor/internal/metrics"
)

var version = "dev"

// SetVersion sets the version shown by --version.
func SetVersion(v string) {
	version = v
}

// Runtime is what every command shares once configuration is loaded.
type Runtime struct {
	Config *config.Config
	Logger *logrus.Logger
}

// NewController wires a controller from the configuration. fitWidth and
// fitHeight override the configured working-size box when both are positive.
func (rt *Runtime) NewController(fitWidth, fitHeight int, opts ...core.Option) (*core.Controller, error) {
	cfg := rt.Config
	codecOpts := imgio.Options{
		MaxDimension: cfg.MaxDimension,
		FitWidth:     cfg.FitWidth,
		FitHeight:    cfg.FitHeight,
	}
	if fitWidth > 0 && fitHeight > 0 {
		codecOpts.FitWidth, codecOpts.FitHeight = fitWidth, fitHeight
	}

	entry := logrus.NewEntry(rt.Logger)
	codec, err := imgio.New(cfg.Codec, codecOpts, entry)
	if err != nil {
		return nil, err
	}
	renderer := algorithms.NewRenderer(algorithms.Options{Workers: cfg.RenderWorkers}, entry)

	if cfg.Metrics {
		opts = append([]core.Option{core.WithEvaluator(metrics.NewEvaluator())}, opts...)
	}
	return core.NewController(codec, renderer, entry, opts...), nil
}

// GUILauncher runs the desktop editor until its window closes.
type GUILauncher func(ctx context.Context, rt *Runtime) error

// ErrNoGUI is returned by the default command when no launcher is configured.
var ErrNoGUI = errors.New("desktop editor not available in this build")

// NewRootCommand builds the command tree. Logs go to logOut.
func NewRootCommand(launch GUILauncher, logOut io.Writer) *cobra.Command {
	var (
		configPath string
		verbose    bool
	)
	rt := &Runtime{}

	root := &cobra.Command{
		Use:           "image-editor",
		Short:         "Adjust, rotate and flip raster images",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(cmd.Context(), configPath)
			if err != nil {
				return err
			}
			if verbose {
				cfg.LogLevel = "debug"
			}
			rt.Config = cfg
			rt.Logger = newLogger(cfg, logOut)
			rt.Logger.WithFields(logrus.Fields{
				"version": version,
				"codec":   cfg.Codec,
			}).Debug("Configuration loaded")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if launch == nil {
				return ErrNoGUI
			}
			return launch(cmd.Context(), rt)
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "configuration file (yaml, toml or json)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newRenderCmd(rt))
	root.AddCommand(newPresetsCmd())

	return root
}

// Execute runs the command line with ctx.
func Execute(ctx context.Context, launch GUILauncher, logOut io.Writer) error {
	if err := NewRootCommand(launch, logOut).ExecuteContext(ctx); err != nil {
		return fmt.Errorf("image-editor: %w", err)
	}
	return nil
}
