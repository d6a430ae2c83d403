package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"image-editor/internal/algorithms"
	"image-editor/internal/geometry"
	imgio "image-editor/internal/io"
	"image-editor/internal/recipe"
)

// renderOpts holds the flags of the render command. Adjustment flags are
// registered from the parameter registry and read back by name.
type renderOpts struct {
	output     string
	recipePath string
	preset     string
	rotate     int
	flipH      bool
	flipV      bool
	fitWidth   int
	fitHeight  int
}

func newRenderCmd(rt *Runtime) *cobra.Command {
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render <input>",
		Short: "Apply adjustments and geometry to an image and write a PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.plan(cmd)
			if err != nil {
				return err
			}
			return runRender(cmd.Context(), rt, args[0], &opts, r)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output PNG (default edited-image-<ms>.png)")
	cmd.Flags().StringVarP(&opts.recipePath, "recipe", "r", "", "TOML recipe applied before the flags")
	cmd.Flags().StringVarP(&opts.preset, "preset", "p", "", "preset filter: none, grayscale, sepia, invert, vintage, warm, cool")
	cmd.Flags().IntVar(&opts.rotate, "rotate", 0, "number of 90° clockwise rotations")
	cmd.Flags().BoolVar(&opts.flipH, "flip-h", false, "mirror horizontally")
	cmd.Flags().BoolVar(&opts.flipV, "flip-v", false, "mirror vertically")
	cmd.Flags().IntVar(&opts.fitWidth, "fit-width", 0, "downscale to fit this width (with --fit-height)")
	cmd.Flags().IntVar(&opts.fitHeight, "fit-height", 0, "downscale to fit this height (with --fit-width)")
	for _, f := range algorithms.Fields() {
		cmd.Flags().Int(string(f.Field), f.Default,
			fmt.Sprintf("%s (%s..%s)", f.Description, f.FormatValue(f.Min), f.FormatValue(f.Max)))
	}

	return cmd
}

// plan merges the recipe file and the flags into one recipe. Flags override
// recipe adjustments; flag geometry runs after recipe geometry.
func (o *renderOpts) plan(cmd *cobra.Command) (*recipe.Recipe, error) {
	r := &recipe.Recipe{Adjustments: algorithms.Neutral()}
	if o.recipePath != "" {
		var err error
		if r, err = recipe.Load(o.recipePath); err != nil {
			return nil, err
		}
	}

	if o.rotate < 0 {
		return nil, fmt.Errorf("--rotate must not be negative")
	}
	for i := 0; i < o.rotate%4; i++ {
		r.Geometry = append(r.Geometry, geometry.RotateClockwise.String())
	}
	if o.flipH {
		r.Geometry = append(r.Geometry, geometry.FlipHorizontal.String())
	}
	if o.flipV {
		r.Geometry = append(r.Geometry, geometry.FlipVertical.String())
	}

	for _, f := range algorithms.Fields() {
		name := string(f.Field)
		if !cmd.Flags().Changed(name) {
			continue
		}
		v, err := cmd.Flags().GetInt(name)
		if err != nil {
			return nil, err
		}
		if r.Adjustments, err = r.Adjustments.With(f.Field, v); err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("preset") {
		p, err := algorithms.ParsePreset(o.preset)
		if err != nil {
			return nil, err
		}
		r.Adjustments = r.Adjustments.WithPreset(p)
	}
	return r, nil
}

func runRender(ctx context.Context, rt *Runtime, input string, opts *renderOpts, r *recipe.Recipe) error {
	start := time.Now()
	log := rt.Logger.WithField("input", input)

	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	c, err := rt.NewController(opts.fitWidth, opts.fitHeight)
	if err != nil {
		return err
	}
	if err := c.Load(ctx, data); err != nil {
		return err
	}
	if err := r.Apply(ctx, c); err != nil {
		return err
	}

	encoded, err := c.Export(ctx)
	if err != nil {
		return err
	}

	output := opts.output
	if output == "" {
		output = imgio.DefaultFilename(time.Now())
	}
	if err := os.WriteFile(output, encoded, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	meta := c.Metadata()
	log.WithFields(logrus.Fields{
		"output":   output,
		"plan":     algorithms.Describe(algorithms.Plan(r.Adjustments)),
		"geometry": len(r.Geometry),
		"width":    meta.Width,
		"height":   meta.Height,
		"size":     humanize.Bytes(uint64(len(encoded))),
		"render":   c.Stats().LastRender.Round(time.Microsecond),
		"duration": time.Since(start).Round(time.Millisecond),
	}).Info("Image rendered")
	return nil
}
