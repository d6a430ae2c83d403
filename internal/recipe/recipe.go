// Package recipe reads edit recipes: an ordered list of geometry operations
// followed by the adjustment parameters to render with.
//
//	geometry = ["rotate", "flip-h"]
//
//	[adjustments]
//	brightness = 120
//	hue = -30
//	preset = "vintage"
//
// Fields missing from [adjustments] keep their neutral value.
package recipe

import (
	"context"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"image-editor/internal/algorithms"
	"image-editor/internal/core"
	"image-editor/internal/geometry"
)

// Recipe is a parsed recipe file.
type Recipe struct {
	Geometry    []string              `toml:"geometry" validate:"dive,oneof=rotate flip-h flip-v"`
	Adjustments algorithms.Parameters `toml:"adjustments"`
}

// Parse decodes and validates recipe text.
func Parse(data []byte) (*Recipe, error) {
	r := Recipe{Adjustments: algorithms.Neutral()}
	md, err := toml.Decode(string(data), &r)
	if err != nil {
		return nil, fmt.Errorf("parse recipe: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parse recipe: unknown keys %v", undecoded)
	}

	if err := validator.New().Struct(r); err != nil {
		return nil, fmt.Errorf("validate recipe: %w", err)
	}
	return &r, nil
}

// Load reads and parses the recipe at path.
func Load(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recipe: %w", err)
	}
	return Parse(data)
}

// Ops returns the geometry operations in file order.
func (r *Recipe) Ops() ([]geometry.Op, error) {
	ops := make([]geometry.Op, 0, len(r.Geometry))
	for _, name := range r.Geometry {
		op, err := geometry.ParseOp(name)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// Apply runs the geometry operations on the controller's loaded image, then
// sets the adjustments.
func (r *Recipe) Apply(ctx context.Context, c *core.Controller) error {
	ops, err := r.Ops()
	if err != nil {
		return err
	}
	for _, op := range ops {
		if err := c.ApplyGeometry(ctx, op); err != nil {
			return fmt.Errorf("apply %s: %w", op, err)
		}
	}
	return c.SetParameters(ctx, r.Adjustments)
}
