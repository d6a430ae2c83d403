// Preset recipes
package algorithms

// presetRecipes is the fixed recipe table. Each preset is a sequence of the same
// primitives the continuous adjustments use, applied after them.
var presetRecipes = map[Preset][]Step{
	PresetNone:      nil,
	PresetGrayscale: {Grayscale(1)},
	PresetSepia:     {Sepia(1)},
	PresetInvert:    {Invert(1)},
	PresetVintage:   {Sepia(0.3), Saturate(1.2), Contrast(1.1)},
	PresetWarm:      {Sepia(0.2), Saturate(1.2), HueRotate(10)},
	PresetCool:      {Saturate(1.2), HueRotate(180), Brightness(1.1)},
}

// Recipe returns the steps a preset layers on top of the continuous adjustments.
// Unknown presets have no steps.
func Recipe(p Preset) []Step {
	steps := presetRecipes[p]
	out := make([]Step, len(steps))
	copy(out, steps)
	return out
}
