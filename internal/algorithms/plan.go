// Ordered render plan
package algorithms

import "strings"

// Plan expands parameters into the ordered list of steps the renderer executes:
// brightness, contrast, saturation, hue rotation, blur, then the preset recipe.
// Steps at their neutral value are left out, so neutral parameters yield an empty plan.
func Plan(p Parameters) []Step {
	var steps []Step

	if p.Brightness != 100 {
		steps = append(steps, Brightness(float64(p.Brightness)/100))
	}
	if p.Contrast != 100 {
		steps = append(steps, Contrast(float64(p.Contrast)/100))
	}
	if p.Saturation != 100 {
		steps = append(steps, Saturate(float64(p.Saturation)/100))
	}
	if p.Hue%360 != 0 {
		steps = append(steps, HueRotate(float64(p.Hue)))
	}
	if p.Blur > 0 {
		steps = append(steps, GaussianBlur{Sigma: float64(p.Blur)})
	}

	return append(steps, Recipe(p.Preset)...)
}

// Describe joins step names the way a filter string would be written.
func Describe(steps []Step) string {
	if len(steps) == 0 {
		return "none"
	}
	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = s.Name()
	}
	return strings.Join(names, " ")
}
