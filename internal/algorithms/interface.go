// Step model and parameter descriptions for building adjustment controls
package algorithms

import "strconv"

// Step is one primitive of a render plan. Steps run strictly in plan order.
type Step interface {
	// Name renders the step in filter-function notation, e.g. "saturate(120%)".
	Name() string
}

// ParameterInfo describes an adjustable field for UI and flag generation.
type ParameterInfo struct {
	Field       Field  `json:"field"`
	Label       string `json:"label"`
	Min         int    `json:"min"`
	Max         int    `json:"max"`
	Default     int    `json:"default"`
	Unit        string `json:"unit"`
	Description string `json:"description"`
}

// FormatValue renders a value with the field's unit suffix.
func (pi ParameterInfo) FormatValue(v int) string {
	return strconv.Itoa(v) + pi.Unit
}

var parameterInfo = []ParameterInfo{
	{
		Field:       FieldBrightness,
		Label:       "Brightness",
		Min:         0,
		Max:         200,
		Default:     100,
		Unit:        "%",
		Description: "Scales every colour channel; 100% leaves the image unchanged",
	},
	{
		Field:       FieldContrast,
		Label:       "Contrast",
		Min:         0,
		Max:         200,
		Default:     100,
		Unit:        "%",
		Description: "Stretches channels away from mid-grey",
	},
	{
		Field:       FieldSaturation,
		Label:       "Saturation",
		Min:         0,
		Max:         200,
		Default:     100,
		Unit:        "%",
		Description: "0% is greyscale, above 100% boosts colour",
	},
	{
		Field:       FieldHue,
		Label:       "Hue",
		Min:         -180,
		Max:         180,
		Default:     0,
		Unit:        "°",
		Description: "Rotates the hue angle in degrees",
	},
	{
		Field:       FieldBlur,
		Label:       "Blur",
		Min:         0,
		Max:         20,
		Default:     0,
		Unit:        "px",
		Description: "Gaussian blur standard deviation in pixels",
	},
}

// Fields returns the adjustable fields in render order.
func Fields() []ParameterInfo {
	out := make([]ParameterInfo, len(parameterInfo))
	copy(out, parameterInfo)
	return out
}

// FieldInfo looks up the description of one field.
func FieldInfo(field Field) (ParameterInfo, bool) {
	for _, pi := range parameterInfo {
		if pi.Field == field {
			return pi, true
		}
	}
	return ParameterInfo{}, false
}
