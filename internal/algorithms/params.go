// Adjustment parameters and preset selector
package algorithms

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownField is returned when a parameter name is not one of the adjustable fields.
var ErrUnknownField = errors.New("unknown adjustment field")

// Field names one continuous adjustment.
type Field string

const (
	FieldBrightness Field = "brightness"
	FieldContrast   Field = "contrast"
	FieldSaturation Field = "saturation"
	FieldHue        Field = "hue"
	FieldBlur       Field = "blur"
)

// Preset is the single stylistic filter layered on top of the continuous adjustments.
type Preset int

const (
	PresetNone Preset = iota
	PresetGrayscale
	PresetSepia
	PresetInvert
	PresetVintage
	PresetWarm
	PresetCool
)

var presetNames = [...]string{
	PresetNone:      "none",
	PresetGrayscale: "grayscale",
	PresetSepia:     "sepia",
	PresetInvert:    "invert",
	PresetVintage:   "vintage",
	PresetWarm:      "warm",
	PresetCool:      "cool",
}

// Presets lists every preset in display order.
func Presets() []Preset {
	return []Preset{PresetNone, PresetGrayscale, PresetSepia, PresetInvert, PresetVintage, PresetWarm, PresetCool}
}

func (p Preset) String() string {
	if p < 0 || int(p) >= len(presetNames) {
		return fmt.Sprintf("preset(%d)", int(p))
	}
	return presetNames[p]
}

// Valid reports whether p is a member of the closed preset set.
func (p Preset) Valid() bool {
	return p >= 0 && int(p) < len(presetNames)
}

// ParsePreset accepts the lowercase preset name; the empty string means none.
func ParsePreset(s string) (Preset, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return PresetNone, nil
	}
	for i, n := range presetNames {
		if n == name {
			return Preset(i), nil
		}
	}
	return PresetNone, fmt.Errorf("unknown preset %q", s)
}

func (p Preset) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("unknown preset %d", int(p))
	}
	return []byte(p.String()), nil
}

func (p *Preset) UnmarshalText(text []byte) error {
	parsed, err := ParsePreset(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Parameters is the complete state of the adjustment chain. It is a value type:
// updates return a modified copy.
//
// Values outside the UI bounds are accepted; the renderer clamps amounts to
// their legal domain instead of failing.
type Parameters struct {
	Brightness int    `json:"brightness" toml:"brightness" mapstructure:"brightness"`
	Contrast   int    `json:"contrast" toml:"contrast" mapstructure:"contrast"`
	Saturation int    `json:"saturation" toml:"saturation" mapstructure:"saturation"`
	Hue        int    `json:"hue" toml:"hue" mapstructure:"hue"`
	Blur       int    `json:"blur" toml:"blur" mapstructure:"blur"`
	Preset     Preset `json:"preset" toml:"preset" mapstructure:"preset"`
}

// Neutral returns the parameters that render as an exact identity.
func Neutral() Parameters {
	return Parameters{
		Brightness: 100,
		Contrast:   100,
		Saturation: 100,
		Hue:        0,
		Blur:       0,
		Preset:     PresetNone,
	}
}

// IsNeutral reports whether rendering with p leaves every pixel unchanged.
func (p Parameters) IsNeutral() bool {
	return len(Plan(p)) == 0
}

// Get returns the current value of a continuous field.
func (p Parameters) Get(field Field) (int, error) {
	switch field {
	case FieldBrightness:
		return p.Brightness, nil
	case FieldContrast:
		return p.Contrast, nil
	case FieldSaturation:
		return p.Saturation, nil
	case FieldHue:
		return p.Hue, nil
	case FieldBlur:
		return p.Blur, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownField, field)
}

// With returns a copy of p with one continuous field replaced.
func (p Parameters) With(field Field, value int) (Parameters, error) {
	switch field {
	case FieldBrightness:
		p.Brightness = value
	case FieldContrast:
		p.Contrast = value
	case FieldSaturation:
		p.Saturation = value
	case FieldHue:
		p.Hue = value
	case FieldBlur:
		p.Blur = value
	default:
		return p, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return p, nil
}

// WithPreset returns a copy of p with the preset replaced.
func (p Parameters) WithPreset(preset Preset) Parameters {
	p.Preset = preset
	return p
}

func (p Parameters) String() string {
	return fmt.Sprintf("brightness=%d%% contrast=%d%% saturation=%d%% hue=%d° blur=%dpx preset=%s",
		p.Brightness, p.Contrast, p.Saturation, p.Hue, p.Blur, p.Preset)
}
