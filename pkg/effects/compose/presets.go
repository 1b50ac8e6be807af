package compose

import (
	"image"
	"sort"

	"github.com/plateforge/plateforge/pkg/effects"
	"github.com/plateforge/plateforge/pkg/errors"
)

// Preset bundles composition options under a name.
type Preset struct {
	Name        string
	Description string
	Options     Options
}

// presets is the static preset table. Presets are a closed set; callers
// needing custom combinations use Options directly.
var presets = map[string]Preset{
	"light_aging": {
		Name:        "light_aging",
		Description: "gentle wear for plates a few years old",
		Options: Options{
			Force:          []string{effects.NameFade},
			MaxTransforms:  2,
			IntensityScale: 0.5,
		},
	},
	"heavy_aging": {
		Name:        "heavy_aging",
		Description: "heavy wear for old or neglected plates",
		Options: Options{
			Force:          []string{effects.NameFade, effects.NameWear, effects.NameDirt},
			MaxTransforms:  3,
			IntensityScale: 0.8,
		},
	},
	"perspective_only": {
		Name:        "perspective_only",
		Description: "camera angle variation without surface damage",
		Options: Options{
			Force:          []string{effects.NameTilt},
			Exclude:        []string{effects.NameFade, effects.NameWear, effects.NameDirt},
			MaxTransforms:  2,
			IntensityScale: 0.7,
		},
	},
	"low_light": {
		Name:        "low_light",
		Description: "dusk and night capture conditions",
		Options: Options{
			Force:          []string{effects.NameNight, effects.NameShadow},
			MaxTransforms:  3,
			IntensityScale: 0.6,
		},
	},
	"harsh_conditions": {
		Name:        "harsh_conditions",
		Description: "weathered plates in poor lighting",
		Options: Options{
			Force:          []string{effects.NameWear, effects.NameDirt, effects.NameShadow},
			MaxTransforms:  4,
			IntensityScale: 0.9,
		},
	},
}

// Presets returns all presets sorted by name.
func Presets() []Preset {
	out := make([]Preset, 0, len(presets))
	for _, p := range presets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LookupPreset returns the named preset.
func LookupPreset(name string) (Preset, bool) {
	p, ok := presets[name]
	return p, ok
}

// ApplyPreset composes with a named preset's options. Unknown names fail
// with UNKNOWN_PRESET; there is no fallback.
func (e *Engine) ApplyPreset(img image.Image, name string) (image.Image, []string, error) {
	p, ok := presets[name]
	if !ok {
		return nil, nil, errors.New(errors.ErrCodeUnknownPreset, "unknown preset %q", name)
	}
	return e.Apply(img, p.Options)
}
