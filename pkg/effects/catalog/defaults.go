package catalog

import "github.com/plateforge/plateforge/pkg/effects"

// Default catalog tuning.
const (
	DefaultGlobalProbability = 0.3
	DefaultMaxConcurrent     = 3
)

// DefaultDescriptors returns the stock effect configuration. Every
// registered effect appears exactly once.
func DefaultDescriptors() []Descriptor {
	return []Descriptor{
		{
			Name:           effects.NameWear,
			Category:       CategoryAging,
			Probability:    0.3,
			IntensityRange: IntensityRange{Lo: 0.1, Hi: 0.6},
			Enabled:        true,
			Params: effects.Params{
				"wear_strength":       0.3,
				"blur_kernel_size":    3,
				"erosion_kernel_size": 2,
			},
		},
		{
			Name:           effects.NameFade,
			Category:       CategoryAging,
			Probability:    0.3,
			IntensityRange: IntensityRange{Lo: 0.1, Hi: 0.5},
			Enabled:        true,
			Params: effects.Params{
				"fade_factor": 0.7,
				"color_shift": 0.1,
			},
		},
		{
			Name:           effects.NameDirt,
			Category:       CategoryAging,
			Probability:    0.2,
			IntensityRange: IntensityRange{Lo: 0.1, Hi: 0.4},
			Enabled:        true,
			Params: effects.Params{
				"dirt_density":  0.05,
				"spot_size_min": 2,
				"spot_size_max": 8,
			},
		},
		{
			Name:           effects.NameTilt,
			Category:       CategoryPerspective,
			Probability:    0.4,
			IntensityRange: IntensityRange{Lo: 0.1, Hi: 0.3},
			Enabled:        true,
			Params: effects.Params{
				"max_angle":       15,
				"horizontal_tilt": true,
				"vertical_tilt":   true,
			},
		},
		{
			Name:           effects.NamePerspective,
			Category:       CategoryPerspective,
			Probability:    0.3,
			IntensityRange: IntensityRange{Lo: 0.1, Hi: 0.4},
			Enabled:        true,
			Params: effects.Params{
				"perspective_strength": 0.2,
				"maintain_aspect":      true,
			},
		},
		{
			Name:           effects.NameRotate,
			Category:       CategoryPerspective,
			Probability:    0.2,
			IntensityRange: IntensityRange{Lo: 0.1, Hi: 0.2},
			Enabled:        true,
			Params: effects.Params{
				"max_rotation": 10,
			},
		},
		{
			Name:           effects.NameDistort,
			Category:       CategoryPerspective,
			Probability:    0.15,
			IntensityRange: IntensityRange{Lo: 0.1, Hi: 0.3},
			Enabled:        true,
			Params: effects.Params{
				"amplitude":  3,
				"wave_count": 2,
			},
		},
		{
			Name:           effects.NameShadow,
			Category:       CategoryLighting,
			Probability:    0.3,
			IntensityRange: IntensityRange{Lo: 0.2, Hi: 0.6},
			Enabled:        true,
			Params: effects.Params{
				"shadow_strength": 0.4,
				"shadow_blur":     5,
			},
		},
		{
			Name:           effects.NameReflection,
			Category:       CategoryLighting,
			Probability:    0.2,
			IntensityRange: IntensityRange{Lo: 0.1, Hi: 0.4},
			Enabled:        true,
			Params: effects.Params{
				"reflection_strength": 0.3,
				"reflection_size":     0.3,
			},
		},
		{
			Name:           effects.NameNight,
			Category:       CategoryLighting,
			Probability:    0.2,
			IntensityRange: IntensityRange{Lo: 0.2, Hi: 0.7},
			Enabled:        true,
			Params: effects.Params{
				"darkness_factor":   0.6,
				"color_temperature": "warm",
			},
		},
		{
			Name:           effects.NameBacklight,
			Category:       CategoryLighting,
			Probability:    0.2,
			IntensityRange: IntensityRange{Lo: 0.1, Hi: 0.5},
			Enabled:        true,
			Params: effects.Params{
				"backlight_strength": 0.4,
				"edge_enhancement":   true,
			},
		},
	}
}

// Default returns a catalog with the stock configuration.
func Default() *Catalog {
	c, err := New(DefaultGlobalProbability, DefaultMaxConcurrent, DefaultDescriptors())
	if err != nil {
		// The stock table is validated by tests; this cannot fail.
		panic(err)
	}
	return c
}
