// Package effects implements the photographic nuisance effects applied to
// rendered plate images: aging (wear, fade, dirt), geometric warps (tilt,
// perspective, rotate, distort) and lighting (shadow, reflection, night,
// backlight).
//
// # Architecture
//
// Every effect is a stateless strategy behind the Effect interface. An
// effect is constructed from a probability and a parameter map, and each
// call re-randomizes its internal geometry (edge choice, spot placement,
// tilt direction) from the rng handle it is given. Effects never touch
// global random state, so callers control reproducibility by seeding the
// rng they pass in.
//
// # Usage
//
//	eff, err := effects.New("wear_effect", 0.3, nil)
//	out, applied, err := eff.MaybeApply(img, 0.4, rng)
//	if !applied {
//	    // probability roll failed; img is unchanged
//	}
package effects

import (
	"image"
	"math/rand/v2"
	"sort"

	"github.com/plateforge/plateforge/pkg/errors"
)

// Canonical effect names. The set is closed: catalog entries, conflict
// rules and the application order all refer to these names.
const (
	NameWear        = "wear_effect"
	NameFade        = "fade_effect"
	NameDirt        = "dirt_effect"
	NameTilt        = "tilt_transform"
	NamePerspective = "perspective_transform"
	NameRotate      = "rotation_transform"
	NameDistort     = "geometric_distortion"
	NameShadow      = "shadow_effect"
	NameReflection  = "reflection_effect"
	NameNight       = "night_effect"
	NameBacklight   = "backlight_effect"
)

// Effect transforms an image with a strength in [0, 1]. Implementations
// must handle any image with positive area, including 1x1 images, without
// panicking. Zero-area images fail with an INVALID_IMAGE error.
type Effect interface {
	// Name returns the canonical effect name.
	Name() string

	// Probability returns the per-call application probability in [0, 1].
	Probability() float64

	// Apply unconditionally applies the effect at the given intensity.
	Apply(img image.Image, intensity float64, rng *rand.Rand) (image.Image, error)

	// MaybeApply rolls rng against the probability and applies the effect
	// if the roll succeeds. A failed roll returns (nil, false, nil); not
	// applying is a value, not an error.
	MaybeApply(img image.Image, intensity float64, rng *rand.Rand) (image.Image, bool, error)
}

// Params carries effect-specific tuning values. Numeric values are
// float64; readers fall back to defaults on missing or mistyped keys.
type Params map[string]any

// Float returns the float64 value for key, or def if absent or mistyped.
// Integer values are accepted and widened.
func (p Params) Float(key string, def float64) float64 {
	if p == nil {
		return def
	}
	switch v := p[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return def
}

// Int returns the int value for key, or def if absent or mistyped.
func (p Params) Int(key string, def int) int {
	if p == nil {
		return def
	}
	switch v := p[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return def
}

// Bool returns the bool value for key, or def if absent or mistyped.
func (p Params) Bool(key string, def bool) bool {
	if p == nil {
		return def
	}
	if v, ok := p[key].(bool); ok {
		return v
	}
	return def
}

// String returns the string value for key, or def if absent or mistyped.
func (p Params) String(key string, def string) string {
	if p == nil {
		return def
	}
	if v, ok := p[key].(string); ok {
		return v
	}
	return def
}

// base carries the pieces shared by every effect implementation.
type base struct {
	name        string
	probability float64
	params      Params
}

func (b *base) Name() string         { return b.name }
func (b *base) Probability() float64 { return b.probability }

// maybeApply implements the shared probability gate.
func (b *base) maybeApply(e Effect, img image.Image, intensity float64, rng *rand.Rand) (image.Image, bool, error) {
	if rng.Float64() >= b.probability {
		return nil, false, nil
	}
	out, err := e.Apply(img, intensity, rng)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

// Constructor builds an effect from its probability and parameters.
type Constructor func(probability float64, params Params) Effect

// registry maps canonical names to constructors. The set is fixed at
// init; there is no plugin mechanism.
var registry = map[string]Constructor{
	NameWear:        newWear,
	NameFade:        newFade,
	NameDirt:        newDirt,
	NameTilt:        newTilt,
	NamePerspective: newPerspective,
	NameRotate:      newRotate,
	NameDistort:     newDistort,
	NameShadow:      newShadow,
	NameReflection:  newReflection,
	NameNight:       newNight,
	NameBacklight:   newBacklight,
}

// New constructs the named effect. Probability is clamped to [0, 1].
// Unknown names fail with a NOT_FOUND error.
func New(name string, probability float64, params Params) (Effect, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "unknown effect %q", name)
	}
	if probability < 0 {
		probability = 0
	} else if probability > 1 {
		probability = 1
	}
	return ctor(probability, params), nil
}

// Names returns the canonical effect names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Registered reports whether name is a known effect.
func Registered(name string) bool {
	_, ok := registry[name]
	return ok
}

// validateImage rejects nil and zero-area images.
func validateImage(img image.Image) error {
	if img == nil {
		return errors.New(errors.ErrCodeInvalidImage, "nil image")
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return errors.New(errors.ErrCodeInvalidImage, "zero-area image %dx%d", b.Dx(), b.Dy())
	}
	return nil
}

// clampIntensity constrains intensity to [0, 1].
func clampIntensity(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
