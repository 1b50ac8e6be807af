package effects

import (
	"image"
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/disintegration/imaging"
)

// Lighting effects: shadow, reflection, night and backlight. These
// simulate camera and scene conditions rather than plate damage.

// ===========================================================================
// Shadow
// ===========================================================================

// shadow darkens part of the plate. Three variants are drawn per call:
// a directional half shadow, a soft elliptical patch, or a hard-edged
// band cast by an occluding object.
type shadow struct {
	base
}

func newShadow(probability float64, params Params) Effect {
	return &shadow{base{name: NameShadow, probability: probability, params: params}}
}

func (e *shadow) MaybeApply(img image.Image, intensity float64, rng *rand.Rand) (image.Image, bool, error) {
	return e.maybeApply(e, img, intensity, rng)
}

func (e *shadow) Apply(img image.Image, intensity float64, rng *rand.Rand) (image.Image, error) {
	if err := validateImage(img); err != nil {
		return nil, err
	}
	intensity = clampIntensity(intensity)
	strength := e.params.Float("shadow_strength", 0.4) * intensity
	blur := e.params.Float("shadow_blur", 5)

	src := toNRGBA(img)
	b := src.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())

	mask := image.NewGray(b)
	switch rng.IntN(3) {
	case 0:
		// Directional: linear ramp from one side.
		fromLeft := rng.Float64() < 0.5
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				t := float64(x-b.Min.X) / w
				if !fromLeft {
					t = 1 - t
				}
				mask.SetGray(x, y, color.Gray{Y: clamp8((1 - t) * 255)})
			}
		}
	case 1:
		// Patch: one soft ellipse.
		dc := maskContext(b)
		dc.DrawEllipse(rng.Float64()*w, rng.Float64()*h, w/4+rng.Float64()*w/4, h/4+rng.Float64()*h/4)
		dc.Fill()
		mask = maskFromContext(dc, b, blur)
	default:
		// Object: a band across the plate at a random angle.
		dc := maskContext(b)
		angle := (rng.Float64() - 0.5) * 0.8
		bandY := rng.Float64() * h
		bandH := h/6 + rng.Float64()*h/4
		dc.Push()
		dc.RotateAbout(angle, w/2, h/2)
		dc.DrawRectangle(-w, bandY, 3*w, bandH)
		dc.Fill()
		dc.Pop()
		mask = maskFromContext(dc, b, blur/2)
	}

	darkenMask(src, mask, strength)
	return src, nil
}

// ===========================================================================
// Reflection
// ===========================================================================

// reflection adds specular highlights: a single glare spot, a sweeping
// gradient, or several small hotspots.
type reflection struct {
	base
}

func newReflection(probability float64, params Params) Effect {
	return &reflection{base{name: NameReflection, probability: probability, params: params}}
}

func (e *reflection) MaybeApply(img image.Image, intensity float64, rng *rand.Rand) (image.Image, bool, error) {
	return e.maybeApply(e, img, intensity, rng)
}

func (e *reflection) Apply(img image.Image, intensity float64, rng *rand.Rand) (image.Image, error) {
	if err := validateImage(img); err != nil {
		return nil, err
	}
	intensity = clampIntensity(intensity)
	strength := e.params.Float("reflection_strength", 0.3) * intensity
	size := e.params.Float("reflection_size", 0.3)

	src := toNRGBA(img)
	b := src.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())

	dc := maskContext(b)
	switch rng.IntN(3) {
	case 0:
		// Single glare spot.
		r := math.Min(w, h) * size
		dc.DrawEllipse(rng.Float64()*w, rng.Float64()*h, r, r*0.7)
		dc.Fill()
	case 1:
		// Sweeping diagonal streak.
		dc.Push()
		dc.RotateAbout((rng.Float64()-0.5)*0.6, w/2, h/2)
		dc.DrawRectangle(-w, rng.Float64()*h, 3*w, h*size/2)
		dc.Fill()
		dc.Pop()
	default:
		// Several small hotspots.
		n := 2 + rng.IntN(3)
		for i := 0; i < n; i++ {
			r := math.Min(w, h) * size / 3 * (0.5 + rng.Float64())
			dc.DrawEllipse(rng.Float64()*w, rng.Float64()*h, r, r)
			dc.Fill()
		}
	}
	mask := maskFromContext(dc, b, math.Min(w, h)*size/4)
	brightenMask(src, mask, strength)
	return src, nil
}

// ===========================================================================
// Night
// ===========================================================================

// night simulates low-light capture: global darkening, a color
// temperature shift, sensor noise and a slight softening.
type night struct {
	base
}

func newNight(probability float64, params Params) Effect {
	return &night{base{name: NameNight, probability: probability, params: params}}
}

func (e *night) MaybeApply(img image.Image, intensity float64, rng *rand.Rand) (image.Image, bool, error) {
	return e.maybeApply(e, img, intensity, rng)
}

func (e *night) Apply(img image.Image, intensity float64, rng *rand.Rand) (image.Image, error) {
	if err := validateImage(img); err != nil {
		return nil, err
	}
	intensity = clampIntensity(intensity)
	darkness := e.params.Float("darkness_factor", 0.6)
	temperature := e.params.String("color_temperature", "warm")

	src := toNRGBA(img)
	scaleRGB(src, 1.0-(1.0-darkness)*intensity)

	// Street lamps read warm; moonlight and LED floods read cool.
	shift := 12 * intensity
	for i := 0; i < len(src.Pix); i += 4 {
		if temperature == "warm" {
			src.Pix[i] = clamp8(float64(src.Pix[i]) + shift)
			src.Pix[i+2] = clamp8(float64(src.Pix[i+2]) - shift)
		} else {
			src.Pix[i] = clamp8(float64(src.Pix[i]) - shift)
			src.Pix[i+2] = clamp8(float64(src.Pix[i+2]) + shift)
		}
	}

	// Gaussian sensor noise, stronger in darker scenes.
	sigma := 6 * intensity
	for i := 0; i < len(src.Pix); i += 4 {
		n := rng.NormFloat64() * sigma
		src.Pix[i] = clamp8(float64(src.Pix[i]) + n)
		src.Pix[i+1] = clamp8(float64(src.Pix[i+1]) + n)
		src.Pix[i+2] = clamp8(float64(src.Pix[i+2]) + n)
	}

	if intensity > 0.4 {
		return imaging.Blur(src, 0.6), nil
	}
	return src, nil
}

// ===========================================================================
// Backlight
// ===========================================================================

// backlight simulates a strong light source behind the plate: a bright
// gradient from one edge, reduced contrast, and edge emphasis where the
// silhouette survives.
type backlight struct {
	base
}

func newBacklight(probability float64, params Params) Effect {
	return &backlight{base{name: NameBacklight, probability: probability, params: params}}
}

func (e *backlight) MaybeApply(img image.Image, intensity float64, rng *rand.Rand) (image.Image, bool, error) {
	return e.maybeApply(e, img, intensity, rng)
}

func (e *backlight) Apply(img image.Image, intensity float64, rng *rand.Rand) (image.Image, error) {
	if err := validateImage(img); err != nil {
		return nil, err
	}
	intensity = clampIntensity(intensity)
	strength := e.params.Float("backlight_strength", 0.4) * intensity
	enhanceEdges := e.params.Bool("edge_enhancement", true)

	src := toNRGBA(img)
	b := src.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())

	// Radial glare from a point just outside a random edge.
	cx := rng.Float64() * w
	cy := -h * 0.3
	if rng.Float64() < 0.5 {
		cy = h * 1.3
	}
	maxDist := math.Hypot(w, h)
	mask := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			d := math.Hypot(float64(x-b.Min.X)-cx, float64(y-b.Min.Y)-cy)
			t := 1 - d/maxDist
			if t < 0 {
				t = 0
			}
			mask.SetGray(x, y, color.Gray{Y: clamp8(t * t * 255)})
		}
	}
	brightenMask(src, mask, strength)

	// Backlit scenes lose contrast.
	out := imaging.AdjustContrast(src, -20*intensity)
	if enhanceEdges {
		out = imaging.Sharpen(out, 0.5+intensity)
	}
	return out, nil
}
