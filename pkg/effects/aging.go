package effects

import (
	"image"
	"image/color"
	"math/rand/v2"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// Aging effects: wear, fade and dirt. All three simulate physical
// degradation of the plate surface rather than camera conditions.

// maskContext returns a gg drawing context over a black canvas; white
// shapes drawn on it become the blend mask.
func maskContext(b image.Rectangle) *gg.Context {
	dc := gg.NewContext(b.Dx(), b.Dy())
	dc.SetColor(color.Black)
	dc.Clear()
	dc.SetColor(color.White)
	return dc
}

// maskFromContext converts a drawn mask context into a gray mask aligned
// with the given bounds, optionally gaussian-smoothed.
func maskFromContext(dc *gg.Context, b image.Rectangle, sigma float64) *image.Gray {
	src := dc.Image()
	out := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, _, _, _ := src.At(x-b.Min.X, y-b.Min.Y).RGBA()
			out.SetGray(x, y, color.Gray{Y: uint8(r >> 8)})
		}
	}
	return blurGray(out, sigma)
}

// ===========================================================================
// Wear
// ===========================================================================

// wear abrades the plate surface: random worn patches are eroded and
// locally blurred so paint looks rubbed off.
type wear struct {
	base
}

func newWear(probability float64, params Params) Effect {
	return &wear{base{name: NameWear, probability: probability, params: params}}
}

func (e *wear) MaybeApply(img image.Image, intensity float64, rng *rand.Rand) (image.Image, bool, error) {
	return e.maybeApply(e, img, intensity, rng)
}

func (e *wear) Apply(img image.Image, intensity float64, rng *rand.Rand) (image.Image, error) {
	if err := validateImage(img); err != nil {
		return nil, err
	}
	intensity = clampIntensity(intensity)
	strength := e.params.Float("wear_strength", 0.3) * intensity
	blurSigma := float64(e.params.Int("blur_kernel_size", 3)) / 2.0

	src := toNRGBA(img)
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	// Worn patches: a handful of soft ellipses scaled by intensity.
	dc := maskContext(b)
	patches := 3 + rng.IntN(4) + int(intensity*5)
	for i := 0; i < patches; i++ {
		cx := rng.Float64() * float64(w)
		cy := rng.Float64() * float64(h)
		rx := (2 + rng.Float64()*float64(w)/8) * (0.5 + intensity)
		ry := (2 + rng.Float64()*float64(h)/8) * (0.5 + intensity)
		dc.DrawEllipse(cx, cy, rx, ry)
		dc.Fill()
	}
	mask := maskFromContext(dc, b, blurSigma+intensity*2)

	// Worn regions show the eroded, blurred surface.
	worn := imaging.Blur(src, 1.0+intensity*2)
	darkenOverlay(worn, 0.15*intensity)
	blendMaskScaled(src, worn, mask, strength)
	return src, nil
}

// darkenOverlay dims an overlay buffer uniformly.
func darkenOverlay(dst *image.NRGBA, amount float64) {
	scaleRGB(dst, 1.0-amount)
}

// blendMaskScaled is blendMask with the mask weight scaled by strength.
func blendMaskScaled(dst, overlay *image.NRGBA, mask *image.Gray, strength float64) {
	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			m := mask.GrayAt(x, y).Y
			if m == 0 {
				continue
			}
			t := float64(m) / 255.0 * strength
			di := dst.PixOffset(x, y)
			oi := overlay.PixOffset(x, y)
			dst.Pix[di] = lerp8(dst.Pix[di], overlay.Pix[oi], t)
			dst.Pix[di+1] = lerp8(dst.Pix[di+1], overlay.Pix[oi+1], t)
			dst.Pix[di+2] = lerp8(dst.Pix[di+2], overlay.Pix[oi+2], t)
		}
	}
}

// ===========================================================================
// Fade
// ===========================================================================

// fade washes out plate colors: reduced saturation and contrast with a
// mild warm shift, as sun-bleached paint looks.
type fade struct {
	base
}

func newFade(probability float64, params Params) Effect {
	return &fade{base{name: NameFade, probability: probability, params: params}}
}

func (e *fade) MaybeApply(img image.Image, intensity float64, rng *rand.Rand) (image.Image, bool, error) {
	return e.maybeApply(e, img, intensity, rng)
}

func (e *fade) Apply(img image.Image, intensity float64, rng *rand.Rand) (image.Image, error) {
	if err := validateImage(img); err != nil {
		return nil, err
	}
	intensity = clampIntensity(intensity)
	fadeFactor := e.params.Float("fade_factor", 0.7)
	colorShift := e.params.Float("color_shift", 0.1) * intensity

	// fadeFactor is the floor at full intensity; interpolate toward it.
	sat := 1.0 - (1.0-fadeFactor)*intensity
	out := imaging.AdjustSaturation(toNRGBA(img), (sat-1.0)*100)
	out = imaging.AdjustContrast(out, -15*intensity)
	out = imaging.AdjustBrightness(out, 8*intensity)

	// Warm or cool shift, direction picked per call.
	shift := colorShift * 255
	if rng.Float64() < 0.5 {
		shift = -shift
	}
	for i := 0; i < len(out.Pix); i += 4 {
		out.Pix[i] = clamp8(float64(out.Pix[i]) + shift)
		out.Pix[i+2] = clamp8(float64(out.Pix[i+2]) - shift)
	}
	return out, nil
}

// ===========================================================================
// Dirt
// ===========================================================================

// dirt splatters the plate with dust, mud and grime spots.
type dirt struct {
	base
}

func newDirt(probability float64, params Params) Effect {
	return &dirt{base{name: NameDirt, probability: probability, params: params}}
}

func (e *dirt) MaybeApply(img image.Image, intensity float64, rng *rand.Rand) (image.Image, bool, error) {
	return e.maybeApply(e, img, intensity, rng)
}

// dirtTones are the spot colors cycled through when splattering.
var dirtTones = []color.NRGBA{
	{R: 101, G: 83, B: 63, A: 255},  // mud
	{R: 130, G: 120, B: 105, A: 255}, // dust
	{R: 70, G: 62, B: 52, A: 255},   // grime
	{R: 150, G: 145, B: 138, A: 255}, // dried water
}

func (e *dirt) Apply(img image.Image, intensity float64, rng *rand.Rand) (image.Image, error) {
	if err := validateImage(img); err != nil {
		return nil, err
	}
	intensity = clampIntensity(intensity)
	density := e.params.Float("dirt_density", 0.05) * intensity
	minSize := e.params.Int("spot_size_min", 2)
	maxSize := e.params.Int("spot_size_max", 8)
	if maxSize < minSize {
		maxSize = minSize
	}

	src := toNRGBA(img)
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	spots := int(float64(w*h) * density / float64(maxSize*maxSize))
	if spots < 1 {
		spots = 1
	}

	// One mask per tone; spot opacity is encoded in the drawn gray level.
	contexts := make([]*gg.Context, len(dirtTones))
	for i := range contexts {
		contexts[i] = maskContext(b)
	}
	for i := 0; i < spots; i++ {
		ti := rng.IntN(len(dirtTones))
		cx := rng.Float64() * float64(w)
		cy := rng.Float64() * float64(h)
		r := float64(minSize) + rng.Float64()*float64(maxSize-minSize)
		opacity := 0.3 + rng.Float64()*0.5*intensity

		dc := contexts[ti]
		g := clamp8(opacity * 255)
		dc.SetColor(color.Gray{Y: g})
		dc.DrawEllipse(cx, cy, r, r*(0.6+rng.Float64()*0.6))
		dc.Fill()
	}
	sigma := float64(minSize) / 2
	for ti, dc := range contexts {
		mask := maskFromContext(dc, b, sigma)
		tintMask(src, dirtTones[ti], mask, 1.0)
	}
	return src, nil
}
