package effects

import (
	"image"
	"math"
	"math/rand/v2"

	"github.com/disintegration/imaging"

	"github.com/plateforge/plateforge/pkg/errors"
)

// Geometric effects: tilt, perspective, rotation and grid distortion.
// All four warp plate geometry; the conflict table keeps them mutually
// exclusive so a single composition never stacks two warps.

// bilinearSample reads src at a fractional position. Positions outside
// the image return white, matching the fill color used for warp borders.
func bilinearSample(src *image.NRGBA, fx, fy float64) (r, g, b uint8) {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if fx < 0 || fy < 0 || fx > float64(w-1) || fy > float64(h-1) {
		return 255, 255, 255
	}
	x0 := int(fx)
	y0 := int(fy)
	x1 := x0 + 1
	y1 := y0 + 1
	if x1 > w-1 {
		x1 = w - 1
	}
	if y1 > h-1 {
		y1 = h - 1
	}
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	sample := func(x, y int) (float64, float64, float64) {
		i := src.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
		return float64(src.Pix[i]), float64(src.Pix[i+1]), float64(src.Pix[i+2])
	}
	r00, g00, b00 := sample(x0, y0)
	r10, g10, b10 := sample(x1, y0)
	r01, g01, b01 := sample(x0, y1)
	r11, g11, b11 := sample(x1, y1)

	top := func(a, b float64) float64 { return a + (b-a)*tx }
	rv := top(r00, r10) + (top(r01, r11)-top(r00, r10))*ty
	gv := top(g00, g10) + (top(g01, g11)-top(g00, g10))*ty
	bv := top(b00, b10) + (top(b01, b11)-top(b00, b10))*ty
	return clamp8(rv), clamp8(gv), clamp8(bv)
}

// warpFunc maps destination coordinates to source coordinates.
type warpFunc func(x, y float64) (sx, sy float64)

// warp renders src through an inverse coordinate mapping into a buffer
// of the same size.
func warp(src *image.NRGBA, fn warpFunc) *image.NRGBA {
	b := src.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			sx, sy := fn(float64(x), float64(y))
			r, g, bb := bilinearSample(src, sx, sy)
			i := out.PixOffset(x, y)
			out.Pix[i] = r
			out.Pix[i+1] = g
			out.Pix[i+2] = bb
			out.Pix[i+3] = 255
		}
	}
	return out
}

// solveHomography computes the 3x3 projective transform mapping the four
// dst corners onto the four src corners (for inverse warping). Points
// are [4][2] arrays ordered TL, TR, BR, BL. Returns false for degenerate
// configurations.
func solveHomography(dst, src [4][2]float64) ([9]float64, bool) {
	// Build the standard 8x8 DLT system a*h = b.
	var a [8][9]float64
	for i := 0; i < 4; i++ {
		x, y := dst[i][0], dst[i][1]
		u, v := src[i][0], src[i][1]
		a[2*i] = [9]float64{x, y, 1, 0, 0, 0, -u * x, -u * y, u}
		a[2*i+1] = [9]float64{0, 0, 0, x, y, 1, -v * x, -v * y, v}
	}
	// Gaussian elimination with partial pivoting.
	for col := 0; col < 8; col++ {
		pivot := col
		for row := col + 1; row < 8; row++ {
			if math.Abs(a[row][col]) > math.Abs(a[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(a[pivot][col]) < 1e-10 {
			return [9]float64{}, false
		}
		a[col], a[pivot] = a[pivot], a[col]
		for row := 0; row < 8; row++ {
			if row == col {
				continue
			}
			f := a[row][col] / a[col][col]
			for k := col; k < 9; k++ {
				a[row][k] -= f * a[col][k]
			}
		}
	}
	var h [9]float64
	for i := 0; i < 8; i++ {
		h[i] = a[i][8] / a[i][i]
	}
	h[8] = 1
	return h, true
}

// ===========================================================================
// Tilt
// ===========================================================================

// tilt shears the plate horizontally or vertically, as a camera slightly
// off the plate's axis would see it.
type tilt struct {
	base
}

func newTilt(probability float64, params Params) Effect {
	return &tilt{base{name: NameTilt, probability: probability, params: params}}
}

func (e *tilt) MaybeApply(img image.Image, intensity float64, rng *rand.Rand) (image.Image, bool, error) {
	return e.maybeApply(e, img, intensity, rng)
}

func (e *tilt) Apply(img image.Image, intensity float64, rng *rand.Rand) (image.Image, error) {
	if err := validateImage(img); err != nil {
		return nil, err
	}
	intensity = clampIntensity(intensity)
	maxAngle := e.params.Float("max_angle", 15)
	horizontal := e.params.Bool("horizontal_tilt", true)
	vertical := e.params.Bool("vertical_tilt", true)

	angle := maxAngle * intensity
	if rng.Float64() < 0.5 {
		angle = -angle
	}
	shear := math.Tan(angle * math.Pi / 180)

	src := toNRGBA(img)
	b := src.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())

	// Pick an axis among the enabled ones.
	useHorizontal := horizontal
	if horizontal && vertical {
		useHorizontal = rng.Float64() < 0.5
	} else if !horizontal && !vertical {
		useHorizontal = true
	}

	if useHorizontal {
		return warp(src, func(x, y float64) (float64, float64) {
			return x + (y-h/2)*shear, y
		}), nil
	}
	return warp(src, func(x, y float64) (float64, float64) {
		return x, y + (x-w/2)*shear
	}), nil
}

// ===========================================================================
// Perspective
// ===========================================================================

// perspective warps the plate as if photographed from off to one side:
// one edge is pinched toward the center.
type perspective struct {
	base
}

func newPerspective(probability float64, params Params) Effect {
	return &perspective{base{name: NamePerspective, probability: probability, params: params}}
}

func (e *perspective) MaybeApply(img image.Image, intensity float64, rng *rand.Rand) (image.Image, bool, error) {
	return e.maybeApply(e, img, intensity, rng)
}

func (e *perspective) Apply(img image.Image, intensity float64, rng *rand.Rand) (image.Image, error) {
	if err := validateImage(img); err != nil {
		return nil, err
	}
	intensity = clampIntensity(intensity)
	strength := e.params.Float("perspective_strength", 0.2) * intensity

	src := toNRGBA(img)
	b := src.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())

	// Destination corners start at the image corners; one edge moves in.
	dst := [4][2]float64{{0, 0}, {w, 0}, {w, h}, {0, h}}
	srcPts := dst
	dx := w * strength
	dy := h * strength
	switch rng.IntN(4) {
	case 0: // top edge pinched
		dst[0][0] += dx
		dst[1][0] -= dx
	case 1: // bottom edge pinched
		dst[3][0] += dx
		dst[2][0] -= dx
	case 2: // left edge pinched
		dst[0][1] += dy
		dst[3][1] -= dy
	default: // right edge pinched
		dst[1][1] += dy
		dst[2][1] -= dy
	}

	hm, ok := solveHomography(dst, srcPts)
	if !ok {
		return nil, errors.New(errors.ErrCodeEffectFailure, "degenerate perspective corners")
	}
	return warp(src, func(x, y float64) (float64, float64) {
		d := hm[6]*x + hm[7]*y + hm[8]
		if math.Abs(d) < 1e-10 {
			return -1, -1
		}
		return (hm[0]*x + hm[1]*y + hm[2]) / d, (hm[3]*x + hm[4]*y + hm[5]) / d
	}), nil
}

// ===========================================================================
// Rotation
// ===========================================================================

// rotate turns the whole plate by a small angle on white background,
// cropping back to the original size.
type rotate struct {
	base
}

func newRotate(probability float64, params Params) Effect {
	return &rotate{base{name: NameRotate, probability: probability, params: params}}
}

func (e *rotate) MaybeApply(img image.Image, intensity float64, rng *rand.Rand) (image.Image, bool, error) {
	return e.maybeApply(e, img, intensity, rng)
}

func (e *rotate) Apply(img image.Image, intensity float64, rng *rand.Rand) (image.Image, error) {
	if err := validateImage(img); err != nil {
		return nil, err
	}
	intensity = clampIntensity(intensity)
	maxRotation := e.params.Float("max_rotation", 10)

	angle := (rng.Float64()*2 - 1) * maxRotation * intensity
	// Angles this small are invisible; keep the image untouched.
	if math.Abs(angle) < 0.5 {
		return toNRGBA(img), nil
	}
	b := img.Bounds()
	rotated := imaging.Rotate(img, angle, image.White)
	return imaging.CropCenter(rotated, b.Dx(), b.Dy()), nil
}

// ===========================================================================
// Distortion
// ===========================================================================

// distort applies a sinusoidal grid displacement, like heat shimmer or a
// slightly bent plate.
type distort struct {
	base
}

func newDistort(probability float64, params Params) Effect {
	return &distort{base{name: NameDistort, probability: probability, params: params}}
}

func (e *distort) MaybeApply(img image.Image, intensity float64, rng *rand.Rand) (image.Image, bool, error) {
	return e.maybeApply(e, img, intensity, rng)
}

func (e *distort) Apply(img image.Image, intensity float64, rng *rand.Rand) (image.Image, error) {
	if err := validateImage(img); err != nil {
		return nil, err
	}
	intensity = clampIntensity(intensity)
	amplitude := e.params.Float("amplitude", 3) * intensity
	waves := e.params.Float("wave_count", 2)

	src := toNRGBA(img)
	b := src.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())

	phaseX := rng.Float64() * 2 * math.Pi
	phaseY := rng.Float64() * 2 * math.Pi
	return warp(src, func(x, y float64) (float64, float64) {
		sx := x + amplitude*math.Sin(2*math.Pi*waves*y/h+phaseX)
		sy := y + amplitude*math.Sin(2*math.Pi*waves*x/w+phaseY)
		return sx, sy
	}), nil
}
