package effects

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Shared pixel helpers. Effects work on NRGBA buffers and write their
// results into fresh buffers; input images are never mutated.

// toNRGBA returns img as an *image.NRGBA, cloning when necessary.
func toNRGBA(img image.Image) *image.NRGBA {
	return imaging.Clone(img)
}

// clamp8 constrains v to the byte range.
func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// lerp8 linearly interpolates between two byte values by t in [0, 1].
func lerp8(a, b uint8, t float64) uint8 {
	return clamp8(float64(a) + (float64(b)-float64(a))*t)
}

// scaleRGB multiplies the color channels of dst in place by factor,
// leaving alpha untouched.
func scaleRGB(dst *image.NRGBA, factor float64) {
	for i := 0; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = clamp8(float64(dst.Pix[i]) * factor)
		dst.Pix[i+1] = clamp8(float64(dst.Pix[i+1]) * factor)
		dst.Pix[i+2] = clamp8(float64(dst.Pix[i+2]) * factor)
	}
}

// blendMask mixes overlay into dst weighted per pixel by mask (a gray
// image of the same bounds). A mask value of 255 takes the overlay pixel
// entirely; 0 keeps dst.
func blendMask(dst *image.NRGBA, overlay *image.NRGBA, mask *image.Gray) {
	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			m := mask.GrayAt(x, y).Y
			if m == 0 {
				continue
			}
			t := float64(m) / 255.0
			di := dst.PixOffset(x, y)
			oi := overlay.PixOffset(x, y)
			dst.Pix[di] = lerp8(dst.Pix[di], overlay.Pix[oi], t)
			dst.Pix[di+1] = lerp8(dst.Pix[di+1], overlay.Pix[oi+1], t)
			dst.Pix[di+2] = lerp8(dst.Pix[di+2], overlay.Pix[oi+2], t)
		}
	}
}

// tintMask shifts the color channels of dst toward tint, weighted per
// pixel by mask scaled by strength.
func tintMask(dst *image.NRGBA, tint color.NRGBA, mask *image.Gray, strength float64) {
	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			m := mask.GrayAt(x, y).Y
			if m == 0 {
				continue
			}
			t := float64(m) / 255.0 * strength
			i := dst.PixOffset(x, y)
			dst.Pix[i] = lerp8(dst.Pix[i], tint.R, t)
			dst.Pix[i+1] = lerp8(dst.Pix[i+1], tint.G, t)
			dst.Pix[i+2] = lerp8(dst.Pix[i+2], tint.B, t)
		}
	}
}

// darkenMask multiplies the color channels of dst per pixel by
// 1 - mask*strength, producing shadowed regions.
func darkenMask(dst *image.NRGBA, mask *image.Gray, strength float64) {
	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			m := mask.GrayAt(x, y).Y
			if m == 0 {
				continue
			}
			f := 1.0 - float64(m)/255.0*strength
			i := dst.PixOffset(x, y)
			dst.Pix[i] = clamp8(float64(dst.Pix[i]) * f)
			dst.Pix[i+1] = clamp8(float64(dst.Pix[i+1]) * f)
			dst.Pix[i+2] = clamp8(float64(dst.Pix[i+2]) * f)
		}
	}
}

// brightenMask adds mask*strength*255 to the color channels of dst,
// producing highlight regions.
func brightenMask(dst *image.NRGBA, mask *image.Gray, strength float64) {
	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			m := mask.GrayAt(x, y).Y
			if m == 0 {
				continue
			}
			add := float64(m) / 255.0 * strength * 255.0
			i := dst.PixOffset(x, y)
			dst.Pix[i] = clamp8(float64(dst.Pix[i]) + add)
			dst.Pix[i+1] = clamp8(float64(dst.Pix[i+1]) + add)
			dst.Pix[i+2] = clamp8(float64(dst.Pix[i+2]) + add)
		}
	}
}

// blurGray smooths a mask with a gaussian of the given sigma. Sigma
// values below 0.1 return the mask unchanged.
func blurGray(mask *image.Gray, sigma float64) *image.Gray {
	if sigma < 0.1 {
		return mask
	}
	blurred := imaging.Blur(mask, sigma)
	out := image.NewGray(mask.Bounds())
	b := mask.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := blurred.NRGBAAt(x-b.Min.X, y-b.Min.Y)
			out.SetGray(x, y, color.Gray{Y: c.R})
		}
	}
	return out
}

// grayOf converts img to a grayscale buffer with the same bounds.
func grayOf(img *image.NRGBA) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := img.PixOffset(x, y)
			// Rec. 601 luma weights.
			l := 0.299*float64(img.Pix[i]) + 0.587*float64(img.Pix[i+1]) + 0.114*float64(img.Pix[i+2])
			out.SetGray(x, y, color.Gray{Y: clamp8(l)})
		}
	}
	return out
}
