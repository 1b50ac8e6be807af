// Package compositor paints base plate images: background, border,
// rivets and characters per GA 36-2018 geometry, before any effects are
// applied.
package compositor

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/plateforge/plateforge/pkg/errors"
	"github.com/plateforge/plateforge/pkg/fonts"
	"github.com/plateforge/plateforge/pkg/plate"
)

// Plate pixel dimensions. New-energy plates are 40mm wider.
const (
	OrdinaryWidth  = 440
	NewEnergyWidth = 480
	PlateHeight    = 140
)

// SizeFor returns the pixel dimensions for a plate type.
func SizeFor(t plate.Type) (w, h int) {
	if t == plate.TypeNewEnergySmall || t == plate.TypeNewEnergyLarge {
		return NewEnergyWidth, PlateHeight
	}
	return OrdinaryWidth, PlateHeight
}

// scheme is one style's paint set.
type scheme struct {
	background color.NRGBA
	gradientTo color.NRGBA // zero alpha means flat background
	splitBand  bool        // top/bottom two-tone instead of gradient
	text       color.NRGBA
	border     color.NRGBA
	special    color.NRGBA // color for suffix characters, zero alpha means text color
}

var schemes = map[plate.Style]scheme{
	plate.StyleBlue: {
		background: color.NRGBA{R: 30, G: 144, B: 255, A: 255},
		text:       color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		border:     color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	},
	plate.StyleYellow: {
		background: color.NRGBA{R: 255, G: 215, B: 0, A: 255},
		text:       color.NRGBA{R: 0, G: 0, B: 0, A: 255},
		border:     color.NRGBA{R: 0, G: 0, B: 0, A: 255},
	},
	plate.StyleWhite: {
		background: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		text:       color.NRGBA{R: 0, G: 0, B: 0, A: 255},
		border:     color.NRGBA{R: 0, G: 0, B: 0, A: 255},
		special:    color.NRGBA{R: 255, G: 0, B: 0, A: 255},
	},
	plate.StyleGreen: {
		background: color.NRGBA{R: 214, G: 255, B: 227, A: 255},
		gradientTo: color.NRGBA{R: 50, G: 205, B: 50, A: 255},
		text:       color.NRGBA{R: 0, G: 0, B: 0, A: 255},
		border:     color.NRGBA{R: 0, G: 0, B: 0, A: 255},
	},
	plate.StyleYellowGreen: {
		background: color.NRGBA{R: 255, G: 215, B: 0, A: 255},
		gradientTo: color.NRGBA{R: 50, G: 205, B: 50, A: 255},
		splitBand:  true,
		text:       color.NRGBA{R: 0, G: 0, B: 0, A: 255},
		border:     color.NRGBA{R: 0, G: 0, B: 0, A: 255},
	},
}

// Options configures a Compositor.
type Options struct {
	// HanFont renders the province abbreviation and special suffixes.
	HanFont string
	// LatinFont renders letters and digits.
	LatinFont string
	// FontSize in points. Zero means the standard 45.
	FontSize float64
}

// ValidateAndSetDefaults fills zero values.
func (o *Options) ValidateAndSetDefaults() error {
	if o.HanFont == "" {
		o.HanFont = "NotoSansSC-Bold"
	}
	if o.LatinFont == "" {
		o.LatinFont = o.HanFont
	}
	if o.FontSize < 0 {
		return errors.New(errors.ErrCodeConfig, "font size %v must not be negative", o.FontSize)
	}
	if o.FontSize == 0 {
		o.FontSize = 45
	}
	return nil
}

// Compositor paints plate numbers into images.
type Compositor struct {
	fonts *fonts.Manager
	opts  Options
}

// New builds a compositor over a font manager.
func New(fm *fonts.Manager, opts Options) (*Compositor, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return &Compositor{fonts: fm, opts: opts}, nil
}

// Background paints the empty plate for a type: background fill, border
// and the four rivets, no characters.
func Background(t plate.Type) *image.NRGBA {
	w, h := SizeFor(t)
	sc := schemes[plate.StyleFor(t)]
	dc := gg.NewContext(w, h)

	switch {
	case sc.splitBand:
		dc.SetColor(sc.background)
		dc.DrawRectangle(0, 0, float64(w), float64(h)/2)
		dc.Fill()
		dc.SetColor(sc.gradientTo)
		dc.DrawRectangle(0, float64(h)/2, float64(w), float64(h)/2)
		dc.Fill()
	case sc.gradientTo.A != 0:
		grad := gg.NewLinearGradient(0, 0, 0, float64(h))
		grad.AddColorStop(0, sc.background)
		grad.AddColorStop(1, sc.gradientTo)
		dc.SetFillStyle(grad)
		dc.DrawRectangle(0, 0, float64(w), float64(h))
		dc.Fill()
	default:
		dc.SetColor(sc.background)
		dc.Clear()
	}

	// Border with rounded corners.
	dc.SetColor(sc.border)
	dc.SetLineWidth(3)
	dc.DrawRoundedRectangle(4, 4, float64(w)-8, float64(h)-8, 8)
	dc.Stroke()

	// Mounting rivets.
	dc.SetColor(color.NRGBA{R: 200, G: 200, B: 200, A: 255})
	for _, x := range []float64{float64(w) * 0.25, float64(w) * 0.75} {
		dc.DrawCircle(x, 12, 4)
		dc.Fill()
		dc.DrawCircle(x, float64(h)-12, 4)
		dc.Fill()
	}

	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	src := dc.Image()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Set(x, y, src.At(x, y))
		}
	}
	return out
}

// Compose paints a full plate image for a number.
func (c *Compositor) Compose(n plate.Number) (image.Image, error) {
	if err := plate.Validate(n.String(), n.Type); err != nil {
		return nil, err
	}
	w, h := SizeFor(n.Type)
	sc := schemes[n.Style]

	dc := gg.NewContextForImage(Background(n.Type))

	hanFace, err := c.fonts.Face(c.opts.HanFont, c.opts.FontSize)
	if err != nil {
		return nil, err
	}
	latinFace, err := c.fonts.Face(c.opts.LatinFont, c.opts.FontSize)
	if err != nil {
		return nil, err
	}

	runes := []rune(n.String())
	cells := layout(len(runes), w)
	suffix := plate.SpecialSuffix(n.Type)
	cy := float64(h) / 2

	for i, r := range runes {
		isHan := r > 0x2E80
		if isHan {
			dc.SetFontFace(hanFace)
		} else {
			dc.SetFontFace(latinFace)
		}

		col := sc.text
		if suffix != "" && i == len(runes)-1 && sc.special.A != 0 {
			col = sc.special
		}
		dc.SetColor(col)
		dc.DrawStringAnchored(string(r), cells[i], cy, 0.5, 0.35)
	}

	// Separator dot between the regional code and the sequence.
	dc.SetColor(sc.text)
	dotX := (cells[1] + cells[2]) / 2
	dc.DrawCircle(dotX, cy, 4)
	dc.Fill()

	return dc.Image(), nil
}

// layout returns the horizontal center for each character cell. The gap
// after the regional code is widened for the separator dot.
func layout(count, width int) []float64 {
	const margin = 22.0
	const sepGap = 18.0
	usable := float64(width) - 2*margin - sepGap
	cell := usable / float64(count)
	out := make([]float64, count)
	for i := range out {
		x := margin + cell*(float64(i)+0.5)
		if i >= 2 {
			x += sepGap
		}
		out[i] = x
	}
	return out
}
