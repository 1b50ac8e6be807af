package effects

import (
	"image"
	"image/color"
	"math/rand/v2"
	"testing"

	"github.com/plateforge/plateforge/pkg/errors"
)

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// testPlate returns a small blue rectangle with a white band, enough
// structure for the effects to act on.
func testPlate(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{R: 0, G: 60, B: 186, A: 255}
			if y > h/3 && y < 2*h/3 {
				c = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestNewUnknownEffect(t *testing.T) {
	_, err := New("no_such_effect", 0.5, nil)
	if err == nil {
		t.Fatal("expected error for unknown effect name")
	}
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestNewClampsProbability(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{-0.5, 0},
		{0, 0},
		{0.3, 0.3},
		{1, 1},
		{1.7, 1},
	}
	for _, tt := range tests {
		eff, err := New(NameWear, tt.in, nil)
		if err != nil {
			t.Fatalf("New(%v): %v", tt.in, err)
		}
		if got := eff.Probability(); got != tt.want {
			t.Errorf("probability %v: got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAllEffectsApply(t *testing.T) {
	img := testPlate(88, 28)
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			eff, err := New(name, 1.0, nil)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			out, err := eff.Apply(img, 0.5, newRNG(42))
			if err != nil {
				t.Fatalf("Apply: %v", err)
			}
			if out == nil {
				t.Fatal("Apply returned nil image without error")
			}
			b := out.Bounds()
			if b.Dx() != 88 || b.Dy() != 28 {
				t.Errorf("bounds changed: %v", b)
			}
		})
	}
}

func TestAllEffectsHandleTinyImages(t *testing.T) {
	img := testPlate(1, 1)
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			eff, err := New(name, 1.0, nil)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if _, err := eff.Apply(img, 1.0, newRNG(7)); err != nil {
				t.Fatalf("Apply on 1x1: %v", err)
			}
		})
	}
}

func TestZeroAreaImageRejected(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 0, 0))
	for _, name := range Names() {
		eff, err := New(name, 1.0, nil)
		if err != nil {
			t.Fatalf("New(%s): %v", name, err)
		}
		_, err = eff.Apply(img, 0.5, newRNG(1))
		if !errors.Is(err, errors.ErrCodeInvalidImage) {
			t.Errorf("%s: expected INVALID_IMAGE, got %v", name, err)
		}
	}
}

func TestMaybeApplyProbabilityGate(t *testing.T) {
	img := testPlate(44, 14)

	never, _ := New(NameFade, 0, nil)
	out, applied, err := never.MaybeApply(img, 0.5, newRNG(3))
	if err != nil {
		t.Fatalf("MaybeApply: %v", err)
	}
	if applied || out != nil {
		t.Error("probability 0 must never apply")
	}

	always, _ := New(NameFade, 1, nil)
	out, applied, err = always.MaybeApply(img, 0.5, newRNG(3))
	if err != nil {
		t.Fatalf("MaybeApply: %v", err)
	}
	if !applied || out == nil {
		t.Error("probability 1 must always apply")
	}
}

func TestMaybeApplyDeterministic(t *testing.T) {
	img := testPlate(44, 14)
	eff, _ := New(NameDirt, 0.5, nil)

	_, a1, err := eff.MaybeApply(img, 0.5, newRNG(99))
	if err != nil {
		t.Fatal(err)
	}
	_, a2, err := eff.MaybeApply(img, 0.5, newRNG(99))
	if err != nil {
		t.Fatal(err)
	}
	if a1 != a2 {
		t.Error("same seed must give the same gate outcome")
	}
}

func TestNamesCoverRegistry(t *testing.T) {
	names := Names()
	if len(names) != 11 {
		t.Fatalf("expected 11 registered effects, got %d: %v", len(names), names)
	}
	for _, name := range names {
		if !Registered(name) {
			t.Errorf("Names returned unregistered %q", name)
		}
	}
	if Registered("bogus") {
		t.Error("Registered should reject unknown names")
	}
}

func TestParamsAccessors(t *testing.T) {
	p := Params{
		"f":   1.5,
		"i":   3,
		"b":   true,
		"s":   "warm",
		"bad": struct{}{},
	}
	if got := p.Float("f", 0); got != 1.5 {
		t.Errorf("Float = %v", got)
	}
	if got := p.Float("i", 0); got != 3 {
		t.Errorf("Float widening = %v", got)
	}
	if got := p.Int("i", 0); got != 3 {
		t.Errorf("Int = %v", got)
	}
	if got := p.Bool("b", false); !got {
		t.Error("Bool = false")
	}
	if got := p.String("s", ""); got != "warm" {
		t.Errorf("String = %v", got)
	}
	if got := p.Float("bad", 7); got != 7 {
		t.Errorf("mistyped value should fall back, got %v", got)
	}
	if got := Params(nil).Float("x", 2.5); got != 2.5 {
		t.Errorf("nil Params should fall back, got %v", got)
	}
}

func TestEffectsDoNotMutateInput(t *testing.T) {
	img := testPlate(44, 14).(*image.NRGBA)
	before := make([]uint8, len(img.Pix))
	copy(before, img.Pix)

	for _, name := range Names() {
		eff, _ := New(name, 1.0, nil)
		if _, err := eff.Apply(img, 0.8, newRNG(5)); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}
	for i := range before {
		if img.Pix[i] != before[i] {
			t.Fatal("input image was mutated")
		}
	}
}
