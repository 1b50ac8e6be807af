package compositor

import (
	"bytes"
	"testing"

	"github.com/plateforge/plateforge/pkg/errors"
	"github.com/plateforge/plateforge/pkg/fonts"
	"github.com/plateforge/plateforge/pkg/plate"
)

func TestSizeFor(t *testing.T) {
	tests := []struct {
		typ  plate.Type
		want int
	}{
		{plate.TypeOrdinarySmall, OrdinaryWidth},
		{plate.TypeOrdinaryLarge, OrdinaryWidth},
		{plate.TypePolice, OrdinaryWidth},
		{plate.TypeNewEnergySmall, NewEnergyWidth},
		{plate.TypeNewEnergyLarge, NewEnergyWidth},
	}
	for _, tt := range tests {
		w, h := SizeFor(tt.typ)
		if w != tt.want || h != PlateHeight {
			t.Errorf("SizeFor(%s) = %dx%d, want %dx%d", tt.typ, w, h, tt.want, PlateHeight)
		}
	}
}

func TestBackgroundDimensionsAndFill(t *testing.T) {
	for _, typ := range plate.Types {
		img := Background(typ)
		w, h := SizeFor(typ)
		if img.Bounds().Dx() != w || img.Bounds().Dy() != h {
			t.Errorf("%s: bounds %v, want %dx%d", typ, img.Bounds(), w, h)
		}
		// Center pixel must be opaque.
		c := img.NRGBAAt(w/2, h/2)
		if c.A != 255 {
			t.Errorf("%s: center pixel transparent", typ)
		}
	}
}

func TestBackgroundStylesDiffer(t *testing.T) {
	blue := Background(plate.TypeOrdinarySmall)
	yellow := Background(plate.TypeOrdinaryLarge)
	if blue.NRGBAAt(100, 70) == yellow.NRGBAAt(100, 70) {
		t.Error("blue and yellow plates paint the same background")
	}

	// Two-tone new-energy large plates change color across the split.
	split := Background(plate.TypeNewEnergyLarge)
	top := split.NRGBAAt(240, 30)
	bottom := split.NRGBAAt(240, 110)
	if top == bottom {
		t.Error("yellow-green plate has no split band")
	}
}

func TestOptionsDefaults(t *testing.T) {
	var o Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if o.HanFont == "" || o.LatinFont == "" || o.FontSize != 45 {
		t.Errorf("defaults not applied: %+v", o)
	}

	bad := Options{FontSize: -1}
	if err := bad.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeConfig) {
		t.Errorf("negative font size: %v", err)
	}
}

func TestComposeRejectsInvalidNumber(t *testing.T) {
	c, err := New(fonts.NewManager(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.Compose(plate.Number{
		Type:         plate.TypeOrdinarySmall,
		Province:     "京",
		RegionalCode: "A",
		Sequence:     "12I45",
		Style:        plate.StyleBlue,
	})
	if !errors.Is(err, errors.ErrCodeInvalidPlate) {
		t.Errorf("expected INVALID_PLATE, got %v", err)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	img := Background(plate.TypeOrdinarySmall)

	for _, format := range []Format{FormatPNG, FormatJPEG} {
		data, err := EncodeBytes(img, format)
		if err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		if len(data) == 0 {
			t.Fatalf("%s: empty encoding", format)
		}
		decoded, err := Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("%s decode: %v", format, err)
		}
		if decoded.Bounds().Dx() != img.Bounds().Dx() {
			t.Errorf("%s: width changed in round trip", format)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"png", FormatPNG, true},
		{"PNG", FormatPNG, true},
		{"jpg", FormatJPEG, true},
		{"jpeg", FormatJPEG, true},
		{"webp", "", false},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.ok && (err != nil || got != tt.want) {
			t.Errorf("ParseFormat(%q) = %v, %v", tt.in, got, err)
		}
		if !tt.ok && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ParseFormat(%q) = %v, want INVALID_FORMAT", tt.in, err)
		}
	}
}

func TestLayoutCellsAscending(t *testing.T) {
	cells := layout(7, OrdinaryWidth)
	for i := 1; i < len(cells); i++ {
		if cells[i] <= cells[i-1] {
			t.Fatalf("cells not ascending: %v", cells)
		}
	}
	if cells[0] < 0 || cells[len(cells)-1] > OrdinaryWidth {
		t.Errorf("cells outside plate: %v", cells)
	}
	// The separator gap widens the distance between cells 1 and 2.
	if (cells[2] - cells[1]) <= (cells[1] - cells[0]) {
		t.Error("no widened gap after regional code")
	}
}
