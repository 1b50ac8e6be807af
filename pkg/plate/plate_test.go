package plate

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/plateforge/plateforge/pkg/errors"
)

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

func TestProvinceTable(t *testing.T) {
	all := Provinces()
	if len(all) != 31 {
		t.Fatalf("expected 31 provinces, got %d", len(all))
	}
	for i, p := range all {
		if p.Code != i+1 {
			t.Errorf("%s has code %d at position %d", p.Abbr, p.Code, i)
		}
	}

	beijing, err := ProvinceByAbbr("京")
	if err != nil {
		t.Fatal(err)
	}
	if beijing.Name != "北京市" || beijing.Kind != KindMunicipality {
		t.Errorf("京 = %+v", beijing)
	}

	byName, err := ProvinceByName("广西壮族自治区")
	if err != nil {
		t.Fatal(err)
	}
	if byName.Abbr != "桂" || byName.Kind != KindAutonomous {
		t.Errorf("广西 = %+v", byName)
	}

	if _, err := ProvinceByAbbr("X"); !errors.Is(err, errors.ErrCodeInvalidProvince) {
		t.Errorf("expected INVALID_PROVINCE, got %v", err)
	}

	if got := len(ProvincesByKind(KindMunicipality)); got != 4 {
		t.Errorf("municipalities = %d, want 4", got)
	}
	if got := len(ProvincesByKind(KindAutonomous)); got != 5 {
		t.Errorf("autonomous regions = %d, want 5", got)
	}
}

func TestRegionalCodes(t *testing.T) {
	// Municipalities use the full letter set.
	codes, err := RegionalCodes("京")
	if err != nil {
		t.Fatal(err)
	}
	if len(codes) != len(Letters) {
		t.Errorf("京 has %d codes, want %d", len(codes), len(Letters))
	}

	if !ValidRegionalCode("冀", "A") {
		t.Error("冀A should be valid")
	}
	if ValidRegionalCode("冀", "Z") {
		t.Error("冀Z should be invalid")
	}
	if city, ok := CityFor("粤", "B"); !ok || city != "深圳市" {
		t.Errorf("粤B = %q, %v", city, ok)
	}

	// Every code in every province must come from the I/O-free set.
	for _, p := range Provinces() {
		codes, err := RegionalCodes(p.Abbr)
		if err != nil {
			t.Fatalf("%s: %v", p.Abbr, err)
		}
		if len(codes) == 0 {
			t.Errorf("%s has no regional codes", p.Abbr)
		}
		for _, rc := range codes {
			if !strings.Contains(Letters, rc.Code) {
				t.Errorf("%s uses forbidden code %q", p.Abbr, rc.Code)
			}
		}
	}

	if _, err := RegionalCodes("bogus"); !errors.Is(err, errors.ErrCodeInvalidProvince) {
		t.Errorf("expected INVALID_PROVINCE, got %v", err)
	}
}

func TestRandomRegionalCode(t *testing.T) {
	rng := newRNG(1)
	for i := 0; i < 50; i++ {
		rc, err := RandomRegionalCode("鲁", rng)
		if err != nil {
			t.Fatal(err)
		}
		if !ValidRegionalCode("鲁", rc.Code) {
			t.Fatalf("drew invalid code %q", rc.Code)
		}
	}
}

func TestOrdinaryPatterns(t *testing.T) {
	if len(OrdinaryPatterns) != 10 {
		t.Fatalf("expected 10 patterns, got %d", len(OrdinaryPatterns))
	}
	for i, p := range OrdinaryPatterns {
		if p.Order != i+1 {
			t.Errorf("pattern %d has order %d", i, p.Order)
		}
		if len(p.Pattern) != 5 {
			t.Errorf("pattern %q is not 5 characters", p.Pattern)
		}
		if !MatchesPattern(p.Example, p.Pattern) {
			t.Errorf("example %q does not match its own pattern %q", p.Example, p.Pattern)
		}
	}
}

func TestSequenceGeneratorEnablementOrder(t *testing.T) {
	g := NewSequenceGenerator()
	rng := newRNG(2)

	// Fresh generator starts with the all-digit layout.
	seq, pattern, err := g.Ordinary(rng, 0)
	if err != nil {
		t.Fatal(err)
	}
	if pattern.Order != 1 {
		t.Errorf("fresh generator used order %d, want 1", pattern.Order)
	}
	if !MatchesPattern(seq, pattern.Pattern) {
		t.Errorf("sequence %q does not match %q", seq, pattern.Pattern)
	}

	// Exhausting the first layout opens the second.
	g.SetUsage(1, 0.7)
	_, pattern, err = g.Ordinary(rng, 0)
	if err != nil {
		t.Fatal(err)
	}
	if pattern.Order != 2 {
		t.Errorf("after exhaustion used order %d, want 2", pattern.Order)
	}

	// Preferred order wins when available.
	_, pattern, err = g.Ordinary(rng, 5)
	if err != nil {
		t.Fatal(err)
	}
	if pattern.Order != 5 {
		t.Errorf("preferred order ignored, got %d", pattern.Order)
	}

	// All layouts exhausted is an error.
	for _, p := range OrdinaryPatterns {
		g.SetUsage(p.Order, 1)
	}
	if _, _, err := g.Ordinary(rng, 0); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("expected INVALID_FORMAT when exhausted, got %v", err)
	}
}

func TestOrdinaryWithPattern(t *testing.T) {
	g := NewSequenceGenerator()
	rng := newRNG(3)

	seq, _, err := g.OrdinaryWithPattern(rng, "LLDDD")
	if err != nil {
		t.Fatal(err)
	}
	if !MatchesPattern(seq, "LLDDD") {
		t.Errorf("sequence %q does not match LLDDD", seq)
	}

	if _, _, err := g.OrdinaryWithPattern(rng, "XXXXX"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("expected INVALID_FORMAT, got %v", err)
	}
}

func TestEnergyMarkerSets(t *testing.T) {
	if got := strings.Join(PureElectricLetters, ""); got != "DABCE" {
		t.Errorf("pure-electric letters = %q, want DABCE", got)
	}
	if got := strings.Join(HybridLetters, ""); got != "FGHJK" {
		t.Errorf("hybrid letters = %q, want FGHJK", got)
	}
}

func TestNewEnergySequences(t *testing.T) {
	g := NewSequenceGenerator()
	rng := newRNG(4)

	for i := 0; i < 30; i++ {
		seq, marker := g.NewEnergySmall(rng, EnergyPure, false)
		if len(seq) != 6 {
			t.Fatalf("small sequence %q is not 6 characters", seq)
		}
		if string(seq[0]) != marker {
			t.Errorf("marker %q not leading in %q", marker, seq)
		}
		if et, ok := EnergyTypeOf(marker); !ok || et != EnergyPure {
			t.Errorf("marker %q is not pure-electric", marker)
		}

		seq, marker = g.NewEnergyLarge(rng, EnergyHybrid)
		if string(seq[5]) != marker {
			t.Errorf("marker %q not trailing in %q", marker, seq)
		}
		if et, ok := EnergyTypeOf(marker); !ok || et != EnergyHybrid {
			t.Errorf("marker %q is not hybrid", marker)
		}
		for j := 0; j < 5; j++ {
			if seq[j] < '0' || seq[j] > '9' {
				t.Errorf("large sequence %q has non-digit prefix", seq)
			}
		}
	}
}

func TestGenerate(t *testing.T) {
	rng := newRNG(5)

	tests := []struct {
		name string
		opts GenerateOptions
	}{
		{"default small car", GenerateOptions{}},
		{"large car", GenerateOptions{Type: TypeOrdinaryLarge}},
		{"trailer", GenerateOptions{Type: TypeTrailer}},
		{"coach", GenerateOptions{Type: TypeCoach}},
		{"police", GenerateOptions{Type: TypePolice}},
		{"new energy small", GenerateOptions{Type: TypeNewEnergySmall}},
		{"new energy large", GenerateOptions{Type: TypeNewEnergyLarge, EnergyType: EnergyHybrid}},
		{"fixed province", GenerateOptions{Province: "粤"}},
		{"fixed regional code", GenerateOptions{Province: "京", RegionalCode: "A"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Generate(rng, tt.opts)
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			wantType := tt.opts.Type
			if wantType == "" {
				wantType = TypeOrdinarySmall
			}
			if n.Type != wantType {
				t.Errorf("type = %s, want %s", n.Type, wantType)
			}
			if n.Style != StyleFor(wantType) {
				t.Errorf("style = %s, want %s", n.Style, StyleFor(wantType))
			}
			if tt.opts.Province != "" && n.Province != tt.opts.Province {
				t.Errorf("province = %s, want %s", n.Province, tt.opts.Province)
			}
			if err := Validate(n.String(), n.Type); err != nil {
				t.Errorf("generated plate %q fails validation: %v", n.String(), err)
			}
		})
	}
}

func TestGenerateErrors(t *testing.T) {
	rng := newRNG(6)

	if _, err := Generate(rng, GenerateOptions{Type: "hovercraft"}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("unknown type: %v", err)
	}
	if _, err := Generate(rng, GenerateOptions{Province: "XX"}); !errors.Is(err, errors.ErrCodeInvalidProvince) {
		t.Errorf("unknown province: %v", err)
	}
	if _, err := Generate(rng, GenerateOptions{Province: "宁", RegionalCode: "Z"}); !errors.Is(err, errors.ErrCodeInvalidProvince) {
		t.Errorf("invalid regional code: %v", err)
	}
}

func TestSpecialSuffixes(t *testing.T) {
	rng := newRNG(7)
	tests := []struct {
		typ    Type
		suffix string
	}{
		{TypePolice, SuffixPolice},
		{TypeTrailer, SuffixTrailer},
		{TypeCoach, SuffixCoach},
	}
	for _, tt := range tests {
		n, err := Generate(rng, GenerateOptions{Type: tt.typ})
		if err != nil {
			t.Fatalf("%s: %v", tt.typ, err)
		}
		if !strings.HasSuffix(n.Sequence, tt.suffix) {
			t.Errorf("%s sequence %q lacks suffix %q", tt.typ, n.Sequence, tt.suffix)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		number string
		typ    Type
		code   errors.Code // empty means valid
	}{
		{"valid blue plate", "京A12345", TypeOrdinarySmall, ""},
		{"valid police plate", "沪B1234警", TypePolice, ""},
		{"valid small new energy", "粤BD12345", TypeNewEnergySmall, ""},
		{"valid large new energy", "苏E12345F", TypeNewEnergyLarge, ""},
		{"empty", "", TypeOrdinarySmall, errors.ErrCodeInvalidPlate},
		{"bad province", "XA12345", TypeOrdinarySmall, errors.ErrCodeInvalidProvince},
		{"bad regional code", "宁Z12345", TypeOrdinarySmall, errors.ErrCodeInvalidPlate},
		{"too short", "京A1234", TypeOrdinarySmall, errors.ErrCodeInvalidPlate},
		{"forbidden letter", "京A12I45", TypeOrdinarySmall, errors.ErrCodeInvalidPlate},
		{"police without suffix", "京A12345", TypePolice, errors.ErrCodeInvalidPlate},
		{"new energy bad marker", "粤BZ12345", TypeNewEnergySmall, errors.ErrCodeInvalidPlate},
		{"large new energy letters early", "苏EA2345F", TypeNewEnergyLarge, errors.ErrCodeInvalidPlate},
		{"ordinary length for new energy", "粤B12345", TypeNewEnergySmall, errors.ErrCodeInvalidPlate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.number, tt.typ)
			if tt.code == "" {
				if err != nil {
					t.Errorf("Validate(%q) = %v, want nil", tt.number, err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("Validate(%q) = %v, want code %s", tt.number, err, tt.code)
			}
		})
	}
}
