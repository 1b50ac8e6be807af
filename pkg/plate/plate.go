package plate

import (
	"math/rand/v2"

	"github.com/plateforge/plateforge/pkg/errors"
)

// Type names a plate class with its own numbering and style rules.
type Type string

const (
	TypeOrdinarySmall  Type = "ordinary_small"
	TypeOrdinaryLarge  Type = "ordinary_large"
	TypeTrailer        Type = "trailer"
	TypeCoach          Type = "coach"
	TypePolice         Type = "police"
	TypeNewEnergySmall Type = "new_energy_small"
	TypeNewEnergyLarge Type = "new_energy_large"
)

// Types lists the supported plate types in a stable order.
var Types = []Type{
	TypeOrdinarySmall,
	TypeOrdinaryLarge,
	TypeTrailer,
	TypeCoach,
	TypePolice,
	TypeNewEnergySmall,
	TypeNewEnergyLarge,
}

// ValidType reports whether t is a supported plate type.
func ValidType(t Type) bool {
	for _, known := range Types {
		if known == t {
			return true
		}
	}
	return false
}

// Style names a background/text color scheme.
type Style string

const (
	StyleBlue        Style = "blue"
	StyleYellow      Style = "yellow"
	StyleWhite       Style = "white"
	StyleGreen       Style = "green"
	StyleYellowGreen Style = "yellow_green"
)

// StyleFor returns the color scheme mandated for a plate type.
func StyleFor(t Type) Style {
	switch t {
	case TypeOrdinarySmall:
		return StyleBlue
	case TypeOrdinaryLarge, TypeTrailer, TypeCoach:
		return StyleYellow
	case TypePolice:
		return StyleWhite
	case TypeNewEnergySmall:
		return StyleGreen
	case TypeNewEnergyLarge:
		return StyleYellowGreen
	}
	return StyleBlue
}

// Suffix characters appended to certain plate classes. They replace the
// last sequence character so the total length stays at five.
const (
	SuffixPolice  = "警"
	SuffixTrailer = "挂"
	SuffixCoach   = "学"
)

// SpecialSuffix returns the mandated trailing character for a type, or
// empty for types without one.
func SpecialSuffix(t Type) string {
	switch t {
	case TypePolice:
		return SuffixPolice
	case TypeTrailer:
		return SuffixTrailer
	case TypeCoach:
		return SuffixCoach
	}
	return ""
}

// Number is a fully assembled plate number.
type Number struct {
	Type         Type
	Province     string // province abbreviation
	RegionalCode string // issuing-authority letter
	Sequence     string // 5 chars ordinary, 6 new-energy
	Style        Style
	EnergyType   EnergyType // set for new-energy types only
	City         string     // issuing city, informational
}

// String returns the printable plate number.
func (n Number) String() string {
	return n.Province + n.RegionalCode + n.Sequence
}

// IsNewEnergy reports whether the number belongs to a new-energy class.
func (n Number) IsNewEnergy() bool {
	return n.Type == TypeNewEnergySmall || n.Type == TypeNewEnergyLarge
}

// GenerateOptions tunes number generation. The zero value generates an
// ordinary small-car plate from a random province.
type GenerateOptions struct {
	Type         Type       // default TypeOrdinarySmall
	Province     string     // empty means random
	RegionalCode string     // empty means random within the province
	EnergyType   EnergyType // new-energy only; default EnergyPure
	PatternOrder int        // ordinary only; 0 means first available
}

// Generate draws one plate number.
func Generate(rng *rand.Rand, opts GenerateOptions) (Number, error) {
	if opts.Type == "" {
		opts.Type = TypeOrdinarySmall
	}
	if !ValidType(opts.Type) {
		return Number{}, errors.New(errors.ErrCodeInvalidFormat, "unknown plate type %q", opts.Type)
	}

	province := opts.Province
	if province == "" {
		province = RandomProvince(rng).Abbr
	} else if !ValidProvince(province) {
		return Number{}, errors.New(errors.ErrCodeInvalidProvince, "unknown province abbreviation %q", province)
	}

	var regional RegionalCode
	if opts.RegionalCode != "" {
		if !ValidRegionalCode(province, opts.RegionalCode) {
			return Number{}, errors.New(errors.ErrCodeInvalidProvince,
				"province %q has no regional code %q", province, opts.RegionalCode)
		}
		city, _ := CityFor(province, opts.RegionalCode)
		regional = RegionalCode{Code: opts.RegionalCode, City: city}
	} else {
		var err error
		regional, err = RandomRegionalCode(province, rng)
		if err != nil {
			return Number{}, err
		}
	}

	n := Number{
		Type:         opts.Type,
		Province:     province,
		RegionalCode: regional.Code,
		City:         regional.City,
		Style:        StyleFor(opts.Type),
	}

	gen := NewSequenceGenerator()
	switch opts.Type {
	case TypeNewEnergySmall:
		energy := opts.EnergyType
		if energy == "" {
			energy = EnergyPure
		}
		seq, _ := gen.NewEnergySmall(rng, energy, rng.Float64() < 0.3)
		n.Sequence = seq
		n.EnergyType = energy
	case TypeNewEnergyLarge:
		energy := opts.EnergyType
		if energy == "" {
			energy = EnergyPure
		}
		seq, _ := gen.NewEnergyLarge(rng, energy)
		n.Sequence = seq
		n.EnergyType = energy
	default:
		seq, _, err := gen.Ordinary(rng, opts.PatternOrder)
		if err != nil {
			return Number{}, err
		}
		if suffix := SpecialSuffix(opts.Type); suffix != "" {
			seq = seq[:len(seq)-1] + suffix
		}
		n.Sequence = seq
	}
	return n, nil
}
