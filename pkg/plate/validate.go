package plate

import (
	"strings"
	"unicode/utf8"

	"github.com/plateforge/plateforge/pkg/errors"
)

// Validate checks a full plate number against the rules for its type.
// The number is the printable form: province abbreviation, regional
// letter, then the sequence.
func Validate(number string, t Type) error {
	if !ValidType(t) {
		return errors.New(errors.ErrCodeInvalidFormat, "unknown plate type %q", t)
	}
	if number == "" {
		return errors.New(errors.ErrCodeInvalidPlate, "empty plate number")
	}

	runes := []rune(number)
	wantLen := 7
	if t == TypeNewEnergySmall || t == TypeNewEnergyLarge {
		wantLen = 8
	}
	if len(runes) != wantLen {
		return errors.New(errors.ErrCodeInvalidPlate,
			"plate %q has %d characters, want %d for type %s", number, len(runes), wantLen, t)
	}

	province := string(runes[0])
	if !ValidProvince(province) {
		return errors.New(errors.ErrCodeInvalidProvince, "plate %q: unknown province %q", number, province)
	}

	regional := string(runes[1])
	if !isUpperLetter(regional) {
		return errors.New(errors.ErrCodeInvalidPlate, "plate %q: regional code %q is not a valid letter", number, regional)
	}
	if !ValidRegionalCode(province, regional) {
		return errors.New(errors.ErrCodeInvalidPlate,
			"plate %q: province %q does not issue code %q", number, province, regional)
	}

	sequence := string(runes[2:])
	switch t {
	case TypeNewEnergySmall:
		return validateNewEnergySequence(number, sequence, true)
	case TypeNewEnergyLarge:
		return validateNewEnergySequence(number, sequence, false)
	default:
		return validateOrdinarySequence(number, sequence, t)
	}
}

func validateOrdinarySequence(number, sequence string, t Type) error {
	runes := []rune(sequence)
	suffix := SpecialSuffix(t)
	if suffix != "" {
		if string(runes[len(runes)-1]) != suffix {
			return errors.New(errors.ErrCodeInvalidPlate,
				"plate %q: type %s requires trailing %q", number, t, suffix)
		}
		runes = runes[:len(runes)-1]
	}
	for _, r := range runes {
		if !validSequenceRune(r) {
			return errors.New(errors.ErrCodeInvalidPlate,
				"plate %q: invalid sequence character %q", number, string(r))
		}
	}
	return nil
}

func validateNewEnergySequence(number, sequence string, small bool) error {
	if utf8.RuneCountInString(sequence) != 6 || len(sequence) != 6 {
		return errors.New(errors.ErrCodeInvalidPlate,
			"plate %q: new-energy sequence must be 6 ASCII characters", number)
	}
	for _, r := range sequence {
		if !validSequenceRune(r) {
			return errors.New(errors.ErrCodeInvalidPlate,
				"plate %q: invalid sequence character %q", number, string(r))
		}
	}

	if small {
		marker := string(sequence[0])
		if _, ok := EnergyTypeOf(marker); !ok {
			return errors.New(errors.ErrCodeInvalidPlate,
				"plate %q: leading %q is not an energy marker", number, marker)
		}
		for i := 2; i < 6; i++ {
			if sequence[i] < '0' || sequence[i] > '9' {
				return errors.New(errors.ErrCodeInvalidPlate,
					"plate %q: small new-energy positions 3-6 must be digits", number)
			}
		}
		return nil
	}

	for i := 0; i < 5; i++ {
		if sequence[i] < '0' || sequence[i] > '9' {
			return errors.New(errors.ErrCodeInvalidPlate,
				"plate %q: large new-energy positions 1-5 must be digits", number)
		}
	}
	marker := string(sequence[5])
	if _, ok := EnergyTypeOf(marker); !ok {
		return errors.New(errors.ErrCodeInvalidPlate,
			"plate %q: trailing %q is not an energy marker", number, marker)
	}
	return nil
}

// validSequenceRune accepts digits and the I/O-free letter set.
func validSequenceRune(r rune) bool {
	if r >= '0' && r <= '9' {
		return true
	}
	return strings.ContainsRune(Letters, r)
}
