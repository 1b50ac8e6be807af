package plate

import (
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/plateforge/plateforge/pkg/errors"
)

// Character sets per GA 36-2018. I and O are excluded from every letter
// position to avoid confusion with 1 and 0.
const (
	Letters = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	Digits  = "0123456789"
)

// Energy-marker letters for new-energy plates.
var (
	PureElectricLetters = []string{"D", "A", "B", "C", "E"}
	HybridLetters       = []string{"F", "G", "H", "J", "K"}
)

// EnergyType distinguishes the new-energy drivetrains.
type EnergyType string

const (
	EnergyPure   EnergyType = "pure"
	EnergyHybrid EnergyType = "hybrid"
)

// SequencePattern is one of the five-character layouts, in GA 36-2018
// enablement order. Pattern characters: D digit, L letter.
type SequencePattern struct {
	Order   int
	Pattern string
	Example string
}

// OrdinaryPatterns lists the ten layouts in enablement order. Lower
// orders are exhausted before higher ones are opened.
var OrdinaryPatterns = []SequencePattern{
	{Order: 1, Pattern: "DDDDD", Example: "12345"},
	{Order: 2, Pattern: "LDDDD", Example: "A1234"},
	{Order: 3, Pattern: "LLDDD", Example: "AB123"},
	{Order: 4, Pattern: "DLDDD", Example: "1A234"},
	{Order: 5, Pattern: "DDLDD", Example: "12A34"},
	{Order: 6, Pattern: "DDDLD", Example: "123A4"},
	{Order: 7, Pattern: "DDDDL", Example: "1234A"},
	{Order: 8, Pattern: "LDDDL", Example: "A123B"},
	{Order: 9, Pattern: "DDDLL", Example: "123AB"},
	{Order: 10, Pattern: "LDLDD", Example: "A1B23"},
}

// SequenceGenerator draws plate sequences. Pattern availability models
// the GA resource rule: a layout is retired once its usage rate passes
// the threshold, opening the next one in order.
type SequenceGenerator struct {
	usage     map[int]float64
	threshold float64
}

// UsageThreshold is the usage rate at which a pattern is considered
// exhausted.
const UsageThreshold = 0.6

// NewSequenceGenerator returns a generator with all patterns fresh.
func NewSequenceGenerator() *SequenceGenerator {
	return &SequenceGenerator{
		usage:     make(map[int]float64),
		threshold: UsageThreshold,
	}
}

// SetUsage records the usage rate for a pattern order, clamped to [0, 1].
func (g *SequenceGenerator) SetUsage(order int, rate float64) {
	if rate < 0 {
		rate = 0
	} else if rate > 1 {
		rate = 1
	}
	g.usage[order] = rate
}

// AvailablePatterns returns the layouts under the usage threshold, in
// enablement order.
func (g *SequenceGenerator) AvailablePatterns() []SequencePattern {
	var out []SequencePattern
	for _, p := range OrdinaryPatterns {
		if g.usage[p.Order] < g.threshold {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// Ordinary draws a five-character sequence. With preferredOrder > 0 the
// matching available layout is used; otherwise the first available
// layout in enablement order wins.
func (g *SequenceGenerator) Ordinary(rng *rand.Rand, preferredOrder int) (string, SequencePattern, error) {
	available := g.AvailablePatterns()
	if len(available) == 0 {
		return "", SequencePattern{}, errors.New(errors.ErrCodeInvalidFormat, "all sequence patterns exhausted")
	}
	selected := available[0]
	if preferredOrder > 0 {
		for _, p := range available {
			if p.Order == preferredOrder {
				selected = p
				break
			}
		}
	}
	return renderPattern(selected.Pattern, rng), selected, nil
}

// OrdinaryWithPattern draws a sequence for an explicit layout string.
func (g *SequenceGenerator) OrdinaryWithPattern(rng *rand.Rand, pattern string) (string, SequencePattern, error) {
	for _, p := range OrdinaryPatterns {
		if p.Pattern == pattern {
			return renderPattern(p.Pattern, rng), p, nil
		}
	}
	return "", SequencePattern{}, errors.New(errors.ErrCodeInvalidFormat, "unknown sequence pattern %q", pattern)
}

// NewEnergySmall draws a six-character small-car sequence: the energy
// letter leads, optionally followed by a second letter, then digits.
func (g *SequenceGenerator) NewEnergySmall(rng *rand.Rand, energy EnergyType, doubleLetter bool) (string, string) {
	marker := pickEnergyLetter(rng, energy)
	var b strings.Builder
	b.WriteString(marker)
	if doubleLetter {
		b.WriteByte(Letters[rng.IntN(len(Letters))])
		for i := 0; i < 4; i++ {
			b.WriteByte(Digits[rng.IntN(len(Digits))])
		}
	} else {
		for i := 0; i < 5; i++ {
			b.WriteByte(Digits[rng.IntN(len(Digits))])
		}
	}
	return b.String(), marker
}

// NewEnergyLarge draws a six-character large-car sequence: five digits
// with the energy letter last.
func (g *SequenceGenerator) NewEnergyLarge(rng *rand.Rand, energy EnergyType) (string, string) {
	marker := pickEnergyLetter(rng, energy)
	var b strings.Builder
	for i := 0; i < 5; i++ {
		b.WriteByte(Digits[rng.IntN(len(Digits))])
	}
	b.WriteString(marker)
	return b.String(), marker
}

func pickEnergyLetter(rng *rand.Rand, energy EnergyType) string {
	set := PureElectricLetters
	if energy == EnergyHybrid {
		set = HybridLetters
	}
	return set[rng.IntN(len(set))]
}

// EnergyTypeOf classifies a new-energy marker letter.
func EnergyTypeOf(letter string) (EnergyType, bool) {
	for _, l := range PureElectricLetters {
		if l == letter {
			return EnergyPure, true
		}
	}
	for _, l := range HybridLetters {
		if l == letter {
			return EnergyHybrid, true
		}
	}
	return "", false
}

// renderPattern expands a D/L layout into characters.
func renderPattern(pattern string, rng *rand.Rand) string {
	var b strings.Builder
	for _, c := range pattern {
		switch c {
		case 'D':
			b.WriteByte(Digits[rng.IntN(len(Digits))])
		case 'L':
			b.WriteByte(Letters[rng.IntN(len(Letters))])
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}

// MatchesPattern reports whether a sequence fits a D/L layout.
func MatchesPattern(sequence, pattern string) bool {
	if len(sequence) != len(pattern) {
		return false
	}
	for i := 0; i < len(pattern); i++ {
		c := sequence[i]
		switch pattern[i] {
		case 'D':
			if c < '0' || c > '9' {
				return false
			}
		case 'L':
			if !strings.ContainsRune(Letters, rune(c)) {
				return false
			}
		default:
			if c != pattern[i] {
				return false
			}
		}
	}
	return true
}
