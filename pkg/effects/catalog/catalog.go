// Package catalog holds the tunable effect configuration: which effects
// exist, their categories, base probabilities, intensity ranges and
// parameters, plus the global probability multiplier and the concurrent
// effect cap.
//
// A Catalog validates every mutation at the call site; invalid values are
// rejected with a CONFIG_ERROR and never stored. Loading from disk parses
// and validates the whole file before swapping state, so a bad file leaves
// the catalog untouched.
package catalog

import (
	"sort"

	"github.com/plateforge/plateforge/pkg/effects"
	"github.com/plateforge/plateforge/pkg/errors"
)

// Category groups effects by visual intent.
type Category string

const (
	CategoryAging       Category = "aging"
	CategoryPerspective Category = "perspective"
	CategoryLighting    Category = "lighting"
)

// Categories lists the valid categories in a stable order.
var Categories = []Category{CategoryAging, CategoryPerspective, CategoryLighting}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryAging, CategoryPerspective, CategoryLighting:
		return true
	}
	return false
}

// IntensityRange bounds the per-call intensity sample.
type IntensityRange struct {
	Lo float64
	Hi float64
}

// Descriptor configures one effect.
type Descriptor struct {
	Name           string
	Category       Category
	Probability    float64
	IntensityRange IntensityRange
	Enabled        bool
	Params         effects.Params
}

// validate checks descriptor invariants.
func (d Descriptor) validate() error {
	if d.Name == "" {
		return errors.New(errors.ErrCodeConfig, "descriptor name must not be empty")
	}
	if !effects.Registered(d.Name) {
		return errors.New(errors.ErrCodeConfig, "descriptor %q does not match a registered effect", d.Name)
	}
	if !d.Category.Valid() {
		return errors.New(errors.ErrCodeConfig, "descriptor %q has invalid category %q", d.Name, d.Category)
	}
	if d.Probability < 0 || d.Probability > 1 {
		return errors.New(errors.ErrCodeConfig, "descriptor %q probability %v outside [0, 1]", d.Name, d.Probability)
	}
	if d.IntensityRange.Lo >= d.IntensityRange.Hi {
		return errors.New(errors.ErrCodeConfig, "descriptor %q intensity range [%v, %v] must satisfy lo < hi",
			d.Name, d.IntensityRange.Lo, d.IntensityRange.Hi)
	}
	if d.IntensityRange.Lo < 0 || d.IntensityRange.Hi > 1 {
		return errors.New(errors.ErrCodeConfig, "descriptor %q intensity range [%v, %v] outside [0, 1]",
			d.Name, d.IntensityRange.Lo, d.IntensityRange.Hi)
	}
	return nil
}

// Catalog is the mutable effect configuration. It is not safe for
// concurrent mutation; the pipeline treats it as immutable once running.
type Catalog struct {
	globalProbability float64
	maxConcurrent     int
	entries           map[string]Descriptor
}

// New builds a catalog from a complete descriptor list. Every descriptor
// is validated; duplicates are rejected.
func New(globalProbability float64, maxConcurrent int, descriptors []Descriptor) (*Catalog, error) {
	if globalProbability < 0 || globalProbability > 1 {
		return nil, errors.New(errors.ErrCodeConfig, "global probability %v outside [0, 1]", globalProbability)
	}
	if maxConcurrent <= 0 {
		return nil, errors.New(errors.ErrCodeConfig, "max concurrent transforms %d must be positive", maxConcurrent)
	}
	entries := make(map[string]Descriptor, len(descriptors))
	for _, d := range descriptors {
		if err := d.validate(); err != nil {
			return nil, err
		}
		if _, dup := entries[d.Name]; dup {
			return nil, errors.New(errors.ErrCodeConfig, "duplicate descriptor %q", d.Name)
		}
		entries[d.Name] = d
	}
	return &Catalog{
		globalProbability: globalProbability,
		maxConcurrent:     maxConcurrent,
		entries:           entries,
	}, nil
}

// GlobalProbability returns the global probability multiplier.
func (c *Catalog) GlobalProbability() float64 { return c.globalProbability }

// MaxConcurrent returns the maximum number of effects per composition.
func (c *Catalog) MaxConcurrent() int { return c.maxConcurrent }

// SetGlobalProbability updates the global multiplier.
func (c *Catalog) SetGlobalProbability(p float64) error {
	if p < 0 || p > 1 {
		return errors.New(errors.ErrCodeConfig, "global probability %v outside [0, 1]", p)
	}
	c.globalProbability = p
	return nil
}

// SetMaxConcurrent updates the per-composition effect cap.
func (c *Catalog) SetMaxConcurrent(n int) error {
	if n <= 0 {
		return errors.New(errors.ErrCodeConfig, "max concurrent transforms %d must be positive", n)
	}
	c.maxConcurrent = n
	return nil
}

// Add inserts or replaces a descriptor.
func (c *Catalog) Add(d Descriptor) error {
	if err := d.validate(); err != nil {
		return err
	}
	c.entries[d.Name] = d
	return nil
}

// Remove deletes a descriptor, reporting whether it existed.
func (c *Catalog) Remove(name string) bool {
	if _, ok := c.entries[name]; !ok {
		return false
	}
	delete(c.entries, name)
	return true
}

// Get returns the descriptor for name.
func (c *Catalog) Get(name string) (Descriptor, bool) {
	d, ok := c.entries[name]
	return d, ok
}

// Enable marks an effect enabled, reporting whether it exists.
func (c *Catalog) Enable(name string) bool {
	return c.setEnabled(name, true)
}

// Disable marks an effect disabled, reporting whether it exists.
func (c *Catalog) Disable(name string) bool {
	return c.setEnabled(name, false)
}

func (c *Catalog) setEnabled(name string, enabled bool) bool {
	d, ok := c.entries[name]
	if !ok {
		return false
	}
	d.Enabled = enabled
	c.entries[name] = d
	return true
}

// UpdateProbability sets the base probability for name.
func (c *Catalog) UpdateProbability(name string, p float64) error {
	if p < 0 || p > 1 {
		return errors.New(errors.ErrCodeConfig, "probability %v outside [0, 1]", p)
	}
	d, ok := c.entries[name]
	if !ok {
		return errors.New(errors.ErrCodeConfig, "unknown effect %q", name)
	}
	d.Probability = p
	c.entries[name] = d
	return nil
}

// EffectiveProbability returns base probability times the global
// multiplier, or 0 for absent or disabled effects.
func (c *Catalog) EffectiveProbability(name string) float64 {
	d, ok := c.entries[name]
	if !ok || !d.Enabled {
		return 0
	}
	return d.Probability * c.globalProbability
}

// Enabled returns all enabled descriptors, sorted by name.
func (c *Catalog) Enabled() []Descriptor {
	out := make([]Descriptor, 0, len(c.entries))
	for _, d := range c.entries {
		if d.Enabled {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ByCategory returns the enabled descriptors in category, sorted by name.
func (c *Catalog) ByCategory(category Category) []Descriptor {
	out := make([]Descriptor, 0, len(c.entries))
	for _, d := range c.entries {
		if d.Enabled && d.Category == category {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns all descriptor names, sorted.
func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.entries))
	for name := range c.entries {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of descriptors.
func (c *Catalog) Len() int { return len(c.entries) }
