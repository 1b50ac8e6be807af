// Package compose selects and applies effect combinations. The engine
// draws a conflict-free effect set from the catalog's probabilities and
// applies it in the canonical priority order.
//
// # Architecture
//
// An Engine binds a read-only catalog and owns its rng, so one engine
// serves one goroutine; share the catalog, not the engine. Selection and
// application are separate steps: Select picks names, Apply runs the
// full pipeline and reports which effects actually landed.
package compose

import (
	"context"
	"image"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/plateforge/plateforge/pkg/effects"
	"github.com/plateforge/plateforge/pkg/effects/catalog"
	"github.com/plateforge/plateforge/pkg/errors"
	"github.com/plateforge/plateforge/pkg/observability"
)

// Options controls one composition.
type Options struct {
	// MaxTransforms caps the selection. Negative means the catalog's
	// max; zero selects nothing and returns the image unchanged.
	MaxTransforms int

	// Force seeds the selection with these effects, in order. Forced
	// effects that are unknown, disabled, excluded or conflicting with
	// an earlier forced effect are dropped silently.
	Force []string

	// Exclude removes these effects from consideration entirely.
	Exclude []string

	// IntensityScale multiplies both probabilities and sampled
	// intensities. Zero means 1.0.
	IntensityScale float64
}

// DefaultOptions returns options that follow the catalog's tuning.
func DefaultOptions() Options {
	return Options{MaxTransforms: -1, IntensityScale: 1.0}
}

// normalize resolves option defaults against the catalog.
func (o Options) normalize(cat *catalog.Catalog) Options {
	if o.MaxTransforms < 0 {
		o.MaxTransforms = cat.MaxConcurrent()
	}
	if o.IntensityScale == 0 {
		o.IntensityScale = 1.0
	}
	return o
}

// Engine composes effects over images. Not safe for concurrent use; the
// pipeline derives one engine per worker.
type Engine struct {
	cat    *catalog.Catalog
	rng    *rand.Rand
	logger *log.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithSeed seeds the engine's rng for reproducible compositions.
func WithSeed(seed uint64) EngineOption {
	return func(e *Engine) {
		e.rng = rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
	}
}

// WithLogger sets the engine's logger.
func WithLogger(logger *log.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine builds an engine over a catalog. Without WithSeed the rng is
// seeded from the global source.
func NewEngine(cat *catalog.Catalog, opts ...EngineOption) *Engine {
	e := &Engine{
		cat: cat,
		rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Select draws a conflict-free effect set per the catalog's
// probabilities. The result is unordered with respect to application;
// Apply re-sorts by priority.
func (e *Engine) Select(opts Options) []string {
	opts = opts.normalize(e.cat)
	excluded := make(map[string]bool, len(opts.Exclude))
	for _, name := range opts.Exclude {
		excluded[name] = true
	}

	var selected []string

	// Forced effects first, in caller order. Conflicting or unusable
	// entries are dropped, not errors.
	for _, name := range opts.Force {
		if len(selected) >= opts.MaxTransforms {
			break
		}
		d, ok := e.cat.Get(name)
		if !ok || !d.Enabled || excluded[name] || conflictsWith(name, selected) {
			continue
		}
		if contains(selected, name) {
			continue
		}
		selected = append(selected, name)
	}

	// Probabilistic draws up to the cap. Each round groups the usable
	// candidates by category, picks a category uniformly, then runs a
	// weighted draw gated by the category's maximum weight. A rejected
	// category is out for the round; a round with no acceptance ends
	// the selection.
	for len(selected) < opts.MaxTransforms {
		pool := e.candidates(selected, excluded)
		if len(pool) == 0 {
			break
		}
		byCategory := make(map[catalog.Category][]catalog.Descriptor)
		for _, d := range pool {
			byCategory[d.Category] = append(byCategory[d.Category], d)
		}
		remaining := make([]catalog.Category, 0, len(byCategory))
		for _, c := range catalog.Categories {
			if len(byCategory[c]) > 0 {
				remaining = append(remaining, c)
			}
		}

		accepted := false
		for len(remaining) > 0 {
			ci := e.rng.IntN(len(remaining))
			cat := remaining[ci]
			if name, ok := e.drawFromCategory(byCategory[cat]); ok {
				selected = append(selected, name)
				accepted = true
				break
			}
			remaining = append(remaining[:ci], remaining[ci+1:]...)
		}
		if !accepted {
			break
		}
	}
	return selected
}

// candidates returns the enabled, non-excluded, non-selected descriptors
// that do not conflict with the current selection.
func (e *Engine) candidates(selected []string, excluded map[string]bool) []catalog.Descriptor {
	var out []catalog.Descriptor
	for _, d := range e.cat.Enabled() {
		if excluded[d.Name] || contains(selected, d.Name) || conflictsWith(d.Name, selected) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// drawFromCategory runs the two-stage draw: a weighted choice by
// effective probability, then a uniform gate against the category's
// maximum weight. The gate keeps low-probability categories from
// over-contributing just because they were picked.
func (e *Engine) drawFromCategory(pool []catalog.Descriptor) (string, bool) {
	var total, maxWeight float64
	weights := make([]float64, len(pool))
	for i, d := range pool {
		w := e.cat.EffectiveProbability(d.Name)
		weights[i] = w
		total += w
		if w > maxWeight {
			maxWeight = w
		}
	}
	if total <= 0 {
		return "", false
	}

	r := e.rng.Float64() * total
	winner := pool[len(pool)-1].Name
	for i, w := range weights {
		if r < w {
			winner = pool[i].Name
			break
		}
		r -= w
	}

	if e.rng.Float64() < maxWeight {
		return winner, true
	}
	return "", false
}

// Apply selects effects and applies them in priority order. Per-effect
// failures are logged and treated as not applied; they never abort the
// composition. The returned names are the effects that actually landed,
// in application order.
func (e *Engine) Apply(img image.Image, opts Options) (image.Image, []string, error) {
	if img == nil || img.Bounds().Dx() <= 0 || img.Bounds().Dy() <= 0 {
		return nil, nil, errors.New(errors.ErrCodeInvalidImage, "composition requires a non-empty image")
	}
	opts = opts.normalize(e.cat)
	selected := e.Select(opts)
	return e.applySelection(img, selected, opts.IntensityScale)
}

// ApplySingleCategory composes from one category only, capped at two
// effects. Conflicts within the category still apply.
func (e *Engine) ApplySingleCategory(img image.Image, category catalog.Category, intensityScale float64) (image.Image, []string, error) {
	var exclude []string
	for _, name := range e.cat.Names() {
		d, _ := e.cat.Get(name)
		if d.Category != category {
			exclude = append(exclude, name)
		}
	}
	opts := Options{
		MaxTransforms:  2,
		Exclude:        exclude,
		IntensityScale: intensityScale,
	}
	return e.Apply(img, opts)
}

func (e *Engine) applySelection(img image.Image, selected []string, scale float64) (image.Image, []string, error) {
	ctx := context.Background()
	current := img
	applied := make([]string, 0, len(selected))
	for _, name := range inPriorityOrder(selected) {
		d, ok := e.cat.Get(name)
		if !ok {
			continue
		}
		prob := clamp01(d.Probability * scale)
		eff, err := effects.New(name, prob, d.Params)
		if err != nil {
			e.logf("skipping unknown effect", "effect", name, "err", err)
			continue
		}
		intensity := d.IntensityRange.Lo + e.rng.Float64()*(d.IntensityRange.Hi-d.IntensityRange.Lo)
		intensity = clamp01(intensity * scale)

		start := time.Now()
		out, ok, err := eff.MaybeApply(current, intensity, e.rng)
		if err != nil {
			observability.Effect().OnEffectError(ctx, name, err)
			e.logf("effect failed", "effect", name, "err",
				errors.Wrap(errors.ErrCodeEffectFailure, err, "apply %s", name))
			continue
		}
		if !ok {
			observability.Effect().OnEffectSkipped(ctx, name)
			continue
		}
		observability.Effect().OnEffectApplied(ctx, name, intensity, time.Since(start))
		current = out
		applied = append(applied, name)
	}
	return current, applied, nil
}

func (e *Engine) logf(msg string, kv ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, kv...)
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func contains(list []string, name string) bool {
	for _, s := range list {
		if s == name {
			return true
		}
	}
	return false
}
