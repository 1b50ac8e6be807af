// Package pipeline provides the core generation pipeline for PlateForge.
//
// This package implements the complete number → render → augment → persist
// pipeline that can be used by the CLI and the HTTP API. By centralizing this
// logic, we ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of four stages per image:
//
//  1. Number: Draw a plate number for the requested type and region
//  2. Render: Compose the base plate image (cached by number and style)
//  3. Augment: Apply a conflict-free set of effects from the catalog
//  4. Persist: Encode the image to disk and append a manifest record
//
// A run executes the per-image pipeline across a bounded worker pool. Each
// worker derives its own rng and effect engine from the run seed, so a run
// is reproducible from (seed, count) alone.
//
// # Usage
//
// Create a Runner and execute a run:
//
//	runner := pipeline.NewRunner(cache, store, catalog, logger)
//	opts := pipeline.Options{
//	    Count:  100,
//	    Types:  []plate.Type{plate.TypeOrdinarySmall},
//	    Preset: "heavy_aging",
//	    OutDir: "dataset",
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Generated, "images in", result.OutDir)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/plateforge/plateforge/pkg/compositor"
	"github.com/plateforge/plateforge/pkg/effects/catalog"
	"github.com/plateforge/plateforge/pkg/effects/compose"
	"github.com/plateforge/plateforge/pkg/plate"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultCount is the number of images generated when unset.
	DefaultCount = 1

	// DefaultWorkers bounds the worker pool. Rendering is CPU-bound, so
	// more workers than cores only adds contention.
	DefaultWorkers = 4

	// DefaultFormat is the default output image format.
	DefaultFormat = "png"

	// DefaultOutDir is the default output directory.
	DefaultOutDir = "output"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a generation run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Number options
	Count     int          `json:"count,omitempty"`
	Types     []plate.Type `json:"types,omitempty"`     // plate types drawn uniformly; default ordinary small
	Provinces []string     `json:"provinces,omitempty"` // province abbreviations; empty means all

	// Augment options
	NoEffects      bool    `json:"no_effects,omitempty"` // emit clean base plates
	Preset         string  `json:"preset,omitempty"`     // named effect scenario
	Category       string  `json:"category,omitempty"`   // restrict effects to one category
	MaxTransforms  int     `json:"max_transforms,omitempty"`
	IntensityScale float64 `json:"intensity_scale,omitempty"`
	Seed           uint64  `json:"seed,omitempty"` // 0 draws a fresh seed

	// Output options
	Workers int    `json:"workers,omitempty"`
	OutDir  string `json:"out_dir,omitempty"`
	Format  string `json:"format,omitempty"`

	// Font options
	FontDirs  []string `json:"font_dirs,omitempty"`
	HanFont   string   `json:"han_font,omitempty"`
	LatinFont string   `json:"latin_font,omitempty"`
	FontSize  float64  `json:"font_size,omitempty"`

	// Runtime options (not serialized)
	Logger     *log.Logger          `json:"-"`
	OnProgress func(done, total int) `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a generation run.
type Result struct {
	// RunID identifies the run in manifest records.
	RunID string

	// Seed is the seed the run actually used. Re-running with this seed
	// and the same options reproduces the dataset.
	Seed uint64

	// Generated and Failed count finished images.
	Generated int
	Failed    int

	// Files lists the written image paths.
	Files []string

	// OutDir is the resolved output directory.
	OutDir string

	// Duration is the wall-clock run time.
	Duration time.Duration

	// CacheHits counts base plates served from the cache.
	CacheHits int
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.Count < 0 {
		return fmt.Errorf("count must be positive, got %d", o.Count)
	}
	if o.Count == 0 {
		o.Count = DefaultCount
	}

	if len(o.Types) == 0 {
		o.Types = []plate.Type{plate.TypeOrdinarySmall}
	}
	for _, t := range o.Types {
		if !plate.ValidType(t) {
			return fmt.Errorf("invalid plate type: %q", t)
		}
	}
	for _, p := range o.Provinces {
		if !plate.ValidProvince(p) {
			return fmt.Errorf("invalid province: %q", p)
		}
	}

	if o.Preset != "" && o.Category != "" {
		return fmt.Errorf("preset and category are mutually exclusive")
	}
	if o.Preset != "" {
		if _, ok := compose.LookupPreset(o.Preset); !ok {
			return fmt.Errorf("unknown preset: %q", o.Preset)
		}
	}
	if o.Category != "" && !catalog.Category(o.Category).Valid() {
		return fmt.Errorf("invalid category: %q (must be one of: aging, perspective, lighting)", o.Category)
	}

	// Zero means unset here; an explicit cap of zero is expressed with
	// NoEffects instead.
	if o.MaxTransforms == 0 {
		o.MaxTransforms = -1
	}
	if o.IntensityScale < 0 || o.IntensityScale > 1 {
		return fmt.Errorf("intensity_scale must be in [0, 1], got %g", o.IntensityScale)
	}
	if o.IntensityScale == 0 {
		o.IntensityScale = 1.0
	}

	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.Workers > o.Count {
		o.Workers = o.Count
	}
	if o.OutDir == "" {
		o.OutDir = DefaultOutDir
	}

	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if _, err := compositor.ParseFormat(o.Format); err != nil {
		return err
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// composeOptions translates run options into engine options.
func (o *Options) composeOptions() compose.Options {
	return compose.Options{
		MaxTransforms:  o.MaxTransforms,
		IntensityScale: o.IntensityScale,
	}
}

// compositorOptions translates run options into compositor options.
func (o *Options) compositorOptions() compositor.Options {
	return compositor.Options{
		HanFont:   o.HanFont,
		LatinFont: o.LatinFont,
		FontSize:  o.FontSize,
	}
}

