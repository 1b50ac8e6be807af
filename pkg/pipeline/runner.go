package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/plateforge/plateforge/pkg/cache"
	"github.com/plateforge/plateforge/pkg/compositor"
	"github.com/plateforge/plateforge/pkg/effects/catalog"
	"github.com/plateforge/plateforge/pkg/effects/compose"
	"github.com/plateforge/plateforge/pkg/fonts"
	"github.com/plateforge/plateforge/pkg/observability"
	"github.com/plateforge/plateforge/pkg/plate"
	"github.com/plateforge/plateforge/pkg/store"
)

// Runner encapsulates run execution with caching and persistence.
// Both CLI and API can use this to avoid duplicating the worker logic.
//
// The Runner is stateless except for its collaborators - it doesn't store
// run results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Store   store.Store
	Catalog *catalog.Catalog
	Fonts   *fonts.Manager
	Logger  *log.Logger
}

// NewRunner creates a runner with the given collaborators.
// If cache is nil, a NullCache is used (caching disabled).
// If st is nil, a NullStore is used (no manifest).
// If cat is nil, the default catalog is used.
func NewRunner(c cache.Cache, st store.Store, cat *catalog.Catalog, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if st == nil {
		st = store.NewNullStore()
	}
	if cat == nil {
		cat = catalog.Default()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:   c,
		Keyer:   cache.NewDefaultKeyer(),
		Store:   st,
		Catalog: cat,
		Fonts:   fonts.NewManager(),
		Logger:  logger,
	}
}

// Execute runs the complete number → render → augment → persist pipeline.
//
// Per-image failures are logged and counted, not fatal; Execute returns an
// error only for invalid options, setup failures, or context cancellation.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	comp, err := compositor.New(r.fontManager(opts), opts.compositorOptions())
	if err != nil {
		return nil, fmt.Errorf("compositor: %w", err)
	}
	format, _ := compositor.ParseFormat(opts.Format)

	if err := os.MkdirAll(opts.OutDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	result := &Result{
		RunID:  uuid.NewString(),
		Seed:   seed,
		OutDir: opts.OutDir,
	}

	r.Logger.Info("starting run",
		"run_id", result.RunID,
		"count", opts.Count,
		"workers", opts.Workers,
		"seed", seed)
	observability.Generation().OnRunStart(ctx, result.RunID, opts.Count)
	start := time.Now()

	var mu sync.Mutex
	done := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for i := 0; i < opts.Count; i++ {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			file, hit, err := r.generateOne(gctx, comp, format, opts, result.RunID, seed, i)

			mu.Lock()
			defer mu.Unlock()
			done++
			if err != nil {
				result.Failed++
				r.Logger.Warn("image failed", "index", i, "err", err)
			} else {
				result.Generated++
				result.Files = append(result.Files, file)
				if hit {
					result.CacheHits++
				}
			}
			if opts.OnProgress != nil {
				opts.OnProgress(done, opts.Count)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result.Duration = time.Since(start)
	observability.Generation().OnRunComplete(ctx, result.RunID, result.Generated, result.Failed, result.Duration)
	r.Logger.Info("run complete",
		"generated", result.Generated,
		"failed", result.Failed,
		"cache_hits", result.CacheHits,
		"duration", result.Duration)
	return result, nil
}

// generateOne produces a single image. The rng and the effect engine are
// derived from (seed, idx), so image idx is reproducible regardless of
// which worker picks it up.
func (r *Runner) generateOne(ctx context.Context, comp *compositor.Compositor, format compositor.Format, opts Options, runID string, seed uint64, idx int) (string, bool, error) {
	jobSeed := seed + uint64(idx)
	rng := rand.New(rand.NewPCG(jobSeed, jobSeed^0xdeadbeef))

	genOpts := plate.GenerateOptions{
		Type: opts.Types[rng.IntN(len(opts.Types))],
	}
	if len(opts.Provinces) > 0 {
		genOpts.Province = opts.Provinces[rng.IntN(len(opts.Provinces))]
	}
	number, err := plate.Generate(rng, genOpts)
	if err != nil {
		return "", false, err
	}

	observability.Generation().OnImageStart(ctx, runID, number.String())
	imgStart := time.Now()

	base, hit, err := r.basePlate(ctx, comp, number)
	if err != nil {
		observability.Generation().OnImageComplete(ctx, runID, number.String(), nil, time.Since(imgStart), err)
		return "", false, err
	}

	final, applied, err := r.augment(base, opts, jobSeed)
	if err != nil {
		observability.Generation().OnImageComplete(ctx, runID, number.String(), nil, time.Since(imgStart), err)
		return "", false, err
	}

	id := uuid.NewString()
	path := filepath.Join(opts.OutDir, id+format.Ext())
	data, err := compositor.EncodeBytes(final, format)
	if err != nil {
		return "", false, err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", false, fmt.Errorf("write image: %w", err)
	}

	bounds := final.Bounds()
	rec := &store.Record{
		ID:        id,
		RunID:     runID,
		Number:    number.String(),
		PlateType: string(number.Type),
		Province:  number.Province,
		City:      number.City,
		Style:     string(number.Style),
		Effects:   applied,
		Preset:    opts.Preset,
		File:      path,
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		Seed:      jobSeed,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.Store.Append(ctx, rec); err != nil {
		return "", false, fmt.Errorf("append record: %w", err)
	}

	observability.Generation().OnImageComplete(ctx, runID, number.String(), applied, time.Since(imgStart), nil)
	return path, hit, nil
}

// basePlate renders the clean plate, reusing cached renders. Rendering a
// number is deterministic, so cache entries never go stale.
func (r *Runner) basePlate(ctx context.Context, comp *compositor.Compositor, number plate.Number) (image.Image, bool, error) {
	w, h := compositor.SizeFor(number.Type)
	key := r.Keyer.PlateKey(number.String(), string(number.Style), w, h)

	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		if img, err := compositor.Decode(bytes.NewReader(data)); err == nil {
			observability.Cache().OnCacheHit(ctx, "plate")
			return img, true, nil
		}
		// Corrupt entry, drop it and re-render.
		_ = r.Cache.Delete(ctx, key)
	}
	observability.Cache().OnCacheMiss(ctx, "plate")

	img, err := comp.Compose(number)
	if err != nil {
		return nil, false, err
	}

	if data, err := compositor.EncodeBytes(img, compositor.FormatPNG); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.PlateTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "plate", len(data))
		}
	}
	return img, false, nil
}

// augment applies the configured effect pass to a base plate.
func (r *Runner) augment(base image.Image, opts Options, jobSeed uint64) (image.Image, []string, error) {
	if opts.NoEffects {
		return base, nil, nil
	}

	engine := compose.NewEngine(r.Catalog,
		compose.WithSeed(jobSeed),
		compose.WithLogger(opts.Logger))

	switch {
	case opts.Preset != "":
		return engine.ApplyPreset(base, opts.Preset)
	case opts.Category != "":
		return engine.ApplySingleCategory(base, catalog.Category(opts.Category), opts.IntensityScale)
	default:
		return engine.Apply(base, opts.composeOptions())
	}
}

// fontManager returns the runner's font manager, or one searching the
// run's font directories when the options name any.
func (r *Runner) fontManager(opts Options) *fonts.Manager {
	if len(opts.FontDirs) == 0 {
		return r.Fonts
	}
	return fonts.NewManager(opts.FontDirs...)
}

// Close releases resources held by the runner.
func (r *Runner) Close() error {
	var firstErr error
	if r.Store != nil {
		firstErr = r.Store.Close()
	}
	if r.Cache != nil {
		if err := r.Cache.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
