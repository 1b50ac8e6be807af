// Package pkg provides the core libraries for PlateForge plate image generation.
//
// # Overview
//
// PlateForge produces synthetic Chinese license plate images for training and
// benchmarking recognition systems. The pkg directory is organized into four
// main areas:
//
//  1. [plate] - Domain logic (plate numbers, types, provinces, sequence patterns)
//  2. [compositor] + [fonts] - Base plate rendering (layout, glyphs, encoding)
//  3. [effects] - Degradation effects (catalog, composition engine, presets)
//  4. [pipeline] - Orchestration (number → render → augment → persist)
//
// # Architecture
//
// The typical data flow through PlateForge:
//
//	[plate] package (draw a valid random number)
//	         ↓
//	[compositor] package (render the clean base plate) ←→ [cache]
//	         ↓
//	[effects/compose] package (select and apply degradations)
//	         ↓
//	[pipeline] package (encode, write files, record manifest) ←→ [store]
//
// # Quick Start
//
// Generate one augmented plate image:
//
//	import (
//	    "math/rand/v2"
//	    "github.com/plateforge/plateforge/pkg/compositor"
//	    "github.com/plateforge/plateforge/pkg/effects/catalog"
//	    "github.com/plateforge/plateforge/pkg/effects/compose"
//	    "github.com/plateforge/plateforge/pkg/fonts"
//	    "github.com/plateforge/plateforge/pkg/plate"
//	)
//
//	// 1. Draw a valid plate number
//	rng := rand.New(rand.NewPCG(42, 42^0xdeadbeef))
//	number, _ := plate.Generate(rng, plate.GenerateOptions{Type: plate.TypeOrdinarySmall})
//
//	// 2. Render the clean base plate
//	comp, _ := compositor.New(fonts.NewManager(), compositor.Options{})
//	base, _ := comp.Compose(number)
//
//	// 3. Apply randomized degradation effects
//	engine := compose.NewEngine(catalog.Default(), compose.WithSeed(42))
//	img, applied, _ := engine.Apply(base, compose.DefaultOptions())
//	_ = applied // names of the effects used, in application order
//
// # Main Packages
//
// [plate] - Plate number generation and validation: thirteen plate types,
// 31 provinces, per-type sequence patterns and color schemes.
//
// [compositor] - Draws plate numbers onto plate backgrounds: geometry per
// plate type, glyph placement, rivets, borders, and PNG/JPEG encoding.
//
// [fonts] - Font discovery via system font paths and user-supplied
// directories, face caching, and glyph rasterization.
//
// [effects/catalog] - The effect catalog: per-effect probability, intensity
// ranges, category and priority metadata, JSON persistence.
//
// [effects/compose] - The composition engine: probabilistic conflict-free
// selection, canonical priority ordering, presets, and single-category mode.
//
// [pipeline] - The generation pipeline used by the CLI and the HTTP API.
// Runs a worker pool over the full flow and reports per-image failures.
//
// # Supporting Packages
//
// [cache] - Base render caching with file, Redis, and null backends.
//
// [store] - Dataset manifest backends: JSONL files and MongoDB.
//
// [errors] - Structured error codes shared by the CLI and the pipeline.
//
// [observability] - Hook interfaces for metrics and tracing integration.
//
// [buildinfo] - Build-time version information injected via ldflags.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                # All tests
//	go test ./pkg/effects/...        # Specific package
//	go test -run Example             # Examples only
//
// [plate]: https://pkg.go.dev/github.com/plateforge/plateforge/pkg/plate
// [compositor]: https://pkg.go.dev/github.com/plateforge/plateforge/pkg/compositor
// [fonts]: https://pkg.go.dev/github.com/plateforge/plateforge/pkg/fonts
// [effects]: https://pkg.go.dev/github.com/plateforge/plateforge/pkg/effects
// [effects/catalog]: https://pkg.go.dev/github.com/plateforge/plateforge/pkg/effects/catalog
// [effects/compose]: https://pkg.go.dev/github.com/plateforge/plateforge/pkg/effects/compose
// [pipeline]: https://pkg.go.dev/github.com/plateforge/plateforge/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/plateforge/plateforge/pkg/cache
// [store]: https://pkg.go.dev/github.com/plateforge/plateforge/pkg/store
// [errors]: https://pkg.go.dev/github.com/plateforge/plateforge/pkg/errors
// [observability]: https://pkg.go.dev/github.com/plateforge/plateforge/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/plateforge/plateforge/pkg/buildinfo
package pkg
