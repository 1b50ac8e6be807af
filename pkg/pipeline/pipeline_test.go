package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/plateforge/plateforge/pkg/plate"
	"github.com/plateforge/plateforge/pkg/store"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}

	if opts.Count != DefaultCount {
		t.Errorf("Count = %d", opts.Count)
	}
	if len(opts.Types) != 1 || opts.Types[0] != plate.TypeOrdinarySmall {
		t.Errorf("Types = %v", opts.Types)
	}
	if opts.MaxTransforms != -1 {
		t.Errorf("MaxTransforms = %d, want -1 (catalog default)", opts.MaxTransforms)
	}
	if opts.IntensityScale != 1.0 {
		t.Errorf("IntensityScale = %g", opts.IntensityScale)
	}
	if opts.Workers != 1 {
		t.Errorf("Workers = %d, want capped at count", opts.Workers)
	}
	if opts.Format != DefaultFormat || opts.OutDir != DefaultOutDir {
		t.Errorf("Format=%q OutDir=%q", opts.Format, opts.OutDir)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsIdempotent(t *testing.T) {
	opts := Options{Count: 10, Workers: 3}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	first := opts
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Count != first.Count || opts.Workers != first.Workers {
		t.Error("second validation changed options")
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"negative count", Options{Count: -1}},
		{"bad type", Options{Types: []plate.Type{"hovercraft"}}},
		{"bad province", Options{Provinces: []string{"XX"}}},
		{"bad format", Options{Format: "bmp"}},
		{"unknown preset", Options{Preset: "pristine"}},
		{"bad category", Options{Category: "weather"}},
		{"preset and category", Options{Preset: "light_aging", Category: "aging"}},
		{"intensity out of range", Options{IntensityScale: 1.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateAndSetDefaults(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestOptionsValidCombinations(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"preset only", Options{Preset: "heavy_aging"}},
		{"category only", Options{Category: "lighting"}},
		{"provinces", Options{Provinces: []string{"京", "沪"}}},
		{"all types", Options{Types: plate.Types}},
		{"jpg alias", Options{Format: "jpg"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateAndSetDefaults(); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestExecuteInvalidOptions(t *testing.T) {
	r := NewRunner(nil, nil, nil, quietLogger())
	defer r.Close()

	if _, err := r.Execute(context.Background(), Options{Count: -5}); err == nil {
		t.Error("Execute should reject invalid options")
	}
}

// Execute with unresolvable fonts should finish the run and report every
// image as failed rather than aborting.
func TestExecuteCountsPerImageFailures(t *testing.T) {
	st, err := store.NewJSONLStore(filepath.Join(t.TempDir(), "manifest.jsonl"))
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(nil, st, nil, quietLogger())
	defer r.Close()

	progress := 0
	res, err := r.Execute(context.Background(), Options{
		Count:    4,
		Seed:     7,
		OutDir:   t.TempDir(),
		HanFont:  "no-such-font-plateforge-test",
		LatinFont: "no-such-font-plateforge-test",
		OnProgress: func(done, total int) {
			if total != 4 {
				t.Errorf("total = %d", total)
			}
			progress = done
		},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Failed != 4 || res.Generated != 0 {
		t.Errorf("generated=%d failed=%d, want all failed", res.Generated, res.Failed)
	}
	if progress != 4 {
		t.Errorf("progress = %d, want 4", progress)
	}
	if res.Seed != 7 {
		t.Errorf("Seed = %d", res.Seed)
	}
	if res.RunID == "" {
		t.Error("RunID should be set")
	}
}

// A font that only exists in the run's font_dirs must be visible to the
// compositor the run builds.
func TestFontDirsReachCompositor(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "platefont.ttf"), []byte("stub"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewRunner(nil, nil, nil, quietLogger())
	defer r.Close()

	fm := r.fontManager(Options{FontDirs: []string{dir}})
	if _, err := fm.Resolve("platefont"); err != nil {
		t.Errorf("font in FontDirs should resolve: %v", err)
	}

	if _, err := r.fontManager(Options{}).Resolve("platefont"); err == nil {
		t.Error("font should not resolve without FontDirs")
	}
}

func TestExecuteCancelled(t *testing.T) {
	r := NewRunner(nil, nil, nil, quietLogger())
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Execute(ctx, Options{Count: 8, OutDir: t.TempDir()})
	if err == nil {
		t.Error("Execute should propagate cancellation")
	}
}

func TestRunnerDefaults(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil)
	defer r.Close()

	if r.Cache == nil || r.Keyer == nil || r.Store == nil {
		t.Error("collaborators should default, not stay nil")
	}
	if r.Catalog == nil || r.Catalog.Len() == 0 {
		t.Error("catalog should default to the full set")
	}
}
