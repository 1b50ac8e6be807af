package cli

import (
	"fmt"
	"image"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/plateforge/plateforge/pkg/compositor"
	"github.com/plateforge/plateforge/pkg/effects/catalog"
	"github.com/plateforge/plateforge/pkg/effects/compose"
)

// augmentOpts holds the command-line flags for the augment command.
type augmentOpts struct {
	preset        string
	category      string
	force         string // comma-separated effects applied first
	exclude       string // comma-separated effects never considered
	maxTransforms int
	intensity     float64
	seed          uint64
	output        string
	variants      int // augmented copies per input image
}

// augmentCommand creates the augment command for applying effects to
// existing images, e.g. plates photographed or rendered elsewhere.
func (c *CLI) augmentCommand() *cobra.Command {
	opts := augmentOpts{
		maxTransforms: -1,
		intensity:     1.0,
		variants:      1,
	}

	cmd := &cobra.Command{
		Use:   "augment <image>...",
		Short: "Apply degradation effects to existing images",
		Long: `Apply randomized degradation effects from the effect catalog to
existing plate images. Each input can produce several augmented
variants, useful for expanding a small labeled set.`,
		Example: `  # One augmented copy per image
  plateforge augment plates/*.png -o augmented

  # Five low-light variants each
  plateforge augment plate.png --variants 5 --preset low_light`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAugment(cmd, args, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.preset, "preset", "", "effect preset (see 'plateforge effects presets')")
	cmd.Flags().StringVar(&opts.category, "category", "", "restrict effects to one category: aging, perspective, lighting")
	cmd.Flags().StringVar(&opts.force, "force", "", "effect(s) to always apply, comma-separated")
	cmd.Flags().StringVar(&opts.exclude, "exclude", "", "effect(s) to never apply, comma-separated")
	cmd.Flags().IntVar(&opts.maxTransforms, "max-transforms", opts.maxTransforms, "max effects per image (-1 follows the catalog)")
	cmd.Flags().Float64Var(&opts.intensity, "intensity", opts.intensity, "effect intensity scale (0-1]")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "seed for reproducible output (0 = random)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory (default next to inputs)")
	cmd.Flags().IntVar(&opts.variants, "variants", opts.variants, "augmented copies per input")

	return cmd
}

func (c *CLI) runAugment(cmd *cobra.Command, args []string, opts *augmentOpts) error {
	if opts.preset != "" && opts.category != "" {
		return fmt.Errorf("preset and category are mutually exclusive")
	}
	if opts.variants < 1 {
		return fmt.Errorf("variants must be at least 1")
	}
	if opts.preset != "" {
		if _, ok := compose.LookupPreset(opts.preset); !ok {
			return fmt.Errorf("unknown preset: %q", opts.preset)
		}
	}
	if opts.category != "" && !catalog.Category(opts.category).Valid() {
		return fmt.Errorf("invalid category: %q (must be one of: aging, perspective, lighting)", opts.category)
	}

	cat, err := c.loadCatalog()
	if err != nil {
		return err
	}

	seed := opts.seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	if opts.output != "" {
		if err := os.MkdirAll(opts.output, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	logger := loggerFromContext(cmd.Context())
	sp := newSpinnerWithContext(cmd.Context(), fmt.Sprintf("Augmenting %d images...", len(args)))
	sp.Start()

	written := 0
	failed := 0
	job := 0
	for _, input := range args {
		img, err := loadImage(input)
		if err != nil {
			logger.Warn("skipping input", "file", input, "err", err)
			failed++
			continue
		}

		for v := 0; v < opts.variants; v++ {
			jobSeed := seed + uint64(job)
			job++

			out, applied, err := c.augmentOne(cat, img, opts, jobSeed)
			if err != nil {
				logger.Warn("augment failed", "file", input, "err", err)
				failed++
				continue
			}

			path := augmentedPath(input, opts.output, v, opts.variants)
			if err := compositor.Save(out, path); err != nil {
				logger.Warn("write failed", "file", path, "err", err)
				failed++
				continue
			}
			logger.Debug("augmented", "file", path, "effects", applied)
			written++
		}

		if cmd.Context().Err() != nil {
			sp.Stop()
			return cmd.Context().Err()
		}
	}

	if failed > 0 {
		sp.StopWithError(fmt.Sprintf("Augmented %d images, %d failed", written, failed))
	} else {
		sp.StopWithSuccess(fmt.Sprintf("Augmented %d images", written))
	}
	printDetail("Seed: %d", seed)
	return nil
}

func (c *CLI) augmentOne(cat *catalog.Catalog, img image.Image, opts *augmentOpts, jobSeed uint64) (image.Image, []string, error) {
	engine := compose.NewEngine(cat,
		compose.WithSeed(jobSeed),
		compose.WithLogger(c.Logger))

	switch {
	case opts.preset != "":
		return engine.ApplyPreset(img, opts.preset)
	case opts.category != "":
		return engine.ApplySingleCategory(img, catalog.Category(opts.category), opts.intensity)
	default:
		return engine.Apply(img, compose.Options{
			MaxTransforms:  opts.maxTransforms,
			Force:          splitList(opts.force),
			Exclude:        splitList(opts.exclude),
			IntensityScale: opts.intensity,
		})
	}
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return compositor.Decode(f)
}

// augmentedPath derives the output path for variant v of input.
// plate.png becomes plate_aug.png, or plate_aug2.png for later variants.
func augmentedPath(input, outDir string, v, variants int) string {
	dir := filepath.Dir(input)
	if outDir != "" {
		dir = outDir
	}
	base := filepath.Base(input)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	suffix := "_aug"
	if variants > 1 && v > 0 {
		suffix = fmt.Sprintf("_aug%d", v+1)
	}
	return filepath.Join(dir, stem+suffix+ext)
}
