package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/plateforge/plateforge/pkg/buildinfo"
	"github.com/plateforge/plateforge/pkg/cache"
	"github.com/plateforge/plateforge/pkg/effects/catalog"
	"github.com/plateforge/plateforge/pkg/pipeline"
	"github.com/plateforge/plateforge/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "plateforge"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *Config
}

// New creates a new CLI instance with a default logger and config loaded
// from the standard location.
func New(w io.Writer, level log.Level) *CLI {
	cfg, err := LoadConfig("")
	if err != nil {
		// A broken config file should not hide every command; fall back
		// to defaults and surface the problem.
		cfg = DefaultConfig()
		log.New(w).Warn("ignoring config file", "err", err)
	}
	return &CLI{
		Logger: newLogger(w, level),
		Config: cfg,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "plateforge",
		Short:        "PlateForge generates synthetic Chinese license plate images",
		Long:         `PlateForge is a CLI tool for generating realistic Chinese license plate images with configurable degradation effects, for training and benchmarking plate recognition models.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.augmentCommand())
	root.AddCommand(c.effectsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(cmd *cobra.Command, noCache bool, manifest string) (*pipeline.Runner, error) {
	ch, err := c.newCache(cmd, noCache)
	if err != nil {
		return nil, err
	}
	st, err := c.newStore(cmd, manifest)
	if err != nil {
		_ = ch.Close()
		return nil, err
	}
	cat, err := c.loadCatalog()
	if err != nil {
		_ = ch.Close()
		_ = st.Close()
		return nil, err
	}
	return pipeline.NewRunner(ch, st, cat, c.Logger), nil
}

func (c *CLI) newCache(cmd *cobra.Command, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case "redis":
		return cache.NewRedisCache(cmd.Context(), c.Config.Cache.Addr)
	case "none":
		return cache.NewNullCache(), nil
	default:
		dir := c.Config.Cache.Dir
		if dir == "" {
			var err error
			if dir, err = cacheDir(); err != nil {
				return cache.NewNullCache(), nil
			}
		}
		return cache.NewFileCache(dir)
	}
}

func (c *CLI) newStore(cmd *cobra.Command, manifest string) (store.Store, error) {
	if c.Config.Store.Backend == "mongo" {
		return store.NewMongoStore(cmd.Context(), c.Config.Store.MongoURI,
			c.Config.Store.Database, c.Config.Store.Collection)
	}
	if manifest == "" {
		return store.NewNullStore(), nil
	}
	return store.NewJSONLStore(manifest)
}

// loadCatalog reads the user's effect catalog, falling back to the
// defaults when none has been saved yet.
func (c *CLI) loadCatalog() (*catalog.Catalog, error) {
	path, err := catalogPath()
	if err != nil {
		return catalog.Default(), nil
	}
	cat := catalog.Default()
	if _, statErr := os.Stat(path); statErr == nil {
		if err := cat.Load(path); err != nil {
			return nil, err
		}
	}
	return cat, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/plateforge/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns the config directory using XDG standard (~/.config/plateforge/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// catalogPath returns the saved effect catalog path.
func catalogPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "effects.json"), nil
}
