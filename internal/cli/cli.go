package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dungeonforge/pkg/buildinfo"
	"github.com/matzehuels/dungeonforge/pkg/cache"
	"github.com/matzehuels/dungeonforge/pkg/pipeline"
	"github.com/matzehuels/dungeonforge/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName names the cache directory and the binary.
	appName = "dungeonforge"

	// envRedisURL and envMongoURI provide defaults for --redis and --mongo.
	envRedisURL = "DUNGEONFORGE_REDIS_URL"
	envMongoURI = "DUNGEONFORGE_MONGO_URI"
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
}

// New creates a CLI that logs to w at the given level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root command with every subcommand registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Dungeonforge lays out dungeons from room graphs and templates",
		Long: `Dungeonforge assembles dungeon layouts from a level descriptor: a set of
room graphs describing how rooms connect and a library of room templates.
Rooms are placed breadth-first from the entrance, joined doorway to doorway,
and never overlap.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}
	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// backendFlags selects where layouts are cached and stored.
type backendFlags struct {
	noCache bool
	redis   string
	mongo   string
}

func (f *backendFlags) register(cmd *cobra.Command, withNoCache bool) {
	if withNoCache {
		cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the layout cache")
	}
	cmd.Flags().StringVar(&f.redis, "redis", os.Getenv(envRedisURL), "Redis URL for a shared layout cache (env "+envRedisURL+")")
	cmd.Flags().StringVar(&f.mongo, "mongo", os.Getenv(envMongoURI), "MongoDB URI for layout storage (env "+envMongoURI+")")
}

// newRunner creates a pipeline runner. Without --redis the file cache is
// used; without --mongo layouts are kept in memory for the process lifetime.
func (c *CLI) newRunner(ctx context.Context, f backendFlags) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, f)
	if err != nil {
		return nil, err
	}
	var st store.Store = store.NewMemoryStore()
	if f.mongo != "" {
		ms, err := store.NewMongoStore(ctx, f.mongo, "", "")
		if err != nil {
			_ = ch.Close()
			return nil, err
		}
		c.Logger.Debug("using mongodb store")
		st = ms
	}
	return pipeline.NewRunner(ch, nil, st, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, f backendFlags) (cache.Cache, error) {
	switch {
	case f.noCache:
		return cache.NewNullCache(), nil
	case f.redis != "":
		c.Logger.Debug("using redis cache")
		return cache.NewRedisCache(ctx, f.redis, appName+":")
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns $XDG_CACHE_HOME/dungeonforge or ~/.cache/dungeonforge.
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
