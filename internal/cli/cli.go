package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/conda-pip-minimal/internal/config"
	"github.com/matzehuels/conda-pip-minimal/pkg/buildinfo"
	"github.com/matzehuels/conda-pip-minimal/pkg/cache"
	"github.com/matzehuels/conda-pip-minimal/pkg/observability"
	"github.com/matzehuels/conda-pip-minimal/pkg/pipeline"
	"github.com/matzehuels/conda-pip-minimal/pkg/tool"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogWarn  = log.WarnLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Exec runs external tools. Nil means the real executables.
	Exec tool.Runner

	configPath string
	config     *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	setLevel(c.Logger, level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// The root command itself performs the export.
func (c *CLI) RootCommand() *cobra.Command {
	root := c.exportCommand()
	build := buildinfo.Get()
	root.Version = build.Version
	root.SilenceUsage = true
	root.SetVersionTemplate(build.Template())

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/conda-pip-minimal/config.toml)")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, path, err := config.Load(c.configPath)
		if err != nil {
			return err
		}
		if path != "" {
			c.Logger.Debug("loaded config", "path", path)
		}
		c.config = cfg

		hooks := &logHooks{logger: c.Logger}
		observability.SetToolHooks(hooks)
		observability.SetCacheHooks(hooks)

		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		return nil
	}

	root.AddCommand(c.toolsCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// settings returns the loaded configuration, or the defaults when the
// command ran without the root's pre-run (tests calling subcommands directly).
func (c *CLI) settings() *config.Config {
	if c.config == nil {
		return config.Default()
	}
	return c.config
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. The caller closes the
// runner's cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg := c.settings()

	ttl, err := cfg.CacheTTL()
	if err != nil {
		return nil, err
	}
	store, keyer, err := newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}

	exec := c.Exec
	if exec == nil {
		exec = tool.NewExecRunner()
	}

	runner := pipeline.NewRunner(exec, tool.NewSet(cfg.Tools.Conda, cfg.Tools.Pipdeptree), store, keyer, c.Logger)
	runner.ProbeTTL = ttl
	return runner, nil
}

// newCache builds the probe cache selected by the config. A file cache that
// cannot be located degrades to no caching.
func newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, cache.Keyer, error) {
	if noCache {
		return cache.NewNullCache(), nil, nil
	}
	switch cfg.Cache.Backend {
	case config.BackendRedis:
		store, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		host, _ := os.Hostname()
		return store, cache.NewScopedKeyer(nil, "host:"+host+":"), nil
	case config.BackendNone:
		return cache.NewNullCache(), nil, nil
	}

	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil, nil
	}
	store, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache(), nil, nil
	}
	return store, nil, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/conda-pip-minimal/).
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

// =============================================================================
// Observability
// =============================================================================

// logHooks reports tool and cache events at debug level.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnToolStart(_ context.Context, binary string, args []string) {
	h.logger.Debug("exec", "cmd", binary, "args", args)
}

func (h *logHooks) OnToolComplete(_ context.Context, binary string, args []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("exec failed", "cmd", binary, "duration", d.Round(time.Millisecond), "err", err)
		return
	}
	h.logger.Debug("exec done", "cmd", binary, "duration", d.Round(time.Millisecond))
}

func (h *logHooks) OnCacheHit(_ context.Context, backend string) {
	h.logger.Debug("cache hit", "backend", backend)
}

func (h *logHooks) OnCacheMiss(_ context.Context, backend string) {
	h.logger.Debug("cache miss", "backend", backend)
}

func (h *logHooks) OnCacheSet(_ context.Context, backend string, size int) {
	h.logger.Debug("cache set", "backend", backend, "bytes", size)
}

var (
	_ observability.ToolHooks  = (*logHooks)(nil)
	_ observability.CacheHooks = (*logHooks)(nil)
)
