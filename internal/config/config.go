// Package config loads conda-pip-minimal's layered configuration.
//
// Values are resolved in increasing precedence: built-in defaults, the TOML
// config file ($XDG_CONFIG_HOME/conda-pip-minimal/config.toml), then CPM_*
// environment variables (CPM_RELAX, CPM_CACHE_BACKEND, ...). Command-line
// flags are applied on top by the CLI.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"github.com/matzehuels/conda-pip-minimal/pkg/errors"
	"github.com/matzehuels/conda-pip-minimal/pkg/manifest"
	"github.com/matzehuels/conda-pip-minimal/pkg/pipeline"
	"github.com/matzehuels/conda-pip-minimal/pkg/relax"
)

const (
	// AppName is the application name used for directories.
	AppName = "conda-pip-minimal"
	// FileName is the config file name.
	FileName = "config.toml"
	// EnvPrefix prefixes environment variable overrides.
	EnvPrefix = "CPM"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the effective configuration.
type Config struct {
	Relax   string      `mapstructure:"relax" toml:"relax"`
	Include []string    `mapstructure:"include" toml:"include"`
	Exclude []string    `mapstructure:"exclude" toml:"exclude"`
	Pip     bool        `mapstructure:"pip" toml:"pip"`
	Channel bool        `mapstructure:"channel" toml:"channel"`
	Format  string      `mapstructure:"format" toml:"format"`
	Cache   CacheConfig `mapstructure:"cache" toml:"cache"`
	Tools   ToolsConfig `mapstructure:"tools" toml:"tools"`
}

// CacheConfig selects where tool version probes are cached.
type CacheConfig struct {
	Backend  string `mapstructure:"backend" toml:"backend"`     // file, redis or none
	RedisURL string `mapstructure:"redis_url" toml:"redis_url"` // redis://host:6379/0
	TTL      string `mapstructure:"ttl" toml:"ttl"`             // Go duration, e.g. "1h"
}

// ToolsConfig overrides the external executables.
type ToolsConfig struct {
	Conda      string `mapstructure:"conda" toml:"conda"`
	Pipdeptree string `mapstructure:"pipdeptree" toml:"pipdeptree"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Relax:   pipeline.DefaultRelax,
		Include: append([]string(nil), pipeline.DefaultInclude...),
		Exclude: []string{},
		Pip:     true,
		Format:  pipeline.DefaultFormat,
		Cache: CacheConfig{
			Backend: BackendFile,
			TTL:     "1h",
		},
		Tools: ToolsConfig{
			Conda:      "conda",
			Pipdeptree: "pipdeptree",
		},
	}
}

// Dir returns the configuration directory ($XDG_CONFIG_HOME/conda-pip-minimal,
// defaulting to ~/.config/conda-pip-minimal).
func Dir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", AppName), nil
}

// DefaultPath returns the default config file path.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load resolves the configuration. An empty path means DefaultPath; a missing
// file at the default path is not an error, but a missing explicit path is.
// It returns the config and the file actually read ("" if none).
func Load(path string) (*Config, string, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("relax", defaults.Relax)
	v.SetDefault("include", defaults.Include)
	v.SetDefault("exclude", defaults.Exclude)
	v.SetDefault("pip", defaults.Pip)
	v.SetDefault("channel", defaults.Channel)
	v.SetDefault("format", defaults.Format)
	v.SetDefault("cache.backend", defaults.Cache.Backend)
	v.SetDefault("cache.redis_url", defaults.Cache.RedisURL)
	v.SetDefault("cache.ttl", defaults.Cache.TTL)
	v.SetDefault("tools.conda", defaults.Tools.Conda)
	v.SetDefault("tools.pipdeptree", defaults.Tools.Pipdeptree)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, "", err
		}
		path = p
	}

	resolved := ""
	if fileExists(path) {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid config file %s", path)
		}
		resolved = path
	} else if explicit {
		return nil, "", errors.New(errors.ErrCodeInvalidInput, "config file not found: %s", path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "failed to parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return &cfg, resolved, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	if _, err := relax.ParseLevel(c.Relax); err != nil {
		return err
	}
	if _, err := manifest.ParseFormat(c.Format); err != nil {
		return err
	}
	if err := errors.ValidatePackageNames(c.Include); err != nil {
		return err
	}
	if err := errors.ValidatePackageNames(c.Exclude); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidInput, "cache.redis_url is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache.backend %q (want file, redis or none)", c.Cache.Backend)
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	return nil
}

// CacheTTL returns the parsed cache TTL.
func (c *Config) CacheTTL() (time.Duration, error) {
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid cache.ttl %q", c.Cache.TTL)
	}
	return d, nil
}

// Encode writes c as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// WriteDefault writes the default configuration to path, creating parent
// directories. An existing file is only replaced when force is set.
func WriteDefault(path string, force bool) error {
	if fileExists(path) && !force {
		return errors.New(errors.ErrCodeInvalidInput, "config file already exists: %s (use --force to overwrite)", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := Default().Encode(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return f.Close()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
