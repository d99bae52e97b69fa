// Package config resolves swatch settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/joho/godotenv"

	"github.com/jmylchreest/swatch/internal/editor"
	"github.com/jmylchreest/swatch/internal/export"
	"github.com/jmylchreest/swatch/internal/state"
	"github.com/jmylchreest/swatch/internal/util/imagecache"
)

// Environment variables read by WithEnvConfig.
const (
	EnvStateFile    = "SWATCH_STATE_FILE"
	EnvBaseURL      = "SWATCH_BASE_URL"
	EnvLogLevel     = "SWATCH_LOG_LEVEL"
	EnvHTTPTimeout  = "SWATCH_HTTP_TIMEOUT"
	EnvHistoryLimit = "SWATCH_HISTORY_LIMIT"
	EnvImageCache   = "SWATCH_IMAGE_CACHE"
)

// Defaults applied when nothing else sets a value.
const (
	DefaultHTTPTimeout  = 30 * time.Second
	DefaultHistoryLimit = 100
)

// Config holds resolved settings.
type Config struct {
	// StateFile is where the palette session is persisted. A ".xz" suffix compresses it.
	StateFile string

	// BaseURL prefixes links produced by the url and embed export formats.
	// Empty produces root-relative links.
	BaseURL string

	// LogLevel is the hclog level. NoLevel means the CLI flags decide.
	LogLevel hclog.Level

	// HTTPTimeout bounds remote image downloads.
	HTTPTimeout time.Duration

	// HistoryLimit caps the undo history. Zero keeps everything.
	HistoryLimit int

	// ImageCacheDir holds downloaded images. Empty disables caching.
	ImageCacheDir string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:     hclog.NoLevel,
		HTTPTimeout:  DefaultHTTPTimeout,
		HistoryLimit: DefaultHistoryLimit,
	}
}

// ExportOptions returns serializer options for this configuration.
func (c Config) ExportOptions() export.Options {
	return export.Options{BaseURL: c.BaseURL}
}

// SessionOptions returns the editor options implied by this configuration.
func (c Config) SessionOptions(logger hclog.Logger) []editor.Option {
	opts := []editor.Option{editor.WithHistoryLimit(c.HistoryLimit)}
	if logger != nil {
		opts = append(opts, editor.WithLogger(logger))
	}
	return opts
}

// ImageCache returns the remote image cache, or nil when caching is disabled.
func (c Config) ImageCache() *imagecache.Cache {
	if c.ImageCacheDir == "" {
		return nil
	}
	return imagecache.New(c.ImageCacheDir)
}

// Store returns the session store for StateFile.
func (c Config) Store(logger hclog.Logger) *state.Store {
	return state.NewStore(c.StateFile, logger)
}

// Builder assembles a Config from layered sources.
// Precedence, highest first: process environment, .env file, base config.
type Builder struct {
	config     Config
	dotEnvPath string
	useEnv     bool
	lookup     func(string) (string, bool)
}

// NewBuilder creates a Builder starting from Default.
func NewBuilder() *Builder {
	return &Builder{
		config: Default(),
		lookup: os.LookupEnv,
	}
}

// WithDotEnv reads variables from a .env file. A missing file is ignored.
// Values in the file never override the process environment.
func (b *Builder) WithDotEnv(path string) *Builder {
	b.dotEnvPath = path
	return b
}

// WithEnvConfig reads the SWATCH_* variables.
func (b *Builder) WithEnvConfig() *Builder {
	b.useEnv = true
	return b
}

// WithLookup replaces the environment lookup function.
func (b *Builder) WithLookup(lookup func(string) (string, bool)) *Builder {
	b.lookup = lookup
	return b
}

// Build resolves the configuration.
func (b *Builder) Build() (Config, error) {
	config := b.config

	dotEnv := map[string]string{}
	if b.dotEnvPath != "" {
		values, err := godotenv.Read(b.dotEnvPath)
		switch {
		case err == nil:
			dotEnv = values
		case errors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("failed to read %s: %w", b.dotEnvPath, err)
		}
	}

	if b.useEnv || len(dotEnv) > 0 {
		get := func(key string) (string, bool) {
			if b.useEnv {
				if v, ok := b.lookup(key); ok && v != "" {
					return v, true
				}
			}
			v, ok := dotEnv[key]
			return v, ok && v != ""
		}
		if err := apply(&config, get); err != nil {
			return Config{}, err
		}
	}

	if config.StateFile == "" {
		path, err := state.DefaultPath()
		if err != nil {
			return Config{}, err
		}
		config.StateFile = path
	}

	return config, nil
}

func apply(config *Config, get func(string) (string, bool)) error {
	if v, ok := get(EnvStateFile); ok {
		config.StateFile = v
	}
	if v, ok := get(EnvBaseURL); ok {
		config.BaseURL = strings.TrimSuffix(v, "/")
	}
	if v, ok := get(EnvLogLevel); ok {
		level := hclog.LevelFromString(v)
		if level == hclog.NoLevel {
			return fmt.Errorf("invalid %s %q", EnvLogLevel, v)
		}
		config.LogLevel = level
	}
	if v, ok := get(EnvHTTPTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvHTTPTimeout, err)
		}
		if d < 0 {
			return fmt.Errorf("invalid %s: must not be negative", EnvHTTPTimeout)
		}
		config.HTTPTimeout = d
	}
	if v, ok := get(EnvHistoryLimit); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvHistoryLimit, err)
		}
		if n < 0 {
			return fmt.Errorf("invalid %s: must not be negative", EnvHistoryLimit)
		}
		config.HistoryLimit = n
	}
	if v, ok := get(EnvImageCache); ok {
		config.ImageCacheDir = v
	}
	return nil
}
