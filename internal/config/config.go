// Package config loads editor configuration from a TOML file with
// environment variable overrides. Missing files are not an error; the
// defaults apply.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix is the prefix for environment overrides, e.g.
// SCRIBE_HISTORY_MAX_GROUPS.
const EnvPrefix = "SCRIBE_"

// Config is the full editor configuration.
type Config struct {
	Editor  EditorConfig  `toml:"editor"`
	History HistoryConfig `toml:"history"`
	Bidi    BidiConfig    `toml:"bidi"`
	Watcher WatcherConfig `toml:"watcher"`
	Logging LoggingConfig `toml:"logging"`
}

// EditorConfig holds buffer-level settings.
type EditorConfig struct {
	// ReadOnly opens buffers write-protected.
	ReadOnly bool `toml:"read_only"`

	// DefaultLineEnding is the convention for content with no line
	// breaks to detect from: "lf", "crlf", or "cr".
	DefaultLineEnding string `toml:"default_line_ending"`
}

// HistoryConfig bounds undo memory.
type HistoryConfig struct {
	MaxGroups int `toml:"max_groups"`
	MaxBytes  int `toml:"max_bytes"`
}

// BidiConfig controls bidirectional text handling.
type BidiConfig struct {
	// BaseDirection is "auto", "ltr", or "rtl".
	BaseDirection string `toml:"base_direction"`

	// ParagraphCacheSize bounds the resolution cache.
	ParagraphCacheSize int `toml:"paragraph_cache_size"`
}

// WatcherConfig controls external file change detection.
type WatcherConfig struct {
	Enabled  bool          `toml:"enabled"`
	Debounce time.Duration `toml:"debounce"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	// Level is "debug", "info", "warn", or "error".
	Level string `toml:"level"`

	// Format is "text" or "json".
	Format string `toml:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Editor: EditorConfig{
			DefaultLineEnding: "lf",
		},
		History: HistoryConfig{
			MaxGroups: 1000,
			MaxBytes:  32 << 20,
		},
		Bidi: BidiConfig{
			BaseDirection:      "auto",
			ParagraphCacheSize: 256,
		},
		Watcher: WatcherConfig{
			Enabled:  true,
			Debounce: 100 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from path, layering file values over the
// defaults and environment overrides over both. A missing file leaves
// the defaults intact.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// keep defaults
	case err != nil:
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks field values that are constrained to enumerations
// or positive ranges.
func (c Config) Validate() error {
	switch c.Editor.DefaultLineEnding {
	case "lf", "crlf", "cr":
	default:
		return fmt.Errorf("config: invalid default_line_ending %q", c.Editor.DefaultLineEnding)
	}
	switch c.Bidi.BaseDirection {
	case "auto", "ltr", "rtl":
	default:
		return fmt.Errorf("config: invalid base_direction %q", c.Bidi.BaseDirection)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: invalid log level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: invalid log format %q", c.Logging.Format)
	}
	if c.History.MaxGroups <= 0 {
		return fmt.Errorf("config: history max_groups must be positive, got %d", c.History.MaxGroups)
	}
	if c.History.MaxBytes <= 0 {
		return fmt.Errorf("config: history max_bytes must be positive, got %d", c.History.MaxBytes)
	}
	if c.Bidi.ParagraphCacheSize <= 0 {
		return fmt.Errorf("config: paragraph_cache_size must be positive, got %d", c.Bidi.ParagraphCacheSize)
	}
	return nil
}

// SlogLevel returns the configured level as a slog.Level.
func (c LoggingConfig) SlogLevel() slog.Level {
	switch c.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds a slog.Logger per the logging configuration.
func (c LoggingConfig) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// applyEnv overlays SCRIBE_* environment variables onto cfg.
func applyEnv(cfg *Config) {
	if v, ok := envBool("EDITOR_READ_ONLY"); ok {
		cfg.Editor.ReadOnly = v
	}
	if v, ok := envString("EDITOR_DEFAULT_LINE_ENDING"); ok {
		cfg.Editor.DefaultLineEnding = strings.ToLower(v)
	}
	if v, ok := envInt("HISTORY_MAX_GROUPS"); ok {
		cfg.History.MaxGroups = v
	}
	if v, ok := envInt("HISTORY_MAX_BYTES"); ok {
		cfg.History.MaxBytes = v
	}
	if v, ok := envString("BIDI_BASE_DIRECTION"); ok {
		cfg.Bidi.BaseDirection = strings.ToLower(v)
	}
	if v, ok := envInt("BIDI_PARAGRAPH_CACHE_SIZE"); ok {
		cfg.Bidi.ParagraphCacheSize = v
	}
	if v, ok := envBool("WATCHER_ENABLED"); ok {
		cfg.Watcher.Enabled = v
	}
	if v, ok := envDuration("WATCHER_DEBOUNCE"); ok {
		cfg.Watcher.Debounce = v
	}
	if v, ok := envString("LOG_LEVEL"); ok {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v, ok := envString("LOG_FORMAT"); ok {
		cfg.Logging.Format = strings.ToLower(v)
	}
}

func envString(key string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func envBool(key string) (bool, bool) {
	s, ok := envString(key)
	if !ok {
		return false, false
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, false
	}
	return v, true
}

func envInt(key string) (int, bool) {
	s, ok := envString(key)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

func envDuration(key string) (time.Duration, bool) {
	s, ok := envString(key)
	if !ok {
		return 0, false
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return 0, false
	}
	return v, true
}
