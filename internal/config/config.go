// Package config loads process settings.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// .env files, then EWOK_* environment variables. Variables already present
// in the environment win over .env entries.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/ewok/internal/compose"
	"github.com/ironsheep/ewok/internal/fonts"
	"github.com/ironsheep/ewok/internal/store"
)

// EnvPrefix starts every environment override.
const EnvPrefix = "EWOK_"

// LegacyLogLevelEnv is honoured when EWOK_LOG_LEVEL is unset.
const LegacyLogLevelEnv = "IMAGE_MCP_LOG_LEVEL"

// DefaultEnvFiles are the .env files read by Load. Missing files are ignored.
var DefaultEnvFiles = []string{".env", ".env.local"}

// Config holds the process settings.
type Config struct {
	Addr              string          `yaml:"addr"`
	UploadDir         string          `yaml:"upload_dir"`
	OutputDir         string          `yaml:"output_dir"`
	MaxUploadBytes    int64           `yaml:"max_upload_bytes"`
	MaxPixels         int             `yaml:"max_pixels"`
	AllowedExtensions []string        `yaml:"allowed_extensions"`
	LogLevel          string          `yaml:"log_level"`
	FontPaths         []string        `yaml:"font_paths"`
	Presets           []PresetSetting `yaml:"presets"`
	ShutdownTimeout   time.Duration   `yaml:"shutdown_timeout"`
}

// PresetSetting adds or replaces a wallpaper preset.
type PresetSetting struct {
	Name   string `yaml:"name"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Addr:              ":5000",
		UploadDir:         filepath.Join("data", "uploads"),
		OutputDir:         filepath.Join("data", "outputs"),
		MaxUploadBytes:    16 << 20,
		MaxPixels:         compose.DefaultMaxPixels,
		AllowedExtensions: append([]string(nil), store.DefaultExtensions...),
		LogLevel:          "info",
		FontPaths:         append([]string(nil), fonts.DefaultCandidates...),
		ShutdownTimeout:   10 * time.Second,
	}
}

// Load builds the settings. path names an optional YAML file; an empty path
// skips it, a named file that cannot be read is an error.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	for _, f := range DefaultEnvFiles {
		_ = godotenv.Load(f)
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	if v, ok := lookup("ADDR"); ok {
		c.Addr = v
	}
	if v, ok := lookup("UPLOAD_DIR"); ok {
		c.UploadDir = v
	}
	if v, ok := lookup("OUTPUT_DIR"); ok {
		c.OutputDir = v
	}
	if v, ok := lookup("MAX_UPLOAD_BYTES"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config: %sMAX_UPLOAD_BYTES: %w", EnvPrefix, err)
		}
		c.MaxUploadBytes = n
	}
	if v, ok := lookup("MAX_PIXELS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %sMAX_PIXELS: %w", EnvPrefix, err)
		}
		c.MaxPixels = n
	}
	if v, ok := lookup("ALLOWED_EXTENSIONS"); ok {
		c.AllowedExtensions = splitList(v, ",")
	}
	if v, ok := lookup("FONT_PATHS"); ok {
		c.FontPaths = splitList(v, string(os.PathListSeparator))
	}
	if v, ok := lookup("SHUTDOWN_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: %sSHUTDOWN_TIMEOUT: %w", EnvPrefix, err)
		}
		c.ShutdownTimeout = d
	}

	if v, ok := lookup("LOG_LEVEL"); ok {
		c.LogLevel = v
	} else if v := strings.TrimSpace(os.Getenv(LegacyLogLevelEnv)); v != "" {
		c.LogLevel = v
	}
	return nil
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.UploadDir) == "" {
		errs = append(errs, errors.New("upload_dir is required"))
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		errs = append(errs, errors.New("output_dir is required"))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, fmt.Errorf("max_upload_bytes must be positive, got %d", c.MaxUploadBytes))
	}
	if c.MaxPixels <= 0 {
		errs = append(errs, fmt.Errorf("max_pixels must be positive, got %d", c.MaxPixels))
	}
	for _, p := range c.Presets {
		if float64(p.Width)*float64(p.Height) > float64(c.MaxPixels) {
			errs = append(errs, fmt.Errorf("preset %q: %dx%d exceeds max_pixels", p.Name, p.Width, p.Height))
		}
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	for _, p := range c.Presets {
		if p.Name == "" || p.Width <= 0 || p.Height <= 0 {
			errs = append(errs, fmt.Errorf("preset %q: name and positive size are required", p.Name))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// Level returns the parsed log level, falling back to info.
func (c Config) Level() zerolog.Level {
	l, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || l == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return l
}

// PresetTable returns the default wallpaper presets with the configured
// overrides applied.
func (c Config) PresetTable() *compose.PresetTable {
	overrides := make([]compose.Preset, 0, len(c.Presets))
	for _, p := range c.Presets {
		overrides = append(overrides, compose.Preset{Name: p.Name, Width: p.Width, Height: p.Height})
	}
	return compose.DefaultPresets().With(overrides...)
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func splitList(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
