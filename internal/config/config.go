package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lindfors/postpdf/internal/dateutil"
	"github.com/lindfors/postpdf/internal/fileutil"
	"github.com/lindfors/postpdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxNameLength     = 100  // Author name
	MaxPathLength     = 4096 // Directories, binaries, font paths
	MaxPatternLength  = 256  // Discovery glob
	MaxTemplateLength = 64   // Template set name
	MaxFontPaths      = 16
	MaxWorkers        = 32
	MaxImageWidth     = 20000
)

// Defaults applied by DefaultConfig.
const (
	DefaultAuthor   = "Emil Lindfors"
	DefaultPattern  = "**/index.md"
	DefaultTemplate = "academic"
	DefaultBinary   = "typst"
	DefaultMaxWidth = 1600
)

// Config holds all configuration for PDF generation.
type Config struct {
	Author   AuthorConfig   `yaml:"author"`
	Input    InputConfig    `yaml:"input"`
	Output   OutputConfig   `yaml:"output"`
	Template TemplateConfig `yaml:"template"`
	Typst    TypstConfig    `yaml:"typst"`
	Images   ImagesConfig   `yaml:"images"`
	Date     DateConfig     `yaml:"date"`
	Log      LogConfig      `yaml:"log"`
	Workers  int            `yaml:"workers"` // 0 = automatic
}

// AuthorConfig defines the byline.
type AuthorConfig struct {
	Name string `yaml:"name"`
}

// InputConfig defines batch discovery options.
type InputConfig struct {
	Pattern string `yaml:"pattern"` // doublestar glob relative to the content root
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	Dir string `yaml:"dir"` // Empty = next to each source document
}

// TemplateConfig selects the Typst template set.
type TemplateConfig struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"` // Custom template directory, empty = embedded only
}

// TypstConfig defines how the typst binary is invoked.
type TypstConfig struct {
	Binary    string   `yaml:"binary"`
	FontPaths []string `yaml:"fontPaths"`
	Timeout   string   `yaml:"timeout"` // Go duration, empty = none
}

// ImagesConfig defines image conversion options.
type ImagesConfig struct {
	MaxWidth int `yaml:"maxWidth"` // pixels, 0 = keep original size
}

// DateConfig defines how metadata dates are displayed.
type DateConfig struct {
	Format string `yaml:"format"` // token format or preset name
}

// LogConfig defines diagnostic logging.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Validate checks field lengths and value ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"author.name", c.Author.Name, MaxNameLength},
		{"input.pattern", c.Input.Pattern, MaxPatternLength},
		{"output.dir", c.Output.Dir, MaxPathLength},
		{"template.name", c.Template.Name, MaxTemplateLength},
		{"template.path", c.Template.Path, MaxPathLength},
		{"typst.binary", c.Typst.Binary, MaxPathLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if len(c.Typst.FontPaths) > MaxFontPaths {
		return fmt.Errorf("%w: typst.fontPaths: at most %d entries, got %d", ErrInvalidValue, MaxFontPaths, len(c.Typst.FontPaths))
	}
	for i, p := range c.Typst.FontPaths {
		if err := validateFieldLength(fmt.Sprintf("typst.fontPaths[%d]", i), p, MaxPathLength); err != nil {
			return err
		}
	}
	if c.Typst.Timeout != "" {
		d, err := time.ParseDuration(c.Typst.Timeout)
		if err != nil || d < 0 {
			return fmt.Errorf("%w: typst.timeout: %q is not a positive duration", ErrInvalidValue, c.Typst.Timeout)
		}
	}

	if c.Images.MaxWidth < 0 || c.Images.MaxWidth > MaxImageWidth {
		return fmt.Errorf("%w: images.maxWidth: must be between 0 and %d, got %d", ErrInvalidValue, MaxImageWidth, c.Images.MaxWidth)
	}
	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers: must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Workers)
	}

	if _, err := dateutil.ResolveFormat(c.Date.Format); err != nil {
		return fmt.Errorf("date.format: %w", err)
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
		// valid
	default:
		return fmt.Errorf("%w: log.level: %q (must be debug, info, warn, or error)", ErrInvalidValue, c.Log.Level)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// TimeoutDuration returns the parsed typst timeout, zero when unset.
// Validate must have accepted the config.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Typst.Timeout)
	return d
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Author:   AuthorConfig{Name: DefaultAuthor},
		Input:    InputConfig{Pattern: DefaultPattern},
		Template: TemplateConfig{Name: DefaultTemplate},
		Typst:    TypstConfig{Binary: DefaultBinary},
		Images:   ImagesConfig{MaxWidth: DefaultMaxWidth},
		Date:     DateConfig{Format: dateutil.LongFormat},
		Log:      LogConfig{Level: "info"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Keys absent from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/postpdf/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	// Try current directory first (both extensions)
	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	// Try user config directory (both extensions)
	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "postpdf", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
