package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Author.Name != DefaultAuthor {
		t.Errorf("Author.Name = %q, want %q", cfg.Author.Name, DefaultAuthor)
	}
	if cfg.Input.Pattern != "**/index.md" {
		t.Errorf("Input.Pattern = %q, want **/index.md", cfg.Input.Pattern)
	}
	if cfg.Output.Dir != "" {
		t.Errorf("Output.Dir = %q, want empty", cfg.Output.Dir)
	}
	if cfg.Template.Name != "academic" {
		t.Errorf("Template.Name = %q, want academic", cfg.Template.Name)
	}
	if cfg.Typst.Binary != "typst" {
		t.Errorf("Typst.Binary = %q, want typst", cfg.Typst.Binary)
	}
	if cfg.Images.MaxWidth != 1600 {
		t.Errorf("Images.MaxWidth = %d, want 1600", cfg.Images.MaxWidth)
	}
	if cfg.Date.Format != "MMMM DD, YYYY" {
		t.Errorf("Date.Format = %q, want MMMM DD, YYYY", cfg.Date.Format)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestValidateFieldLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     string
		maxLength int
		wantErr   bool
	}{
		{name: "empty value is valid", value: "", maxLength: 10},
		{name: "value at limit is valid", value: "1234567890", maxLength: 10},
		{name: "value over limit returns error", value: "12345678901", maxLength: 10, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := validateFieldLength("test.field", tt.value, tt.maxLength)
			if tt.wantErr {
				if !errors.Is(err, ErrFieldTooLong) {
					t.Errorf("error = %v, want ErrFieldTooLong", err)
				}
				if err != nil && !strings.Contains(err.Error(), "test.field") {
					t.Errorf("error %q should name the field", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:   "defaults valid",
			mutate: func(*Config) {},
		},
		{
			name:    "author too long",
			mutate:  func(c *Config) { c.Author.Name = strings.Repeat("a", MaxNameLength+1) },
			wantErr: ErrFieldTooLong,
		},
		{
			name:    "pattern too long",
			mutate:  func(c *Config) { c.Input.Pattern = strings.Repeat("*", MaxPatternLength+1) },
			wantErr: ErrFieldTooLong,
		},
		{
			name:    "too many font paths",
			mutate:  func(c *Config) { c.Typst.FontPaths = make([]string, MaxFontPaths+1) },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "font path too long",
			mutate:  func(c *Config) { c.Typst.FontPaths = []string{strings.Repeat("f", MaxPathLength+1)} },
			wantErr: ErrFieldTooLong,
		},
		{
			name:   "valid timeout",
			mutate: func(c *Config) { c.Typst.Timeout = "90s" },
		},
		{
			name:    "bad timeout",
			mutate:  func(c *Config) { c.Typst.Timeout = "soon" },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.Typst.Timeout = "-1s" },
			wantErr: ErrInvalidValue,
		},
		{
			name:   "zero max width disables scaling",
			mutate: func(c *Config) { c.Images.MaxWidth = 0 },
		},
		{
			name:    "negative max width",
			mutate:  func(c *Config) { c.Images.MaxWidth = -1 },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "too many workers",
			mutate:  func(c *Config) { c.Workers = MaxWorkers + 1 },
			wantErr: ErrInvalidValue,
		},
		{
			name:   "date preset",
			mutate: func(c *Config) { c.Date.Format = "iso" },
		},
		{
			name:    "bad date format",
			mutate:  func(c *Config) { c.Date.Format = "[unclosed" },
			wantErr: errAny,
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "loud" },
			wantErr: ErrInvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			switch {
			case tt.wantErr == nil:
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			case tt.wantErr == errAny:
				if err == nil {
					t.Error("Validate() expected error, got nil")
				}
			default:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
				}
			}
		})
	}
}

// errAny marks cases where only the presence of an error matters.
var errAny = errors.New("any error")

func TestConfig_TimeoutDuration(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if got := cfg.TimeoutDuration(); got != 0 {
		t.Errorf("TimeoutDuration() = %v, want 0", got)
	}
	cfg.Typst.Timeout = "2m"
	if got := cfg.TimeoutDuration(); got != 2*time.Minute {
		t.Errorf("TimeoutDuration() = %v, want 2m", got)
	}
}

// ---------------------------------------------------------------------------
// TestLoadConfig
// ---------------------------------------------------------------------------

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("empty name returns ErrEmptyConfigName", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig("")
		if !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("valid file overrides defaults", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `author:
  name: "Jane Doe"
output:
  dir: "/tmp/pdf"
typst:
  fontPaths: ["/fonts"]
  timeout: "30s"
images:
  maxWidth: 1200
workers: 4
`)
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Author.Name != "Jane Doe" {
			t.Errorf("Author.Name = %q, want Jane Doe", cfg.Author.Name)
		}
		if cfg.Output.Dir != "/tmp/pdf" {
			t.Errorf("Output.Dir = %q, want /tmp/pdf", cfg.Output.Dir)
		}
		if len(cfg.Typst.FontPaths) != 1 || cfg.Typst.FontPaths[0] != "/fonts" {
			t.Errorf("Typst.FontPaths = %v, want [/fonts]", cfg.Typst.FontPaths)
		}
		if cfg.Images.MaxWidth != 1200 {
			t.Errorf("Images.MaxWidth = %d, want 1200", cfg.Images.MaxWidth)
		}
		if cfg.Workers != 4 {
			t.Errorf("Workers = %d, want 4", cfg.Workers)
		}
		// untouched keys keep defaults
		if cfg.Typst.Binary != DefaultBinary {
			t.Errorf("Typst.Binary = %q, want default", cfg.Typst.Binary)
		}
		if cfg.Template.Name != DefaultTemplate {
			t.Errorf("Template.Name = %q, want default", cfg.Template.Name)
		}
	})

	t.Run("zero max width kept", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfig(writeConfig(t, "images:\n  maxWidth: 0\n"))
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Images.MaxWidth != 0 {
			t.Errorf("Images.MaxWidth = %d, want 0", cfg.Images.MaxWidth)
		}
	})

	t.Run("nonexistent file path returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig("/nonexistent/path/config.yaml")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("invalid YAML returns ErrConfigParse", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig(writeConfig(t, "author: [unclosed"))
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("unknown field returns ErrConfigParse in strict mode", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig(writeConfig(t, "style: technical\n"))
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("invalid value fails validation", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig(writeConfig(t, "workers: -2\n"))
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("error = %v, want ErrInvalidValue", err)
		}
	})
}

func TestLoadConfig_ByName(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME drives os.UserConfigDir on Linux only")
	}

	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Chdir(t.TempDir())

	t.Run("found in user config dir", func(t *testing.T) {
		dir := filepath.Join(configHome, "postpdf")
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "blog.yml"), []byte("workers: 2\n"), 0o600); err != nil {
			t.Fatal(err)
		}

		cfg, err := LoadConfig("blog")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Workers != 2 {
			t.Errorf("Workers = %d, want 2", cfg.Workers)
		}
	})

	t.Run("current directory wins", func(t *testing.T) {
		if err := os.WriteFile("blog.yaml", []byte("workers: 3\n"), 0o600); err != nil {
			t.Fatal(err)
		}

		cfg, err := LoadConfig("blog")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Workers != 3 {
			t.Errorf("Workers = %d, want 3", cfg.Workers)
		}
	})

	t.Run("missing name lists tried paths", func(t *testing.T) {
		_, err := LoadConfig("absent")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("error = %v, want ErrConfigNotFound", err)
		}
		if !strings.Contains(err.Error(), "absent.yaml") {
			t.Errorf("error %q should list tried paths", err)
		}
	})
}
