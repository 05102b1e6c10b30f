package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lindfors/postpdf/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath  string   // POSTPDF_CONFIG: config file name or path
	Typst       string   // POSTPDF_TYPST: typst binary
	FontPaths   []string // POSTPDF_FONT_PATHS: list separated like PATH
	Timeout     string   // POSTPDF_TIMEOUT: per-document timeout
	OutputDir   string   // POSTPDF_OUTPUT_DIR: output directory
	Author      string   // POSTPDF_AUTHOR: byline author
	TemplateDir string   // POSTPDF_TEMPLATE_DIR: custom template directory
	LogLevel    string   // POSTPDF_LOG_LEVEL: debug, info, warn, error
	Workers     int      // POSTPDF_WORKERS: parallel workers
}

// knownEnvVars lists valid POSTPDF_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"POSTPDF_CONFIG":       true,
	"POSTPDF_TYPST":        true,
	"POSTPDF_FONT_PATHS":   true,
	"POSTPDF_TIMEOUT":      true,
	"POSTPDF_OUTPUT_DIR":   true,
	"POSTPDF_AUTHOR":       true,
	"POSTPDF_TEMPLATE_DIR": true,
	"POSTPDF_LOG_LEVEL":    true,
	"POSTPDF_WORKERS":      true,
	"POSTPDF_CONTAINER":    true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:  os.Getenv("POSTPDF_CONFIG"),
		Typst:       os.Getenv("POSTPDF_TYPST"),
		Timeout:     os.Getenv("POSTPDF_TIMEOUT"),
		OutputDir:   os.Getenv("POSTPDF_OUTPUT_DIR"),
		Author:      os.Getenv("POSTPDF_AUTHOR"),
		TemplateDir: os.Getenv("POSTPDF_TEMPLATE_DIR"),
		LogLevel:    os.Getenv("POSTPDF_LOG_LEVEL"),
	}

	if paths := os.Getenv("POSTPDF_FONT_PATHS"); paths != "" {
		for _, p := range filepath.SplitList(paths) {
			if p != "" {
				cfg.FontPaths = append(cfg.FontPaths, p)
			}
		}
	}

	// Invalid or non-positive values are ignored
	if workers := os.Getenv("POSTPDF_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized POSTPDF_* variables.
// Helps catch typos like POSTPDF_AUTHOR_NAME instead of POSTPDF_AUTHOR.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "POSTPDF_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values over the config file.
// Priority: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Typst != "" {
		cfg.Typst.Binary = env.Typst
	}
	if len(env.FontPaths) > 0 {
		cfg.Typst.FontPaths = env.FontPaths
	}
	if env.Timeout != "" {
		cfg.Typst.Timeout = env.Timeout
	}
	if env.OutputDir != "" {
		cfg.Output.Dir = env.OutputDir
	}
	if env.Author != "" {
		cfg.Author.Name = env.Author
	}
	if env.TemplateDir != "" {
		cfg.Template.Path = env.TemplateDir
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
	if env.Workers > 0 {
		cfg.Workers = env.Workers
	}
}
