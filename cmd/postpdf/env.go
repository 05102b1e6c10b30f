package main

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lindfors/postpdf"
	"github.com/lindfors/postpdf/internal/config"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, configuration, and the process runner.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer
	Config *config.Config        // Defaults before file, env and flags are applied
	Runner postpdf.CommandRunner // nil = real processes
	Logger *slog.Logger          // nil = built from flags and config
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Config: config.DefaultConfig(),
	}
}

// baseConfig returns a copy of the environment's default config.
func (e *Environment) baseConfig() *config.Config {
	if e.Config == nil {
		return config.DefaultConfig()
	}
	cfg := *e.Config
	cfg.Typst.FontPaths = append([]string(nil), e.Config.Typst.FontPaths...)
	return &cfg
}
