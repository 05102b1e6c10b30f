package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/lindfors/postpdf"
	"github.com/lindfors/postpdf/internal/assets"
	"github.com/lindfors/postpdf/internal/config"
	"github.com/lindfors/postpdf/internal/fileutil"
	"github.com/lindfors/postpdf/internal/hints"
	"github.com/lindfors/postpdf/internal/logging"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput       = errors.New("no input specified")
	ErrTooManyInputs = errors.New("expected a single input path")
)

// runConvertCmd parses flags, runs the conversion and maps the outcome to
// an exit code.
func runConvertCmd(args []string, env *Environment) int {
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := runConvert(ctx, positional, flags, env); err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment) error {
	// Validate worker count early
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	cfg, err := resolveConfig(flags, env)
	if err != nil {
		return err
	}

	inputPath, err := resolveInputPath(positionalArgs)
	if err != nil {
		return err
	}

	if err := checkTemplate(cfg); err != nil {
		return err
	}

	logger := newLogger(cfg, env)
	pipe, err := buildPipeline(cfg, logger, env.Runner)
	if err != nil {
		return err
	}

	docs, batch, err := discoverDocuments(inputPath, cfg.Input.Pattern)
	if err != nil {
		return err
	}

	if !batch {
		return convertSingle(ctx, pipe, docs[0], cfg.Output.Dir, flags, env)
	}

	if len(docs) == 0 {
		return fmt.Errorf("%w: no documents matching %q in %s", ErrNoInput, cfg.Input.Pattern, inputPath)
	}

	start := env.Now()
	workers := resolvePoolSize(cfg.Workers)
	logger.Debug("batch started", "documents", len(docs), "workers", workers)

	results := convertBatch(ctx, pipe, docs, cfg.Output.Dir, workers)
	printResults(results, flags.common.quiet, flags.common.verbose, env)
	if flags.common.verbose {
		fmt.Fprintf(env.Stdout, "Finished in %v\n", env.Now().Sub(start).Round(time.Millisecond))
	}

	// Per-document failures are reported above; only an interrupted batch
	// is an error.
	return ctx.Err()
}

// convertSingle converts one document; its failure is the command's failure.
func convertSingle(ctx context.Context, pipe DocumentRunner, path, outputDir string, flags *convertFlags, env *Environment) error {
	res, err := pipe.Run(ctx, postpdf.Input{Path: path, OutputDir: outputDir})
	if err != nil {
		return err
	}
	printResults([]ConversionResult{resultFrom(path, res)}, flags.common.quiet, flags.common.verbose, env)
	return nil
}

// resolveConfig layers defaults, config file, environment and flags.
func resolveConfig(flags *convertFlags, env *Environment) (*config.Config, error) {
	envCfg := loadEnvConfig()

	cfg := env.baseConfig()
	name := flags.common.config
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) {
				return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(configSearchPaths(name)))
			}
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI flags take precedence.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	if flags.output != "" {
		cfg.Output.Dir = flags.output
	}
	if flags.workers > 0 {
		cfg.Workers = flags.workers
	}
	if flags.pattern != "" {
		cfg.Input.Pattern = flags.pattern
	}
	if flags.document.author != "" {
		cfg.Author.Name = flags.document.author
	}
	if flags.document.dateFormat != "" {
		cfg.Date.Format = flags.document.dateFormat
	}
	if flags.document.maxWidth != maxWidthSentinel {
		cfg.Images.MaxWidth = flags.document.maxWidth
	}
	if flags.template.name != "" {
		cfg.Template.Name = flags.template.name
	}
	if flags.template.dir != "" {
		cfg.Template.Path = flags.template.dir
	}
	if flags.typst.binary != "" {
		cfg.Typst.Binary = flags.typst.binary
	}
	if len(flags.typst.fontPaths) > 0 {
		cfg.Typst.FontPaths = flags.typst.fontPaths
	}
	if flags.typst.timeout != "" {
		cfg.Typst.Timeout = flags.typst.timeout
	}
	if flags.common.verbose {
		cfg.Log.Level = "debug"
	} else if flags.common.quiet {
		cfg.Log.Level = "error"
	}
}

// resolveInputPath returns the single positional input.
func resolveInputPath(args []string) (string, error) {
	switch len(args) {
	case 0:
		return "", ErrNoInput
	case 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("%w: got %d", ErrTooManyInputs, len(args))
	}
}

// checkTemplate fails early on an unknown embedded template set, listing
// the available ones.
func checkTemplate(cfg *config.Config) error {
	if cfg.Template.Path != "" {
		return nil
	}
	if _, err := assets.LoadTemplateSet(cfg.Template.Name); err != nil {
		return fmt.Errorf("%w%s", err, hints.ForTemplateNotFound(assets.TemplateSetNames()))
	}
	return nil
}

// newLogger returns the injected logger or a stderr text logger.
func newLogger(cfg *config.Config, env *Environment) *slog.Logger {
	if env.Logger != nil {
		return env.Logger
	}
	return logging.New(env.Stderr, cfg.Log.Level)
}

// buildPipeline creates the pipeline described by cfg.
func buildPipeline(cfg *config.Config, logger *slog.Logger, runner postpdf.CommandRunner) (*postpdf.Pipeline, error) {
	renderer := postpdf.NewTypstRenderer(cfg.Typst.Binary, cfg.Typst.FontPaths...)
	if runner != nil {
		renderer.Runner = runner
	}

	opts := []postpdf.Option{
		postpdf.WithLogger(logger),
		postpdf.WithRenderer(renderer),
		postpdf.WithAuthor(cfg.Author.Name),
		postpdf.WithDateFormat(cfg.Date.Format),
		postpdf.WithTemplate(cfg.Template.Name),
		postpdf.WithTemplateDir(cfg.Template.Path),
		postpdf.WithMaxWidth(cfg.Images.MaxWidth),
	}
	if d := cfg.TimeoutDuration(); d > 0 {
		opts = append(opts, postpdf.WithTimeout(d))
	}
	return postpdf.New(opts...)
}

// configSearchPaths mirrors the locations LoadConfig tries for a name.
func configSearchPaths(name string) []string {
	if fileutil.IsFilePath(name) {
		return nil
	}
	paths := []string{name + ".yaml"}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "postpdf", name+".yaml"))
	}
	return paths
}
