package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lindfors/postpdf"
)

// DocumentRunner is the interface for the conversion pipeline.
type DocumentRunner interface {
	Run(ctx context.Context, in postpdf.Input) (*postpdf.Result, error)
}

// Compile-time interface implementation check.
var _ DocumentRunner = (*postpdf.Pipeline)(nil)

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Warnings   []postpdf.Warning
	Err        error
	Duration   time.Duration
}

// convertBatch processes documents concurrently. Documents are
// independent: one failing does not stop the others.
func convertBatch(ctx context.Context, runner DocumentRunner, docs []string, outputDir string, workers int) []ConversionResult {
	if len(docs) == 0 {
		return nil
	}

	concurrency := workers
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > len(docs) {
		concurrency = len(docs)
	}

	results := make([]ConversionResult, len(docs))
	var wg sync.WaitGroup
	jobs := make(chan int, len(docs))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{
						InputPath: docs[idx],
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = convertDocument(ctx, runner, docs[idx], outputDir)
			}
		}()
	}

	for i := range docs {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertDocument runs one document and returns the result.
func convertDocument(ctx context.Context, runner DocumentRunner, path, outputDir string) ConversionResult {
	start := time.Now()
	res, err := runner.Run(ctx, postpdf.Input{Path: path, OutputDir: outputDir})
	if err != nil {
		return ConversionResult{InputPath: path, Err: err, Duration: time.Since(start)}
	}
	return resultFrom(path, res)
}

func resultFrom(path string, res *postpdf.Result) ConversionResult {
	return ConversionResult{
		InputPath:  path,
		OutputPath: res.OutputPath,
		Warnings:   res.Warnings,
		Duration:   res.Duration,
	}
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
	Warnings  int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
			continue
		}
		summary.Succeeded++
		summary.Warnings += countWarn(r.Warnings)
	}
	return summary
}

// countWarn counts warnings that were reported to the user, leaving out
// silent defaults.
func countWarn(ws []postpdf.Warning) int {
	n := 0
	for _, w := range ws {
		if w.Policy == postpdf.PolicyWarn {
			n++
		}
	}
	return n
}

// printResults outputs conversion results. Failed documents print a
// WARNING line; they do not change the exit code.
func printResults(results []ConversionResult, quiet, verbose bool, env *Environment) {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "WARNING %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
			for _, w := range r.Warnings {
				fmt.Fprintf(env.Stdout, "  %s: %s\n", w.Policy, w)
			}
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed, %d warnings\n", summary.Succeeded, summary.Failed, summary.Warnings)
	}
}
