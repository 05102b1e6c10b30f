package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lindfors/postpdf"
)

type stubRunner struct {
	active    atomic.Int32
	maxActive atomic.Int32
	fail      map[string]bool
}

func (s *stubRunner) Run(_ context.Context, in postpdf.Input) (*postpdf.Result, error) {
	n := s.active.Add(1)
	defer s.active.Add(-1)
	for {
		m := s.maxActive.Load()
		if n <= m || s.maxActive.CompareAndSwap(m, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)

	if s.fail[in.Path] {
		return nil, errors.New("boom")
	}
	return &postpdf.Result{
		SourcePath: in.Path,
		OutputPath: strings.TrimSuffix(in.Path, ".md") + ".pdf",
		Warnings: []postpdf.Warning{
			{Kind: postpdf.KindAssetMissing, Policy: postpdf.PolicyWarn, Path: "x.png", Err: postpdf.ErrAssetMissing},
			{Kind: postpdf.KindFieldMissing, Policy: postpdf.PolicyDegrade, Err: postpdf.ErrMissingTitle},
		},
	}, nil
}

func TestConvertBatch(t *testing.T) {
	t.Parallel()

	docs := []string{"a.md", "b.md", "c.md", "d.md", "e.md"}
	runner := &stubRunner{fail: map[string]bool{"c.md": true}}

	results := convertBatch(context.Background(), runner, docs, "", 2)

	if len(results) != len(docs) {
		t.Fatalf("results = %d, want %d", len(results), len(docs))
	}
	for i, r := range results {
		if r.InputPath != docs[i] {
			t.Errorf("results[%d].InputPath = %q, want %q (order kept)", i, r.InputPath, docs[i])
		}
		if (r.Err != nil) != (docs[i] == "c.md") {
			t.Errorf("results[%d].Err = %v", i, r.Err)
		}
	}
	if got := runner.maxActive.Load(); got > 2 {
		t.Errorf("max concurrent runs = %d, want <= 2", got)
	}

	summary := countResults(results)
	if summary.Succeeded != 4 || summary.Failed != 1 || summary.Warnings != 4 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestConvertBatch_Empty(t *testing.T) {
	t.Parallel()

	if got := convertBatch(context.Background(), &stubRunner{}, nil, "", 4); got != nil {
		t.Errorf("convertBatch(nil) = %v, want nil", got)
	}
}

func TestConvertBatch_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := convertBatch(ctx, &stubRunner{}, []string{"a.md", "b.md"}, "", 1)
	for _, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("%s: Err = %v, want context.Canceled", r.InputPath, r.Err)
		}
	}
}

func TestPrintResults(t *testing.T) {
	t.Parallel()

	results := []ConversionResult{
		{InputPath: "a.md", OutputPath: "a.pdf", Duration: time.Second},
		{InputPath: "b.md", Err: errors.New("boom")},
	}

	tests := []struct {
		name       string
		quiet      bool
		verbose    bool
		wantStdout []string
		notStdout  []string
	}{
		{name: "default", wantStdout: []string{"Created a.pdf", "1 succeeded, 1 failed"}},
		{name: "quiet", quiet: true, notStdout: []string{"Created", "succeeded"}},
		{name: "verbose", verbose: true, wantStdout: []string{"a.md -> a.pdf (1s)"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var stdout, stderr bytes.Buffer
			env := &Environment{Stdout: &stdout, Stderr: &stderr}
			printResults(results, tt.quiet, tt.verbose, env)

			if !strings.Contains(stderr.String(), "WARNING b.md: boom") {
				t.Errorf("stderr = %q", stderr.String())
			}
			for _, want := range tt.wantStdout {
				if !strings.Contains(stdout.String(), want) {
					t.Errorf("stdout = %q, want %q", stdout.String(), want)
				}
			}
			for _, not := range tt.notStdout {
				if strings.Contains(stdout.String(), not) {
					t.Errorf("stdout = %q, should not contain %q", stdout.String(), not)
				}
			}
		})
	}
}
