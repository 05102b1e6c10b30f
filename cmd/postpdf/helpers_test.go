package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lindfors/postpdf/internal/config"
	"github.com/lindfors/postpdf/internal/logging"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - fake typst
// ---------------------------------------------------------------------------

const fakePDF = "%PDF-1.7 fake"

// fakeTypst stands in for the typst binary. Compiles write a stand-in PDF
// to the requested output unless body.md contains failOn.
type fakeTypst struct {
	mu       sync.Mutex
	missing  bool
	failOn   string
	compiles int
	metas    []string
}

func (f *fakeTypst) LookPath(name string) (string, error) {
	if f.missing {
		return "", exec.ErrNotFound
	}
	return "/usr/local/bin/" + name, nil
}

func (f *fakeTypst) Run(_ context.Context, dir, _ string, args ...string) (string, string, error) {
	if len(args) == 1 && args[0] == "--version" {
		return "typst 0.13.1 (8ace67d9)\n", "", nil
	}

	meta, _ := os.ReadFile(filepath.Join(dir, "meta.toml"))
	body, _ := os.ReadFile(filepath.Join(dir, "body.md"))

	f.mu.Lock()
	f.compiles++
	f.metas = append(f.metas, string(meta))
	f.mu.Unlock()

	if f.failOn != "" && strings.Contains(string(body), f.failOn) {
		return "", "error: unexpected argument\n  ┌─ body.md:1:1", errors.New("exit status 1")
	}
	return "", "", os.WriteFile(args[len(args)-1], []byte(fakePDF), 0o600)
}

func (f *fakeTypst) lastMeta() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.metas) == 0 {
		return ""
	}
	return f.metas[len(f.metas)-1]
}

// testEnv returns an environment writing into buffers and running typst
// through runner.
func testEnv(runner *fakeTypst) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Now:    time.Now,
		Stdout: &stdout,
		Stderr: &stderr,
		Config: config.DefaultConfig(),
		Logger: logging.Discard(),
	}
	if runner != nil {
		env.Runner = runner
	}
	return env, &stdout, &stderr
}

// writePost creates dir/name with a small post.
func writePost(t *testing.T, dir, name, title, body string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	content := "+++\ntitle = \"" + title + "\"\ndate = 2024-01-15\n+++\n" + body
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}
