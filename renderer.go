package postpdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/lindfors/postpdf/internal/hints"
	"github.com/lindfors/postpdf/internal/process"
)

// DefaultTypstBinary is the renderer executable looked up on PATH.
const DefaultTypstBinary = "typst"

// RenderJob names the files of one render inside a working set.
type RenderJob struct {
	Dir    string // working set root, also the typst --root
	Main   string // entry file relative to Dir
	Output string // PDF file relative to Dir
}

// Renderer turns a prepared working set into a PDF.
type Renderer interface {
	Render(ctx context.Context, job RenderJob) error
}

// CommandRunner abstracts command execution to enable testing without real subprocesses.
type CommandRunner interface {
	LookPath(name string) (string, error)
	Run(ctx context.Context, dir, name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec. Cancelling ctx kills
// the whole process group, so typst's helpers go with it.
type ExecRunner struct{}

func (r *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	process.Configure(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return "", "", fmt.Errorf("starting command: %w", err)
	}

	err := cmd.Wait()
	return stdout.String(), stderr.String(), err
}

// TypstRenderer compiles a working set with the typst CLI.
type TypstRenderer struct {
	Binary    string
	FontPaths []string
	Runner    CommandRunner
}

// NewTypstRenderer creates a TypstRenderer with a real command runner.
func NewTypstRenderer(binary string, fontPaths ...string) *TypstRenderer {
	if binary == "" {
		binary = DefaultTypstBinary
	}
	return &TypstRenderer{Binary: binary, FontPaths: fontPaths, Runner: &ExecRunner{}}
}

// Render runs `typst compile --root <dir> [--font-path p]... <main> <output>`.
func (r *TypstRenderer) Render(ctx context.Context, job RenderJob) error {
	bin, err := r.lookPath()
	if err != nil {
		return err
	}

	args := []string{"compile", "--root", job.Dir}
	for _, fp := range r.FontPaths {
		args = append(args, "--font-path", fp)
	}
	args = append(args, filepath.Join(job.Dir, job.Main), filepath.Join(job.Dir, job.Output))

	_, stderr, err := r.Runner.Run(ctx, job.Dir, bin, args...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %w", ErrRenderFailed, ctxErr)
		}
		diag := diagnostic(stderr, err)
		return fmt.Errorf("%w: %s%s", ErrRenderFailed, diag, hints.ForRenderFailed(diag))
	}
	return nil
}

// Version reports `typst --version`.
func (r *TypstRenderer) Version(ctx context.Context) (string, error) {
	bin, err := r.lookPath()
	if err != nil {
		return "", err
	}
	stdout, stderr, err := r.Runner.Run(ctx, "", bin, "--version")
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrRenderFailed, diagnostic(stderr, err))
	}
	return strings.TrimSpace(stdout), nil
}

func (r *TypstRenderer) lookPath() (string, error) {
	binary := r.Binary
	if binary == "" {
		binary = DefaultTypstBinary
	}
	bin, err := r.runner().LookPath(binary)
	if err != nil {
		return "", fmt.Errorf("%w: %s%s", ErrRendererNotFound, binary, hints.ForRendererNotFound())
	}
	return bin, nil
}

func (r *TypstRenderer) runner() CommandRunner {
	if r.Runner == nil {
		r.Runner = &ExecRunner{}
	}
	return r.Runner
}

// diagnostic prefers typst's own message over the exit status.
func diagnostic(stderr string, err error) string {
	msg := strings.TrimSpace(stderr)
	if msg != "" {
		return msg
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.String()
	}
	return err.Error()
}

// Compile-time interface check.
var _ Renderer = (*TypstRenderer)(nil)
