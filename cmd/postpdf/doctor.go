package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/lindfors/postpdf"
	"github.com/lindfors/postpdf/internal/assets"
	"github.com/lindfors/postpdf/internal/hints"
)

// doctorVersionTimeout bounds `typst --version`.
const doctorVersionTimeout = 10 * time.Second

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status    string       `json:"status"` // "ready", "warnings", "errors"
	Typst     typstInfo    `json:"typst"`
	Templates templateInfo `json:"templates"`
	Env       envInfo      `json:"environment"`
	System    systemInfo   `json:"system"`
	Warnings  []string     `json:"warnings,omitempty"`
	Errors    []string     `json:"errors,omitempty"`
}

// typstInfo holds typst detection results.
type typstInfo struct {
	Found    bool     `json:"found"`
	Path     string   `json:"path,omitempty"`
	Version  string   `json:"version,omitempty"`
	Packages []string `json:"cached_packages,omitempty"`
}

// templateInfo holds embedded template checks.
type templateInfo struct {
	Available []string `json:"available"`
	Default   string   `json:"default"`
	Loaded    bool     `json:"loaded"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	TypstBin      string `json:"postpdf_typst"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempDir      string `json:"temp_dir"`
	TempWritable bool   `json:"temp_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	jsonOutput := fs.Bool("json", false, "machine-readable output")
	binary := fs.String("typst", "", "typst binary name or path")
	fs.Usage = func() { printDoctorUsage(env.Stderr) }
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	result := runDoctor(ctx, *binary, env)

	if *jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(ctx context.Context, binary string, env *Environment) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:       runtime.GOOS,
			Arch:     runtime.GOARCH,
			TypstBin: os.Getenv("POSTPDF_TYPST"),
		},
	}

	if binary == "" {
		binary = result.Env.TypstBin
	}
	if binary == "" {
		binary = env.baseConfig().Typst.Binary
	}

	pkgs := templatePackages()
	checkTypst(ctx, result, binary, env.Runner)
	checkPackages(result, pkgs)
	checkTemplates(result)
	checkEnvironment(result, len(pkgs))
	checkSystem(result)

	// Determine final status
	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkTypst locates typst and reads its version.
func checkTypst(ctx context.Context, result *doctorResult, binary string, runner postpdf.CommandRunner) {
	renderer := postpdf.NewTypstRenderer(binary)
	if runner != nil {
		renderer.Runner = runner
	}

	path, err := renderer.Runner.LookPath(renderer.Binary)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("typst not found (%s)%s", renderer.Binary, hints.ForRendererNotFound()))
		return
	}
	result.Typst.Found = true
	result.Typst.Path = path

	ctx, cancel := context.WithTimeout(ctx, doctorVersionTimeout)
	defer cancel()
	version, err := renderer.Version(ctx)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("could not read typst version: %v", err))
		return
	}
	result.Typst.Version = version
}

// templatePackages lists the packages the embedded default template
// imports.
func templatePackages() []assets.Package {
	ts, err := assets.LoadTemplateSet(assets.DefaultTemplateSetName)
	if err != nil {
		return nil
	}
	return ts.Packages()
}

// checkPackages looks for the template's packages in typst's cache.
func checkPackages(result *doctorResult, pkgs []assets.Package) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return
	}
	checkPackageCache(result, filepath.Join(cacheDir, "typst", "packages"), pkgs)
}

// checkPackageCache records which pkgs are present under root.
func checkPackageCache(result *doctorResult, root string, pkgs []assets.Package) {
	var missing []string
	for _, pkg := range pkgs {
		dir := filepath.Join(root, pkg.Namespace, pkg.Name, pkg.Version)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			result.Typst.Packages = append(result.Typst.Packages, pkg.Name+":"+pkg.Version)
			continue
		}
		missing = append(missing, pkg.String())
	}
	for _, m := range missing {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%s not cached; the first render downloads it", m))
	}
}

// checkTemplates verifies the embedded templates load.
func checkTemplates(result *doctorResult) {
	result.Templates.Available = assets.TemplateSetNames()
	result.Templates.Default = assets.DefaultTemplateSetName
	if _, err := assets.LoadTemplateSet(assets.DefaultTemplateSetName); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("embedded template: %v", err))
		return
	}
	result.Templates.Loaded = true
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult, wantPackages int) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	// Package downloads need network on a fresh machine
	if (result.Env.Container || result.Env.CI) && len(result.Typst.Packages) < wantPackages {
		result.Warnings = append(result.Warnings,
			"Container/CI detected with an empty typst package cache; allow network access or bake the packages into the image")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	// Explicit override (highest priority)
	if os.Getenv("POSTPDF_CONTAINER") == "1" {
		return true, "POSTPDF_CONTAINER=1"
	}
	if hints.IsInContainer() {
		return true, "/.dockerenv"
	}
	// Podman / systemd-nspawn / general container indicator
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory accepts working sets.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	result.System.TempDir = tmpDir

	dir, err := os.MkdirTemp(tmpDir, "postpdf-doctor-*")
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
		return
	}
	_ = os.RemoveAll(dir)
	result.System.TempWritable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "postpdf doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Typst")
	if r.Typst.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Typst.Path)
		if r.Typst.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Typst.Version)
		}
	} else {
		fmt.Fprintln(w, "  [ERROR] Not found")
	}
	for _, pkg := range r.Typst.Packages {
		fmt.Fprintf(w, "  [OK] Package cached: %s\n", pkg)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Templates")
	if r.Templates.Loaded {
		fmt.Fprintf(w, "  [OK] Default: %s\n", r.Templates.Default)
	} else {
		fmt.Fprintf(w, "  [ERROR] Default %s does not load\n", r.Templates.Default)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to convert")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
