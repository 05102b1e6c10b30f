package postpdf

import (
	"fmt"
	"log/slog"
)

// FailureKind names a class of problem a run can hit.
type FailureKind int

const (
	KindSourceMissing FailureKind = iota
	KindMetadataMissing
	KindMetadataMalformed
	KindFieldMissing
	KindDateUnparseable
	KindAssetMissing
	KindAssetConversion
	KindRender
)

var kindNames = map[FailureKind]string{
	KindSourceMissing:     "source-missing",
	KindMetadataMissing:   "metadata-missing",
	KindMetadataMalformed: "metadata-malformed",
	KindFieldMissing:      "field-missing",
	KindDateUnparseable:   "date-unparseable",
	KindAssetMissing:      "asset-missing",
	KindAssetConversion:   "asset-conversion",
	KindRender:            "render",
}

func (k FailureKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Policy is what a run does when a failure kind occurs.
type Policy int

const (
	// PolicyFatal fails the document.
	PolicyFatal Policy = iota
	// PolicyDegrade substitutes a default and logs at debug level.
	PolicyDegrade
	// PolicyWarn continues without the affected part and logs a warning.
	PolicyWarn
)

func (p Policy) String() string {
	switch p {
	case PolicyFatal:
		return "fatal"
	case PolicyDegrade:
		return "degrade"
	case PolicyWarn:
		return "warn"
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

// policies is the failure policy table.
var policies = map[FailureKind]Policy{
	KindSourceMissing:     PolicyFatal,
	KindMetadataMissing:   PolicyDegrade,
	KindMetadataMalformed: PolicyWarn,
	KindFieldMissing:      PolicyDegrade,
	KindDateUnparseable:   PolicyDegrade,
	KindAssetMissing:      PolicyWarn,
	KindAssetConversion:   PolicyWarn,
	KindRender:            PolicyFatal,
}

// PolicyFor returns the policy for kind. Unknown kinds are fatal.
func PolicyFor(kind FailureKind) Policy {
	if p, ok := policies[kind]; ok {
		return p
	}
	return PolicyFatal
}

// Warning is a non-fatal problem met during a run.
type Warning struct {
	Kind   FailureKind
	Policy Policy
	Path   string
	Err    error
}

func (w Warning) String() string {
	if w.Path == "" {
		return fmt.Sprintf("%s: %v", w.Kind, w.Err)
	}
	return fmt.Sprintf("%s: %s: %v", w.Kind, w.Path, w.Err)
}

// recorder applies the policy table for one run.
type recorder struct {
	logger   *slog.Logger
	warnings []Warning
}

// note records a failure. It returns err when the kind is fatal, nil
// otherwise.
func (r *recorder) note(kind FailureKind, path string, err error) error {
	policy := PolicyFor(kind)
	switch policy {
	case PolicyFatal:
		return err
	case PolicyDegrade:
		r.logger.Debug("using default", "kind", kind.String(), "path", path, "err", err)
	case PolicyWarn:
		r.logger.Warn("continuing without", "kind", kind.String(), "path", path, "err", err)
	}
	r.warnings = append(r.warnings, Warning{Kind: kind, Policy: policy, Path: path, Err: err})
	return nil
}
