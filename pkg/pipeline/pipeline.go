// Package pipeline runs a complete conda-pip-minimal export.
//
// It wires the pieces together in a fixed order:
//
//  1. Compute: inventory, then conda and pip leaves concurrently, then combine
//  2. Export: sort, relax versions, build the document
//  3. Encode: serialize as YAML or JSON
//
// The CLI is a thin layer over [Runner.Execute]; tests drive the same entry
// point with a scripted [tool.Runner].
//
// # Usage
//
//	runner := pipeline.NewRunner(tool.NewExecRunner(), tool.DefaultSet(), cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Env:     env.Named("datasci"),
//	    Pip:     true,
//	    Include: pipeline.DefaultInclude,
//	    Relax:   "minor",
//	})
//	if err != nil {
//	    return err
//	}
//	os.Stdout.Write(result.Output)
package pipeline

import (
	"time"

	"github.com/matzehuels/conda-pip-minimal/pkg/env"
	"github.com/matzehuels/conda-pip-minimal/pkg/errors"
	"github.com/matzehuels/conda-pip-minimal/pkg/manifest"
	"github.com/matzehuels/conda-pip-minimal/pkg/minimal"
	"github.com/matzehuels/conda-pip-minimal/pkg/relax"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and config
// =============================================================================

// DefaultRelax pins exact versions.
const DefaultRelax = "full"

// DefaultFormat is the default serialization.
const DefaultFormat = string(manifest.FormatYAML)

// DefaultInclude lists packages always exported when installed. An
// environment file without python or pip recreates neither.
var DefaultInclude = []string{"python", "pip"}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one export.
type Options struct {
	Env           env.Spec `json:"env"`                      // Zero value means the active environment
	Pip           bool     `json:"pip"`                      // Include pip leaves
	Include       []string `json:"include,omitempty"`        // Always exported when installed
	Exclude       []string `json:"exclude,omitempty"`        // Never exported
	Relax         string   `json:"relax,omitempty"`          // none, major, minor or full
	IncludeOrigin bool     `json:"include_origin,omitempty"` // Prefix conda entries with their channel
	ExportName    string   `json:"export_name,omitempty"`    // Overrides the manifest name
	Format        string   `json:"format,omitempty"`         // yaml or json

	level     relax.Level
	format    manifest.Format
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in logs.
	RunID string

	// Set is the computed minimal set.
	Set *minimal.MinimalSet

	// Document is the exported manifest.
	Document *manifest.Document

	// Output is the encoded manifest.
	Output []byte

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	CondaCount  int
	PipCount    int
	ComputeTime time.Duration
	ExportTime  time.Duration
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.Env.Name == "" && o.Env.IsPrefix {
		return errors.New(errors.ErrCodeInvalidInput, "environment prefix cannot be empty")
	}
	if err := errors.ValidatePackageNames(o.Include); err != nil {
		return err
	}
	if err := errors.ValidatePackageNames(o.Exclude); err != nil {
		return err
	}

	if o.Relax == "" {
		o.Relax = DefaultRelax
	}
	level, err := relax.ParseLevel(o.Relax)
	if err != nil {
		return err
	}
	o.level = level

	if o.Format == "" {
		o.Format = DefaultFormat
	}
	format, err := manifest.ParseFormat(o.Format)
	if err != nil {
		return err
	}
	o.format = format

	o.validated = true
	return nil
}

// Level returns the parsed relax level. Valid after ValidateAndSetDefaults.
func (o *Options) Level() relax.Level { return o.level }

// request converts the options into a minimal-set request.
func (o *Options) request() minimal.Request {
	return minimal.Request{Env: o.Env, Pip: o.Pip, Include: o.Include, Exclude: o.Exclude}
}

// exportOptions converts the options into manifest options.
func (o *Options) exportOptions() manifest.Options {
	return manifest.Options{Relax: o.level, IncludeOrigin: o.IncludeOrigin, Name: o.ExportName}
}
