// Package pipeline wires extractors, transform chains, and loaders into
// the two document flows kibble ships.
//
// # Architecture
//
// A flow has three stages:
//
//  1. Extract: read documents from a store (NDJSON export or directory tree)
//  2. Transform: run the kind's transform chain over every document
//  3. Load: persist the transformed documents to the opposite store
//
// Unbundle is the pull-side flow (wire to disk): bookkeeping fields are
// dropped, escaped JSON attributes and vega specs are materialized, and
// embedded YAML is reformatted before documents land as per-object files.
// Bundle is the push-side flow (disk to wire): specs and attributes are
// re-escaped, the managed flag is applied, and documents are packed into
// an NDJSON export.
//
// # Usage
//
// Create a Runner and run a flow:
//
//	runner := pipeline.NewRunner(nil, logger)
//	opts := pipeline.Options{
//	    Input:  "export.ndjson",
//	    Output: "objects",
//	    Kind:   "saved_objects",
//	}
//	result, err := runner.Unbundle(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Both flows accept the same Options; Input and Output swap shapes
// (file vs directory) with the direction.
package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kibble/pkg/errors"
	"github.com/matzehuels/kibble/pkg/kinds"
	"github.com/matzehuels/kibble/pkg/tree"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultKind is the kind assumed when Options.Kind is empty. Saved
	// objects are the dominant export family, so a bare run mirrors the
	// server's default export.
	DefaultKind = "saved_objects"

	// DefaultConcurrency is the number of documents transformed in
	// parallel. Transforms are CPU-bound string work, so a small pool
	// keeps cores busy without much scheduling overhead.
	DefaultConcurrency = 8
)

// Direction labels reported to the pipeline hooks.
const (
	DirectionUnbundle = "unbundle"
	DirectionBundle   = "bundle"
)

// =============================================================================
// Extractor / Loader Contracts
// =============================================================================

// Extractor produces the documents a run operates on.
type Extractor interface {
	Extract(ctx context.Context) ([]*tree.Node, error)
}

// Loader persists transformed documents and reports how many were
// written.
type Loader interface {
	Load(ctx context.Context, docs []*tree.Node) (int, error)
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// The struct supports JSON serialization so callers can persist run
// configurations.
type Options struct {
	// Input is the source: an NDJSON file for Unbundle, a directory for
	// Bundle.
	Input string `json:"input"`

	// Output is the destination: a directory for Unbundle, an NDJSON
	// file for Bundle.
	Output string `json:"output"`

	// Kind names the registered kind whose path lists drive the
	// transform chain.
	Kind string `json:"kind,omitempty"`

	// Clear removes stale *.json files from the output directory before
	// an Unbundle writes, so deletions upstream show up as deletions on
	// disk.
	Clear bool `json:"clear,omitempty"`

	// Unmanaged bundles objects without the managed flag so they stay
	// editable in the UI (default: false = flag objects as managed).
	Unmanaged bool `json:"unmanaged,omitempty"`

	// Append adds to the output NDJSON instead of replacing it.
	Append bool `json:"append,omitempty"`

	// Concurrency is the number of documents transformed in parallel.
	Concurrency int `json:"concurrency,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger     `json:"-"`
	Registry *kinds.Registry `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same
// effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Input == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "input is required")
	}
	if o.Output == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "output is required")
	}
	if o.Kind == "" {
		o.Kind = DefaultKind
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.Registry == nil {
		o.Registry = kinds.Default()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// =============================================================================
// Result - Pipeline Outputs
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies the run in logs and hooks.
	RunID string

	// Count is the number of documents loaded.
	Count int

	// Skipped is the number of documents dropped because a transform
	// failed.
	Skipped int

	// Stats contains timing information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ExtractTime   time.Duration
	TransformTime time.Duration
	LoadTime      time.Duration
}
