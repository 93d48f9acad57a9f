// Package transform implements the document rewrites that move saved
// objects between their compact wire form and their readable on-disk form.
//
// Each rewrite is a [Transformer]: a named, context-aware function from one
// document tree to another. Transformers mutate the tree they are handed and
// return it; pipelines compose them with [Chain]. All transformers in this
// package are total over well-formed documents. Per-field problems (a
// stringified attribute that no longer parses, an embedded YAML block with a
// syntax error) degrade to per-field no-ops with a diagnostic rather than
// failing the document.
package transform

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kibble/pkg/errors"
	"github.com/matzehuels/kibble/pkg/tree"
)

// =============================================================================
// Transformer Interface
// =============================================================================

// Transformer rewrites a single document tree.
type Transformer interface {
	// Name identifies the transformer in logs and error messages.
	Name() string

	// Transform applies the rewrite to doc and returns the result. The
	// input may be mutated in place. A non-nil error discards the document.
	Transform(ctx context.Context, doc *tree.Node) (*tree.Node, error)
}

// Chain applies transformers in order, feeding each one's output to the next.
type Chain []Transformer

// Name implements Transformer.
func (c Chain) Name() string { return "chain" }

// Transform implements Transformer. It stops at the first failing step and
// wraps its error with the step name.
func (c Chain) Transform(ctx context.Context, doc *tree.Node) (*tree.Node, error) {
	for _, t := range c {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := t.Transform(ctx, doc)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "transform %s", t.Name())
		}
		doc = next
	}
	return doc, nil
}

// =============================================================================
// Shared Helpers
// =============================================================================

// discardLogger returns a logger that drops everything. Transformer
// constructors fall back to it when handed a nil logger.
func discardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}
