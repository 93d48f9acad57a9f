// Package vega handles the second escape layer carried by Vega and
// Vega-Lite visualizations.
//
// A visualization state stores its rendering spec under params.spec as a
// single string. Unlike the stringified-JSON attributes handled by the
// field escaper, that string is not guaranteed to be strict JSON: authors
// write it by hand and the server accepts comments, single-quoted strings,
// trailing commas, and expression syntax. The [Unescaper] therefore
// attempts a tolerant HJSON parse and materializes the spec only when the
// content is a clean object or array; everything else stays a string, where
// the codec's triple-quote form already keeps it diffable. The [Escaper]
// reverses materialization on push.
//
// The state itself can be wrapped in several containment shapes. Instead of
// a wildcard search, the shapes are matched by name in a fixed order:
//
//  1. direct: the document itself is a visualization state
//  2. wrapped: the state sits under attributes.visState
//  3. panels: dashboard panel arrays whose elements embed a state under a
//     savedVis wrapper
package vega

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kibble/pkg/codec"
	"github.com/matzehuels/kibble/pkg/observability"
	"github.com/matzehuels/kibble/pkg/tree"
)

// panelArrayPaths lists where dashboards keep their panel containers. The
// first entry is the materialized form of the stringified panels attribute.
var panelArrayPaths = tree.ParsePaths([]string{
	"attributes.panelsJSON",
	"attributes.panels",
	"panels",
})

// savedVisPaths lists where a panel embeds its visualization state.
var savedVisPaths = tree.ParsePaths([]string{
	"savedVis",
	"embeddableConfig.savedVis",
	"panelConfig.savedVis",
})

// visStatePath is where a saved object wraps its visualization state.
var visStatePath = tree.ParsePath("attributes.visState")

// isVisState reports whether obj is a visualization state with a Vega
// discriminator.
func isVisState(obj *tree.Node) bool {
	if obj == nil || obj.Kind != tree.KindObject {
		return false
	}
	typ, ok := obj.Get("type")
	if !ok || typ.Kind != tree.KindString {
		return false
	}
	switch typ.StringValue() {
	case "vega", "vega-lite":
		return true
	}
	return false
}

// paramsOf returns state's params object when present.
func paramsOf(state *tree.Node) (*tree.Node, bool) {
	params, ok := state.Get("params")
	if !ok || params.Kind != tree.KindObject {
		return nil, false
	}
	return params, true
}

// collectSpecParams gathers the params object of every Vega visualization
// state reachable through the known containment shapes, in match order.
func collectSpecParams(doc *tree.Node) []*tree.Node {
	if doc == nil || doc.Kind != tree.KindObject {
		return nil
	}
	var sites []*tree.Node

	// Shape 1: the document itself is a visualization state.
	if isVisState(doc) {
		if params, ok := paramsOf(doc); ok {
			sites = append(sites, params)
		}
	}

	// Shape 2: a saved object wrapping the state under attributes.visState.
	if state, ok := tree.Lookup(doc, visStatePath); ok && isVisState(state) {
		if params, ok := paramsOf(state); ok {
			sites = append(sites, params)
		}
	}

	// Shape 3: dashboard panels embedding a state under a savedVis wrapper.
	for _, arrPath := range panelArrayPaths {
		arr, ok := tree.Lookup(doc, arrPath)
		if !ok || arr.Kind != tree.KindArray {
			continue
		}
		for _, panel := range arr.Items() {
			for _, visPath := range savedVisPaths {
				state, ok := tree.Lookup(panel, visPath)
				if !ok || !isVisState(state) {
					continue
				}
				if params, ok := paramsOf(state); ok {
					sites = append(sites, params)
				}
			}
		}
	}
	return sites
}

// =============================================================================
// Unescaper (pull direction)
// =============================================================================

// Unescaper materializes Vega spec strings that parse cleanly. Specs that
// fail the tolerant parse, parse to a scalar, or carry comments are left as
// strings; that outcome is common and expected, never an error.
type Unescaper struct {
	logger *log.Logger
}

// NewUnescaper creates the transformer. A nil logger disables diagnostics.
func NewUnescaper(logger *log.Logger) *Unescaper {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Unescaper{logger: logger}
}

// Name implements the pipeline's Transformer.
func (u *Unescaper) Name() string { return "vega-unescaper" }

// Transform implements the pipeline's Transformer.
func (u *Unescaper) Transform(ctx context.Context, doc *tree.Node) (*tree.Node, error) {
	logger := observability.LoggerFrom(ctx, u.logger)
	for _, params := range collectSpecParams(doc) {
		spec, ok := params.Get("spec")
		if !ok || spec.Kind != tree.KindString {
			continue
		}
		node, err := materializeSpec(spec.StringValue())
		if err != nil {
			logger.Debug("vega spec kept as string", "reason", err)
			continue
		}
		params.Set("spec", node)
	}
	return doc, nil
}

// =============================================================================
// Escaper (push direction)
// =============================================================================

// Escaper re-serializes materialized Vega specs to compact JSON strings.
// Specs that are already strings are left untouched.
type Escaper struct {
	logger *log.Logger
}

// NewEscaper creates the transformer. A nil logger disables diagnostics.
func NewEscaper(logger *log.Logger) *Escaper {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Escaper{logger: logger}
}

// Name implements the pipeline's Transformer.
func (e *Escaper) Name() string { return "vega-escaper" }

// Transform implements the pipeline's Transformer.
func (e *Escaper) Transform(ctx context.Context, doc *tree.Node) (*tree.Node, error) {
	logger := observability.LoggerFrom(ctx, e.logger)
	for _, params := range collectSpecParams(doc) {
		spec, ok := params.Get("spec")
		if !ok || (spec.Kind != tree.KindObject && spec.Kind != tree.KindArray) {
			continue
		}
		params.Set("spec", tree.NewString(string(codec.WriteWire(spec))))
		logger.Debug("vega spec escaped to string")
	}
	return doc, nil
}
