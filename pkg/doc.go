// Package pkg provides the core libraries for kibble saved-object serialization.
//
// # Overview
//
// kibble mirrors a remote saved-object store (dashboards, visualizations,
// agents, tools, workflows, spaces) onto a local file tree that plays well
// with version control, and turns local edits back into the wire format the
// store expects. The pkg directory is organized into six main areas:
//
//  1. [tree] - Document trees (insertion-ordered objects, literal-exact numbers)
//  2. [codec] - Triple-quote codec (tolerant parse, disk and wire serialization)
//  3. [transform] - Reversible document rewrites (escape layers, YAML reformat, field hygiene)
//  4. [kinds] - Per-kind field-path configuration with TOML overrides
//  5. [storage] - NDJSON and directory stores
//  6. [pipeline] - Orchestration (extract → transform → load)
//
// # Architecture
//
// The pull direction, from a remote export to the working tree:
//
//	NDJSON export
//	     ↓
//	[storage] package (one strict-JSON document per line)
//	     ↓
//	[transform] package (drop fields → unescape → reformat)
//	     ↓
//	[codec] package (triple-quote disk form)
//	     ↓
//	directory of per-object *.json files
//
// The push direction runs the mirrored stages: directory reader → escape
// layers → managed flag → compact NDJSON. Every stage operates on the
// shared [tree.Node] document representation.
//
// # Quick Start
//
// Unbundle an export into per-object files and bundle it back:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/kibble/pkg/pipeline"
//	)
//
//	// 1. Pull: NDJSON export -> directory of readable files
//	runner := pipeline.NewRunner(nil, nil)
//	res, _ := runner.Unbundle(context.Background(), pipeline.Options{
//	    Input:  "export.ndjson",
//	    Output: "objects/",
//	})
//
//	// 2. Edit the files, then push: directory -> NDJSON
//	res, _ = runner.Bundle(context.Background(), pipeline.Options{
//	    Input:  "objects/",
//	    Output: "export.ndjson",
//	})
//
// # Main Packages
//
// ## Document Representation
//
// [tree] - The recursive document value: null, bool, number, string, array,
// object. Objects keep insertion order and numbers keep their source
// literal, so a parsed document serializes back byte-identically. Dotted
// field paths ([tree.ParsePath], [tree.Lookup], [tree.Resolve]) address
// nested fields; paths that do not resolve are no-ops, never errors.
//
// ## Serialization
//
// [codec] - Two forms of the same document. The wire form is compact strict
// JSON ([codec.WriteWire], [codec.ParseStrict]). The disk form
// ([codec.Write], [codec.Parse]) pretty-prints with two-space indentation
// and emits multiline strings as raw """ ... """ blocks, so embedded
// queries, scripts, and YAML diff line by line. The disk parser also
// accepts comments, trailing commas, unquoted keys, and single-quoted
// strings, so hand edits do not have to be strict.
//
// ## Transforms
//
// [transform] - The reversible rewrites between wire and disk shape:
//
//   - [transform.FieldUnescaper] / [transform.FieldEscaper]: stringified
//     JSON attributes (panelsJSON and friends) become real objects on pull
//     and compact strings again on push
//   - [transform.YAMLReformatter]: embedded YAML gains literal newlines so
//     the codec's triple-quote form activates
//   - [transform.FieldDropper], [transform.ManagedFlag],
//     [transform.MultilineMarker]: volatile-field hygiene and diagnostics
//   - [transform.Chain]: sequential composition with named steps
//
// [transform/vega] - The second escape layer inside Vega and Vega-Lite
// visualizations: params.spec strings are materialized when they parse
// cleanly (tolerant HJSON grammar) and re-serialized on push. Specs
// carrying comments stay strings so no comment text is ever dropped.
//
// ## Configuration
//
// [kinds] - Which paths get which treatment, per object kind. Built-in
// kinds cover saved objects, workflows, agents, tools, and spaces; a TOML
// file ([kinds.Registry.LoadOverrides]) adjusts the lists or defines new
// kinds without code changes.
//
// [errors] - Structured error codes ([errors.New], [errors.Wrap],
// [errors.Is]), positional [errors.SyntaxError] for parse failures, and
// validation helpers for paths, kind names, and filenames.
//
// ## Storage
//
// [storage] - The two store shapes: [storage.NDJSONReader] and
// [storage.NDJSONWriter] for the wire side (one document per line),
// [storage.DirectoryReader] and [storage.DirectoryWriter] for the disk
// side (one file per object, atomic writes, per-kind filename fields with
// a content-hash fallback).
//
// ## Orchestration
//
// [pipeline] - Ties the stages together. [pipeline.Runner.Unbundle] and
// [pipeline.Runner.Bundle] run extract → transform → load with a bounded
// worker pool, skip documents that fail structurally, and report counts
// and stage timings in [pipeline.Result].
//
// [observability] - Hook interfaces for document and storage events with
// no-op defaults, used by the pipeline runner and the stores.
//
// # Common Workflows
//
// Parse a hand-edited disk file:
//
//	doc, err := codec.Parse(data)
//	if err != nil {
//	    var syn *errors.SyntaxError
//	    if stderrors.As(err, &syn) {
//	        fmt.Printf("%d:%d: %s\n", syn.Line, syn.Col, syn.Message)
//	    }
//	}
//
// Unescape a single document without the pipeline:
//
//	u := transform.NewFieldUnescaper(kinds.SavedObjects.EscapePaths, nil)
//	doc, _ = u.Transform(ctx, doc)
//
// Add a custom kind:
//
//	reg := kinds.Default()
//	_ = reg.ParseOverrides([]byte(`
//	[kinds.alerts]
//	escape_paths = ["attributes.ruleJSON"]
//	filename_fields = ["id"]
//	`))
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/codec/...     # Specific package
//	go test -run Example        # Examples only
//
// [tree]: https://pkg.go.dev/github.com/matzehuels/kibble/pkg/tree
// [tree.Node]: https://pkg.go.dev/github.com/matzehuels/kibble/pkg/tree#Node
// [tree.ParsePath]: https://pkg.go.dev/github.com/matzehuels/kibble/pkg/tree#ParsePath
// [tree.Lookup]: https://pkg.go.dev/github.com/matzehuels/kibble/pkg/tree#Lookup
// [tree.Resolve]: https://pkg.go.dev/github.com/matzehuels/kibble/pkg/tree#Resolve
// [codec]: https://pkg.go.dev/github.com/matzehuels/kibble/pkg/codec
// [codec.Write]: https://pkg.go.dev/github.com/matzehuels/kibble/pkg/codec#Write
// [codec.WriteWire]: https://pkg.go.dev/github.com/matzehuels/kibble/pkg/codec#WriteWire
// [codec.Parse]: https://pkg.go.dev/github.com/matzehuels/kibble/pkg/codec#Parse
// [codec.ParseStrict]: https://pkg.go.dev/github.com/matzehuels/kibble/pkg/codec#ParseStrict
// [transform]: https://pkg.go.dev/github.com/matzehuels/kibble/pkg/transform
// [transform.FieldUnescaper]: https://pkg.go.dev/github.com/matzehuels/kibble/pkg/transform#FieldUnescaper
// [transform.FieldEscaper]: https://pkg.go.dev/github.com/matzehuels/kibble/pkg/transform#FieldEscaper
// [transform.YAMLReformatter]: https://pkg.go.dev/github.com/matzehuels/kibble/pkg/transform#YAMLReformatter
// [transform.FieldDropper]: https://pkg.go.dev/github.com/matzehuels/kibble/pkg/transform#FieldDropper
// [transform.ManagedFlag]: https://pkg.go.dev/github.com/matzehuels/kibble/pkg/transform#ManagedFlag
// [transform.MultilineMarker]: https://pkg.go.dev/github.com/matzehuels/kibble/pkg/transform#MultilineMarker
// [transform.Chain]: https://pkg.go.dev/github.com/matzehuels/kibble/pkg/transform#Chain
// [transform/vega]: https://pkg.go.dev/github.com/matzehuels/kibble/pkg/transform/vega
// [kinds]: https://pkg.go.dev/github.com/matzehuels/kibble/pkg/kinds
// [kinds.Registry.LoadOverrides]: https://pkg.go.dev/github.com/matzehuels/kibble/pkg/kinds#Registry.LoadOverrides
// [errors]: https://pkg.go.dev/github.com/matzehuels/kibble/pkg/errors
// [errors.New]: https://pkg.go.dev/github.com/matzehuels/kibble/pkg/errors#New
// [errors.Wrap]: https://pkg.go.dev/github.com/matzehuels/kibble/pkg/errors#Wrap
// [errors.Is]: https://pkg.go.dev/github.com/matzehuels/kibble/pkg/errors#Is
// [errors.SyntaxError]: https://pkg.go.dev/github.com/matzehuels/kibble/pkg/errors#SyntaxError
// [storage]: https://pkg.go.dev/github.com/matzehuels/kibble/pkg/storage
// [storage.NDJSONReader]: https://pkg.go.dev/github.com/matzehuels/kibble/pkg/storage#NDJSONReader
// [storage.NDJSONWriter]: https://pkg.go.dev/github.com/matzehuels/kibble/pkg/storage#NDJSONWriter
// [storage.DirectoryReader]: https://pkg.go.dev/github.com/matzehuels/kibble/pkg/storage#DirectoryReader
// [storage.DirectoryWriter]: https://pkg.go.dev/github.com/matzehuels/kibble/pkg/storage#DirectoryWriter
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/kibble/pkg/pipeline
// [pipeline.Runner.Unbundle]: https://pkg.go.dev/github.com/matzehuels/kibble/pkg/pipeline#Runner.Unbundle
// [pipeline.Runner.Bundle]: https://pkg.go.dev/github.com/matzehuels/kibble/pkg/pipeline#Runner.Bundle
// [pipeline.Result]: https://pkg.go.dev/github.com/matzehuels/kibble/pkg/pipeline#Result
// [observability]: https://pkg.go.dev/github.com/matzehuels/kibble/pkg/observability
package pkg
