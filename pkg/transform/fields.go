package transform

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kibble/pkg/codec"
	"github.com/matzehuels/kibble/pkg/observability"
	"github.com/matzehuels/kibble/pkg/tree"
)

// =============================================================================
// Field Unescaper (pull direction)
// =============================================================================

// FieldUnescaper materializes stringified JSON attributes in place. For each
// configured path that resolves to a string whose trimmed content starts
// with '{' or '[', the string is parsed as strict JSON and replaced by the
// parsed tree. Strings that fail to parse are left untouched.
//
// Running the unescaper twice is a no-op: materialized fields are no longer
// strings and are skipped.
type FieldUnescaper struct {
	paths  []string
	logger *log.Logger
}

// NewFieldUnescaper creates an unescaper for the given dotted field paths.
// A nil logger disables diagnostics.
func NewFieldUnescaper(paths []string, logger *log.Logger) *FieldUnescaper {
	if logger == nil {
		logger = discardLogger()
	}
	return &FieldUnescaper{paths: paths, logger: logger}
}

// Name implements Transformer.
func (u *FieldUnescaper) Name() string { return "field-unescaper" }

// Transform implements Transformer.
func (u *FieldUnescaper) Transform(ctx context.Context, doc *tree.Node) (*tree.Node, error) {
	logger := observability.LoggerFrom(ctx, u.logger)
	for _, path := range u.paths {
		parent, key, ok := tree.Resolve(doc, tree.ParsePath(path))
		if !ok {
			continue
		}
		field, _ := parent.Get(key)
		if field.Kind != tree.KindString {
			continue
		}
		raw := field.StringValue()
		trimmed := strings.TrimSpace(raw)
		if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
			continue
		}
		parsed, err := codec.ParseStrict([]byte(raw))
		if err != nil {
			logger.Debug("field kept in escaped form", "path", path, "err", err)
			observability.Pipeline().OnFieldFallback(ctx, path, err)
			continue
		}
		parent.Set(key, parsed)
	}
	return doc, nil
}

// =============================================================================
// Field Escaper (push direction)
// =============================================================================

// FieldEscaper is the inverse of FieldUnescaper. For each configured path
// that resolves to an object or array, the value is replaced by its compact
// JSON serialization as a string. Fields that are already strings are left
// untouched, so escaping twice is a no-op.
type FieldEscaper struct {
	paths []string
}

// NewFieldEscaper creates an escaper for the given dotted field paths.
func NewFieldEscaper(paths []string) *FieldEscaper {
	return &FieldEscaper{paths: paths}
}

// Name implements Transformer.
func (e *FieldEscaper) Name() string { return "field-escaper" }

// Transform implements Transformer.
func (e *FieldEscaper) Transform(ctx context.Context, doc *tree.Node) (*tree.Node, error) {
	for _, path := range e.paths {
		parent, key, ok := tree.Resolve(doc, tree.ParsePath(path))
		if !ok {
			continue
		}
		field, _ := parent.Get(key)
		if field.Kind != tree.KindObject && field.Kind != tree.KindArray {
			continue
		}
		parent.Set(key, tree.NewString(string(codec.WriteWire(field))))
	}
	return doc, nil
}
