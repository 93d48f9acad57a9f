package transform

import (
	"bytes"
	"context"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/kibble/pkg/observability"
	"github.com/matzehuels/kibble/pkg/tree"
)

// YAMLReformatter re-serializes embedded YAML strings into a canonical
// block form. Compact flow-style YAML ("{a: 1, b: 2}") gains literal
// newlines, which in turn activates the codec's triple-quote rendering on
// disk. Key order is preserved.
//
// Strings that fail to parse as YAML are kept as-is with a warning. Empty
// and whitespace-only strings, non-string values, and missing fields are
// skipped silently.
type YAMLReformatter struct {
	paths  []string
	logger *log.Logger
}

// NewYAMLReformatter creates a reformatter for the given dotted field
// paths. A nil logger disables diagnostics.
func NewYAMLReformatter(paths []string, logger *log.Logger) *YAMLReformatter {
	if logger == nil {
		logger = discardLogger()
	}
	return &YAMLReformatter{paths: paths, logger: logger}
}

// Name implements Transformer.
func (y *YAMLReformatter) Name() string { return "yaml-reformatter" }

// Transform implements Transformer.
func (y *YAMLReformatter) Transform(ctx context.Context, doc *tree.Node) (*tree.Node, error) {
	logger := observability.LoggerFrom(ctx, y.logger)
	for _, path := range y.paths {
		parent, key, ok := tree.Resolve(doc, tree.ParsePath(path))
		if !ok {
			continue
		}
		field, _ := parent.Get(key)
		if field.Kind != tree.KindString {
			continue
		}
		raw := field.StringValue()
		if strings.TrimSpace(raw) == "" {
			continue
		}
		formatted, err := reformatYAML(raw)
		if err != nil {
			logger.Warn("keeping unformatted yaml field", "path", path, "err", err)
			continue
		}
		logger.Debug("reformatted yaml field", "path", path)
		parent.Set(key, tree.NewString(formatted))
	}
	return doc, nil
}

// reformatYAML parses src and re-encodes it with two-space indentation.
// Decoding into yaml.Node keeps the key order; clearing the node styles
// forces block form on re-encode regardless of how the input was written.
func reformatYAML(src string) (string, error) {
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(src), &node); err != nil {
		return "", err
	}
	clearStyle(&node)
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func clearStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		clearStyle(c)
	}
}
