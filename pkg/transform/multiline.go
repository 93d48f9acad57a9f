package transform

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kibble/pkg/observability"
	"github.com/matzehuels/kibble/pkg/tree"
)

// MultilineMarker logs a diagnostic for every multiline string found at the
// configured paths. It never modifies the document; the codec renders
// multiline strings as triple-quoted blocks on its own. Array documents are
// walked element-wise so bundled exports are covered too.
type MultilineMarker struct {
	paths  []string
	logger *log.Logger
}

// NewMultilineMarker creates a marker for the given dotted field paths.
// A nil logger disables diagnostics.
func NewMultilineMarker(paths []string, logger *log.Logger) *MultilineMarker {
	if logger == nil {
		logger = discardLogger()
	}
	return &MultilineMarker{paths: paths, logger: logger}
}

// Name implements Transformer.
func (m *MultilineMarker) Name() string { return "multiline-marker" }

// Transform implements Transformer.
func (m *MultilineMarker) Transform(ctx context.Context, doc *tree.Node) (*tree.Node, error) {
	m.mark(observability.LoggerFrom(ctx, m.logger), doc)
	return doc, nil
}

func (m *MultilineMarker) mark(logger *log.Logger, doc *tree.Node) {
	if doc == nil {
		return
	}
	for _, path := range m.paths {
		parent, key, ok := tree.Resolve(doc, tree.ParsePath(path))
		if !ok {
			continue
		}
		field, _ := parent.Get(key)
		if field.Kind != tree.KindString {
			continue
		}
		if s := field.StringValue(); strings.Contains(s, "\n") {
			logger.Debug("multiline field found", "path", path, "chars", len(s))
		}
	}
	if doc.Kind == tree.KindArray {
		for _, item := range doc.Items() {
			m.mark(logger, item)
		}
	}
}
