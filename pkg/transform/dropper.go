package transform

import (
	"context"

	"github.com/matzehuels/kibble/pkg/tree"
)

// DefaultDropFields lists the server-side bookkeeping fields that churn on
// every export and carry no meaning under version control.
var DefaultDropFields = []string{
	"created_at",
	"created_by",
	"updated_at",
	"updated_by",
	"version",
	"count",
	"managed",
}

// FieldDropper removes top-level fields from pulled documents. Missing
// fields are no-ops; non-object documents pass through unchanged.
type FieldDropper struct {
	fields []string
}

// NewFieldDropper creates a dropper for the given top-level field names.
func NewFieldDropper(fields []string) *FieldDropper {
	return &FieldDropper{fields: fields}
}

// Name implements Transformer.
func (d *FieldDropper) Name() string { return "field-dropper" }

// Transform implements Transformer.
func (d *FieldDropper) Transform(ctx context.Context, doc *tree.Node) (*tree.Node, error) {
	if doc == nil || doc.Kind != tree.KindObject {
		return doc, nil
	}
	for _, f := range d.fields {
		doc.Delete(f)
	}
	return doc, nil
}
