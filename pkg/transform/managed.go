package transform

import (
	"context"

	"github.com/matzehuels/kibble/pkg/tree"
)

// ManagedFlag stamps pushed documents as owned by version control. With
// managed true it sets a top-level `managed: true` on each object; with
// managed false it removes the key instead. Non-object documents pass
// through unchanged.
type ManagedFlag struct {
	managed bool
}

// NewManagedFlag creates the transformer. Push pipelines construct it with
// true so the server treats incoming objects as externally managed.
func NewManagedFlag(managed bool) *ManagedFlag {
	return &ManagedFlag{managed: managed}
}

// Name implements Transformer.
func (m *ManagedFlag) Name() string { return "managed-flag" }

// Transform implements Transformer.
func (m *ManagedFlag) Transform(ctx context.Context, doc *tree.Node) (*tree.Node, error) {
	if doc == nil || doc.Kind != tree.KindObject {
		return doc, nil
	}
	if m.managed {
		doc.Set("managed", tree.NewBool(true))
	} else {
		doc.Delete("managed")
	}
	return doc, nil
}
