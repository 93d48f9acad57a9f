package pipeline

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/kibble/pkg/kinds"
	"github.com/matzehuels/kibble/pkg/transform"
	"github.com/matzehuels/kibble/pkg/transform/vega"
)

// UnbundleChain returns the pull-side transform sequence for a kind.
// Bookkeeping fields are dropped first, then escaped attributes are
// materialized so the vega layer can see the structures they contain,
// then embedded YAML is rewritten to block form. The multiline marker
// runs last, over the final disk-bound strings.
func UnbundleChain(kind *kinds.Kind, logger *log.Logger) transform.Chain {
	drop := kind.DropFields
	if drop == nil {
		drop = transform.DefaultDropFields
	}
	chain := transform.Chain{transform.NewFieldDropper(drop)}
	if len(kind.EscapePaths) > 0 {
		chain = append(chain,
			transform.NewFieldUnescaper(kind.EscapePaths, logger),
			vega.NewUnescaper(logger),
		)
	}
	if len(kind.YAMLPaths) > 0 {
		chain = append(chain, transform.NewYAMLReformatter(kind.YAMLPaths, logger))
	}
	if len(kind.MultilinePaths) > 0 {
		chain = append(chain, transform.NewMultilineMarker(kind.MultilinePaths, logger))
	}
	return chain
}

// BundleChain returns the push-side transform sequence for a kind: vega
// specs are re-escaped before the attributes that hold them, then the
// managed flag is applied.
func BundleChain(kind *kinds.Kind, managed bool, logger *log.Logger) transform.Chain {
	var chain transform.Chain
	if len(kind.EscapePaths) > 0 {
		chain = append(chain,
			vega.NewEscaper(logger),
			transform.NewFieldEscaper(kind.EscapePaths),
		)
	}
	return append(chain, transform.NewManagedFlag(managed))
}
