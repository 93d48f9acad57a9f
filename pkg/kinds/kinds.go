// Package kinds describes how each saved-object kind moves between its
// wire form and its on-disk form.
//
// A Kind is pure data: ordered path lists consumed by the transform and
// storage layers. The built-in kinds cover the object families the server
// exposes today; deployments with custom object types can register their
// own kinds or override the built-in path lists from a TOML file.
//
// Usage:
//
//	reg := kinds.Default()
//	if err := reg.LoadOverrides("kinds.toml"); err != nil { ... }
//
//	kind, ok := reg.Get("saved_objects")
package kinds

import (
	"sort"
	"sync"
)

// Kind describes the transform configuration for one object kind.
//
// All path lists use dotted field paths (e.g. "attributes.panelsJSON") and
// are processed in order. Lists may be nil when the kind has no fields of
// that category.
type Kind struct {
	// Name is the kind identifier (e.g. "saved_objects", "workflows").
	Name string

	// EscapePaths lists the stringified-JSON attributes materialized on
	// pull and re-serialized on push.
	EscapePaths []string

	// YAMLPaths lists fields holding embedded YAML, reformatted to block
	// form on pull.
	YAMLPaths []string

	// MultilinePaths lists fields whose strings commonly carry newlines.
	// They are logged during pull; the codec renders them triple-quoted.
	MultilinePaths []string

	// DropFields lists top-level bookkeeping fields removed on pull.
	// Nil means the pipeline's default set.
	DropFields []string

	// FilenameFields lists the document fields tried in order when the
	// directory store derives a filename.
	FilenameFields []string
}

// Built-in kinds.
var (
	// SavedObjects covers dashboards, visualizations, index patterns, and
	// the other objects behind the saved-objects export API. These carry
	// the classic stringified-JSON attributes.
	SavedObjects = &Kind{
		Name: "saved_objects",
		EscapePaths: []string{
			"attributes.panelsJSON",
			"attributes.fieldFormatMap",
			"attributes.controlGroupInput.ignoreParentSettingsJSON",
			"attributes.controlGroupInput.panelsJSON",
			"attributes.kibanaSavedObjectMeta.searchSourceJSON",
			"attributes.optionsJSON",
			"attributes.visState",
			"attributes.fieldAttrs",
		},
		FilenameFields: []string{"id", "originId"},
	}

	// Workflows carry their definition as a single YAML string.
	Workflows = &Kind{
		Name:           "workflows",
		YAMLPaths:      []string{"yaml"},
		MultilinePaths: []string{"yaml"},
		FilenameFields: []string{"name", "id"},
	}

	// Agents keep their system prompt under configuration.instructions.
	Agents = &Kind{
		Name:           "agents",
		MultilinePaths: []string{"configuration.instructions"},
		FilenameFields: []string{"name", "id"},
	}

	// Tools embed an ES|QL query under configuration.query.
	Tools = &Kind{
		Name:           "tools",
		MultilinePaths: []string{"configuration.query"},
		FilenameFields: []string{"name", "id"},
	}

	// Spaces have no escaped fields; their documents are plain JSON.
	Spaces = &Kind{
		Name:           "spaces",
		FilenameFields: []string{"id"},
	}
)

// All is the canonical list of built-in kinds.
var All = []*Kind{SavedObjects, Workflows, Agents, Tools, Spaces}

// Registry holds the kinds known to a pipeline run.
type Registry struct {
	mu    sync.RWMutex
	kinds map[string]*Kind
}

// NewRegistry creates a registry holding the given kinds.
func NewRegistry(kinds ...*Kind) *Registry {
	r := &Registry{kinds: make(map[string]*Kind, len(kinds))}
	for _, k := range kinds {
		if k != nil && k.Name != "" {
			r.kinds[k.Name] = k
		}
	}
	return r
}

// Default returns a registry preloaded with the built-in kinds.
func Default() *Registry {
	return NewRegistry(All...)
}

// Get returns the kind with the given name.
func (r *Registry) Get(name string) (*Kind, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	k, ok := r.kinds[name]
	return k, ok
}

// Names returns the registered kind names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.kinds))
	for name := range r.kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register adds a kind to the registry, replacing any kind with the same
// name. Kinds with an empty name are ignored.
func (r *Registry) Register(k *Kind) {
	if k == nil || k.Name == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds[k.Name] = k
}
