package kinds

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/kibble/pkg/errors"
)

// LoadOverrides reads a TOML overrides file and merges it into the
// registry.
func (r *Registry) LoadOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "kind overrides %s", path)
		}
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "kind overrides %s", path)
	}
	return r.ParseOverrides(data)
}

// ParseOverrides merges TOML kind overrides into the registry.
//
// Each [kinds.<name>] table either adjusts a registered kind or defines a
// new one. A list that is present replaces the kind's list entirely; an
// absent list keeps the current value:
//
//	[kinds.saved_objects]
//	escape_paths = ["attributes.panelsJSON"]
//
//	[kinds.alerts]
//	escape_paths = ["attributes.ruleJSON"]
//	filename_fields = ["id"]
func (r *Registry) ParseOverrides(data []byte) error {
	var file overridesFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse kind overrides")
	}
	for name, o := range file.Kinds {
		if err := errors.ValidateKindName(name); err != nil {
			return err
		}
		if err := o.validate(name); err != nil {
			return err
		}
		merged := &Kind{Name: name}
		if base, ok := r.Get(name); ok {
			*merged = *base
		}
		if o.EscapePaths != nil {
			merged.EscapePaths = o.EscapePaths
		}
		if o.YAMLPaths != nil {
			merged.YAMLPaths = o.YAMLPaths
		}
		if o.MultilinePaths != nil {
			merged.MultilinePaths = o.MultilinePaths
		}
		if o.DropFields != nil {
			merged.DropFields = o.DropFields
		}
		if o.FilenameFields != nil {
			merged.FilenameFields = o.FilenameFields
		}
		r.Register(merged)
	}
	return nil
}

// validate checks every path and field name carried by the override.
func (o kindOverride) validate(name string) error {
	lists := [][]string{o.EscapePaths, o.YAMLPaths, o.MultilinePaths, o.DropFields, o.FilenameFields}
	for _, list := range lists {
		for _, path := range list {
			if err := errors.ValidateFieldPath(path); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidPath, err, "kind %s", name)
			}
		}
	}
	return nil
}

type overridesFile struct {
	Kinds map[string]kindOverride `toml:"kinds"`
}

type kindOverride struct {
	EscapePaths    []string `toml:"escape_paths"`
	YAMLPaths      []string `toml:"yaml_paths"`
	MultilinePaths []string `toml:"multiline_paths"`
	DropFields     []string `toml:"drop_fields"`
	FilenameFields []string `toml:"filename_fields"`
}
