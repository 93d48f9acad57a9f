package errors

import (
	"strings"
	"unicode"
)

// ValidateFieldPath validates a dotted field path for safety and correctness.
// Paths are sequences of object keys separated by single dots, e.g.
// "attributes.visState" or "configuration.query".
//
// The validation rules are intentionally conservative:
//   - No empty paths
//   - No empty segments (leading, trailing, or doubled dots)
//   - No control characters
//   - Maximum length of 512 characters
func ValidateFieldPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "field path cannot be empty")
	}

	if len(path) > 512 {
		return New(ErrCodeInvalidPath, "field path too long (max 512 characters)")
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "field path contains invalid control characters")
		}
	}

	for _, seg := range strings.Split(path, ".") {
		if seg == "" {
			return New(ErrCodeInvalidPath, "field path contains an empty segment: %q", path)
		}
	}

	return nil
}

// kindNameOK reports whether r is allowed in an object kind name.
func kindNameOK(r rune) bool {
	return r == '_' || r == '-' ||
		(r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

// ValidateKindName validates an object kind name (e.g. "saved_objects").
// Kind names are lowercase identifiers used in configuration files and
// in on-disk filenames.
func ValidateKindName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidKind, "kind name cannot be empty")
	}

	if len(name) > 64 {
		return New(ErrCodeInvalidKind, "kind name too long (max 64 characters)")
	}

	for _, r := range name {
		if !kindNameOK(r) {
			return New(ErrCodeInvalidKind, "kind name contains invalid characters: %q", name)
		}
	}

	return nil
}

// ValidateFilename validates an object filename for safety.
// It ensures the filename is a simple basename without path components,
// preventing path traversal when objects are written to a directory.
func ValidateFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidFilename, "filename cannot be empty")
	}

	if len(filename) > 255 {
		return New(ErrCodeInvalidFilename, "filename too long (max 255 characters)")
	}

	// Must be a simple filename, not a path
	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidFilename, "filename cannot contain path separators")
	}

	if strings.Contains(filename, "..") {
		return New(ErrCodeInvalidFilename, "filename cannot contain path traversal sequences (..)")
	}

	// No hidden files (starting with .)
	if strings.HasPrefix(filename, ".") {
		return New(ErrCodeInvalidFilename, "filename cannot be a hidden file")
	}

	for _, r := range filename {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidFilename, "filename contains invalid characters")
		}
	}

	return nil
}
