// Package storage moves documents between the pipeline and the local
// filesystem.
//
// Two store shapes exist. NDJSON files hold one compact wire document per
// line and model the export payloads exchanged with the server. Directory
// stores hold one disk-form file per object, named after the object's
// identity fields, and are the tree checked into version control.
//
// Readers expose Extract and writers expose Load, matching the pipeline's
// extractor and loader contracts. Both report sizes through the global
// [observability] storage hooks.
package storage

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

func discardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

// sanitizeFilename replaces path separators and other runes that cannot
// appear in a portable filename, so document fields like workflow names
// can serve as filename components.
func sanitizeFilename(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == ':' || r == '*' || r == '?' ||
			r == '"' || r == '<' || r == '>' || r == '|':
			return '_'
		case r < 0x20:
			return '_'
		}
		return r
	}, s)
}
