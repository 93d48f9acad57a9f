// Package codec reads and writes the on-disk document format used for
// unbundled object directories.
//
// # Why not plain JSON
//
// Exported objects routinely carry whole programs inside string fields:
// queries, scripts, chart definitions. Plain JSON folds those into a
// single line of \n escapes, which makes files unreadable and diffs
// useless. The on-disk format is JSON with one writer extension: a string
// containing a newline is emitted as a triple-quoted block whose content
// appears byte for byte:
//
//	{
//	  "query": """SELECT *
//	FROM logs"""
//	}
//
// A string that contains the delimiter itself falls back to standard
// escaping, so every value has exactly one representation and
// serialization stays deterministic.
//
// # Writing
//
// [Write] renders the pretty disk form: two-space indentation, object keys
// in insertion order, empty containers inline as {} and [], no trailing
// newline. [WriteWire] renders compact single-line JSON with standard
// escaping only; its output is valid input for any JSON parser and is what
// gets embedded back into string fields and NDJSON lines.
//
// # Parsing
//
// [Parse] accepts a superset of what [Write] produces, so hand-edited
// files stay loadable: // and /* */ comments, trailing commas, unquoted
// object keys, single-quoted strings, and the relaxed number spellings
// (hex, leading plus, bare leading or trailing decimal point, Infinity,
// NaN). Relaxed number forms are normalized to strict JSON literals at
// parse time; strict literals are preserved byte for byte, so a value
// read as 1.50 is written back as 1.50.
//
// Triple-quoted blocks are handled by a lexical pre-pass that rewrites
// each block into a standard escaped string before the grammar runs.
// Three consecutive quotes open a block; the last three quotes of the
// next run of three or more close it, so content may end in a quote
// directly before the closing delimiter.
//
// # Errors
//
// Parse failures are [errors.SyntaxError] values carrying a 1-based line
// and column: the opening delimiter for unterminated strings, blocks, and
// comments, otherwise the offending character. Positions refer to the
// text after triple-quote normalization, which matches the original
// input up to the first triple-quoted block.
//
// [errors.SyntaxError]: github.com/matzehuels/kibble/pkg/errors.SyntaxError
package codec
