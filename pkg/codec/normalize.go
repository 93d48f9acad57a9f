package codec

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/kibble/pkg/errors"
)

// normalizeTripleQuotes rewrites every triple-quoted block in src into a
// standard escaped JSON string, so the grammar proper never sees the
// extension. The scan is lexical: three consecutive quotes open a block,
// and the block is closed by the last three quotes of the next run of
// three or more. Content may therefore end in a quote directly before
// the closing delimiter without being cut short.
func normalizeTripleQuotes(src string) (string, error) {
	if !strings.Contains(src, tripleQuote) {
		return src, nil
	}

	var out bytes.Buffer
	out.Grow(len(src))
	line, col := 1, 1
	i := 0
	for i < len(src) {
		if !strings.HasPrefix(src[i:], tripleQuote) {
			r, size := utf8.DecodeRuneInString(src[i:])
			out.WriteString(src[i : i+size])
			i += size
			if r == '\n' {
				line++
				col = 1
			} else {
				col++
			}
			continue
		}

		openLine, openCol := line, col
		i += 3
		col += 3

		var content strings.Builder
		run := 0
		closed := false
		for i < len(src) {
			r, size := utf8.DecodeRuneInString(src[i:])
			if r == '"' {
				run++
				i += size
				col++
				continue
			}
			if run >= 3 {
				closed = true
				break
			}
			for ; run > 0; run-- {
				content.WriteByte('"')
			}
			content.WriteRune(r)
			i += size
			if r == '\n' {
				line++
				col = 1
			} else {
				col++
			}
		}
		if !closed && run < 3 {
			return "", &errors.SyntaxError{
				Line:    openLine,
				Col:     openCol,
				Message: "unterminated triple-quoted string",
			}
		}
		for ; run > 3; run-- {
			content.WriteByte('"')
		}

		out.WriteByte('"')
		writeEscaped(&out, content.String())
		out.WriteByte('"')
	}
	return out.String(), nil
}
