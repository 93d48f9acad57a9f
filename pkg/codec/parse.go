package codec

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/matzehuels/kibble/pkg/errors"
	"github.com/matzehuels/kibble/pkg/tree"
)

// Parse decodes a document in the on-disk dialect: JSON plus comments,
// trailing commas, unquoted keys, single-quoted strings, the relaxed
// number forms, and triple-quoted multi-line strings. Errors are
// [errors.SyntaxError] values carrying the line and column of the
// offending input.
func Parse(data []byte) (*tree.Node, error) {
	src := string(data)
	if !utf8.ValidString(src) {
		line, col := 1, 1
		for i := 0; i < len(src); {
			r, size := utf8.DecodeRuneInString(src[i:])
			if r == utf8.RuneError && size == 1 {
				return nil, &errors.SyntaxError{Line: line, Col: col, Message: "invalid UTF-8 encoding"}
			}
			i += size
			if r == '\n' {
				line++
				col = 1
			} else {
				col++
			}
		}
	}

	normalized, err := normalizeTripleQuotes(src)
	if err != nil {
		return nil, err
	}

	p := &parser{src: normalized, line: 1, col: 1}
	if err := p.skipSpace(); err != nil {
		return nil, err
	}
	if p.eof() {
		return nil, p.errAt(p.line, p.col, "unexpected end of input")
	}
	doc, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	if err := p.skipSpace(); err != nil {
		return nil, err
	}
	if !p.eof() {
		return nil, p.errAt(p.line, p.col, "unexpected content after document")
	}
	return doc, nil
}

// parser is a recursive descent parser over normalized document text.
// Positions are tracked in runes, 1-based, against the text after
// triple-quote normalization.
type parser struct {
	src  string
	pos  int
	line int
	col  int
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

// peek returns the rune at the current position without consuming it.
// Callers must check eof first.
func (p *parser) peek() rune {
	r, _ := utf8.DecodeRuneInString(p.src[p.pos:])
	return r
}

// next consumes and returns the rune at the current position.
func (p *parser) next() rune {
	r, size := utf8.DecodeRuneInString(p.src[p.pos:])
	p.pos += size
	if r == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
	return r
}

func (p *parser) errAt(line, col int, format string, args ...any) error {
	return &errors.SyntaxError{Line: line, Col: col, Message: fmt.Sprintf(format, args...)}
}

// skipSpace advances past whitespace and comments.
func (p *parser) skipSpace() error {
	for !p.eof() {
		switch r := p.peek(); {
		case isSpace(r):
			p.next()
		case r == '/':
			if err := p.skipComment(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
	return nil
}

func (p *parser) skipComment() error {
	startLine, startCol := p.line, p.col
	p.next()
	if p.eof() {
		return p.errAt(startLine, startCol, "unexpected character '/'")
	}
	switch p.peek() {
	case '/':
		for !p.eof() && p.peek() != '\n' {
			p.next()
		}
		return nil
	case '*':
		p.next()
		for !p.eof() {
			if p.next() == '*' && !p.eof() && p.peek() == '/' {
				p.next()
				return nil
			}
		}
		return p.errAt(startLine, startCol, "unterminated block comment")
	default:
		return p.errAt(startLine, startCol, "unexpected character '/'")
	}
}

func (p *parser) parseValue() (*tree.Node, error) {
	switch r := p.peek(); {
	case r == '{':
		return p.parseObject()
	case r == '[':
		return p.parseArray()
	case r == '"' || r == '\'':
		s, err := p.parseString()
		if err != nil {
			return nil, err
		}
		return tree.NewString(s), nil
	case r == '-' || r == '+' || r == '.' || isDigit(r):
		return p.parseNumber()
	default:
		return p.parseWord()
	}
}

func (p *parser) parseObject() (*tree.Node, error) {
	obj := tree.NewObject()
	p.next()
	for {
		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		if p.eof() {
			return nil, p.errAt(p.line, p.col, "unterminated object")
		}
		if p.peek() == '}' {
			p.next()
			return obj, nil
		}
		key, err := p.parseKey()
		if err != nil {
			return nil, err
		}
		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		if p.eof() || p.peek() != ':' {
			return nil, p.errAt(p.line, p.col, "expected ':' after object key")
		}
		p.next()
		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		if p.eof() {
			return nil, p.errAt(p.line, p.col, "unterminated object")
		}
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		obj.Set(key, val)
		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		if p.eof() {
			return nil, p.errAt(p.line, p.col, "unterminated object")
		}
		switch p.peek() {
		case ',':
			p.next()
		case '}':
			p.next()
			return obj, nil
		default:
			return nil, p.errAt(p.line, p.col, "expected ',' or '}' in object")
		}
	}
}

func (p *parser) parseKey() (string, error) {
	if r := p.peek(); r == '"' || r == '\'' {
		return p.parseString()
	}
	line, col := p.line, p.col
	start := p.pos
	for !p.eof() && isIdentRune(p.peek(), p.pos > start) {
		p.next()
	}
	if p.pos == start {
		return "", p.errAt(line, col, "expected object key")
	}
	return p.src[start:p.pos], nil
}

func (p *parser) parseArray() (*tree.Node, error) {
	arr := tree.NewArray()
	p.next()
	for {
		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		if p.eof() {
			return nil, p.errAt(p.line, p.col, "unterminated array")
		}
		if p.peek() == ']' {
			p.next()
			return arr, nil
		}
		item, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		arr.Append(item)
		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		if p.eof() {
			return nil, p.errAt(p.line, p.col, "unterminated array")
		}
		switch p.peek() {
		case ',':
			p.next()
		case ']':
			p.next()
			return arr, nil
		default:
			return nil, p.errAt(p.line, p.col, "expected ',' or ']' in array")
		}
	}
}

// parseString consumes a single- or double-quoted string. Raw line breaks
// are not valid inside string literals; multi-line content arrives here
// already normalized into \n escapes.
func (p *parser) parseString() (string, error) {
	line, col := p.line, p.col
	quote := p.next()
	var b strings.Builder
	for {
		if p.eof() {
			return "", p.errAt(line, col, "unterminated string")
		}
		escLine, escCol := p.line, p.col
		switch r := p.next(); {
		case r == quote:
			return b.String(), nil
		case r == '\\':
			if err := p.parseEscape(&b, escLine, escCol); err != nil {
				return "", err
			}
		case r == '\n' || r == '\r':
			return "", p.errAt(line, col, "unterminated string")
		default:
			b.WriteRune(r)
		}
	}
}

// parseEscape consumes the remainder of an escape sequence whose backslash
// sits at (line, col). Unrecognized escapes decode to the escaped character
// itself; a backslash before a line break is a line continuation.
func (p *parser) parseEscape(b *strings.Builder, line, col int) error {
	if p.eof() {
		return p.errAt(line, col, "unterminated escape sequence")
	}
	switch r := p.next(); r {
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'n':
		b.WriteByte('\n')
	case 'r':
		b.WriteByte('\r')
	case 't':
		b.WriteByte('\t')
	case 'v':
		b.WriteByte('\v')
	case '0':
		b.WriteByte(0)
	case 'x':
		n, err := p.hexDigits(2, line, col)
		if err != nil {
			return err
		}
		b.WriteRune(rune(n))
	case 'u':
		n, err := p.hexDigits(4, line, col)
		if err != nil {
			return err
		}
		u := rune(n)
		if utf16.IsSurrogate(u) {
			u, err = p.pairedSurrogate(u, line, col)
			if err != nil {
				return err
			}
		}
		b.WriteRune(u)
	case '\n':
		// line continuation
	case '\r':
		if !p.eof() && p.peek() == '\n' {
			p.next()
		}
	case '\u2028', '\u2029':
		// line continuation
	default:
		b.WriteRune(r)
	}
	return nil
}

// pairedSurrogate expects the low half of a surrogate pair immediately
// after the high half.
func (p *parser) pairedSurrogate(hi rune, line, col int) (rune, error) {
	if p.eof() || p.peek() != '\\' {
		return 0, p.errAt(line, col, "unpaired surrogate in unicode escape")
	}
	p.next()
	if p.eof() || p.peek() != 'u' {
		return 0, p.errAt(line, col, "unpaired surrogate in unicode escape")
	}
	p.next()
	n, err := p.hexDigits(4, line, col)
	if err != nil {
		return 0, err
	}
	r := utf16.DecodeRune(hi, rune(n))
	if r == utf8.RuneError {
		return 0, p.errAt(line, col, "invalid surrogate pair in unicode escape")
	}
	return r, nil
}

func (p *parser) hexDigits(n int, line, col int) (uint32, error) {
	var v uint32
	for i := 0; i < n; i++ {
		if p.eof() {
			return 0, p.errAt(line, col, "invalid escape sequence")
		}
		d, ok := hexVal(p.next())
		if !ok {
			return 0, p.errAt(line, col, "invalid escape sequence")
		}
		v = v<<4 | d
	}
	return v, nil
}

// parseNumber consumes a number and normalizes the relaxed spellings into
// strict JSON literals: hex becomes decimal, a leading plus is dropped, a
// bare leading or trailing decimal point gains or loses its digits. Strict
// literals pass through byte for byte, so 1.50 stays 1.50. The non-finite
// spellings have no JSON representation and decode to null.
func (p *parser) parseNumber() (*tree.Node, error) {
	line, col := p.line, p.col
	neg := false
	switch p.peek() {
	case '-':
		neg = true
		p.next()
	case '+':
		p.next()
	}
	if p.eof() {
		return nil, p.errAt(line, col, "invalid number")
	}

	if r := p.peek(); r == 'I' || r == 'N' {
		start := p.pos
		for !p.eof() && unicode.IsLetter(p.peek()) {
			p.next()
		}
		switch p.src[start:p.pos] {
		case "Infinity", "NaN":
			return tree.NewNull(), nil
		}
		return nil, p.errAt(line, col, "invalid number")
	}

	if strings.HasPrefix(p.src[p.pos:], "0x") || strings.HasPrefix(p.src[p.pos:], "0X") {
		p.next()
		p.next()
		start := p.pos
		for !p.eof() {
			if _, ok := hexVal(p.peek()); !ok {
				break
			}
			p.next()
		}
		digits := p.src[start:p.pos]
		if digits == "" {
			return nil, p.errAt(line, col, "invalid number")
		}
		v, err := strconv.ParseUint(digits, 16, 64)
		if err != nil {
			return nil, p.errAt(line, col, "number out of range")
		}
		lit := strconv.FormatUint(v, 10)
		if neg {
			lit = "-" + lit
		}
		return tree.NewNumber(lit), nil
	}

	intStart := p.pos
	for !p.eof() && isDigit(p.peek()) {
		p.next()
	}
	intDigits := p.src[intStart:p.pos]

	fracDigits := ""
	if !p.eof() && p.peek() == '.' {
		p.next()
		fracStart := p.pos
		for !p.eof() && isDigit(p.peek()) {
			p.next()
		}
		fracDigits = p.src[fracStart:p.pos]
	}
	if intDigits == "" && fracDigits == "" {
		return nil, p.errAt(line, col, "invalid number")
	}
	if len(intDigits) > 1 && intDigits[0] == '0' {
		return nil, p.errAt(line, col, "invalid number")
	}

	exp := ""
	if !p.eof() && (p.peek() == 'e' || p.peek() == 'E') {
		expStart := p.pos
		p.next()
		if !p.eof() && (p.peek() == '+' || p.peek() == '-') {
			p.next()
		}
		expDigits := 0
		for !p.eof() && isDigit(p.peek()) {
			p.next()
			expDigits++
		}
		if expDigits == 0 {
			return nil, p.errAt(line, col, "invalid number")
		}
		exp = p.src[expStart:p.pos]
	}

	lit := intDigits
	if lit == "" {
		lit = "0"
	}
	if fracDigits != "" {
		lit += "." + fracDigits
	}
	lit += exp
	if neg {
		lit = "-" + lit
	}
	return tree.NewNumber(lit), nil
}

// parseWord consumes a bare identifier and maps the literal keywords.
func (p *parser) parseWord() (*tree.Node, error) {
	line, col := p.line, p.col
	start := p.pos
	for !p.eof() && isIdentRune(p.peek(), p.pos > start) {
		p.next()
	}
	switch word := p.src[start:p.pos]; word {
	case "true":
		return tree.NewBool(true), nil
	case "false":
		return tree.NewBool(false), nil
	case "null":
		return tree.NewNull(), nil
	case "Infinity", "NaN":
		return tree.NewNull(), nil
	case "":
		return nil, p.errAt(line, col, "unexpected character %q", p.peek())
	default:
		return nil, p.errAt(line, col, "unexpected identifier %q", word)
	}
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\ufeff'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentRune(r rune, continuation bool) bool {
	if unicode.IsLetter(r) || r == '_' || r == '$' {
		return true
	}
	return continuation && unicode.IsDigit(r)
}

func hexVal(r rune) (uint32, bool) {
	switch {
	case r >= '0' && r <= '9':
		return uint32(r - '0'), true
	case r >= 'a' && r <= 'f':
		return uint32(r-'a') + 10, true
	case r >= 'A' && r <= 'F':
		return uint32(r-'A') + 10, true
	}
	return 0, false
}
