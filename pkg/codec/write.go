package codec

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/kibble/pkg/tree"
)

const (
	tripleQuote = `"""`
	indentUnit  = "  "
)

// Write renders doc in the on-disk form: two-space indentation, object keys
// in insertion order, empty containers inline, and multi-line strings as
// triple-quoted blocks. The output carries no trailing newline.
func Write(doc *tree.Node) []byte {
	var b bytes.Buffer
	writeValue(&b, doc, 0)
	return b.Bytes()
}

// WriteWire renders doc as compact single-line JSON with standard escaping
// only, valid input for any JSON parser.
func WriteWire(doc *tree.Node) []byte {
	var b bytes.Buffer
	writeWire(&b, doc)
	return b.Bytes()
}

func writeValue(b *bytes.Buffer, n *tree.Node, depth int) {
	if n == nil {
		b.WriteString("null")
		return
	}
	switch n.Kind {
	case tree.KindBool:
		b.WriteString(strconv.FormatBool(n.BoolValue()))
	case tree.KindNumber:
		b.WriteString(n.NumberLiteral())
	case tree.KindString:
		writeString(b, n.StringValue())
	case tree.KindArray:
		writeArray(b, n, depth)
	case tree.KindObject:
		writeObject(b, n, depth)
	default:
		b.WriteString("null")
	}
}

// writeString picks the representation for a string leaf. A string
// containing a newline becomes a triple-quoted block with its content
// written byte for byte, unless the content itself contains the delimiter,
// in which case it falls back to standard escaping. The choice depends only
// on the content, so serialization is deterministic.
func writeString(b *bytes.Buffer, s string) {
	if strings.Contains(s, "\n") && !strings.Contains(s, tripleQuote) {
		b.WriteString(tripleQuote)
		b.WriteString(s)
		b.WriteString(tripleQuote)
		return
	}
	b.WriteByte('"')
	writeEscaped(b, s)
	b.WriteByte('"')
}

func writeArray(b *bytes.Buffer, n *tree.Node, depth int) {
	if n.Len() == 0 {
		b.WriteString("[]")
		return
	}
	b.WriteString("[\n")
	for i, item := range n.Items() {
		writeIndent(b, depth+1)
		writeValue(b, item, depth+1)
		if i+1 < n.Len() {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	writeIndent(b, depth)
	b.WriteByte(']')
}

func writeObject(b *bytes.Buffer, n *tree.Node, depth int) {
	keys := n.Keys()
	if len(keys) == 0 {
		b.WriteString("{}")
		return
	}
	b.WriteString("{\n")
	for i, key := range keys {
		writeIndent(b, depth+1)
		b.WriteByte('"')
		writeEscaped(b, key)
		b.WriteString(`": `)
		val, _ := n.Get(key)
		writeValue(b, val, depth+1)
		if i+1 < len(keys) {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	writeIndent(b, depth)
	b.WriteByte('}')
}

func writeIndent(b *bytes.Buffer, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString(indentUnit)
	}
}

func writeWire(b *bytes.Buffer, n *tree.Node) {
	if n == nil {
		b.WriteString("null")
		return
	}
	switch n.Kind {
	case tree.KindBool:
		b.WriteString(strconv.FormatBool(n.BoolValue()))
	case tree.KindNumber:
		b.WriteString(n.NumberLiteral())
	case tree.KindString:
		b.WriteByte('"')
		writeEscaped(b, n.StringValue())
		b.WriteByte('"')
	case tree.KindArray:
		b.WriteByte('[')
		for i, item := range n.Items() {
			if i > 0 {
				b.WriteByte(',')
			}
			writeWire(b, item)
		}
		b.WriteByte(']')
	case tree.KindObject:
		b.WriteByte('{')
		for i, key := range n.Keys() {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			writeEscaped(b, key)
			b.WriteString(`":`)
			val, _ := n.Get(key)
			writeWire(b, val)
		}
		b.WriteByte('}')
	default:
		b.WriteString("null")
	}
}

// writeEscaped appends s with standard JSON escaping: the two-character
// forms for the common control characters and \u00xx for the rest.
func writeEscaped(b *bytes.Buffer, s string) {
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r < 0x20 {
				fmt.Fprintf(b, `\u%04x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
}
