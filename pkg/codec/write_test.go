package codec

import (
	"testing"

	"github.com/matzehuels/kibble/pkg/tree"
)

func TestWriteScalars(t *testing.T) {
	tests := []struct {
		name string
		node *tree.Node
		want string
	}{
		{"nil", nil, "null"},
		{"null", tree.NewNull(), "null"},
		{"true", tree.NewBool(true), "true"},
		{"false", tree.NewBool(false), "false"},
		{"integer", tree.NewNumberInt(42), "42"},
		{"float literal", tree.NewNumber("1.50"), "1.50"},
		{"plain string", tree.NewString("hello"), `"hello"`},
		{"empty object", tree.NewObject(), "{}"},
		{"empty array", tree.NewArray(), "[]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(Write(tt.node)); got != tt.want {
				t.Errorf("Write() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteMultilineString(t *testing.T) {
	got := string(Write(tree.NewString("line1\nline2\nline3")))
	want := `"""line1
line2
line3"""`
	if got != want {
		t.Errorf("Write() = %q, want %q", got, want)
	}
}

func TestWriteStringEscapes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"double quotes", `He said "hello" and then left.`, `"He said \"hello\" and then left."`},
		{"apostrophes untouched", "I'm sorry, you can't do that.", `"I'm sorry, you can't do that."`},
		{"backslash", `C:\temp`, `"C:\\temp"`},
		{"tab", "a\tb", `"a\tb"`},
		{"carriage return without newline", "a\rb", `"a\rb"`},
		{"backspace and form feed", "a\bb\fc", `"a\bb\fc"`},
		{"other control characters", "a\x01b", `"a\u0001b"`},
		{"unicode passes through", "caf\u00e9 \U0001f600", "\"caf\u00e9 \U0001f600\""},
		{"multiline containing delimiter", "a\"\"\"b\nc", `"a\"\"\"b\nc"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(Write(tree.NewString(tt.in))); got != tt.want {
				t.Errorf("Write(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestWriteDocument(t *testing.T) {
	attrs := tree.NewObject()
	attrs.Set("description", tree.NewString("line1\nline2"))
	attrs.Set("tags", tree.NewArray(tree.NewString("a"), tree.NewString("b")))
	attrs.Set("empty", tree.NewObject())

	doc := tree.NewObject()
	doc.Set("id", tree.NewString("abc-123"))
	doc.Set("count", tree.NewNumberInt(2))
	doc.Set("attributes", attrs)

	want := `{
  "id": "abc-123",
  "count": 2,
  "attributes": {
    "description": """line1
line2""",
    "tags": [
      "a",
      "b"
    ],
    "empty": {}
  }
}`
	if got := string(Write(doc)); got != want {
		t.Errorf("Write() = %q, want %q", got, want)
	}
}

func TestWriteNestedArrays(t *testing.T) {
	doc := tree.NewArray(
		tree.NewNumberInt(1),
		tree.NewArray(),
		tree.NewArray(tree.NewBool(true)),
	)
	want := `[
  1,
  [],
  [
    true
  ]
]`
	if got := string(Write(doc)); got != want {
		t.Errorf("Write() = %q, want %q", got, want)
	}
}

func TestWriteKeysKeepInsertionOrder(t *testing.T) {
	doc := tree.NewObject()
	doc.Set("zebra", tree.NewNumberInt(1))
	doc.Set("alpha", tree.NewNumberInt(2))
	doc.Set("monkey", tree.NewNumberInt(3))

	want := `{
  "zebra": 1,
  "alpha": 2,
  "monkey": 3
}`
	if got := string(Write(doc)); got != want {
		t.Errorf("Write() = %q, want %q", got, want)
	}
}

func TestWriteWire(t *testing.T) {
	doc := tree.NewObject()
	doc.Set("a", tree.NewNumberInt(1))
	doc.Set("b", tree.NewArray(tree.NewBool(true), tree.NewNull()))
	doc.Set("s", tree.NewString("x\ny"))
	doc.Set("nested", tree.NewObject())

	want := `{"a":1,"b":[true,null],"s":"x\ny","nested":{}}`
	if got := string(WriteWire(doc)); got != want {
		t.Errorf("WriteWire() = %q, want %q", got, want)
	}
}

func TestWriteWireNeverTripleQuotes(t *testing.T) {
	got := string(WriteWire(tree.NewString("line1\nline2")))
	want := `"line1\nline2"`
	if got != want {
		t.Errorf("WriteWire() = %q, want %q", got, want)
	}
}
