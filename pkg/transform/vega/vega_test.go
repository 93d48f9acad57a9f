package vega

import (
	"context"
	"testing"

	"github.com/matzehuels/kibble/pkg/codec"
	"github.com/matzehuels/kibble/pkg/transform"
	"github.com/matzehuels/kibble/pkg/tree"
)

func mustDoc(t *testing.T, in string) *tree.Node {
	t.Helper()
	doc, err := codec.ParseStrict([]byte(in))
	if err != nil {
		t.Fatalf("ParseStrict(%q) failed: %v", in, err)
	}
	return doc
}

func specAt(t *testing.T, doc *tree.Node, path ...string) *tree.Node {
	t.Helper()
	cur := doc
	for _, key := range path {
		next, ok := cur.Get(key)
		if !ok {
			t.Fatalf("key %q missing", key)
		}
		cur = next
	}
	return cur
}

func TestUnescaperDirectShape(t *testing.T) {
	doc := mustDoc(t, `{"type":"vega","params":{"spec":"{\n  \"width\": 400\n}"}}`)

	u := NewUnescaper(nil)
	got, err := u.Transform(context.Background(), doc)
	if err != nil {
		t.Fatalf("Transform() failed: %v", err)
	}
	spec := specAt(t, got, "params", "spec")
	if spec.Kind != tree.KindObject {
		t.Fatalf("spec kind = %s, want object", spec.Kind)
	}
	width, _ := spec.Get("width")
	if width.NumberLiteral() != "400" {
		t.Errorf("width = %s, want 400", width.NumberLiteral())
	}
}

func TestUnescaperWrappedShape(t *testing.T) {
	doc := mustDoc(t, `{"attributes":{"visState":{"type":"vega-lite","params":{"spec":"{\"mark\": \"bar\"}"}}}}`)

	u := NewUnescaper(nil)
	got, err := u.Transform(context.Background(), doc)
	if err != nil {
		t.Fatalf("Transform() failed: %v", err)
	}
	spec := specAt(t, got, "attributes", "visState", "params", "spec")
	if spec.Kind != tree.KindObject {
		t.Fatalf("spec kind = %s, want object", spec.Kind)
	}
	mark, _ := spec.Get("mark")
	if mark.StringValue() != "bar" {
		t.Errorf("mark = %q, want %q", mark.StringValue(), "bar")
	}
}

func TestUnescaperPanelShapes(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		path []string
	}{
		{
			"savedVis in panels",
			`{"panels":[{"savedVis":{"type":"vega","params":{"spec":"{\"width\": 1}"}}}]}`,
			[]string{"panels"},
		},
		{
			"embeddableConfig in attributes.panelsJSON",
			`{"attributes":{"panelsJSON":[{"embeddableConfig":{"savedVis":{"type":"vega","params":{"spec":"{\"width\": 1}"}}}}]}}`,
			[]string{"attributes", "panelsJSON"},
		},
		{
			"panelConfig in attributes.panels",
			`{"attributes":{"panels":[{"panelConfig":{"savedVis":{"type":"vega-lite","params":{"spec":"{\"width\": 1}"}}}}]}}`,
			[]string{"attributes", "panels"},
		},
	}
	for _, tt := range tests {
		doc := mustDoc(t, tt.doc)
		u := NewUnescaper(nil)
		got, err := u.Transform(context.Background(), doc)
		if err != nil {
			t.Fatalf("%s: Transform() failed: %v", tt.name, err)
		}
		arr := specAt(t, got, tt.path...)
		sites := collectSpecParams(got)
		if len(sites) != 1 {
			t.Fatalf("%s: found %d spec sites, want 1", tt.name, len(sites))
		}
		spec, ok := sites[0].Get("spec")
		if !ok || spec.Kind != tree.KindObject {
			t.Errorf("%s: spec not materialized", tt.name)
		}
		if arr.Kind != tree.KindArray {
			t.Errorf("%s: panel container kind = %s, want array", tt.name, arr.Kind)
		}
	}
}

func TestUnescaperSkipsOtherVisTypes(t *testing.T) {
	doc := mustDoc(t, `{"attributes":{"visState":{"type":"lens","params":{"spec":"{\"a\": 1}"}}}}`)
	want := doc.Clone()

	u := NewUnescaper(nil)
	got, err := u.Transform(context.Background(), doc)
	if err != nil {
		t.Fatalf("Transform() failed: %v", err)
	}
	if !tree.Equal(got, want) {
		t.Errorf("non-vega visualization was modified")
	}
}

func TestUnescaperAcceptsRelaxedSyntax(t *testing.T) {
	doc := mustDoc(t, `{"type":"vega","params":{"spec":"{\n  width: 400,\n  'height': 300,\n}"}}`)

	u := NewUnescaper(nil)
	got, err := u.Transform(context.Background(), doc)
	if err != nil {
		t.Fatalf("Transform() failed: %v", err)
	}
	spec := specAt(t, got, "params", "spec")
	if spec.Kind != tree.KindObject {
		t.Fatalf("relaxed spec not materialized, kind = %s", spec.Kind)
	}
	height, ok := spec.Get("height")
	if !ok || height.NumberLiteral() != "300" {
		t.Errorf("height not parsed from relaxed syntax")
	}
}

func TestUnescaperKeepsCommentedSpec(t *testing.T) {
	in := "{\n  // axis config\n  \"width\": 400\n}"
	doc := tree.NewObject()
	doc.Set("type", tree.NewString("vega"))
	params := tree.NewObject()
	params.Set("spec", tree.NewString(in))
	doc.Set("params", params)

	u := NewUnescaper(nil)
	got, err := u.Transform(context.Background(), doc)
	if err != nil {
		t.Fatalf("Transform() failed: %v", err)
	}
	spec := specAt(t, got, "params", "spec")
	if spec.Kind != tree.KindString {
		t.Fatalf("commented spec was materialized, kind = %s", spec.Kind)
	}
	if spec.StringValue() != in {
		t.Errorf("commented spec changed, want byte-identical")
	}
}

func TestUnescaperKeepsScalarContent(t *testing.T) {
	doc := mustDoc(t, `{"type":"vega","params":{"spec":"just words"}}`)

	u := NewUnescaper(nil)
	got, err := u.Transform(context.Background(), doc)
	if err != nil {
		t.Fatalf("Transform() failed: %v", err)
	}
	spec := specAt(t, got, "params", "spec")
	if spec.Kind != tree.KindString || spec.StringValue() != "just words" {
		t.Errorf("scalar spec content changed")
	}
}

func TestEscaperCompactsSpec(t *testing.T) {
	doc := mustDoc(t, `{"type":"vega","params":{"spec":{"width":400,"mark":"bar"}}}`)

	e := NewEscaper(nil)
	got, err := e.Transform(context.Background(), doc)
	if err != nil {
		t.Fatalf("Transform() failed: %v", err)
	}
	spec := specAt(t, got, "params", "spec")
	if spec.Kind != tree.KindString {
		t.Fatalf("spec kind = %s, want string", spec.Kind)
	}
	if want := `{"width":400,"mark":"bar"}`; spec.StringValue() != want {
		t.Errorf("spec = %q, want %q", spec.StringValue(), want)
	}
}

func TestEscaperLeavesStrings(t *testing.T) {
	doc := mustDoc(t, `{"type":"vega","params":{"spec":"{\n  // kept\n  \"a\": 1\n}"}}`)
	want := doc.Clone()

	e := NewEscaper(nil)
	got, err := e.Transform(context.Background(), doc)
	if err != nil {
		t.Fatalf("Transform() failed: %v", err)
	}
	if !tree.Equal(got, want) {
		t.Errorf("string spec was modified by escaper")
	}
}

func TestTwoLayerRoundTrip(t *testing.T) {
	wire := `{"attributes":{"visState":"{\"type\":\"vega\",\"params\":{\"spec\":\"{\\\"width\\\":400}\"}}"}}`
	doc := mustDoc(t, wire)

	paths := []string{"attributes.visState"}
	ctx := context.Background()

	doc, err := transform.NewFieldUnescaper(paths, nil).Transform(ctx, doc)
	if err != nil {
		t.Fatalf("field unescape failed: %v", err)
	}
	doc, err = NewUnescaper(nil).Transform(ctx, doc)
	if err != nil {
		t.Fatalf("vega unescape failed: %v", err)
	}

	spec := specAt(t, doc, "attributes", "visState", "params", "spec")
	if spec.Kind != tree.KindObject {
		t.Fatalf("spec not materialized after both layers, kind = %s", spec.Kind)
	}

	doc, err = NewEscaper(nil).Transform(ctx, doc)
	if err != nil {
		t.Fatalf("vega escape failed: %v", err)
	}
	doc, err = transform.NewFieldEscaper(paths).Transform(ctx, doc)
	if err != nil {
		t.Fatalf("field escape failed: %v", err)
	}
	if got := string(codec.WriteWire(doc)); got != wire {
		t.Errorf("round trip = %s, want %s", got, wire)
	}
}

func TestCommentedSpecSurvivesRoundTrip(t *testing.T) {
	spec := "{\n  /* bars */\n  \"mark\": \"bar\"\n}"
	doc := tree.NewObject()
	state := tree.NewObject()
	state.Set("type", tree.NewString("vega"))
	params := tree.NewObject()
	params.Set("spec", tree.NewString(spec))
	state.Set("params", params)
	attrs := tree.NewObject()
	attrs.Set("visState", state)
	doc.Set("attributes", attrs)

	ctx := context.Background()
	doc, err := NewUnescaper(nil).Transform(ctx, doc)
	if err != nil {
		t.Fatalf("unescape failed: %v", err)
	}
	doc, err = NewEscaper(nil).Transform(ctx, doc)
	if err != nil {
		t.Fatalf("escape failed: %v", err)
	}

	got := specAt(t, doc, "attributes", "visState", "params", "spec")
	if got.Kind != tree.KindString || got.StringValue() != spec {
		t.Errorf("comment text lost in round trip: %q", got.StringValue())
	}
}
