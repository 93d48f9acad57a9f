package transform

import (
	"context"
	"testing"

	"github.com/matzehuels/kibble/pkg/codec"
	"github.com/matzehuels/kibble/pkg/observability"
	"github.com/matzehuels/kibble/pkg/tree"
)

type recordingPipelineHooks struct {
	observability.NoopPipelineHooks
	fallbacks []string
}

func (r *recordingPipelineHooks) OnFieldFallback(_ context.Context, path string, _ error) {
	r.fallbacks = append(r.fallbacks, path)
}

func TestFieldUnescaperMaterializesJSON(t *testing.T) {
	doc := mustDoc(t, `{"type":"dashboard","attributes":{"panelsJSON":"[{\"id\":\"p1\"}]","title":"Sales"}}`)

	u := NewFieldUnescaper([]string{"attributes.panelsJSON"}, nil)
	got, err := u.Transform(context.Background(), doc)
	if err != nil {
		t.Fatalf("Transform() failed: %v", err)
	}

	attrs, _ := got.Get("attributes")
	panels, ok := attrs.Get("panelsJSON")
	if !ok || panels.Kind != tree.KindArray {
		t.Fatal("panelsJSON missing or not materialized to an array")
	}
	id, _ := panels.At(0).Get("id")
	if id.StringValue() != "p1" {
		t.Errorf("panel id = %q, want %q", id.StringValue(), "p1")
	}
	title, _ := attrs.Get("title")
	if title.Kind != tree.KindString || title.StringValue() != "Sales" {
		t.Errorf("unconfigured field was modified")
	}
}

func TestFieldUnescaperLeavesPlainStrings(t *testing.T) {
	doc := mustDoc(t, `{"attributes":{"optionsJSON":"just a plain title"}}`)

	u := NewFieldUnescaper([]string{"attributes.optionsJSON"}, nil)
	got, err := u.Transform(context.Background(), doc)
	if err != nil {
		t.Fatalf("Transform() failed: %v", err)
	}
	attrs, _ := got.Get("attributes")
	opts, _ := attrs.Get("optionsJSON")
	if opts.Kind != tree.KindString || opts.StringValue() != "just a plain title" {
		t.Errorf("optionsJSON = %v, want untouched plain string", opts)
	}
}

func TestFieldUnescaperFallbackOnBadJSON(t *testing.T) {
	observability.Reset()
	rec := &recordingPipelineHooks{}
	observability.SetPipelineHooks(rec)
	defer observability.Reset()

	doc := mustDoc(t, `{"attributes":{"optionsJSON":"{broken"}}`)

	u := NewFieldUnescaper([]string{"attributes.optionsJSON"}, nil)
	got, err := u.Transform(context.Background(), doc)
	if err != nil {
		t.Fatalf("Transform() failed: %v", err)
	}
	attrs, _ := got.Get("attributes")
	opts, _ := attrs.Get("optionsJSON")
	if opts.Kind != tree.KindString || opts.StringValue() != "{broken" {
		t.Errorf("optionsJSON = %v, want original string", opts)
	}
	if len(rec.fallbacks) != 1 || rec.fallbacks[0] != "attributes.optionsJSON" {
		t.Errorf("fallbacks = %v, want [attributes.optionsJSON]", rec.fallbacks)
	}
}

func TestFieldUnescaperSkipsMissingPaths(t *testing.T) {
	doc := mustDoc(t, `{"attributes":{"title":"t"}}`)
	want := doc.Clone()

	u := NewFieldUnescaper([]string{"attributes.panelsJSON", "missing.deep.path"}, nil)
	got, err := u.Transform(context.Background(), doc)
	if err != nil {
		t.Fatalf("Transform() failed: %v", err)
	}
	if !tree.Equal(got, want) {
		t.Errorf("document changed, want untouched")
	}
}

func TestFieldUnescaperIdempotent(t *testing.T) {
	doc := mustDoc(t, `{"attributes":{"optionsJSON":"{\"hidePanelTitles\":false}"}}`)

	u := NewFieldUnescaper([]string{"attributes.optionsJSON"}, nil)
	ctx := context.Background()
	once, err := u.Transform(ctx, doc)
	if err != nil {
		t.Fatalf("first Transform() failed: %v", err)
	}
	snapshot := once.Clone()
	twice, err := u.Transform(ctx, once)
	if err != nil {
		t.Fatalf("second Transform() failed: %v", err)
	}
	if !tree.Equal(twice, snapshot) {
		t.Errorf("second unescape changed the document")
	}
}

func TestFieldEscaperSerializesContainers(t *testing.T) {
	doc := mustDoc(t, `{"attributes":{"optionsJSON":{"useMargins":true},"fieldAttrs":[1,2]}}`)

	e := NewFieldEscaper([]string{"attributes.optionsJSON", "attributes.fieldAttrs"})
	got, err := e.Transform(context.Background(), doc)
	if err != nil {
		t.Fatalf("Transform() failed: %v", err)
	}
	attrs, _ := got.Get("attributes")

	opts, _ := attrs.Get("optionsJSON")
	if opts.Kind != tree.KindString || opts.StringValue() != `{"useMargins":true}` {
		t.Errorf("optionsJSON = %v, want compact JSON string", opts)
	}
	fa, _ := attrs.Get("fieldAttrs")
	if fa.Kind != tree.KindString || fa.StringValue() != `[1,2]` {
		t.Errorf("fieldAttrs = %v, want compact JSON string", fa)
	}
}

func TestFieldEscaperLeavesStrings(t *testing.T) {
	doc := mustDoc(t, `{"attributes":{"optionsJSON":"{\"a\":1}"}}`)
	want := doc.Clone()

	e := NewFieldEscaper([]string{"attributes.optionsJSON"})
	got, err := e.Transform(context.Background(), doc)
	if err != nil {
		t.Fatalf("Transform() failed: %v", err)
	}
	if !tree.Equal(got, want) {
		t.Errorf("escaping an escaped field changed the document")
	}
}

func TestEscapeUnescapeInverse(t *testing.T) {
	wire := `{"attributes":{"panelsJSON":"[{\"id\":\"p1\",\"w\":1.50}]"}}`
	doc := mustDoc(t, wire)

	paths := []string{"attributes.panelsJSON"}
	ctx := context.Background()

	doc, err := NewFieldUnescaper(paths, nil).Transform(ctx, doc)
	if err != nil {
		t.Fatalf("unescape failed: %v", err)
	}
	doc, err = NewFieldEscaper(paths).Transform(ctx, doc)
	if err != nil {
		t.Fatalf("escape failed: %v", err)
	}
	if got := string(codec.WriteWire(doc)); got != wire {
		t.Errorf("escape(unescape(doc)) = %s, want %s", got, wire)
	}
}
