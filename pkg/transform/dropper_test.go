package transform

import (
	"context"
	"testing"

	"github.com/matzehuels/kibble/pkg/tree"
)

func TestFieldDropperRemovesBookkeeping(t *testing.T) {
	doc := mustDoc(t, `{"id":"d1","created_at":"2024-01-01","attributes":{"title":"t"},"updated_at":"2024-02-01","version":"WzQ4LDFd","managed":false,"count":3}`)

	d := NewFieldDropper(DefaultDropFields)
	got, err := d.Transform(context.Background(), doc)
	if err != nil {
		t.Fatalf("Transform() failed: %v", err)
	}

	want := []string{"id", "attributes"}
	keys := got.Keys()
	if len(keys) != len(want) {
		t.Fatalf("Keys() = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestFieldDropperMissingFieldsAreNoOps(t *testing.T) {
	doc := mustDoc(t, `{"id":"d1"}`)
	want := doc.Clone()

	d := NewFieldDropper(DefaultDropFields)
	got, err := d.Transform(context.Background(), doc)
	if err != nil {
		t.Fatalf("Transform() failed: %v", err)
	}
	if !tree.Equal(got, want) {
		t.Errorf("document changed, want untouched")
	}
}

func TestFieldDropperPassesNonObjects(t *testing.T) {
	doc := tree.NewArray(tree.NewString("x"))
	want := doc.Clone()

	d := NewFieldDropper(DefaultDropFields)
	got, err := d.Transform(context.Background(), doc)
	if err != nil {
		t.Fatalf("Transform() failed: %v", err)
	}
	if !tree.Equal(got, want) {
		t.Errorf("non-object document changed, want untouched")
	}
}

func TestFieldDropperOnlyTopLevel(t *testing.T) {
	doc := mustDoc(t, `{"attributes":{"version":"keep-me"},"version":"drop-me"}`)

	d := NewFieldDropper([]string{"version"})
	got, err := d.Transform(context.Background(), doc)
	if err != nil {
		t.Fatalf("Transform() failed: %v", err)
	}
	if _, ok := got.Get("version"); ok {
		t.Error("top-level version survived, want dropped")
	}
	attrs, _ := got.Get("attributes")
	nested, ok := attrs.Get("version")
	if !ok || nested.StringValue() != "keep-me" {
		t.Error("nested version was dropped, want kept")
	}
}
