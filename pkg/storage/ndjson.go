package storage

import (
	"bytes"
	"context"
	"os"
	"strings"

	"github.com/matzehuels/kibble/pkg/codec"
	"github.com/matzehuels/kibble/pkg/errors"
	"github.com/matzehuels/kibble/pkg/observability"
	"github.com/matzehuels/kibble/pkg/tree"
)

// NDJSONReader reads wire documents from a newline-delimited JSON file.
type NDJSONReader struct {
	path string
}

// NewNDJSONReader creates a reader for the given NDJSON file.
func NewNDJSONReader(path string) *NDJSONReader {
	return &NDJSONReader{path: path}
}

// Extract reads every line as a strict-JSON wire document. Blank lines
// are skipped. A malformed line fails the whole read and the error names
// the offending line number.
func (r *NDJSONReader) Extract(ctx context.Context) ([]*tree.Node, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read ndjson %s", r.path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read ndjson %s", r.path)
	}
	observability.Storage().OnRead(ctx, "ndjson", r.path, len(data))

	var docs []*tree.Node
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		doc, err := codec.ParseStrict([]byte(line))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSyntax, err, "%s line %d", r.path, i+1)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// NDJSONWriter writes wire documents to a newline-delimited JSON file.
type NDJSONWriter struct {
	path string
}

// NewNDJSONWriter creates a writer for the given NDJSON file.
func NewNDJSONWriter(path string) *NDJSONWriter {
	return &NDJSONWriter{path: path}
}

// Load writes the documents one compact line each, replacing any existing
// file. An empty batch truncates the file.
func (w *NDJSONWriter) Load(ctx context.Context, docs []*tree.Node) (int, error) {
	buf := encodeLines(docs)
	if err := os.WriteFile(w.path, buf, 0644); err != nil {
		return 0, errors.Wrap(errors.ErrCodeInternal, err, "write ndjson %s", w.path)
	}
	observability.Storage().OnWrite(ctx, "ndjson", w.path, len(buf))
	return len(docs), nil
}

// Append adds documents to the end of the file, creating it when missing.
func (w *NDJSONWriter) Append(ctx context.Context, docs []*tree.Node) (int, error) {
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInternal, err, "open ndjson %s", w.path)
	}
	buf := encodeLines(docs)
	if _, err := f.Write(buf); err != nil {
		f.Close()
		return 0, errors.Wrap(errors.ErrCodeInternal, err, "append ndjson %s", w.path)
	}
	if err := f.Close(); err != nil {
		return 0, errors.Wrap(errors.ErrCodeInternal, err, "append ndjson %s", w.path)
	}
	observability.Storage().OnWrite(ctx, "ndjson", w.path, len(buf))
	return len(docs), nil
}

func encodeLines(docs []*tree.Node) []byte {
	var buf bytes.Buffer
	for _, doc := range docs {
		buf.Write(codec.WriteWire(doc))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
