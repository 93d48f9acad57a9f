package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/kibble/pkg/codec"
	"github.com/matzehuels/kibble/pkg/errors"
	"github.com/matzehuels/kibble/pkg/observability"
	"github.com/matzehuels/kibble/pkg/tree"
)

// DefaultFilenameFields are the identity fields tried, in order, when a
// kind does not configure its own.
var DefaultFilenameFields = []string{"id", "originId"}

// ReaderOption configures a DirectoryReader.
type ReaderOption func(*DirectoryReader)

// WithReaderLogger sets the logger used to report skipped files.
func WithReaderLogger(logger *log.Logger) ReaderOption {
	return func(r *DirectoryReader) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// DirectoryReader reads disk-form documents from a directory.
type DirectoryReader struct {
	dir    string
	logger *log.Logger
}

// NewDirectoryReader creates a reader over the *.json files in dir.
func NewDirectoryReader(dir string, opts ...ReaderOption) *DirectoryReader {
	r := &DirectoryReader{dir: dir, logger: discardLogger()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Extract parses every *.json file in the directory, in filename order.
// A missing directory yields an empty batch. Files that fail to parse are
// skipped with a warning so one bad object cannot block a whole push.
func (r *DirectoryReader) Extract(ctx context.Context) ([]*tree.Node, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read directory %s", r.dir)
	}

	var docs []*tree.Node
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(r.dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "read %s", path)
		}
		doc, err := codec.Parse(data)
		if err != nil {
			r.logger.Warn("skipping unparseable file", "path", path, "err", err)
			continue
		}
		observability.Storage().OnRead(ctx, "directory", path, len(data))
		docs = append(docs, doc)
	}
	return docs, nil
}

// WriterOption configures a DirectoryWriter.
type WriterOption func(*DirectoryWriter)

// WithFilenameFields sets the document fields tried, in order, when
// deriving filenames. Defaults to [DefaultFilenameFields].
func WithFilenameFields(fields ...string) WriterOption {
	return func(w *DirectoryWriter) {
		if len(fields) > 0 {
			w.fields = fields
		}
	}
}

// WithWriterLogger sets the logger used to report filename fallbacks.
func WithWriterLogger(logger *log.Logger) WriterOption {
	return func(w *DirectoryWriter) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// DirectoryWriter writes disk-form documents into a directory, one file
// per object.
type DirectoryWriter struct {
	dir    string
	fields []string
	logger *log.Logger
}

// NewDirectoryWriter creates a writer rooted at dir, creating the
// directory when missing.
func NewDirectoryWriter(dir string, opts ...WriterOption) (*DirectoryWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create directory %s", dir)
	}
	w := &DirectoryWriter{
		dir:    dir,
		fields: DefaultFilenameFields,
		logger: discardLogger(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Load writes each document to its own file in disk form. Writes go
// through a uniquely named temp file and a rename, so readers never
// observe a partial file.
func (w *DirectoryWriter) Load(ctx context.Context, docs []*tree.Node) (int, error) {
	count := 0
	for _, doc := range docs {
		path := filepath.Join(w.dir, w.filename(doc))
		data := codec.Write(doc)
		if err := writeAtomic(path, data); err != nil {
			return count, err
		}
		observability.Storage().OnWrite(ctx, "directory", path, len(data))
		count++
	}
	return count, nil
}

// Clear removes every *.json file in the directory, leaving other files
// and subdirectories alone. Clearing before a Load drops files for
// objects that no longer exist upstream.
func (w *DirectoryWriter) Clear() error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(errors.ErrCodeInternal, err, "clear directory %s", w.dir)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		if err := os.Remove(filepath.Join(w.dir, entry.Name())); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "clear directory %s", w.dir)
		}
	}
	return nil
}

// filename derives the output name from the document's identity fields.
// Documents carrying a type keep it as a prefix ("dashboard-abc123.json");
// documents without one are named by the identity field alone, which is
// how workflows and agents end up as "{name}.json". A field whose value
// still makes an unsafe name after sanitizing (hidden files, traversal
// sequences, names past the filesystem limit) is passed over like a
// missing one. When no field yields a usable name, a content hash keeps
// repeated runs deterministic.
func (w *DirectoryWriter) filename(doc *tree.Node) string {
	for _, field := range w.fields {
		v, ok := doc.Get(field)
		if !ok || v.Kind != tree.KindString || v.StringValue() == "" {
			continue
		}
		name := assembleFilename(doc, v.StringValue())
		if err := errors.ValidateFilename(name); err != nil {
			w.logger.Debug("identity field makes an unsafe filename", "field", field, "err", err)
			continue
		}
		return name
	}
	sum := sha256.Sum256(codec.WriteWire(doc))
	base := hex.EncodeToString(sum[:])[:12]
	w.logger.Debug("document has no usable identity field, using content hash", "name", base)
	return assembleFilename(doc, base)
}

// assembleFilename builds "{type}-{base}.json", or "{base}.json" when doc
// carries no type, from sanitized parts.
func assembleFilename(doc *tree.Node, base string) string {
	if t, ok := doc.Get("type"); ok && t.Kind == tree.KindString && t.StringValue() != "" {
		return sanitizeFilename(t.StringValue()) + "-" + sanitizeFilename(base) + ".json"
	}
	return sanitizeFilename(base) + ".json"
}

func writeAtomic(path string, data []byte) error {
	tmp := path + "." + uuid.NewString() + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	return nil
}
