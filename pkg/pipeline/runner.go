package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/kibble/pkg/errors"
	"github.com/matzehuels/kibble/pkg/kinds"
	"github.com/matzehuels/kibble/pkg/observability"
	"github.com/matzehuels/kibble/pkg/storage"
	"github.com/matzehuels/kibble/pkg/transform"
	"github.com/matzehuels/kibble/pkg/tree"
)

// Runner executes document flows against a kind registry.
//
// The Runner is stateless except for the registry and logger - it doesn't
// store run results. Multiple goroutines can safely use the same Runner
// with different options.
type Runner struct {
	Registry *kinds.Registry
	Logger   *log.Logger
}

// NewRunner creates a runner with the given registry.
// If registry is nil, the built-in kinds are used.
// If logger is nil, the default logger is used.
func NewRunner(registry *kinds.Registry, logger *log.Logger) *Runner {
	if registry == nil {
		registry = kinds.Default()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Registry: registry,
		Logger:   logger,
	}
}

// Unbundle reads a wire NDJSON export and writes one disk-form file per
// object into the output directory.
func (r *Runner) Unbundle(ctx context.Context, opts Options) (*Result, error) {
	r.applyDefaults(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	kind, err := r.kind(opts)
	if err != nil {
		return nil, err
	}

	reader := storage.NewNDJSONReader(opts.Input)

	var writerOpts []storage.WriterOption
	if len(kind.FilenameFields) > 0 {
		writerOpts = append(writerOpts, storage.WithFilenameFields(kind.FilenameFields...))
	}
	writerOpts = append(writerOpts, storage.WithWriterLogger(opts.Logger))
	writer, err := storage.NewDirectoryWriter(opts.Output, writerOpts...)
	if err != nil {
		return nil, err
	}
	if opts.Clear {
		if err := writer.Clear(); err != nil {
			return nil, err
		}
	}

	return r.run(ctx, reader, UnbundleChain(kind, opts.Logger), writer, DirectionUnbundle, opts)
}

// Bundle reads a directory of disk-form files and packs them into a wire
// NDJSON export.
func (r *Runner) Bundle(ctx context.Context, opts Options) (*Result, error) {
	r.applyDefaults(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	kind, err := r.kind(opts)
	if err != nil {
		return nil, err
	}

	reader := storage.NewDirectoryReader(opts.Input, storage.WithReaderLogger(opts.Logger))

	writer := storage.NewNDJSONWriter(opts.Output)
	var loader Loader = writer
	if opts.Append {
		loader = appendLoader{writer}
	}

	return r.run(ctx, reader, BundleChain(kind, !opts.Unmanaged, opts.Logger), loader, DirectionBundle, opts)
}

// run executes the extract, transform, load stages shared by both flows.
func (r *Runner) run(ctx context.Context, from Extractor, chain transform.Chain, to Loader, direction string, opts Options) (*Result, error) {
	result := &Result{RunID: uuid.NewString()}
	logger := opts.Logger.With("run", result.RunID)

	extractStart := time.Now()
	docs, err := from.Extract(ctx)
	if err != nil {
		return nil, err
	}
	result.Stats.ExtractTime = time.Since(extractStart)
	logger.Info("extracted documents",
		"count", len(docs),
		"duration", result.Stats.ExtractTime)

	transformStart := time.Now()
	kept, skipped, err := r.transformAll(ctx, chain, docs, direction, logger, opts.Concurrency)
	if err != nil {
		return nil, err
	}
	result.Skipped = skipped
	result.Stats.TransformTime = time.Since(transformStart)
	if skipped > 0 {
		logger.Warn("skipped documents", "count", skipped)
	}

	loadStart := time.Now()
	n, err := to.Load(ctx, kept)
	if err != nil {
		return nil, err
	}
	result.Count = n
	result.Stats.LoadTime = time.Since(loadStart)
	logger.Info("pipeline complete",
		"direction", direction,
		"count", n,
		"skipped", skipped,
		"duration", result.Stats.LoadTime)

	return result, nil
}

// transformAll runs the chain over every document with a bounded worker
// pool. Results keep the input order so stores stay deterministic. A
// document whose chain fails is dropped, never the batch; only context
// cancellation aborts the run.
func (r *Runner) transformAll(ctx context.Context, chain transform.Chain, docs []*tree.Node, direction string, logger *log.Logger, workers int) ([]*tree.Node, int, error) {
	if workers < 1 {
		workers = 1
	}
	if workers > len(docs) {
		workers = len(docs)
	}
	out := make([]*tree.Node, len(docs))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for n := 0; n < workers; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i] = r.transformOne(ctx, chain, docs[i], direction, logger)
			}
		}()
	}
	for i := range docs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, 0, errors.Wrap(errors.ErrCodeInternal, err, "pipeline canceled")
	}

	kept := make([]*tree.Node, 0, len(out))
	skipped := 0
	for _, doc := range out {
		if doc == nil {
			skipped++
			continue
		}
		kept = append(kept, doc)
	}
	return kept, skipped, nil
}

// transformOne runs the chain over a single document, reporting to the
// pipeline hooks. The document-scoped logger travels through the context
// so per-field diagnostics inside the chain carry the document identity.
// Returns nil when the chain fails.
func (r *Runner) transformOne(ctx context.Context, chain transform.Chain, doc *tree.Node, direction string, logger *log.Logger) *tree.Node {
	id := documentID(doc)
	logger = logger.With("document", id)
	ctx = observability.WithLogger(ctx, logger)
	observability.Pipeline().OnDocumentStart(ctx, direction, id)

	start := time.Now()
	out, err := chain.Transform(ctx, doc)
	observability.Pipeline().OnDocumentComplete(ctx, direction, id, time.Since(start), err)

	if err != nil {
		logger.Error("skipping document", "err", err)
		return nil
	}
	return out
}

// kind resolves the options' kind name against the run's registry.
func (r *Runner) kind(opts Options) (*kinds.Kind, error) {
	kind, ok := opts.Registry.Get(opts.Kind)
	if !ok {
		return nil, errors.New(errors.ErrCodeKindNotFound, "kind %q is not registered", opts.Kind)
	}
	return kind, nil
}

// applyDefaults fills the runtime fields a caller left unset with the
// runner's registry and logger. Values carried in the options win over the
// runner's.
func (r *Runner) applyDefaults(opts *Options) {
	if opts.Registry == nil {
		opts.Registry = r.Registry
	}
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// documentID derives the identity reported to hooks and logs, in
// "type:id" form when the document carries a type.
func documentID(doc *tree.Node) string {
	id := "unknown"
	for _, field := range []string{"id", "name"} {
		if v, ok := doc.Get(field); ok && v.Kind == tree.KindString && v.StringValue() != "" {
			id = v.StringValue()
			break
		}
	}
	if t, ok := doc.Get("type"); ok && t.Kind == tree.KindString && t.StringValue() != "" {
		return t.StringValue() + ":" + id
	}
	return id
}

// appendLoader adapts NDJSONWriter's append mode to the Loader contract.
type appendLoader struct {
	w *storage.NDJSONWriter
}

func (a appendLoader) Load(ctx context.Context, docs []*tree.Node) (int, error) {
	return a.w.Append(ctx, docs)
}

// Interface checks for the storage types used by the flows.
var (
	_ Extractor = (*storage.NDJSONReader)(nil)
	_ Extractor = (*storage.DirectoryReader)(nil)
	_ Loader    = (*storage.NDJSONWriter)(nil)
	_ Loader    = (*storage.DirectoryWriter)(nil)
)
