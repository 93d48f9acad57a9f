// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about pipeline runs and store traffic.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetStorageHooks(&myStorageHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnDocumentStart(ctx, direction, id)
//	// ... transform document ...
//	observability.Pipeline().OnDocumentComplete(ctx, direction, id, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from pipeline runs.
type PipelineHooks interface {
	// OnDocumentStart records a document entering the transform chain.
	// Direction is "unbundle" or "bundle"; id identifies the document.
	OnDocumentStart(ctx context.Context, direction, id string)

	// OnDocumentComplete records the outcome for a single document.
	// A non-nil err means the document was skipped.
	OnDocumentComplete(ctx context.Context, direction, id string, duration time.Duration, err error)

	// OnFieldFallback records an embedded field that failed to parse and was
	// left in its original string form.
	OnFieldFallback(ctx context.Context, path string, err error)
}

// =============================================================================
// Storage Hooks
// =============================================================================

// StorageHooks receives events from document stores.
type StorageHooks interface {
	// OnRead records a document read. Store is "ndjson" or "directory",
	// name identifies the source file or line, size is in bytes.
	OnRead(ctx context.Context, store, name string, size int)

	// OnWrite records a document write.
	OnWrite(ctx context.Context, store, name string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnDocumentStart(context.Context, string, string) {}
func (NoopPipelineHooks) OnDocumentComplete(context.Context, string, string, time.Duration, error) {
}
func (NoopPipelineHooks) OnFieldFallback(context.Context, string, error) {}

// NoopStorageHooks is a no-op implementation of StorageHooks.
type NoopStorageHooks struct{}

func (NoopStorageHooks) OnRead(context.Context, string, string, int)  {}
func (NoopStorageHooks) OnWrite(context.Context, string, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	storageHooks  StorageHooks  = NoopStorageHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline runs.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetStorageHooks registers custom storage hooks.
// This should be called once at application startup before any store is used.
func SetStorageHooks(h StorageHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storageHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Storage returns the registered storage hooks.
func Storage() StorageHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storageHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	storageHooks = NoopStorageHooks{}
}
