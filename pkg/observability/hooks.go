// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about mapping ingestion, deck scanning, and placement.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, never by libraries, so the core packages stay
// free of any observability framework.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetDeckHooks(&myDeckHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnIngestStart(ctx, path)
//	// ... read the mapping ...
//	observability.Pipeline().OnIngestComplete(ctx, format, records, skipped, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the placement pipeline.
type PipelineHooks interface {
	// Ingest events
	OnIngestStart(ctx context.Context, path string)
	OnIngestComplete(ctx context.Context, format string, records, skipped int, duration time.Duration, err error)

	// Scan events
	OnScanComplete(ctx context.Context, slides, pictures int, duration time.Duration, err error)

	// Placement events, one per request
	OnPlacement(ctx context.Context, image, slide int, position string, err error)

	// OnRunComplete fires once per run, after the artifact is written.
	OnRunComplete(ctx context.Context, runID string, placed, failed int, duration time.Duration, err error)
}

// =============================================================================
// Deck Hooks
// =============================================================================

// DeckHooks receives events from the drawing collaborator.
type DeckHooks interface {
	// OnSlideAppended records a slide created by spillover.
	OnSlideAppended(ctx context.Context, slide int)

	// OnMeasure records a natural-size lookup.
	OnMeasure(ctx context.Context, image string, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnIngestStart(context.Context, string) {}
func (NoopPipelineHooks) OnIngestComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnScanComplete(context.Context, int, int, time.Duration, error)      {}
func (NoopPipelineHooks) OnPlacement(context.Context, int, int, string, error)               {}
func (NoopPipelineHooks) OnRunComplete(context.Context, string, int, int, time.Duration, error) {}

// NoopDeckHooks is a no-op implementation of DeckHooks.
type NoopDeckHooks struct{}

func (NoopDeckHooks) OnSlideAppended(context.Context, int)                      {}
func (NoopDeckHooks) OnMeasure(context.Context, string, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	deckHooks     DeckHooks     = NoopDeckHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetDeckHooks registers custom deck hooks.
// This should be called once at application startup before any deck operations.
func SetDeckHooks(h DeckHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		deckHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Deck returns the registered deck hooks.
func Deck() DeckHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return deckHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	deckHooks = NoopDeckHooks{}
}
