// Package observability provides hooks for progress reporting and metrics.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks at
// startup to receive events about conversion runs and cache operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, never by libraries, which keeps library
// packages free of backend imports.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetConvertHooks(&progressHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Convert().OnDomainStart(ctx, "nodes", "ranks", total)
//	// ... emit records ...
//	observability.Convert().OnDomainComplete(ctx, "nodes", "ranks", written, elapsed, err)
//
// Conversion hooks are called from the single conversion goroutine.
// Implementations that forward events elsewhere must not block for long.
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Convert Hooks
// =============================================================================

// ConvertHooks receives events from a graph conversion. Phase is "nodes" or
// "edges"; domain names a source record set such as "taxonomic units".
type ConvertHooks interface {
	// Phase events
	OnPhaseStart(ctx context.Context, phase string)
	OnPhaseComplete(ctx context.Context, phase string, count int64, duration time.Duration, err error)

	// Domain events. Total is the domain's record count, or -1 when unknown.
	OnDomainStart(ctx context.Context, phase, domain string, total int64)
	OnDomainProgress(ctx context.Context, phase, domain string, done int64)
	OnDomainComplete(ctx context.Context, phase, domain string, count int64, duration time.Duration, err error)
}

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from a conversion run as a whole.
type PipelineHooks interface {
	// OnRunStart records the start of a run over a source file.
	OnRunStart(ctx context.Context, source string)

	// OnRunComplete records the end of a run and where output was committed.
	OnRunComplete(ctx context.Context, source, output string, duration time.Duration, err error)

	// OnExport records a derived artifact such as DOT text.
	OnExport(ctx context.Context, format, output string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopConvertHooks is a no-op implementation of ConvertHooks.
type NoopConvertHooks struct{}

func (NoopConvertHooks) OnPhaseStart(context.Context, string)                                 {}
func (NoopConvertHooks) OnPhaseComplete(context.Context, string, int64, time.Duration, error) {}
func (NoopConvertHooks) OnDomainStart(context.Context, string, string, int64)                 {}
func (NoopConvertHooks) OnDomainProgress(context.Context, string, string, int64)              {}
func (NoopConvertHooks) OnDomainComplete(context.Context, string, string, int64, time.Duration, error) {
}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnRunStart(context.Context, string)                                  {}
func (NoopPipelineHooks) OnRunComplete(context.Context, string, string, time.Duration, error) {}
func (NoopPipelineHooks) OnExport(context.Context, string, string, time.Duration, error)      {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	convertHooks  ConvertHooks  = NoopConvertHooks{}
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	hooksMu       sync.RWMutex
)

// SetConvertHooks registers custom conversion hooks.
// This should be called once at application startup before any conversion.
func SetConvertHooks(h ConvertHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		convertHooks = h
	}
}

// SetPipelineHooks registers custom pipeline hooks.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Convert returns the registered conversion hooks.
func Convert() ConvertHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return convertHooks
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	convertHooks = NoopConvertHooks{}
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
}
