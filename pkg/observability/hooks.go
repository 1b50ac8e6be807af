// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about generation runs, effect application, and cache
// operations.
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
//	    observability.SetGenerationHooks(&myGenerationHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Generation().OnImageStart(ctx, runID, number)
//	// ... render and augment ...
//	observability.Generation().OnImageComplete(ctx, runID, number, effects, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Generation Hooks
// =============================================================================

// GenerationHooks receives events from generation runs.
type GenerationHooks interface {
	// Run events
	OnRunStart(ctx context.Context, runID string, count int)
	OnRunComplete(ctx context.Context, runID string, generated, failed int, duration time.Duration)

	// Per-image events
	OnImageStart(ctx context.Context, runID, number string)
	OnImageComplete(ctx context.Context, runID, number string, effects []string, duration time.Duration, err error)
}

// =============================================================================
// Effect Hooks
// =============================================================================

// EffectHooks receives events from effect application.
type EffectHooks interface {
	// OnEffectApplied records one applied effect and its sampled intensity.
	OnEffectApplied(ctx context.Context, name string, intensity float64, duration time.Duration)

	// OnEffectSkipped records an effect that lost its probability gate.
	OnEffectSkipped(ctx context.Context, name string)

	// OnEffectError records an effect that failed and was dropped.
	OnEffectError(ctx context.Context, name string, err error)
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

// NoopGenerationHooks is a no-op implementation of GenerationHooks.
type NoopGenerationHooks struct{}

func (NoopGenerationHooks) OnRunStart(context.Context, string, int)                          {}
func (NoopGenerationHooks) OnRunComplete(context.Context, string, int, int, time.Duration)   {}
func (NoopGenerationHooks) OnImageStart(context.Context, string, string)                     {}
func (NoopGenerationHooks) OnImageComplete(context.Context, string, string, []string, time.Duration, error) {
}

// NoopEffectHooks is a no-op implementation of EffectHooks.
type NoopEffectHooks struct{}

func (NoopEffectHooks) OnEffectApplied(context.Context, string, float64, time.Duration) {}
func (NoopEffectHooks) OnEffectSkipped(context.Context, string)                         {}
func (NoopEffectHooks) OnEffectError(context.Context, string, error)                    {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	generationHooks GenerationHooks = NoopGenerationHooks{}
	effectHooks     EffectHooks     = NoopEffectHooks{}
	cacheHooks      CacheHooks      = NoopCacheHooks{}
	hooksMu         sync.RWMutex
)

// SetGenerationHooks registers custom generation hooks.
// This should be called once at application startup before any runs.
func SetGenerationHooks(h GenerationHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		generationHooks = h
	}
}

// SetEffectHooks registers custom effect hooks.
// This should be called once at application startup before any runs.
func SetEffectHooks(h EffectHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		effectHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Generation returns the registered generation hooks.
func Generation() GenerationHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return generationHooks
}

// Effect returns the registered effect hooks.
func Effect() EffectHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return effectHooks
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
	generationHooks = NoopGenerationHooks{}
	effectHooks = NoopEffectHooks{}
	cacheHooks = NoopCacheHooks{}
}
