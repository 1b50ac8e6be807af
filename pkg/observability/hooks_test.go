package observability

import (
	"context"
	"sync"
	"testing"
	"time"
)

type countingGenerationHooks struct {
	mu       sync.Mutex
	starts   int
	images   int
	complete int
}

func (h *countingGenerationHooks) OnRunStart(ctx context.Context, runID string, count int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.starts++
}

func (h *countingGenerationHooks) OnRunComplete(ctx context.Context, runID string, generated, failed int, d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.complete++
}

func (h *countingGenerationHooks) OnImageStart(ctx context.Context, runID, number string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.images++
}

func (h *countingGenerationHooks) OnImageComplete(ctx context.Context, runID, number string, effects []string, d time.Duration, err error) {
}

type countingCacheHooks struct {
	mu     sync.Mutex
	hits   int
	misses int
	sets   int
}

func (h *countingCacheHooks) OnCacheHit(ctx context.Context, keyType string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hits++
}

func (h *countingCacheHooks) OnCacheMiss(ctx context.Context, keyType string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.misses++
}

func (h *countingCacheHooks) OnCacheSet(ctx context.Context, keyType string, size int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sets++
}

func TestDefaultHooksAreNoop(t *testing.T) {
	Reset()
	ctx := context.Background()

	// Should not panic
	Generation().OnRunStart(ctx, "run", 10)
	Generation().OnImageComplete(ctx, "run", "京A12345", nil, time.Second, nil)
	Effect().OnEffectApplied(ctx, "fade_effect", 0.3, time.Millisecond)
	Effect().OnEffectError(ctx, "wear_effect", nil)
	Cache().OnCacheHit(ctx, "plate")
}

func TestSetAndResetHooks(t *testing.T) {
	Reset()
	defer Reset()

	gen := &countingGenerationHooks{}
	cache := &countingCacheHooks{}
	SetGenerationHooks(gen)
	SetCacheHooks(cache)

	ctx := context.Background()
	Generation().OnRunStart(ctx, "run", 5)
	Generation().OnImageStart(ctx, "run", "京A12345")
	Generation().OnImageStart(ctx, "run", "沪B23456")
	Cache().OnCacheMiss(ctx, "plate")
	Cache().OnCacheSet(ctx, "plate", 1024)
	Cache().OnCacheHit(ctx, "plate")

	if gen.starts != 1 || gen.images != 2 {
		t.Errorf("generation hooks not invoked: starts=%d images=%d", gen.starts, gen.images)
	}
	if cache.hits != 1 || cache.misses != 1 || cache.sets != 1 {
		t.Errorf("cache hooks not invoked: %+v", cache)
	}

	Reset()
	Generation().OnRunStart(ctx, "run", 5)
	if gen.starts != 1 {
		t.Error("Reset should restore no-op hooks")
	}
}

func TestSetNilHooksIgnored(t *testing.T) {
	Reset()
	defer Reset()

	gen := &countingGenerationHooks{}
	SetGenerationHooks(gen)
	SetGenerationHooks(nil)

	Generation().OnRunStart(context.Background(), "run", 1)
	if gen.starts != 1 {
		t.Error("nil registration should keep the previous hooks")
	}
}
