package observability

import (
	"context"
	"sync"
	"testing"
	"time"
)

type recordingPipelineHooks struct {
	NoopPipelineHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingPipelineHooks) OnValidateStart(_ context.Context, _ int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, "validate_start")
}

func (h *recordingPipelineHooks) OnLayoutComplete(_ context.Context, _, _ int, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, "layout_complete")
}

type recordingCacheHooks struct {
	NoopCacheHooks
	hits int
}

func (h *recordingCacheHooks) OnCacheHit(_ context.Context, _ string) {
	h.hits++
}

func TestDefaultHooksAreNoop(t *testing.T) {
	SetPipelineHooks(nil)
	SetCacheHooks(nil)

	// Must not panic.
	ctx := context.Background()
	Pipeline().OnValidateStart(ctx, 10)
	Pipeline().OnLayoutComplete(ctx, 3, 7, time.Second, nil)
	Cache().OnCacheHit(ctx, "layout")
}

func TestSetPipelineHooks(t *testing.T) {
	h := &recordingPipelineHooks{}
	SetPipelineHooks(h)
	t.Cleanup(func() { SetPipelineHooks(nil) })

	ctx := context.Background()
	Pipeline().OnValidateStart(ctx, 5)
	Pipeline().OnLayoutComplete(ctx, 2, 3, time.Millisecond, nil)

	if len(h.events) != 2 || h.events[0] != "validate_start" || h.events[1] != "layout_complete" {
		t.Errorf("events = %v", h.events)
	}
}

func TestSetCacheHooks(t *testing.T) {
	h := &recordingCacheHooks{}
	SetCacheHooks(h)
	t.Cleanup(func() { SetCacheHooks(nil) })

	Cache().OnCacheHit(context.Background(), "layout")
	if h.hits != 1 {
		t.Errorf("hits = %d, want 1", h.hits)
	}
}

func TestSetNilRestoresNoop(t *testing.T) {
	SetPipelineHooks(&recordingPipelineHooks{})
	SetPipelineHooks(nil)

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Errorf("Pipeline() = %T, want NoopPipelineHooks", Pipeline())
	}
}
