package observability

import (
	"context"
	"testing"
	"time"
)

type testSynthesisHooks struct {
	starts, completes, prunes int
}

func (h *testSynthesisHooks) OnRunStart(context.Context, int, int) { h.starts++ }
func (h *testSynthesisHooks) OnRunComplete(context.Context, int, time.Duration, error) {
	h.completes++
}
func (h *testSynthesisHooks) OnPrune(context.Context, int, int, bool) { h.prunes++ }

type testCacheHooks struct {
	hits, misses, sets int
}

func (h *testCacheHooks) OnCacheHit(context.Context, string)      { h.hits++ }
func (h *testCacheHooks) OnCacheMiss(context.Context, string)     { h.misses++ }
func (h *testCacheHooks) OnCacheSet(context.Context, string, int) { h.sets++ }

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	s := NoopSynthesisHooks{}
	s.OnRunStart(ctx, 100, 12)
	s.OnRunComplete(ctx, 250, time.Second, nil)
	s.OnPrune(ctx, 3, 7, true)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "synth")
	c.OnCacheMiss(ctx, "render")
	c.OnCacheSet(ctx, "synth", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Synthesis().(NoopSynthesisHooks); !ok {
		t.Error("Synthesis() should return NoopSynthesisHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	customSynth := &testSynthesisHooks{}
	SetSynthesisHooks(customSynth)
	if Synthesis() != customSynth {
		t.Error("SetSynthesisHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	// Nil registrations are ignored
	SetSynthesisHooks(nil)
	if Synthesis() != customSynth {
		t.Error("SetSynthesisHooks(nil) should keep existing hooks")
	}

	// Reset restores defaults
	Reset()
	if _, ok := Synthesis().(NoopSynthesisHooks); !ok {
		t.Error("Reset should restore NoopSynthesisHooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Reset should restore NoopCacheHooks")
	}
}

func TestHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	ctx := context.Background()
	s := &testSynthesisHooks{}
	SetSynthesisHooks(s)

	Synthesis().OnRunStart(ctx, 10, 2)
	Synthesis().OnRunComplete(ctx, 20, time.Millisecond, nil)
	Synthesis().OnPrune(ctx, 1, 0, true)

	if s.starts != 1 || s.completes != 1 || s.prunes != 1 {
		t.Errorf("hook counts = %d/%d/%d, want 1/1/1", s.starts, s.completes, s.prunes)
	}
}
