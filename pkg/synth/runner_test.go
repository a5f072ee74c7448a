package synth

import (
	"bytes"
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/hausweber/heatnet/pkg/cache"
)

func TestRunnerDefaults(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	if r.Cache == nil {
		t.Error("nil cache should default to NullCache")
	}
	if r.Keyer == nil {
		t.Error("nil keyer should default to DefaultKeyer")
	}
	if r.Logger == nil {
		t.Error("nil logger should default to the package logger")
	}
	if _, ok := r.Cache.(*cache.NullCache); !ok {
		t.Errorf("default cache = %T, want *cache.NullCache", r.Cache)
	}
}

func TestRunnerCachesResults(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := NewRunner(fc, nil, nil)
	defer r.Close()

	ctx := context.Background()
	g := singleEdgeGraph(t)
	buildings := []Terminal{building("b1", 5, 0)}

	first, err := r.Execute(ctx, g, buildings, nil, Options{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if first.Cached {
		t.Error("first run should not be served from cache")
	}
	if first.InputHash == "" {
		t.Error("input hash should be set")
	}

	second, err := r.Execute(ctx, g, buildings, nil, Options{})
	if err != nil {
		t.Fatalf("Execute (cached): %v", err)
	}
	if !second.Cached {
		t.Error("second run should be served from cache")
	}
	if second.InputHash != first.InputHash {
		t.Errorf("input hash changed: %s vs %s", second.InputHash, first.InputHash)
	}
	if !reflect.DeepEqual(second.Supply, first.Supply) {
		t.Errorf("cached supply = %v, want %v", second.Supply, first.Supply)
	}
	if !reflect.DeepEqual(second.Connections, first.Connections) {
		t.Errorf("cached connections = %v, want %v", second.Connections, first.Connections)
	}
}

func TestRunnerParameterChangeMisses(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := NewRunner(fc, nil, nil)
	defer r.Close()

	ctx := context.Background()
	g := singleEdgeGraph(t)
	buildings := []Terminal{building("b1", 0.3, 1)}

	if _, err := r.Execute(ctx, g, buildings, nil, Options{NodeThreshold: 0.1}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	res, err := r.Execute(ctx, g, buildings, nil, Options{NodeThreshold: 0.5})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Cached {
		t.Error("different node threshold must not hit the cache")
	}
}

func TestRunnerInputChangeMisses(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := NewRunner(fc, nil, nil)
	defer r.Close()

	ctx := context.Background()
	g := singleEdgeGraph(t)

	first, err := r.Execute(ctx, g, []Terminal{building("b1", 5, 0)}, nil, Options{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	second, err := r.Execute(ctx, g, []Terminal{building("b1", 6, 0)}, nil, Options{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if second.Cached {
		t.Error("moved terminal must not hit the cache")
	}
	if second.InputHash == first.InputHash {
		t.Error("moved terminal must change the input hash")
	}
}

func TestRunnerLoggerReachesPipeline(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	r := NewRunner(nil, nil, logger)

	g := singleEdgeGraph(t)
	if _, err := r.Execute(context.Background(), g, []Terminal{building("b1", 5, 0)}, nil, Options{}); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	out := buf.String()
	for _, msg := range []string{"built steiner subtree", "synthesized network"} {
		if !strings.Contains(out, msg) {
			t.Errorf("pipeline log %q did not reach the runner logger, got:\n%s", msg, out)
		}
	}
}

func TestRunnerPropagatesErrors(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()

	if _, err := r.Execute(ctx, singleEdgeGraph(t), nil, nil, Options{}); err == nil {
		t.Error("expected error for empty terminal set")
	}
	if _, err := r.Execute(ctx, singleEdgeGraph(t), []Terminal{building("b1", 5, 0)}, nil,
		Options{MaxPruneIterations: -1}); err == nil {
		t.Error("expected error for invalid options")
	}
}
