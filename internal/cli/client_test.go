package cli

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/maxcopeland/openml-go/internal/server"
	"github.com/maxcopeland/openml-go/pkg/cache"
	"github.com/maxcopeland/openml-go/pkg/errors"
	"github.com/maxcopeland/openml-go/pkg/registry"
	"github.com/maxcopeland/openml-go/pkg/trace"
)

func newTestClient(t *testing.T, c cache.Cache) *client {
	t.Helper()
	srv := httptest.NewServer(server.New(registry.NewMemoryStore(), nil).Handler())
	t.Cleanup(srv.Close)
	cfg := defaultConfig()
	cfg.Server = srv.URL
	return newClient(cfg, c)
}

func TestClientFlowPushPull(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	cl := newTestClient(t, fc)
	ctx := context.Background()

	id, err := cl.PushFlow(ctx, validFlow())
	if err != nil {
		t.Fatalf("PushFlow() error = %v", err)
	}
	if id == "" {
		t.Fatal("PushFlow() returned an empty id")
	}

	got, cached, err := cl.PullFlow(ctx, id)
	if err != nil {
		t.Fatalf("PullFlow() error = %v", err)
	}
	if cached {
		t.Error("first pull should not be cached")
	}
	if got.ClassName != "sklearn.pipeline.Pipeline" {
		t.Errorf("ClassName = %q", got.ClassName)
	}

	_, cached, err = cl.PullFlow(ctx, id)
	if err != nil {
		t.Fatalf("second PullFlow() error = %v", err)
	}
	if !cached {
		t.Error("second pull should be served from cache")
	}
}

func TestClientPullFlowNotFound(t *testing.T) {
	cl := newTestClient(t, cache.NewNullCache())
	_, _, err := cl.PullFlow(context.Background(), "missing")
	if errors.GetCode(err) != errors.ErrCodeNotFound {
		t.Fatalf("PullFlow() error = %v, want code %s", err, errors.ErrCodeNotFound)
	}
}

func TestClientTracePushPull(t *testing.T) {
	cl := newTestClient(t, cache.NewNullCache())
	ctx := context.Background()

	tr := trace.New()
	setup := `{"parameter_C":1}`
	tr.Add(trace.Iteration{Repeat: 0, Fold: 0, Iteration: 0, SetupString: &setup, Evaluation: 0.9, Selected: true})

	runID, err := cl.PushTrace(ctx, tr)
	if err != nil {
		t.Fatalf("PushTrace() error = %v", err)
	}
	if runID != 1 {
		t.Errorf("run id = %d, want 1", runID)
	}

	got, _, err := cl.PullTrace(ctx, runID)
	if err != nil {
		t.Fatalf("PullTrace() error = %v", err)
	}
	if got.RunID == nil || *got.RunID != runID {
		t.Errorf("RunID = %v, want %d", got.RunID, runID)
	}
	if got.Len() != 1 {
		t.Errorf("Len() = %d, want 1", got.Len())
	}
	if _, err := got.SelectedIteration(0, 0); err != nil {
		t.Errorf("SelectedIteration() error = %v", err)
	}
}

func TestClientPullTraceCaching(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	cl := newTestClient(t, fc)
	cl.ttl = time.Minute
	ctx := context.Background()

	tr := trace.New()
	tr.Add(trace.Iteration{Repeat: 0, Fold: 0, Iteration: 0, Evaluation: 0.5, Selected: true})
	runID, err := cl.PushTrace(ctx, tr)
	if err != nil {
		t.Fatalf("PushTrace() error = %v", err)
	}

	if _, cached, _ := cl.PullTrace(ctx, runID); cached {
		t.Error("first pull should not be cached")
	}
	if _, cached, _ := cl.PullTrace(ctx, runID); !cached {
		t.Error("second pull should be served from cache")
	}
}
