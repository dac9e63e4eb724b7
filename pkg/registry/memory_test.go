package registry

import (
	"context"
	"testing"

	"github.com/maxcopeland/openml-go/pkg/errors"
	"github.com/maxcopeland/openml-go/pkg/flow"
	"github.com/maxcopeland/openml-go/pkg/trace"
)

func sampleFlow() *flow.Flow {
	f := flow.New()
	f.Name = "sklearn.tree.DecisionTreeClassifier"
	f.ClassName = "sklearn.tree.DecisionTreeClassifier"
	f.ExternalVersion = "sklearn==0.21.2"
	criterion := `"gini"`
	f.Parameters.Set("criterion", &criterion)
	return f
}

func sampleTrace() *trace.Trace {
	t := trace.New()
	t.Add(trace.Iteration{Repeat: 0, Fold: 0, Iteration: 0, Evaluation: 0.9, Selected: true})
	return t
}

func TestMemoryStoreFlows(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	id, err := s.PutFlow(ctx, sampleFlow())
	if err != nil {
		t.Fatalf("PutFlow() error = %v", err)
	}
	if id == "" {
		t.Fatal("PutFlow() returned an empty id")
	}

	got, err := s.GetFlow(ctx, id)
	if err != nil {
		t.Fatalf("GetFlow() error = %v", err)
	}
	if got.Name != "sklearn.tree.DecisionTreeClassifier" {
		t.Errorf("Name = %q", got.Name)
	}
	if ptr, _ := got.Parameters.Get("criterion"); ptr == nil || *ptr != `"gini"` {
		t.Errorf("criterion parameter did not round-trip")
	}

	summaries, err := s.ListFlows(ctx)
	if err != nil {
		t.Fatalf("ListFlows() error = %v", err)
	}
	if len(summaries) != 1 || summaries[0].ID != id {
		t.Errorf("ListFlows() = %v, want one entry with id %s", summaries, id)
	}

	if err := s.DeleteFlow(ctx, id); err != nil {
		t.Fatalf("DeleteFlow() error = %v", err)
	}
	if _, err := s.GetFlow(ctx, id); errors.GetCode(err) != errors.ErrCodeNotFound {
		t.Errorf("GetFlow() after delete error = %v, want code %s", err, errors.ErrCodeNotFound)
	}
	if err := s.DeleteFlow(ctx, id); errors.GetCode(err) != errors.ErrCodeNotFound {
		t.Errorf("DeleteFlow() second call error = %v, want code %s", err, errors.ErrCodeNotFound)
	}
}

func TestMemoryStoreTraces(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	tr := sampleTrace()
	id, err := s.PutTrace(ctx, tr)
	if err != nil {
		t.Fatalf("PutTrace() error = %v", err)
	}
	if id != 1 {
		t.Errorf("assigned run id = %d, want 1", id)
	}
	if tr.RunID == nil || *tr.RunID != id {
		t.Error("PutTrace() did not set the run id on the trace")
	}

	got, err := s.GetTrace(ctx, id)
	if err != nil {
		t.Fatalf("GetTrace() error = %v", err)
	}
	if got.Len() != 1 {
		t.Errorf("Len() = %d, want 1", got.Len())
	}

	// A second anonymous trace gets the next id.
	id2, err := s.PutTrace(ctx, sampleTrace())
	if err != nil {
		t.Fatalf("PutTrace() error = %v", err)
	}
	if id2 != 2 {
		t.Errorf("assigned run id = %d, want 2", id2)
	}

	if _, err := s.GetTrace(ctx, 99); errors.GetCode(err) != errors.ErrCodeNotFound {
		t.Errorf("GetTrace(99) error = %v, want code %s", err, errors.ErrCodeNotFound)
	}
}
