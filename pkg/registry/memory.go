package registry

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/maxcopeland/openml-go/pkg/errors"
	"github.com/maxcopeland/openml-go/pkg/flow"
	"github.com/maxcopeland/openml-go/pkg/trace"
)

type storedFlow struct {
	summary  FlowSummary
	document []byte
}

// MemoryStore keeps everything in process memory. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	flows   map[string]storedFlow
	traces  map[int64][]byte
	nextRun int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		flows:  make(map[string]storedFlow),
		traces: make(map[int64][]byte),
	}
}

// PutFlow stores the JSON form of the flow under a fresh UUID.
func (s *MemoryStore) PutFlow(ctx context.Context, f *flow.Flow) (string, error) {
	var buf bytes.Buffer
	if err := flow.WriteJSON(f, &buf); err != nil {
		return "", err
	}

	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flows[id] = storedFlow{
		summary: FlowSummary{
			ID:              id,
			Name:            f.Name,
			ClassName:       f.ClassName,
			ExternalVersion: f.ExternalVersion,
			UploadedAt:      time.Now().UTC(),
		},
		document: buf.Bytes(),
	}
	return id, nil
}

// GetFlow retrieves a flow by id.
func (s *MemoryStore) GetFlow(ctx context.Context, id string) (*flow.Flow, error) {
	s.mu.RLock()
	stored, ok := s.flows[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "no flow with id %q", id)
	}
	return flow.ReadJSON(bytes.NewReader(stored.document))
}

// ListFlows returns summaries, newest first.
func (s *MemoryStore) ListFlows(ctx context.Context) ([]FlowSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]FlowSummary, 0, len(s.flows))
	for _, stored := range s.flows {
		out = append(out, stored.summary)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UploadedAt.After(out[j].UploadedAt)
	})
	return out, nil
}

// DeleteFlow removes a flow by id.
func (s *MemoryStore) DeleteFlow(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.flows[id]; !ok {
		return errors.New(errors.ErrCodeNotFound, "no flow with id %q", id)
	}
	delete(s.flows, id)
	return nil
}

// PutTrace stores the document form of the trace under its run id.
func (s *MemoryStore) PutTrace(ctx context.Context, t *trace.Trace) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.RunID == nil {
		s.nextRun++
		id := s.nextRun
		t.RunID = &id
	} else if *t.RunID > s.nextRun {
		s.nextRun = *t.RunID
	}

	var buf bytes.Buffer
	if err := trace.WriteXML(t, &buf); err != nil {
		return 0, err
	}
	s.traces[*t.RunID] = buf.Bytes()
	return *t.RunID, nil
}

// GetTrace retrieves a trace by run id.
func (s *MemoryStore) GetTrace(ctx context.Context, runID int64) (*trace.Trace, error) {
	s.mu.RLock()
	document, ok := s.traces[runID]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "no trace for run %d", runID)
	}
	return trace.ReadXML(bytes.NewReader(document))
}

// Close does nothing for the in-memory store.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
