package registry

import (
	"context"
	"time"

	"github.com/maxcopeland/openml-go/pkg/flow"
	"github.com/maxcopeland/openml-go/pkg/trace"
)

// FlowSummary is the listing view of a stored flow.
type FlowSummary struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	ClassName       string    `json:"class_name"`
	ExternalVersion string    `json:"external_version"`
	UploadedAt      time.Time `json:"uploaded_at"`
}

// Store persists flows and traces.
type Store interface {
	// PutFlow stores a flow and returns its assigned id.
	PutFlow(ctx context.Context, f *flow.Flow) (string, error)

	// GetFlow retrieves a flow by id.
	GetFlow(ctx context.Context, id string) (*flow.Flow, error)

	// ListFlows returns summaries of all stored flows, newest first.
	ListFlows(ctx context.Context) ([]FlowSummary, error)

	// DeleteFlow removes a flow by id.
	DeleteFlow(ctx context.Context, id string) error

	// PutTrace stores a trace under its run id, assigning the next free id
	// when the trace carries none. The effective run id is returned and set
	// on the trace.
	PutTrace(ctx context.Context, t *trace.Trace) (int64, error)

	// GetTrace retrieves a trace by run id.
	GetTrace(ctx context.Context, runID int64) (*trace.Trace, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}
