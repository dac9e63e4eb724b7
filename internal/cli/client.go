package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/maxcopeland/openml-go/pkg/cache"
	"github.com/maxcopeland/openml-go/pkg/errors"
	"github.com/maxcopeland/openml-go/pkg/flow"
	"github.com/maxcopeland/openml-go/pkg/httputil"
	"github.com/maxcopeland/openml-go/pkg/trace"
)

// client talks to a registry server. Pulled documents are cached so
// repeated pulls of the same flow or trace avoid the network.
type client struct {
	base  string
	http  *http.Client
	cache cache.Cache
	ttl   time.Duration
}

func newClient(cfg *Config, c cache.Cache) *client {
	return &client{
		base:  strings.TrimRight(cfg.Server, "/"),
		http:  &http.Client{Timeout: 30 * time.Second},
		cache: c,
		ttl:   time.Duration(cfg.CacheTTL),
	}
}

// PushFlow uploads a flow and returns its assigned id.
func (c *client) PushFlow(ctx context.Context, f *flow.Flow) (string, error) {
	var buf bytes.Buffer
	if err := flow.WriteJSON(f, &buf); err != nil {
		return "", err
	}
	body, err := c.post(ctx, "/flows/", "application/json", &buf)
	if err != nil {
		return "", err
	}
	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return resp.ID, nil
}

// PullFlow downloads a flow by id, serving it from cache when possible.
// The second return reports a cache hit.
func (c *client) PullFlow(ctx context.Context, id string) (*flow.Flow, bool, error) {
	key := cache.FlowKey(id)
	if data, ok, _ := c.cache.Get(ctx, key); ok {
		f, err := flow.ReadJSON(bytes.NewReader(data))
		if err == nil {
			return f, true, nil
		}
		_ = c.cache.Delete(ctx, key)
	}

	body, err := c.get(ctx, "/flows/"+id)
	if err != nil {
		return nil, false, err
	}
	f, err := flow.ReadJSON(bytes.NewReader(body))
	if err != nil {
		return nil, false, err
	}
	_ = c.cache.Set(ctx, key, body, c.ttl)
	return f, false, nil
}

// PushTrace uploads a trace and returns the assigned run id. Traces
// without a run id travel in tabular form so the server assigns one.
func (c *client) PushTrace(ctx context.Context, t *trace.Trace) (int64, error) {
	var buf bytes.Buffer
	contentType := "application/xml"
	if t.RunID == nil {
		contentType = "text/plain"
		if err := trace.WriteARFF(t, &buf); err != nil {
			return 0, err
		}
	} else if err := trace.WriteXML(t, &buf); err != nil {
		return 0, err
	}
	body, err := c.post(ctx, "/traces/", contentType, &buf)
	if err != nil {
		return 0, err
	}
	var resp struct {
		RunID int64 `json:"run_id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}
	return resp.RunID, nil
}

// PullTrace downloads a trace by run id, serving it from cache when
// possible.
func (c *client) PullTrace(ctx context.Context, runID int64) (*trace.Trace, bool, error) {
	key := cache.TraceKey(runID)
	if data, ok, _ := c.cache.Get(ctx, key); ok {
		t, err := trace.ReadXML(bytes.NewReader(data))
		if err == nil {
			return t, true, nil
		}
		_ = c.cache.Delete(ctx, key)
	}

	body, err := c.get(ctx, fmt.Sprintf("/traces/%d", runID))
	if err != nil {
		return nil, false, err
	}
	t, err := trace.ReadXML(bytes.NewReader(body))
	if err != nil {
		return nil, false, err
	}
	_ = c.cache.Set(ctx, key, body, c.ttl)
	return t, false, nil
}

func (c *client) post(ctx context.Context, path, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	return c.do(req)
}

// get retries transient failures since registry reads are idempotent.
func (c *client) get(ctx context.Context, path string) ([]byte, error) {
	var body []byte
	err := httputil.Retry(ctx, 3, time.Second, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
		if err != nil {
			return err
		}
		body, err = c.do(req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (c *client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &httputil.Transient{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		var msg struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &msg) == nil && msg.Error != "" {
			if resp.StatusCode == http.StatusNotFound {
				return nil, errors.New(errors.ErrCodeNotFound, "%s", msg.Error)
			}
			return nil, fmt.Errorf("server: %s", msg.Error)
		}
		if resp.StatusCode >= 500 {
			return nil, &httputil.Transient{Err: fmt.Errorf("server returned %s", resp.Status)}
		}
		return nil, fmt.Errorf("server returned %s", resp.Status)
	}
	return body, nil
}
