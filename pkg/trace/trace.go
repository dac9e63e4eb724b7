package trace

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/maxcopeland/openml-go/pkg/errors"
)

// parameterPrefix marks setup-string keys that carry hyperparameter values.
const parameterPrefix = "parameter_"

// Key addresses one evaluated setting within a trace.
type Key struct {
	Repeat    int
	Fold      int
	Iteration int
}

// Iteration is one evaluated parameter setting. SetupString holds the
// JSON-encoded parameter dictionary of the setting; nil means the producer
// recorded no setup information.
type Iteration struct {
	Repeat      int
	Fold        int
	Iteration   int
	SetupString *string
	Evaluation  float64
	Selected    bool
}

// Key returns the (repeat, fold, iteration) address of the entry.
func (it *Iteration) Key() Key {
	return Key{Repeat: it.Repeat, Fold: it.Fold, Iteration: it.Iteration}
}

// Parameters decodes the setup string into a parameter map, stripping the
// "parameter_" key prefix. Values are JSON-encoded a second time by some
// producers, so string values that parse as JSON are decoded once more;
// anything else passes through verbatim. An absent setup string yields an
// empty map.
func (it *Iteration) Parameters() (map[string]any, error) {
	if it.SetupString == nil {
		return map[string]any{}, nil
	}
	var raw map[string]any
	if err := json.Unmarshal([]byte(*it.SetupString), &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedTrace, err,
			"setup string of iteration (%d, %d, %d) is not a JSON object", it.Repeat, it.Fold, it.Iteration)
	}
	params := make(map[string]any, len(raw))
	for k, v := range raw {
		name := strings.TrimPrefix(k, parameterPrefix)
		if s, ok := v.(string); ok {
			var decoded any
			if err := json.Unmarshal([]byte(s), &decoded); err == nil {
				params[name] = decoded
				continue
			}
		}
		params[name] = v
	}
	return params, nil
}

// String returns a short debug representation.
func (it *Iteration) String() string {
	return fmt.Sprintf("[(%d,%d,%d)]: %.6f (selected=%t)",
		it.Repeat, it.Fold, it.Iteration, it.Evaluation, it.Selected)
}

// Trace is the ordered collection of evaluated settings of one run.
// Entries keep insertion order; re-adding an existing (repeat, fold,
// iteration) triple replaces the entry in place.
type Trace struct {
	// RunID links the trace to its run. nil for traces that have not been
	// uploaded yet.
	RunID *int64

	keys    []Key
	entries map[Key]*Iteration
}

// New creates an empty trace.
func New() *Trace {
	return &Trace{entries: make(map[Key]*Iteration)}
}

// Add inserts or replaces an entry. A replaced entry keeps its original
// position.
func (t *Trace) Add(it Iteration) {
	k := it.Key()
	if _, ok := t.entries[k]; !ok {
		t.keys = append(t.keys, k)
	}
	t.entries[k] = &it
}

// Get returns the entry stored under the given triple.
func (t *Trace) Get(repeat, fold, iteration int) (*Iteration, bool) {
	it, ok := t.entries[Key{Repeat: repeat, Fold: fold, Iteration: iteration}]
	return it, ok
}

// Len returns the number of entries.
func (t *Trace) Len() int {
	return len(t.keys)
}

// Iterations returns the entries in insertion order.
func (t *Trace) Iterations() []*Iteration {
	out := make([]*Iteration, len(t.keys))
	for i, k := range t.keys {
		out[i] = t.entries[k]
	}
	return out
}

// SelectedIteration returns the iteration number of the entry marked
// selected for the given fold and repeat. Scanning follows insertion
// order; missing a selected entry for the group is an error.
func (t *Trace) SelectedIteration(fold, repeat int) (int, error) {
	for _, k := range t.keys {
		it := t.entries[k]
		if it.Repeat == repeat && it.Fold == fold && it.Selected {
			return it.Iteration, nil
		}
	}
	return 0, errors.New(errors.ErrCodeNoSelection,
		"no selected iteration for repeat %d, fold %d", repeat, fold)
}

// String returns a short debug representation.
func (t *Trace) String() string {
	id := "unset"
	if t.RunID != nil {
		id = fmt.Sprintf("%d", *t.RunID)
	}
	return fmt.Sprintf("Trace[run %s, %d iterations]", id, t.Len())
}
