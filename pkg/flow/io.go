package flow

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// WriteJSON encodes a flow as JSON and writes it to w. Parameter and
// component tables keep their insertion order, so the output is stable for
// repeated serialization of the same flow. The format round-trips through
// [ReadJSON].
func WriteJSON(f *Flow, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes a flow from JSON.
func ReadJSON(r io.Reader) (*Flow, error) {
	f := New()
	dec := json.NewDecoder(r)
	if err := dec.Decode(f); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return f, nil
}

// ExportJSON writes a flow to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(f *Flow, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer out.Close()
	return WriteJSON(f, out)
}

// ImportJSON reads a flow from a JSON file at path.
func ImportJSON(path string) (*Flow, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer in.Close()
	return ReadJSON(in)
}
