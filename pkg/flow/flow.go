package flow

import (
	"fmt"
)

// DefaultLanguage tags flows produced by this library.
const DefaultLanguage = "English"

// MetaInfo is the per-parameter metadata pair stored alongside a flow's
// parameters. Both fields are currently always nil; the platform schema
// reserves them for server-side enrichment.
type MetaInfo struct {
	Description *string `json:"description"`
	DataType    *string `json:"data_type"`
}

// Flow is a named, versioned description of a configured component.
//
// Parameters map parameter names to JSON-encoded value strings; a nil entry
// is the explicit absent-value marker used for empty collections.
// Components map locally-unique keys to nested sub-flows. Both tables keep
// insertion order so serialization is deterministic.
type Flow struct {
	// Name combines the class identity with the derived names of all
	// sub-components: "Class(sub1,key=sub2)". No two components reachable
	// from the same flow may share a derived name.
	Name string `json:"name"`

	// ClassName is the fully-qualified identity used to re-resolve the
	// constructor at reconstruction time.
	ClassName string `json:"class_name"`

	Description string `json:"description"`

	Parameters     *OrderedMap[*string]  `json:"parameters"`
	ParametersMeta *OrderedMap[MetaInfo] `json:"parameters_meta_info"`
	Components     *OrderedMap[*Flow]    `json:"components"`

	// ExternalVersion is the sorted, de-duplicated, comma-joined set of
	// "package==version" strings covering this flow and every nested
	// component.
	ExternalVersion string `json:"external_version"`

	Tags     []string `json:"tags"`
	Language string   `json:"language"`

	// Dependencies is a newline-joined list of constraint strings
	// ("name==1.2.3") checked before reconstruction.
	Dependencies string `json:"dependencies"`

	// Model is the live object this flow was derived from, if any.
	// It never crosses a serialization boundary.
	Model any `json:"-"`
}

// New creates an empty flow with initialized tables.
func New() *Flow {
	return &Flow{
		Parameters:     NewOrderedMap[*string](),
		ParametersMeta: NewOrderedMap[MetaInfo](),
		Components:     NewOrderedMap[*Flow](),
		Tags:           []string{},
		Language:       DefaultLanguage,
	}
}

// String returns a short debug representation.
func (f *Flow) String() string {
	return fmt.Sprintf("Flow[%s, %d parameters, %d components]",
		f.Name, f.Parameters.Len(), f.Components.Len())
}
