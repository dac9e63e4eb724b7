package convert

import (
	"reflect"

	"github.com/maxcopeland/openml-go/pkg/flow"
)

// SerializedObjectKey is the discriminator key marking a dictionary as a
// serialized special object. The literal is fixed by the platform's stored
// flow format.
const SerializedObjectKey = "oml-python:serialized_object"

// Envelope discriminators.
const (
	serializedType         = "type"
	serializedRVFrozen     = "rv_frozen"
	serializedFunction     = "function"
	serializedComponentRef = "component_reference"
	serializedCVObject     = "cv_object"
)

// envelope is the tagged wrapper for values that have no plain JSON form.
// Field order matches the platform format: discriminator first.
type envelope struct {
	Kind  string `json:"oml-python:serialized_object"`
	Value any    `json:"value"`
}

// componentRef points a parameter at an entry of the components side-table.
// A non-nil StepName means the resolved component is wrapped as a
// (step_name, component) pair during reconstruction.
type componentRef struct {
	Key      string  `json:"key"`
	StepName *string `json:"step_name"`
}

// rvFrozen is the decomposed form of a frozen random variable.
type rvFrozen struct {
	Dist string         `json:"dist"`
	A    float64        `json:"a"`
	B    float64        `json:"b"`
	Args []any          `json:"args"`
	Kwds map[string]any `json:"kwds"`
}

// cvObject is the decomposed form of a cross-validator: class identity plus
// its JSON-encoded constructor parameters (nil marks empty collections).
type cvObject struct {
	Name       string                    `json:"name"`
	Parameters *flow.OrderedMap[*string] `json:"parameters"`
}

// typeToSymbol whitelists the numeric types a flow may store as a bare
// type parameter. The symbolic strings are the platform's; unknown types
// are a classification hard failure, by lookup table rather than general
// reflection.
var typeToSymbol = map[reflect.Type]string{
	reflect.TypeOf(float64(0)): "np.float64",
	reflect.TypeOf(float32(0)): "np.float32",
	reflect.TypeOf(int(0)):     "int",
	reflect.TypeOf(int32(0)):   "np.int32",
	reflect.TypeOf(int64(0)):   "np.int64",
}

// symbolToType is the inverse table. It additionally accepts the aliases
// the platform may have stored from other producers.
var symbolToType = map[string]reflect.Type{
	"float":      reflect.TypeOf(float64(0)),
	"np.float":   reflect.TypeOf(float64(0)),
	"np.float32": reflect.TypeOf(float32(0)),
	"np.float64": reflect.TypeOf(float64(0)),
	"int":        reflect.TypeOf(int(0)),
	"np.int":     reflect.TypeOf(int(0)),
	"np.int32":   reflect.TypeOf(int32(0)),
	"np.int64":   reflect.TypeOf(int64(0)),
}
