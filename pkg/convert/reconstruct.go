package convert

import (
	"encoding/json"
	"maps"
	"slices"
	"strings"

	"github.com/maxcopeland/openml-go/pkg/errors"
	"github.com/maxcopeland/openml-go/pkg/estimator"
	"github.com/maxcopeland/openml-go/pkg/flow"
)

// FromFlow reconstructs a live value from its portable form. Strings are
// JSON-parsed leniently (a parse failure keeps the string verbatim, so
// doubly-wrapped parameter values flow through transparently). The
// components side-table resolves component references and is consumed
// destructively: each named component can be substituted exactly once per
// reconstruction pass, so a table must not be shared by concurrent calls.
func FromFlow(v any, components map[string]any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil

	case string:
		parsed, ok := decodeJSON(x)
		if !ok {
			return x, nil
		}
		return FromFlow(parsed, components)

	case *flow.Flow:
		return deserializeModel(x, components)

	case estimator.Tuple:
		out, err := fromFlowSlice(x, components)
		if err != nil {
			return nil, err
		}
		return estimator.Tuple(out), nil

	case []any:
		return fromFlowSlice(x, components)

	case map[string]any:
		if kind, ok := x[SerializedObjectKey]; ok {
			return deserializeEnvelope(kind, x["value"], components)
		}
		// A plain dict: reconstruct keys and values, re-sorted by key.
		out := make(map[string]any, len(x))
		for _, k := range slices.Sorted(maps.Keys(x)) {
			rv, err := FromFlow(x[k], components)
			if err != nil {
				return nil, err
			}
			out[k] = rv
		}
		return out, nil
	}

	if isPrimitive(v) {
		return v, nil
	}
	return nil, errors.New(errors.ErrCodeUnsupportedValue, "cannot reconstruct %v (%T)", v, v)
}

func fromFlowSlice(elems []any, components map[string]any) ([]any, error) {
	out := make([]any, len(elems))
	for i, e := range elems {
		rv, err := FromFlow(e, components)
		if err != nil {
			return nil, err
		}
		out[i] = rv
	}
	return out, nil
}

// deserializeEnvelope dispatches a tagged serialized object by its
// discriminator. Identities that cannot be resolved degrade to a logged
// warning and a nil placeholder; everything structural stays a hard error.
func deserializeEnvelope(kind, value any, components map[string]any) (any, error) {
	switch kind {
	case serializedType:
		return deserializeType(value), nil
	case serializedRVFrozen:
		return deserializeRandomVariable(value)
	case serializedFunction:
		return deserializeFunction(value), nil
	case serializedComponentRef:
		return deserializeComponentRef(value, components)
	case serializedCVObject:
		return deserializeCrossValidator(value)
	}
	return nil, errors.New(errors.ErrCodeUnsupportedValue, "cannot reconstruct serialized object %v", kind)
}

func deserializeType(value any) any {
	symbol, ok := value.(string)
	if !ok {
		logger.Warnf("cannot resolve type %v for flow", value)
		return nil
	}
	t, ok := symbolToType[symbol]
	if !ok {
		logger.Warnf("cannot resolve type %q for flow", symbol)
		return nil
	}
	return t
}

func deserializeRandomVariable(value any) (any, error) {
	m, ok := value.(map[string]any)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidFlow, "malformed rv_frozen value %v", value)
	}
	dist, _ := m["dist"].(string)

	ctor, err := estimator.LookupDistribution(dist)
	if err != nil {
		logger.Warnf("cannot create distribution %s for flow", dist)
		return nil, nil
	}

	a := toFloat(m["a"])
	b := toFloat(m["b"])
	args, _ := m["args"].([]any)
	kwds, _ := m["kwds"].(map[string]any)
	return ctor(a, b, args, kwds)
}

func deserializeFunction(value any) any {
	name, ok := value.(string)
	if !ok {
		logger.Warnf("cannot load function %v", value)
		return nil
	}
	fn, err := estimator.LookupFunction(name)
	if err != nil {
		logger.Warnf("cannot load function %s: %v", name, err)
		return nil
	}
	return fn
}

// deserializeComponentRef resolves a reference against the components
// side-table, removing the entry so a named component is consumed exactly
// once. A present step name wraps the component as a (step_name,
// component) pair.
func deserializeComponentRef(value any, components map[string]any) (any, error) {
	ref, ok := value.(map[string]any)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidFlow, "malformed component reference %v", value)
	}
	key, _ := ref["key"].(string)

	if components == nil {
		return nil, errors.New(errors.ErrCodeInvalidFlow,
			"component reference %q cannot resolve without a components table", key)
	}
	entry, ok := components[key]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidFlow, "no component registered under key %q", key)
	}
	component, err := FromFlow(entry, nil)
	if err != nil {
		return nil, err
	}
	// The component is substituted where it is used; it must not also be
	// passed to the enclosing constructor.
	delete(components, key)

	stepName, hasStep := ref["step_name"].(string)
	if !hasStep {
		return component, nil
	}
	return estimator.Tuple{stepName, component}, nil
}

func deserializeCrossValidator(value any) (any, error) {
	m, ok := value.(map[string]any)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidFlow, "malformed cv_object value %v", value)
	}
	name, _ := m["name"].(string)

	ctor, err := estimator.Lookup(name)
	if err != nil {
		logger.Warnf("cannot create cross-validator %s for flow", name)
		return nil, nil
	}

	params := make(map[string]any)
	if raw, ok := m["parameters"].(map[string]any); ok {
		for _, k := range slices.Sorted(maps.Keys(raw)) {
			rv, err := FromFlow(raw[k], nil)
			if err != nil {
				return nil, err
			}
			params[k] = rv
		}
	}
	return ctor(params)
}

// deserializeModel rebuilds an estimator from its flow: dependencies are
// verified first (hard failure), parameters are reconstructed against a
// consumable copy of the flow's own components, leftover components are
// reconstructed afterwards, and the resolved constructor is invoked with
// the assembled keyword arguments.
func deserializeModel(f *flow.Flow, _ map[string]any) (any, error) {
	if err := flow.Check(f.Dependencies); err != nil {
		return nil, err
	}

	// Consumable copy: entries are removed as parameter references use
	// them, leaving the flow's own table untouched.
	remaining := make(map[string]any, f.Components.Len())
	for key, sub := range f.Components.All() {
		remaining[key] = sub
	}

	paramDict := make(map[string]any, f.Parameters.Len())
	for _, name := range f.Parameters.Keys() {
		var value any
		if ptr, _ := f.Parameters.Get(name); ptr != nil {
			value = *ptr
		}
		rv, err := FromFlow(value, remaining)
		if err != nil {
			return nil, err
		}
		paramDict[name] = rv
	}

	// Components referenced only implicitly still become constructor
	// arguments under their own key.
	for _, name := range f.Components.Keys() {
		if _, ok := paramDict[name]; ok {
			continue
		}
		entry, ok := remaining[name]
		if !ok {
			continue
		}
		rv, err := FromFlow(entry, nil)
		if err != nil {
			return nil, err
		}
		paramDict[name] = rv
	}

	ctor, err := estimator.Lookup(f.ClassName)
	if err != nil {
		logger.Warnf("cannot create model %s for flow", f.ClassName)
		return nil, nil
	}
	return ctor(paramDict)
}

// decodeJSON parses s as JSON, preserving integer values via json.Number.
// Returns ok=false when s is not valid JSON.
func decodeJSON(s string) (any, bool) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	// Reject trailing garbage ("3 4" is not one JSON value).
	if _, err := dec.Token(); err == nil {
		return nil, false
	}
	return normalizeNumbers(v), true
}

// normalizeNumbers rewrites json.Number leaves to int64 where the literal
// is integral and float64 otherwise, recursively.
func normalizeNumbers(v any) any {
	switch x := v.(type) {
	case json.Number:
		s := x.String()
		if !strings.ContainsAny(s, ".eE") {
			if i, err := x.Int64(); err == nil {
				return i
			}
		}
		f, _ := x.Float64()
		return f
	case []any:
		for i, e := range x {
			x[i] = normalizeNumbers(e)
		}
		return x
	case map[string]any:
		for k, e := range x {
			x[k] = normalizeNumbers(e)
		}
		return x
	}
	return v
}

func toFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int64:
		return float64(x)
	case int:
		return float64(x)
	case json.Number:
		f, _ := x.Float64()
		return f
	}
	return 0
}
