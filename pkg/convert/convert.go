package convert

import (
	"encoding/json"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/maxcopeland/openml-go/pkg/errors"
	"github.com/maxcopeland/openml-go/pkg/estimator"
	"github.com/maxcopeland/openml-go/pkg/flow"
)

// baselineDependencies are the constraints every produced flow declares in
// addition to the defining toolkit's own pinned version.
var baselineDependencies = []string{"numpy>=1.6.1", "scipy>=0.9"}

// logger receives degraded-resolution warnings during reconstruction.
var logger = log.Default()

// SetLogger replaces the warning logger. Passing nil restores the default.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.Default()
	}
	logger = l
}

// ToFlow converts a value into its portable form. Estimators become
// [flow.Flow] trees; lists, dicts, and special objects become the
// corresponding recursive representations; primitives pass through.
// Applying ToFlow to an already-converted flow is the identity.
func ToFlow(v any) (any, error) {
	return toFlow(v, nil)
}

func toFlow(v any, parent estimator.Estimator) (any, error) {
	// Converting twice is a no-op on the flow tree.
	if f, ok := v.(*flow.Flow); ok {
		return f, nil
	}

	kind, err := Classify(v)
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindPrimitive:
		return v, nil
	case KindEstimator:
		return serializeModel(v.(estimator.Estimator))
	case KindList:
		return serializeList(v, parent)
	case KindDict:
		return serializeDict(v, parent)
	case KindType:
		return serializeType(v.(reflect.Type))
	case KindRandomVariable:
		return serializeRandomVariable(v.(estimator.RandomVariable)), nil
	case KindFunction:
		return serializeFunction(v), nil
	case KindCrossValidator:
		return serializeCrossValidator(v.(estimator.CrossValidator))
	}
	return nil, errors.New(errors.ErrCodeInternal, "unhandled kind %v", kind)
}

// serializeModel builds a flow for an estimator: converted parameters,
// registered sub-components, derived name, and provenance metadata.
func serializeModel(model estimator.Estimator) (*flow.Flow, error) {
	parameters, meta, components, explicit, err := extractModelInfo(model)
	if err != nil {
		return nil, err
	}

	// A component graph reused verbatim in two places is unsupported.
	if err := checkDuplicateComponents(model, components); err != nil {
		return nil, err
	}

	className := model.Identity().String()
	external, err := externalVersion(model, components)
	if err != nil {
		return nil, err
	}
	dependencies, err := defaultDependencies(model)
	if err != nil {
		return nil, err
	}

	f := flow.New()
	f.Name = deriveName(className, components, explicit)
	f.ClassName = className
	f.Description = "Automatically created flow."
	f.Model = model
	f.Parameters = parameters
	f.ParametersMeta = meta
	f.Components = components
	f.ExternalVersion = external
	f.Dependencies = dependencies
	return f, nil
}

// extractModelInfo converts the model's shallow parameters in sorted order.
// Step lists (homogeneous lists of (identifier, sub-estimator) pairs) and
// direct sub-flow parameters are registered as components and replaced by
// component-reference envelopes; everything else is JSON-encoded, with
// empty sized collections stored as the explicit absent marker.
func extractModelInfo(model estimator.Estimator) (
	parameters *flow.OrderedMap[*string],
	meta *flow.OrderedMap[flow.MetaInfo],
	components *flow.OrderedMap[*flow.Flow],
	explicit map[string]bool,
	err error,
) {
	parameters = flow.NewOrderedMap[*string]()
	meta = flow.NewOrderedMap[flow.MetaInfo]()
	components = flow.NewOrderedMap[*flow.Flow]()
	explicit = make(map[string]bool)

	modelParams := model.Params()
	reserved := make(map[string]bool, len(modelParams))
	for name := range modelParams {
		reserved[name] = true
	}

	for _, k := range slices.Sorted(maps.Keys(modelParams)) {
		rval, cerr := toFlow(modelParams[k], model)
		if cerr != nil {
			return nil, nil, nil, nil, cerr
		}

		switch {
		case isStepList(rval):
			encoded, serr := serializeStepList(model, rval, reserved, components, explicit)
			if serr != nil {
				return nil, nil, nil, nil, serr
			}
			parameters.Set(k, &encoded)

		default:
			if sub, ok := rval.(*flow.Flow); ok {
				// A direct sub-component, keyed by the parameter name.
				if verr := errors.ValidateComponentKey(k); verr != nil {
					return nil, nil, nil, nil, verr
				}
				components.Set(k, sub)
				explicit[k] = true
				data, merr := json.Marshal(envelope{
					Kind:  serializedComponentRef,
					Value: componentRef{Key: k},
				})
				if merr != nil {
					return nil, nil, nil, nil, merr
				}
				s := string(data)
				parameters.Set(k, &s)
				break
			}

			if emptySized(rval) {
				parameters.Set(k, nil)
				break
			}
			data, merr := json.Marshal(rval)
			if merr != nil {
				return nil, nil, nil, nil, errors.Wrap(errors.ErrCodeUnsupportedValue, merr,
					"cannot encode parameter %s of %s", k, model.Identity())
			}
			s := string(data)
			parameters.Set(k, &s)
		}

		meta.Set(k, flow.MetaInfo{})
	}

	return parameters, meta, components, explicit, nil
}

// serializeStepList rewrites a pipeline/ensemble step list: a nil
// sub-estimator stays a literal null step, a present one is registered as
// a component and replaced by a reference carrying its identifier as both
// key and step name. The rebuilt list is JSON-encoded.
func serializeStepList(
	model estimator.Estimator,
	rval any,
	reserved map[string]bool,
	components *flow.OrderedMap[*flow.Flow],
	explicit map[string]bool,
) (string, error) {
	pairs, outerTuple := stepPairs(rval)

	rebuilt := make([]any, 0, len(pairs))
	for _, pair := range pairs {
		identifier := pair.identifier

		if reserved[identifier] {
			return "", errors.New(errors.ErrCodeShadowedParameter,
				"step %q shadows an official parameter of %s", identifier, model.Identity())
		}
		if err := errors.ValidateComponentKey(identifier); err != nil {
			return "", err
		}

		if pair.sub == nil {
			// A nil step is a legal "skip this step" marker.
			null := []any{identifier, nil}
			if pair.tuple {
				rebuilt = append(rebuilt, estimator.Tuple(null))
			} else {
				rebuilt = append(rebuilt, null)
			}
			continue
		}

		components.Set(identifier, pair.sub)
		explicit[identifier] = true
		stepName := identifier
		rebuilt = append(rebuilt, envelope{
			Kind:  serializedComponentRef,
			Value: componentRef{Key: identifier, StepName: &stepName},
		})
	}

	var value any = rebuilt
	if outerTuple {
		value = estimator.Tuple(rebuilt)
	}
	data, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

type stepPair struct {
	identifier string
	sub        *flow.Flow
	tuple      bool // whether the pair itself was a tuple
}

// isStepList reports whether rval is a non-empty homogeneous list of
// 2-element (identifier, sub-flow-or-nil) pairs.
func isStepList(rval any) bool {
	pairs, _ := stepPairs(rval)
	return pairs != nil
}

// stepPairs destructures rval into step pairs, returning nil if any
// element does not have the (string, *flow.Flow|nil) pair shape.
func stepPairs(rval any) ([]stepPair, bool) {
	var elems []any
	outerTuple := false
	switch x := rval.(type) {
	case estimator.Tuple:
		elems = x
		outerTuple = true
	case []any:
		elems = x
	default:
		return nil, false
	}
	if len(elems) == 0 {
		return nil, false
	}

	pairs := make([]stepPair, 0, len(elems))
	for _, e := range elems {
		var pair []any
		tuple := false
		switch p := e.(type) {
		case estimator.Tuple:
			pair = p
			tuple = true
		case []any:
			pair = p
		default:
			return nil, false
		}
		if len(pair) != 2 {
			return nil, false
		}
		identifier, ok := pair[0].(string)
		if !ok {
			return nil, false
		}
		switch sub := pair[1].(type) {
		case nil:
			pairs = append(pairs, stepPair{identifier: identifier, tuple: tuple})
		case *flow.Flow:
			pairs = append(pairs, stepPair{identifier: identifier, sub: sub, tuple: tuple})
		default:
			return nil, false
		}
	}
	return pairs, outerTuple
}

// deriveName renders "Class(key=sub,...)" from the class identity and the
// component table. Explicitly-keyed components are rendered as key=name,
// others as the bare sub-flow name. No suffix without components.
func deriveName(className string, components *flow.OrderedMap[*flow.Flow], explicit map[string]bool) string {
	if components.Len() == 0 {
		return className
	}
	parts := make([]string, 0, components.Len())
	for key, sub := range components.All() {
		if explicit[key] {
			parts = append(parts, key+"="+sub.Name)
		} else {
			parts = append(parts, sub.Name)
		}
	}
	return className + "(" + strings.Join(parts, ",") + ")"
}

// checkDuplicateComponents walks the component tree depth-first and fails
// if two distinct nodes share a derived name.
func checkDuplicateComponents(model estimator.Estimator, components *flow.OrderedMap[*flow.Flow]) error {
	var stack []*flow.Flow
	for _, sub := range components.All() {
		stack = append(stack, sub)
	}
	known := make(map[string]bool)
	for len(stack) > 0 {
		visitee := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if known[visitee.Name] {
			return errors.New(errors.ErrCodeDuplicateComponent,
				"found a second occurrence of component %s when serializing %s", visitee.Name, model.Identity())
		}
		known[visitee.Name] = true
		for _, sub := range visitee.Components.All() {
			stack = append(stack, sub)
		}
	}
	return nil
}

// externalVersion unions the model's own package pin with the transitive
// external versions of every component, sorted and de-duplicated.
func externalVersion(model estimator.Estimator, components *flow.OrderedMap[*flow.Flow]) (string, error) {
	pkg := model.Identity().Package()
	version, err := estimator.PackageVersion(pkg)
	if err != nil {
		return "", err
	}

	set := map[string]bool{flow.FormatExternalVersion(pkg, version): true}
	for _, sub := range components.All() {
		for _, entry := range strings.Split(sub.ExternalVersion, ",") {
			if entry != "" {
				set[entry] = true
			}
		}
	}
	return strings.Join(slices.Sorted(maps.Keys(set)), ","), nil
}

// defaultDependencies pins the model's defining toolkit and appends the
// baseline numeric-library constraints.
func defaultDependencies(model estimator.Estimator) (string, error) {
	pkg := model.Identity().Package()
	version, err := estimator.PackageVersion(pkg)
	if err != nil {
		return "", err
	}
	lines := append([]string{flow.FormatExternalVersion(pkg, version)}, baselineDependencies...)
	return strings.Join(lines, "\n"), nil
}

// serializeList converts elements recursively, preserving the list/tuple
// distinction of the input.
func serializeList(v any, parent estimator.Estimator) (any, error) {
	rv := reflect.ValueOf(v)
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		converted, err := toFlow(rv.Index(i).Interface(), parent)
		if err != nil {
			return nil, err
		}
		out[i] = converted
	}
	if _, ok := v.(estimator.Tuple); ok {
		return estimator.Tuple(out), nil
	}
	return out, nil
}

// serializeDict converts keys and values recursively. Keys must be
// strings; iteration is normalized to sorted-key order so the JSON form
// is deterministic.
func serializeDict(v any, parent estimator.Estimator) (any, error) {
	rv := reflect.ValueOf(v)
	if rv.Type().Key().Kind() != reflect.String {
		return nil, errors.New(errors.ErrCodeUnsupportedValue,
			"can only use string keys, got %s", rv.Type().Key())
	}

	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, k.String())
	}
	slices.Sort(keys)

	out := make(map[string]any, len(keys))
	for _, k := range keys {
		converted, err := toFlow(rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())).Interface(), parent)
		if err != nil {
			return nil, err
		}
		out[k] = converted
	}
	return out, nil
}

// serializeType maps a whitelisted numeric type to its symbolic string.
func serializeType(t reflect.Type) (any, error) {
	symbol, ok := typeToSymbol[t]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupportedValue, "cannot serialize type %v", t)
	}
	return envelope{Kind: serializedType, Value: symbol}, nil
}

func serializeRandomVariable(rv estimator.RandomVariable) any {
	a, b := rv.Support()
	return envelope{Kind: serializedRVFrozen, Value: rvFrozen{
		Dist: rv.Dist().String(),
		A:    a,
		B:    b,
		Args: rv.Args(),
		Kwds: rv.Kwds(),
	}}
}

func serializeFunction(v any) any {
	ref, ok := v.(estimator.FuncRef)
	if !ok {
		ref = *v.(*estimator.FuncRef)
	}
	return envelope{Kind: serializedFunction, Value: ref.String()}
}

// serializeCrossValidator records the class identity alongside the
// JSON-encoded values of its declared constructor parameters, skipping
// deprecated aliases.
func serializeCrossValidator(cv estimator.CrossValidator) (any, error) {
	skip := make(map[string]bool)
	if d, ok := cv.(estimator.DeprecatedParams); ok {
		for _, name := range d.DeprecatedParams() {
			skip[name] = true
		}
	}

	parameters := flow.NewOrderedMap[*string]()
	for _, key := range cv.ParamNames() {
		if skip[key] {
			continue
		}
		value, _ := cv.Param(key)
		if emptySized(value) {
			parameters.Set(key, nil)
			continue
		}
		data, err := json.Marshal(value)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeUnsupportedValue, err,
				"cannot encode parameter %s of %s", key, cv.Identity())
		}
		s := string(data)
		parameters.Set(key, &s)
	}

	return envelope{Kind: serializedCVObject, Value: cvObject{
		Name:       cv.Identity().String(),
		Parameters: parameters,
	}}, nil
}

// emptySized reports whether v is a sized collection with length zero.
// Such values are stored as the explicit absent marker instead of "[]".
func emptySized(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return reflect.ValueOf(v).Len() == 0
	}
	return false
}
