package estimator

import (
	"fmt"
	"strings"
)

// Identity is the fully-qualified class identity of a component: the module
// path it is defined in and its class name. Its string form
// ("module.sub.Class") is what flows store and registries key on.
type Identity struct {
	Module string // defining module path, e.g. "sklearn.tree"
	Name   string // class name, e.g. "DecisionTreeClassifier"
}

// String renders the identity as "module.Class".
func (id Identity) String() string {
	if id.Module == "" {
		return id.Name
	}
	return id.Module + "." + id.Name
}

// Package returns the top-level package of the defining module
// ("sklearn.tree" -> "sklearn"). Used for external-version lookups.
func (id Identity) Package() string {
	if i := strings.IndexByte(id.Module, '.'); i >= 0 {
		return id.Module[:i]
	}
	return id.Module
}

// ParseIdentity splits a fully-qualified "module.Class" string into an
// Identity. The last dot-separated segment becomes the class name.
func ParseIdentity(s string) (Identity, error) {
	i := strings.LastIndexByte(s, '.')
	if i <= 0 || i == len(s)-1 {
		return Identity{}, fmt.Errorf("invalid identity: %q", s)
	}
	return Identity{Module: s[:i], Name: s[i+1:]}, nil
}

// Estimator is a configurable model component. Params returns the shallow
// (non-recursive) constructor parameters as a name -> value mapping; values
// may themselves be estimators, step lists, distributions, and so on.
type Estimator interface {
	Identity() Identity
	Params() map[string]any
}

// CrossValidator is a split strategy exposing its constructor-derived
// parameter names. ParamNames must be sorted and exclude the receiver and
// variadic keyword catch-alls; Param fetches one value by name.
type CrossValidator interface {
	Identity() Identity
	ParamNames() []string
	Param(name string) (any, bool)
}

// DeprecatedParams is optionally implemented by cross-validators whose
// listed parameters are deprecated aliases. Such parameters are skipped
// during serialization so they never round-trip.
type DeprecatedParams interface {
	DeprecatedParams() []string
}

// RandomVariable is a frozen random variable: a distribution bound to its
// shape arguments, with a fixed support interval.
type RandomVariable interface {
	Dist() Identity
	Support() (a, b float64)
	Args() []any
	Kwds() map[string]any
}

// FuncRef is an explicit reference to a named function. Go funcs carry no
// resolvable name, so callable parameters are passed and stored as refs and
// resolved through the function registry at reconstruction time.
type FuncRef struct {
	Module string
	Name   string
}

// String renders the reference as "module.name".
func (f FuncRef) String() string {
	return Identity{Module: f.Module, Name: f.Name}.String()
}

// Tuple marks a fixed-shape sequence, mirroring the tuple/list distinction
// of the source object model. The distinction survives in-memory conversion
// but collapses to a plain array once a value passes through JSON.
type Tuple []any
