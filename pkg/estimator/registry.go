package estimator

import (
	"sync"

	"github.com/maxcopeland/openml-go/pkg/errors"
)

// Constructor builds a component from its keyword parameters. The parameter
// map holds already-reconstructed values; implementations are responsible
// for any numeric coercion their fields need.
type Constructor func(params map[string]any) (any, error)

// DistConstructor builds a frozen random variable from its decomposed form.
type DistConstructor func(a, b float64, args []any, kwds map[string]any) (any, error)

var registry = struct {
	mu            sync.RWMutex
	constructors  map[string]Constructor
	functions     map[string]any
	distributions map[string]DistConstructor
	packages      map[string]string
}{
	constructors:  make(map[string]Constructor),
	functions:     make(map[string]any),
	distributions: make(map[string]DistConstructor),
	packages:      make(map[string]string),
}

// Register binds a constructor to a fully-qualified class identity
// ("module.Class"). Later registrations overwrite earlier ones.
func Register(name string, c Constructor) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.constructors[name] = c
}

// Lookup resolves a constructor by fully-qualified class identity.
func Lookup(name string) (Constructor, error) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	c, ok := registry.constructors[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownIdentity, "no constructor registered for %q", name)
	}
	return c, nil
}

// RegisterFunction binds a callable to a fully-qualified name so stored
// function references can be resolved back to it.
func RegisterFunction(name string, fn any) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.functions[name] = fn
}

// LookupFunction resolves a callable by fully-qualified name.
func LookupFunction(name string) (any, error) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	fn, ok := registry.functions[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownIdentity, "no function registered for %q", name)
	}
	return fn, nil
}

// RegisterDistribution binds a distribution constructor to the
// fully-qualified identity of the distribution class.
func RegisterDistribution(name string, d DistConstructor) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.distributions[name] = d
}

// LookupDistribution resolves a distribution constructor by identity.
func LookupDistribution(name string) (DistConstructor, error) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	d, ok := registry.distributions[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownIdentity, "no distribution registered for %q", name)
	}
	return d, nil
}

// RegisterPackage records the installed version of a package. The converter
// consults this table when computing external versions and when checking
// dependency constraints before reconstruction.
func RegisterPackage(name, version string) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.packages[name] = version
}

// PackageVersion returns the registered version of a package.
func PackageVersion(name string) (string, error) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	v, ok := registry.packages[name]
	if !ok {
		return "", errors.New(errors.ErrCodeUnknownPackage, "package %q is not registered", name)
	}
	return v, nil
}
