// Package estimator defines the object model the flow converter operates on.
//
// The converter does not inspect arbitrary Go values by reflection alone.
// Instead, producers of convertible components implement small, closed
// interfaces: [Estimator] for configurable models, [CrossValidator] for
// split strategies, and [RandomVariable] for frozen distributions. Callable
// parameters are passed as [FuncRef] values rather than bare funcs, since a
// Go func carries no resolvable name.
//
// # Registries
//
// Reconstruction resolves stored identities through explicit registries
// instead of dynamic import: constructors ([Register]/[Lookup]), functions
// ([RegisterFunction]/[LookupFunction]), distribution constructors
// ([RegisterDistribution]/[LookupDistribution]), and installed package
// versions ([RegisterPackage]/[PackageVersion]). All registries are safe
// for concurrent use. Lookup failures are typed errors, never panics.
//
// A toolkit registers itself once at startup:
//
//	estimator.RegisterPackage("sklearn", "0.19.1")
//	estimator.Register("sklearn.tree.DecisionTreeClassifier", newTree)
package estimator
