// Package flow defines the portable description of a configured component.
//
// A [Flow] mirrors a component's constructor call: its class identity, a
// parameter table holding JSON-encoded values, and a components table
// holding nested flows for sub-components. Flows additionally carry
// provenance metadata: the sorted union of package versions covering the
// whole tree (ExternalVersion) and the newline-joined dependency
// constraints checked before a flow is turned back into a live object.
//
// Parameter and component tables are insertion-ordered ([OrderedMap]) so
// repeated serialization of the same input is byte-stable.
//
// # Dependency constraints
//
// Constraints use the grammar `name[(==|>=|>)version]` with versions of one
// to three numeric segments. [Check] verifies a newline-joined constraint
// block against the package-version registry:
//
//	err := flow.Check("sklearn==0.19.1\nnumpy>=1.6.1\nscipy>=0.9")
package flow
