// Package convert translates between live estimator objects and portable
// flow descriptions.
//
// [ToFlow] recursively walks an object graph, classifying every value by
// capability (primitive, estimator, list, dict, type, random variable,
// function reference, cross-validator) and producing a [flow.Flow] tree for
// estimators. [FromFlow] is the inverse: it re-resolves stored class
// identities through the estimator registries, verifies declared dependency
// constraints, and rebuilds an equivalent object graph.
//
// Values that cannot be represented as plain JSON are wrapped in a tagged
// envelope keyed by the platform's serialized-object discriminator; the
// envelope is the single extensibility point for special object kinds.
//
// # Error behavior
//
// Classification failures, structural collisions (duplicate component
// names, step identifiers shadowing constructor parameters), and unmet
// dependency constraints are hard failures. Identities that cannot be
// resolved at reconstruction time degrade instead: a warning is logged and
// a nil placeholder is substituted so metadata-only callers can proceed
// with a partially-reconstructed graph.
package convert
