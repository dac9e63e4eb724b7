// Package trace models hyperparameter optimization traces: the per-fold,
// per-repeat sequence of parameter settings an optimization procedure
// evaluated during a run, with exactly one setting per (repeat, fold)
// group marked as selected.
//
// Traces have two interchange forms. The tabular form is an ARFF relation
// with one row per evaluated setting, produced by [WriteARFF] and read by
// [ReadARFF]. The document form is the platform's XML description, handled
// by [ReadXML] and [WriteXML]. Both decoders validate structure eagerly and
// fail with a malformed-trace error rather than loading partial data.
package trace
