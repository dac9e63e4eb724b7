// Package pkg provides the core libraries for working with machine learning
// flows and optimization traces.
//
// # Overview
//
// The pkg directory is organized around the two document types the registry
// serves and the machinery to move between them and live model objects:
//
//  1. [flow] - Flow documents (nested model descriptions, JSON codec)
//  2. [estimator] - Model abstraction and the identity registry
//  3. [convert] - Model <-> flow conversion in both directions
//  4. [trace] - Optimization traces (tabular and XML codecs)
//  5. [registry] - Flow and trace storage (in-memory and MongoDB)
//  6. [cache] - Pull caching (filesystem and Redis)
//  7. [render] - Flow structure diagrams (DOT and SVG)
//
// # Architecture
//
// The typical round trip through the library:
//
//	Model object
//	         ↓
//	    [convert] package (ToFlow)
//	         ↓
//	    [flow] package (WriteJSON / ReadJSON)
//	         ↓
//	    [registry] package (store and retrieve)
//	         ↓
//	    [convert] package (FromFlow)
//	         ↓
//	    Model object
//
// Traces follow the same shape through [trace] with its ARFF and XML codecs.
//
// # Quick Start
//
//	f, err := convert.ToFlow(model)
//	if err != nil {
//	    return err
//	}
//	if err := flow.WriteJSON(f, os.Stdout); err != nil {
//	    return err
//	}
package pkg
