// Package sim provides the model-state runtime for compiled hardware models.
//
// # Reading Guide
//
// Start with these three files to understand the runtime:
//   - model.go: Model, the handle a testbench driver holds for one simulation run
//   - container.go: StateContainer, the aggregate of all mutable model state
//   - instance.go: Instance and Signal, the design hierarchy and its storage
//
// # Ownership
//
// A Model owns exactly one StateContainer; the container owns the instance
// tree root and the deferred-cleanup queue. Closing the Model releases
// queued objects most-recently-registered first, then the tree. The
// container's reference back to its Model is observing only.
//
// # Collaborators
//
// The runtime does not evaluate hardware. An evaluation engine (see
// sim/stimulus/ for a reference one) writes signal values, calls
// MarkActivity on change and MarkInitialized after one-time setup. A
// Tracer (tracer.go, sim/trace/) assigns each model a base code from a
// shared identifier space and samples models whose activity flag is set.
//
// Usage-contract violations (a second base code, a second initialization,
// any operation after Close) panic.
package sim
