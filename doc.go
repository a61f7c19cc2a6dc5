// Package graphengine is a signal-graph compile-and-evaluate engine for
// a visual puzzle game: wire typed processing nodes together on a grid,
// then either bake the graph into a self-contained per-tick closure or
// run it as a batch, delay-free cycle evaluator for seamless-loop
// output generation.
//
// Under the hood the engine is organized as a pipeline of small
// packages, one per compile/evaluate stage:
//
//	signal/     — scalar signal model and reserved node-id vocabulary
//	gconfig/    — TOTAL_TICKS / SIGNAL_RANGE constants module
//	sgraph/     — editor-facing Node/Wire/Graph data model
//	registry/   — node-type catalog and built-in node set
//	topo/       — topological sort, depth, and cycle diagnostics
//	liveness/   — forward-reachability-from-inputs
//	delay/      — per-port source classification and buffer sizing
//	wiredelay/  — distributes a fixed tick budget across wire delays
//	baker/      — bakes a graph into a closure plus reconstructable metadata
//	scheduler/  — mutable-graph, per-tick ring-buffered evaluator
//	cycleeval/  — batch cycle evaluator with parameter feedback
//	graphbuilder/ — fixture-graph constructors used by this module's tests
//
// See SPEC_FULL.md for the full specification and DESIGN.md for the
// grounding ledger behind each package's design decisions.
package graphengine
