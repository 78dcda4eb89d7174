// Package trace records what a composition run is doing.
//
// Enable it from the command line:
//
//	fedcompose compose --trace=- --trace-level=detail --config supergraph.toml
//
// Tracers:
//
//   - Nop: disabled tracing, zero overhead
//   - StreamTracer: writes every event immediately (file or stderr)
//   - RingTracer: keeps the last N events; the CLI dumps them on exit
//   - ModeBoth pairs a stream with a ring
//
// Scopes, coarse to fine: ScopeDriver (one run), ScopeStage (validate,
// compose, expand, satisfiability) and ScopeSubgraph (per-subgraph
// validation). LevelPhase emits the first two, LevelDetail and LevelDebug
// everything.
//
// The tracer travels in the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopeStage, "compose")
//	defer span.End("")
package trace
