// Package compose drives one supergraph composition run.
//
// The Orchestrator validates every subgraph natively, hands the subgraphs
// to a HybridComposition host for composition, expands connectors in the
// composed supergraph, asks the host for satisfiability and reports every
// resulting issue back through the host. It never decides validity itself.
//
// Stages run in a fixed order and never loop:
//
//	validate → compose → expand → satisfiability
//
// Any issue from validation halts the run before composition. Nothing is
// returned as a Go error; every failure ends up as an issue in the host's
// sink and as a Terminal in the Report.
package compose
