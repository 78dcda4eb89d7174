package compose

import (
	"context"

	"fedcompose/internal/connect"
	"fedcompose/internal/diag"
	"fedcompose/internal/engine"
	"fedcompose/internal/observ"
)

// HybridComposition is the set of hooks a host provides to the orchestrator.
// A host serves exactly one run.
type HybridComposition interface {
	// ComposeServicesWithoutSatisfiability composes the subgraphs with
	// satisfiability disabled. On failure the host records its own issues
	// and returns ok == false.
	ComposeServicesWithoutSatisfiability(ctx context.Context, subgraphs []engine.SubgraphDefinition) (supergraphSDL string, ok bool)

	// ValidateSatisfiability checks the current supergraph text, which is
	// the composed one or the last value passed to UpdateSupergraphSDL.
	ValidateSatisfiability(ctx context.Context) SatisfiabilityOutcome

	// UpdateSupergraphSDL replaces the stored supergraph text.
	UpdateSupergraphSDL(sdl string)

	// AddIssues appends issues to the run's sink in order.
	AddIssues(issues []diag.Issue)
}

// SatisfiabilityOutcome is SatisfiabilityChecked or SatisfiabilityFailed.
type SatisfiabilityOutcome interface {
	isSatisfiabilityOutcome()
}

// SatisfiabilityChecked means the check ran; Result may still hold errors.
type SatisfiabilityChecked struct {
	Result engine.SatisfiabilityResult
}

// SatisfiabilityFailed means the check could not run at all.
type SatisfiabilityFailed struct {
	Issue diag.Issue
}

func (SatisfiabilityChecked) isSatisfiabilityOutcome() {}
func (SatisfiabilityFailed) isSatisfiabilityOutcome()  {}

// CompositionResult is what a host hands back once a run is over. The
// supergraph is empty when composition never produced one.
type CompositionResult struct {
	SupergraphSDL string       `json:"supergraphSdl,omitempty"`
	Issues        []diag.Issue `json:"issues"`
}

// HasErrors reports whether any issue is an error.
func (r CompositionResult) HasErrors() bool {
	for _, it := range r.Issues {
		if it.Severity == diag.SevError {
			return true
		}
	}
	return false
}

// Validator checks a single subgraph.
type Validator interface {
	Validate(name, sdl string) []diag.ValidationError
}

// Expander rewrites extension constructs of a composed supergraph.
type Expander interface {
	Expand(supergraphSDL string) (connect.ExpansionOutcome, error)
}

// IssueCache remembers validation issues per subgraph text.
type IssueCache interface {
	Lookup(subgraph, sdl string) ([]diag.Issue, bool)
	Store(subgraph, sdl string, issues []diag.Issue)
}

// Terminal names the point where a run stopped.
type Terminal uint8

const (
	// TerminalSubgraphErrors: validation found issues; nothing was composed.
	TerminalSubgraphErrors Terminal = iota + 1
	// TerminalCompositionFailed: the host could not compose.
	TerminalCompositionFailed
	// TerminalExpansionFailed: connector expansion failed.
	TerminalExpansionFailed
	// TerminalCompleted: satisfiability ran and its issues were reported.
	TerminalCompleted
)

func (t Terminal) String() string {
	switch t {
	case TerminalSubgraphErrors:
		return "subgraph-errors"
	case TerminalCompositionFailed:
		return "composition-failed"
	case TerminalExpansionFailed:
		return "expansion-failed"
	case TerminalCompleted:
		return "completed"
	}
	return "unknown"
}

// Report describes how a run ended.
type Report struct {
	Terminal Terminal
	Timing   *observ.Report
}
